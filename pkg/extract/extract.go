package extract

import (
	"regexp"
	"strconv"

	"github.com/rs/zerolog/log"
)

// Recognized metric names
const (
	RequestsPerSec = "requests_per_sec"
	TransferRateKB = "transfer_rate_kb"
	LatencyP50     = "latency_p50"
	LatencyP75     = "latency_p75"
	LatencyP90     = "latency_p90"
	LatencyP99     = "latency_p99"
	LatencyP999    = "latency_p999"
	Errors         = "errors"
)

// Metrics maps a recognized metric name to its extracted value
type Metrics map[string]float64

type kind int

const (
	kindFloat kind = iota
	kindInt
)

type rule struct {
	metric string
	kind   kind
	re     *regexp.Regexp
}

// labelPattern builds the regexp for a label followed by a numeric token and
// an optional ms unit. The leading guard keeps a shorter percentile label from
// matching inside a longer one ("99%" inside "99.9%").
func labelPattern(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?:^|[^\d.])` + regexp.QuoteMeta(label) + `:?\s+([\d.]+)\s*(?:ms)?`)
}

// Extraction rules, evaluated in order against the full document. The longer
// percentile labels must come before their shorter prefixes.
var rules = []rule{
	{RequestsPerSec, kindFloat, labelPattern("Requests/sec")},
	{TransferRateKB, kindFloat, labelPattern("Bytes/sec")},
	{LatencyP999, kindFloat, labelPattern("99.9%")},
	{LatencyP99, kindFloat, labelPattern("99%")},
	{LatencyP90, kindFloat, labelPattern("90%")},
	{LatencyP75, kindFloat, labelPattern("75%")},
	{LatencyP50, kindFloat, labelPattern("50%")},
	{Errors, kindInt, labelPattern("Errors")},
}

/*
Extracts recognized metrics from a benchmark result document

Example document:

	Running benchmark against http://localhost:8080/static/small.html
	Requests/sec:  10432.57
	Bytes/sec:     8123.44
	Latency distribution:
	  50%:  1.21 ms
	  75%:  1.87 ms
	  90%:  2.93 ms
	  99%:  7.10 ms
	  99.9%: 15.42 ms
	Errors: 0

A label absent from the document leaves its metric out of the result. A label
whose numeric token does not parse is skipped the same way, the remaining
rules still run. A document with no recognized labels yields an empty map.
*/
func Extract(text string) Metrics {
	metrics := Metrics{}
	for _, r := range rules {
		m := r.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		switch r.kind {
		case kindInt:
			v, err := strconv.Atoi(m[1])
			if err != nil {
				log.Debug().Msgf("Skipping %s: bad integer token %q", r.metric, m[1])
				continue
			}
			metrics[r.metric] = float64(v)
		default:
			v, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				log.Debug().Msgf("Skipping %s: bad numeric token %q", r.metric, m[1])
				continue
			}
			metrics[r.metric] = v
		}
	}
	return metrics
}
