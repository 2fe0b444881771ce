package compare

import (
	"github.com/rs/zerolog/log"

	"benchviz.io/pkg/extract"
	"benchviz.io/pkg/results"
)

// BuildMatrix groups a ResultSet by test, then by server. When two records
// share a (test, server) pair the later one in scan order replaces the
// earlier, so the rule does not depend on map iteration order.
func BuildMatrix(rs results.ResultSet) Matrix {
	matrix := Matrix{}
	for _, record := range rs {
		byServer, ok := matrix[record.Test]
		if !ok {
			byServer = map[string]results.Record{}
			matrix[record.Test] = byServer
		}
		if _, dup := byServer[record.Server]; dup {
			log.Debug().Msgf("Duplicate record for test %q server %q, keeping the later one", record.Test, record.Server)
		}
		byServer[record.Server] = record
	}
	return matrix
}

// BuildSummary computes per-server averages and, when the ResultSet contains
// exactly two distinct servers, the pairwise candidate/baseline comparison.
// Empty candidate/baseline default to the first and second distinct server in
// scan order.
func BuildSummary(rs results.ResultSet, candidate, baseline string) Summary {
	servers := rs.Servers()
	summary := Summary{
		Servers:     servers,
		ServerStats: serverStats(rs),
	}
	if len(servers) != 2 {
		return summary
	}
	if !validPair(servers, candidate, baseline) {
		if candidate != "" || baseline != "" {
			log.Warn().Msgf("Servers %q/%q not found in results, comparing %q against %q", candidate, baseline, servers[0], servers[1])
		}
		candidate, baseline = servers[0], servers[1]
	}
	summary.Pairwise = buildPairwise(BuildMatrix(rs), candidate, baseline)
	return summary
}

func serverStats(rs results.ResultSet) map[string]ServerStats {
	sums := map[string]map[string]float64{}
	counts := map[string]map[string]int{}
	records := map[string]int{}
	for _, record := range rs {
		if sums[record.Server] == nil {
			sums[record.Server] = map[string]float64{}
			counts[record.Server] = map[string]int{}
		}
		records[record.Server]++
		for metric, value := range record.Metrics {
			sums[record.Server][metric] += value
			counts[record.Server][metric]++
		}
	}
	stats := map[string]ServerStats{}
	for server, metricSums := range sums {
		averages := map[string]float64{}
		for metric, sum := range metricSums {
			averages[metric] = sum / float64(counts[server][metric])
		}
		stats[server] = ServerStats{
			Averages:    averages,
			TotalErrors: int(metricSums[extract.Errors]),
			Records:     records[server],
		}
	}
	return stats
}

func buildPairwise(matrix Matrix, candidate, baseline string) *Pairwise {
	pairwise := &Pairwise{Candidate: candidate, Baseline: baseline}
	var ratioSum, diffSum float64
	var defined int
	for _, test := range matrix.Tests() {
		byServer := matrix[test]
		candRecord, candOK := byServer[candidate]
		baseRecord, baseOK := byServer[baseline]
		if !candOK || !baseOK {
			// Tests run against only one server are left out entirely
			continue
		}
		comparison := compareTest(test, candRecord, baseRecord)
		if comparison.Ratio.Defined {
			ratioSum += comparison.Ratio.Value
			diffSum += comparison.PercentDiff
			defined++
		}
		pairwise.Tests = append(pairwise.Tests, comparison)
	}
	if defined > 0 {
		pairwise.AvgRatio = Ratio{Value: ratioSum / float64(defined), Defined: true}
		pairwise.AvgPercentDiff = diffSum / float64(defined)
	}
	return pairwise
}

func compareTest(test string, candRecord, baseRecord results.Record) TestComparison {
	comparison := TestComparison{Test: test}
	candRPS, candOK := candRecord.Metrics[extract.RequestsPerSec]
	baseRPS, baseOK := baseRecord.Metrics[extract.RequestsPerSec]
	if !candOK || !baseOK {
		return comparison
	}
	if baseRPS != 0 {
		ratio := candRPS / baseRPS
		comparison.Ratio = Ratio{Value: ratio, Defined: true}
		comparison.PercentDiff = (ratio - 1) * 100
	}
	// Ties have no winner
	switch {
	case candRPS > baseRPS:
		comparison.Winner = candRecord.Server
	case baseRPS > candRPS:
		comparison.Winner = baseRecord.Server
	}
	return comparison
}

func validPair(servers []string, candidate, baseline string) bool {
	if candidate == "" || baseline == "" || candidate == baseline {
		return false
	}
	found := map[string]bool{}
	for _, s := range servers {
		found[s] = true
	}
	return found[candidate] && found[baseline]
}
