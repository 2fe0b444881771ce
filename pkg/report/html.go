package report

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"

	"benchviz.io/pkg/compare"
)

// HTMLDocument renders the report as a self-contained HTML page referencing
// the chart image written next to it.
type HTMLDocument struct{}

func (h *HTMLDocument) RenderDocument(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func fmtFloatPtr(decimals int) func(*float64) string {
	return func(v *float64) string {
		if v == nil {
			return "N/A"
		}
		return strconv.FormatFloat(*v, 'f', decimals, 64)
	}
}

func fmtIntPtr(v *int) string {
	if v == nil {
		return "N/A"
	}
	return strconv.Itoa(*v)
}

func fmtRatio(r compare.Ratio) string {
	if !r.Defined {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", r.Value)
}

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"f0":    fmtFloatPtr(0),
	"f2":    fmtFloatPtr(2),
	"count": fmtIntPtr,
	"ratio": fmtRatio,
}).Parse(reportHTML))

const reportHTML = `<!DOCTYPE html>
<html>
<head>
<title>Benchmark Report</title>
<style>
body { font-family: Arial, sans-serif; margin: 40px; }
h1 { color: #333; }
table { border-collapse: collapse; width: 100%; margin: 20px 0; }
th, td { border: 1px solid #ddd; padding: 12px; text-align: left; }
th { background-color: #4CAF50; color: white; }
tr:nth-child(even) { background-color: #f2f2f2; }
.winner { background-color: #d4edda; font-weight: bold; }
.summary { background-color: #f8f9fa; padding: 20px; border-radius: 5px; margin: 20px 0; }
img { max-width: 100%; height: auto; }
</style>
</head>
<body>
<h1>Performance Benchmark Report</h1>
<p>Generated: {{.GeneratedAt.Format "2006-01-02 15:04:05"}} &middot; Run {{.RunID}}</p>

<div class="summary">
<h2>Executive Summary</h2>
<ul>
{{- range .Servers}}
<li>{{.Server}}: avg {{f0 .AvgRPS}} req/s, avg p50 {{f2 .AvgP50}} ms, avg p99 {{f2 .AvgP99}} ms, {{.TotalErrors}} total errors</li>
{{- end}}
{{- with .Headline}}
<li>Performance ratio ({{.Candidate}}/{{.Baseline}}): {{ratio .AvgRatio}}{{if .AvgRatio.Defined}} ({{printf "%+.1f" .AvgPercentDiff}}%){{end}}</li>
{{- end}}
</ul>
</div>

<h2>Detailed Results</h2>
<table>
<tr>
<th>Test</th>
<th>Server</th>
<th>Requests/sec</th>
<th>p50 Latency (ms)</th>
<th>p90 Latency (ms)</th>
<th>p99 Latency (ms)</th>
<th>Errors</th>
</tr>
{{- range .Rows}}
<tr{{if .Winner}} class="winner"{{end}}>
<td>{{.Test}}</td>
<td>{{.Server}}</td>
<td>{{f0 .RequestsPerSec}}</td>
<td>{{f2 .LatencyP50}}</td>
<td>{{f2 .LatencyP90}}</td>
<td>{{f2 .LatencyP99}}</td>
<td>{{count .Errors}}</td>
</tr>
{{- end}}
</table>

<h2>Performance Visualization</h2>
<img src="{{.ImageFile}}" alt="Performance Matrix">
</body>
</html>
`
