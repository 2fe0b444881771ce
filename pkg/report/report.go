package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"benchviz.io/pkg/compare"
	"benchviz.io/pkg/extract"
)

// Metrics handed to the chart backend, in charting priority order
var chartMetrics = []string{
	extract.RequestsPerSec,
	extract.TransferRateKB,
	extract.LatencyP50,
	extract.LatencyP75,
	extract.LatencyP90,
	extract.LatencyP99,
	extract.LatencyP999,
	extract.Errors,
}

// Renderer builds the report from a matrix and summary and writes the two
// output artifacts through its presentation backends.
type Renderer struct {
	Chart    ChartRenderer
	Document DocumentRenderer
	RunID    string

	now func() time.Time
}

func NewRenderer(runID string) *Renderer {
	return &Renderer{
		Chart:    &BarChart{},
		Document: &HTMLDocument{},
		RunID:    runID,
		now:      time.Now,
	}
}

// Render writes performance_matrix.png and report.html into dir. Both
// artifacts are rendered to memory first, so a failing backend leaves
// nothing on disk. Output is deterministic for identical inputs apart from
// the generation timestamp.
func (r *Renderer) Render(matrix compare.Matrix, summary compare.Summary, dir string) (Result, error) {
	now := r.now
	if now == nil {
		now = time.Now
	}
	rows := buildRows(matrix, summary)
	doc := Document{
		GeneratedAt: now(),
		RunID:       r.RunID,
		Rows:        rows,
		Servers:     serverSummaries(summary),
		Headline:    headline(summary),
		ImageFile:   ImageFile,
	}

	image, err := r.Chart.RenderChart(BuildSeries(matrix))
	if err != nil {
		return Result{}, fmt.Errorf("rendering chart: %w", err)
	}
	document, err := r.Document.RenderDocument(doc)
	if err != nil {
		return Result{}, fmt.Errorf("rendering document: %w", err)
	}

	imagePath := filepath.Join(dir, ImageFile)
	documentPath := filepath.Join(dir, DocumentFile)
	if err := os.WriteFile(imagePath, image, 0o644); err != nil {
		return Result{}, fmt.Errorf("writing %s: %w", imagePath, err)
	}
	if err := os.WriteFile(documentPath, document, 0o644); err != nil {
		// Keep the no-partial-output guarantee
		os.Remove(imagePath)
		return Result{}, fmt.Errorf("writing %s: %w", documentPath, err)
	}

	records := 0
	for _, byServer := range matrix {
		records += len(byServer)
	}
	return Result{
		ImagePath:    imagePath,
		DocumentPath: documentPath,
		Rows:         len(rows),
		Records:      records,
	}, nil
}

// buildRows flattens the matrix into table rows, tests sorted, servers
// sorted within each test.
func buildRows(matrix compare.Matrix, summary compare.Summary) []Row {
	winners := map[string]string{}
	if summary.Pairwise != nil {
		for _, tc := range summary.Pairwise.Tests {
			winners[tc.Test] = tc.Winner
		}
	}
	var rows []Row
	for _, test := range matrix.Tests() {
		for _, server := range matrix.Servers() {
			record, ok := matrix[test][server]
			if !ok {
				continue
			}
			rows = append(rows, Row{
				Test:           test,
				Server:         server,
				RequestsPerSec: metricPtr(record.Metrics, extract.RequestsPerSec),
				LatencyP50:     metricPtr(record.Metrics, extract.LatencyP50),
				LatencyP90:     metricPtr(record.Metrics, extract.LatencyP90),
				LatencyP99:     metricPtr(record.Metrics, extract.LatencyP99),
				Errors:         errorsPtr(record.Metrics),
				Winner:         winners[test] != "" && winners[test] == server,
			})
		}
	}
	return rows
}

// BuildSeries turns the matrix into the chart-data handoff: categories are
// the sorted tests, one series per server per metric. Series with no values
// at all are dropped.
func BuildSeries(matrix compare.Matrix) SeriesList {
	tests := matrix.Tests()
	sl := SeriesList{Categories: tests}
	for _, metric := range chartMetrics {
		for _, server := range matrix.Servers() {
			values := make([]*float64, len(tests))
			any := false
			for i, test := range tests {
				if record, ok := matrix[test][server]; ok {
					if v := metricPtr(record.Metrics, metric); v != nil {
						values[i] = v
						any = true
					}
				}
			}
			if any {
				sl.Series = append(sl.Series, Series{Server: server, Metric: metric, Values: values})
			}
		}
	}
	return sl
}

func serverSummaries(summary compare.Summary) []ServerSummary {
	summaries := make([]ServerSummary, 0, len(summary.Servers))
	for _, server := range summary.Servers {
		stats := summary.ServerStats[server]
		summaries = append(summaries, ServerSummary{
			Server:      server,
			AvgRPS:      metricPtr(stats.Averages, extract.RequestsPerSec),
			AvgP50:      metricPtr(stats.Averages, extract.LatencyP50),
			AvgP99:      metricPtr(stats.Averages, extract.LatencyP99),
			TotalErrors: stats.TotalErrors,
		})
	}
	return summaries
}

func headline(summary compare.Summary) *Headline {
	if summary.Pairwise == nil {
		return nil
	}
	return &Headline{
		Candidate:      summary.Pairwise.Candidate,
		Baseline:       summary.Pairwise.Baseline,
		AvgRatio:       summary.Pairwise.AvgRatio,
		AvgPercentDiff: summary.Pairwise.AvgPercentDiff,
	}
}

func metricPtr(metrics map[string]float64, name string) *float64 {
	if v, ok := metrics[name]; ok {
		return &v
	}
	return nil
}

func errorsPtr(metrics map[string]float64) *int {
	if v, ok := metrics[extract.Errors]; ok {
		n := int(v)
		return &n
	}
	return nil
}
