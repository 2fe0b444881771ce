package report

import (
	"time"

	"benchviz.io/pkg/compare"
)

// Output artifact names, written into the results directory
const (
	ImageFile    = "performance_matrix.png"
	DocumentFile = "report.html"
)

// One table row per (test, server) pair present in the matrix. Nil metric
// pointers render as "N/A", never as a fabricated zero.
type Row struct {
	Test           string
	Server         string
	RequestsPerSec *float64
	LatencyP50     *float64
	LatencyP90     *float64
	LatencyP99     *float64
	Errors         *int
	// True when this server won the row's test
	Winner bool
}

// One numeric series per server per metric, aligned with Categories
type Series struct {
	Server string
	Metric string
	Values []*float64
}

// Chart-data handoff to the presentation layer
type SeriesList struct {
	Categories []string
	Series     []Series
}

// Per-server figures for the summary section
type ServerSummary struct {
	Server      string
	AvgRPS      *float64
	AvgP50      *float64
	AvgP99      *float64
	TotalErrors int
}

// Overall pairwise headline, present only when exactly two servers were
// compared
type Headline struct {
	Candidate      string
	Baseline       string
	AvgRatio       compare.Ratio
	AvgPercentDiff float64
}

// Document is everything the document backend needs to render the report
type Document struct {
	GeneratedAt time.Time
	RunID       string
	Rows        []Row
	Servers     []ServerSummary
	Headline    *Headline
	ImageFile   string
}

// Result reports what a render produced
type Result struct {
	ImagePath    string `json:"image_path"`
	DocumentPath string `json:"document_path"`
	Rows         int    `json:"rows"`
	Records      int    `json:"records"`
}

// ChartRenderer draws the chart-data handoff into an image
type ChartRenderer interface {
	RenderChart(SeriesList) ([]byte, error)
}

// DocumentRenderer renders the report document
type DocumentRenderer interface {
	RenderDocument(Document) ([]byte, error)
}
