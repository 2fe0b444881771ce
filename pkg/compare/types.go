package compare

import (
	"sort"

	"benchviz.io/pkg/results"
)

// Matrix is the test -> server -> record grouping of a ResultSet. Duplicate
// (test, server) pairs keep the later record in scan order.
type Matrix map[string]map[string]results.Record

// Tests returns the test names in sorted order.
func (m Matrix) Tests() []string {
	tests := make([]string, 0, len(m))
	for test := range m {
		tests = append(tests, test)
	}
	sort.Strings(tests)
	return tests
}

// Servers returns every server name present in the matrix, sorted.
func (m Matrix) Servers() []string {
	seen := map[string]bool{}
	var servers []string
	for _, byServer := range m {
		for server := range byServer {
			if !seen[server] {
				seen[server] = true
				servers = append(servers, server)
			}
		}
	}
	sort.Strings(servers)
	return servers
}

// Ratio is a division result that may be undefined (zero denominator). An
// undefined ratio renders as "n/a", it never carries Inf or NaN.
type Ratio struct {
	Value   float64 `json:"value"`
	Defined bool    `json:"defined"`
}

// Per-server aggregate figures across all tests
type ServerStats struct {
	// Mean of each metric over the records where it is present
	Averages map[string]float64 `json:"averages"`
	// Sum of the errors metric over all records
	TotalErrors int `json:"total_errors"`
	Records     int `json:"records"`
}

// Candidate vs baseline figures for one test present for both servers
type TestComparison struct {
	Test        string  `json:"test"`
	Ratio       Ratio   `json:"ratio"`
	PercentDiff float64 `json:"percent_diff"`
	// Server with the strictly higher requests/sec, empty on a tie or when
	// either side lacks the metric
	Winner string `json:"winner,omitempty"`
}

// Pairwise comparison between exactly two servers
type Pairwise struct {
	Candidate      string           `json:"candidate"`
	Baseline       string           `json:"baseline"`
	Tests          []TestComparison `json:"tests"`
	AvgRatio       Ratio            `json:"avg_ratio"`
	AvgPercentDiff float64          `json:"avg_percent_diff"`
}

// Summary holds the derived scalars for a ResultSet. Pairwise is nil unless
// the set contains exactly two distinct servers.
type Summary struct {
	Servers     []string               `json:"servers"`
	ServerStats map[string]ServerStats `json:"server_stats"`
	Pairwise    *Pairwise              `json:"pairwise,omitempty"`
}
