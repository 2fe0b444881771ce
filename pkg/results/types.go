package results

import (
	"errors"

	"benchviz.io/pkg/extract"
)

// Benchmark result files are named <server>_<test...>.txt
const (
	FileSuffix  = ".txt"
	SummaryFile = "summary" + FileSuffix
	NameSep     = "_"
)

var (
	// The results directory does not exist
	ErrDirectoryNotFound = errors.New("results directory not found")
	// The directory was scanned but produced no usable records
	ErrEmptyResultSet = errors.New("no benchmark results found")
)

// Represents one parsed benchmark document
type Record struct {
	Server  string          `json:"server"`
	Test    string          `json:"test"`
	Metrics extract.Metrics `json:"metrics"`
}

// Ordered collection of records, in directory scan order
type ResultSet []Record

// Servers returns the distinct server identifiers in first-seen scan order.
func (rs ResultSet) Servers() []string {
	var servers []string
	seen := map[string]bool{}
	for _, r := range rs {
		if !seen[r.Server] {
			seen[r.Server] = true
			servers = append(servers, r.Server)
		}
	}
	return servers
}
