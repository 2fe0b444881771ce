package report

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"benchviz.io/pkg/compare"
	"benchviz.io/pkg/extract"
	"benchviz.io/pkg/results"
)

type failingChart struct{ err error }

func (f failingChart) RenderChart(SeriesList) ([]byte, error) { return nil, f.err }

func fixtureResultSet() results.ResultSet {
	return results.ResultSet{
		{Server: "miwidothttp", Test: "static_small", Metrics: extract.Metrics{
			extract.RequestsPerSec: 12000.5,
			extract.LatencyP50:     1.2,
			extract.LatencyP90:     2.4,
			extract.LatencyP99:     5.1,
			extract.Errors:         0,
		}},
		{Server: "nginx", Test: "static_small", Metrics: extract.Metrics{
			extract.RequestsPerSec: 11000.0,
			extract.LatencyP50:     1.4,
			extract.LatencyP99:     6.0,
			extract.Errors:         2,
		}},
		{Server: "miwidothttp", Test: "api_json", Metrics: extract.Metrics{
			extract.RequestsPerSec: 8000.0,
		}},
		{Server: "nginx", Test: "api_json", Metrics: extract.Metrics{
			extract.RequestsPerSec: 8000.0,
		}},
	}
}

func fixtureRenderer() (*Renderer, compare.Matrix, compare.Summary) {
	rs := fixtureResultSet()
	matrix := compare.BuildMatrix(rs)
	summary := compare.BuildSummary(rs, "", "")
	r := NewRenderer("test-run")
	r.now = func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) }
	return r, matrix, summary
}

func TestRenderWritesBothArtifacts(t *testing.T) {
	r, matrix, summary := fixtureRenderer()
	dir := t.TempDir()

	rendered, err := r.Render(matrix, summary, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ImageFile), rendered.ImagePath)
	assert.Equal(t, filepath.Join(dir, DocumentFile), rendered.DocumentPath)
	assert.Equal(t, 4, rendered.Rows)
	assert.Equal(t, 4, rendered.Records)

	png, err := os.ReadFile(rendered.ImagePath)
	require.NoError(t, err)
	assert.NotEmpty(t, png)

	html, err := os.ReadFile(rendered.DocumentPath)
	require.NoError(t, err)
	page := string(html)
	// miwidothttp wins static_small, api_json is a tie so no row is marked
	assert.Contains(t, page, `class="winner"`)
	assert.Contains(t, page, "static_small")
	// nginx lacks p90 for static_small and both lack latencies for api_json
	assert.Contains(t, page, "N/A")
	assert.Contains(t, page, "Run test-run")
}

func TestRenderDeterministicApartFromTimestamp(t *testing.T) {
	r, matrix, summary := fixtureRenderer()

	dir1, dir2 := t.TempDir(), t.TempDir()
	first, err := r.Render(matrix, summary, dir1)
	require.NoError(t, err)
	r.now = func() time.Time { return time.Date(2026, 8, 30, 13, 30, 0, 0, time.UTC) }
	second, err := r.Render(matrix, summary, dir2)
	require.NoError(t, err)

	assert.Equal(t, first.Rows, second.Rows)
	assert.Equal(t, first.Records, second.Records)

	html1, err := os.ReadFile(first.DocumentPath)
	require.NoError(t, err)
	html2, err := os.ReadFile(second.DocumentPath)
	require.NoError(t, err)
	assert.NotEqual(t, html1, html2)
	assert.Equal(t, stripTimestamp(t, string(html1)), stripTimestamp(t, string(html2)))

	png1, err := os.ReadFile(first.ImagePath)
	require.NoError(t, err)
	png2, err := os.ReadFile(second.ImagePath)
	require.NoError(t, err)
	assert.Equal(t, png1, png2)
}

// stripTimestamp drops the one line carrying the generation time.
func stripTimestamp(t *testing.T, page string) string {
	lines := strings.Split(page, "\n")
	kept := lines[:0]
	found := false
	for _, line := range lines {
		if strings.HasPrefix(line, "<p>Generated:") {
			found = true
			continue
		}
		kept = append(kept, line)
	}
	require.True(t, found)
	return strings.Join(kept, "\n")
}

func TestRenderChartFailureLeavesNoArtifacts(t *testing.T) {
	r, matrix, summary := fixtureRenderer()
	r.Chart = failingChart{err: errors.New("boom")}
	dir := t.TempDir()

	_, err := r.Render(matrix, summary, dir)
	require.Error(t, err)
	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestBuildRowsMarksWinnersOnly(t *testing.T) {
	rs := fixtureResultSet()
	matrix := compare.BuildMatrix(rs)
	summary := compare.BuildSummary(rs, "", "")

	rows := buildRows(matrix, summary)
	require.Len(t, rows, 4)
	// Tests sorted, servers sorted within each test
	assert.Equal(t, "api_json", rows[0].Test)
	assert.Equal(t, "miwidothttp", rows[0].Server)
	assert.Equal(t, "nginx", rows[1].Server)
	assert.Equal(t, "static_small", rows[2].Test)

	winners := 0
	for _, row := range rows {
		if row.Winner {
			winners++
			assert.Equal(t, "static_small", row.Test)
			assert.Equal(t, "miwidothttp", row.Server)
		}
	}
	assert.Equal(t, 1, winners)

	// api_json rows carry no latency metrics
	assert.Nil(t, rows[0].LatencyP50)
	assert.Nil(t, rows[0].Errors)
	require.NotNil(t, rows[0].RequestsPerSec)
	assert.Equal(t, 8000.0, *rows[0].RequestsPerSec)
}

func TestBuildSeries(t *testing.T) {
	matrix := compare.BuildMatrix(fixtureResultSet())
	sl := BuildSeries(matrix)
	assert.Equal(t, []string{"api_json", "static_small"}, sl.Categories)

	var rps []Series
	for _, s := range sl.Series {
		if s.Metric == extract.RequestsPerSec {
			rps = append(rps, s)
		}
	}
	require.Len(t, rps, 2)
	assert.Equal(t, "miwidothttp", rps[0].Server)
	require.NotNil(t, rps[0].Values[1])
	assert.Equal(t, 12000.5, *rps[0].Values[1])

	// nginx has no p90 anywhere but has p99 for static_small only
	for _, s := range sl.Series {
		if s.Server == "nginx" {
			assert.NotEqual(t, extract.LatencyP90, s.Metric)
			if s.Metric == extract.LatencyP99 {
				assert.Nil(t, s.Values[0])
				require.NotNil(t, s.Values[1])
				assert.Equal(t, 6.0, *s.Values[1])
			}
		}
	}
}

func TestChartRendersPNG(t *testing.T) {
	matrix := compare.BuildMatrix(fixtureResultSet())
	png, err := (&BarChart{}).RenderChart(BuildSeries(matrix))
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(png[:4]))
}

func TestChartWithNoSeries(t *testing.T) {
	_, err := (&BarChart{}).RenderChart(SeriesList{})
	assert.Error(t, err)
}
