package report

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
)

// BarChart draws the series list as a grouped PNG bar chart, one bar per
// (test, server) value. It charts the first series metric that has any
// values, which is requests/sec whenever it was extracted.
type BarChart struct {
	Width  int
	Height int
}

func (b *BarChart) RenderChart(sl SeriesList) ([]byte, error) {
	var metric string
	var bars []chart.Value
	for _, s := range sl.Series {
		if metric != "" && s.Metric != metric {
			continue
		}
		for i, v := range s.Values {
			if v == nil {
				continue
			}
			metric = s.Metric
			bars = append(bars, chart.Value{
				Label: sl.Categories[i] + " " + s.Server,
				Value: *v,
			})
		}
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("no numeric series to chart")
	}

	width, height := b.Width, b.Height
	if width == 0 {
		width = 1024
	}
	if height == 0 {
		height = 512
	}
	graph := chart.BarChart{
		Title:      "Performance comparison: " + metric,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		Width:      width,
		Height:     height,
		BarWidth:   40,
		Bars:       bars,
	}
	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
