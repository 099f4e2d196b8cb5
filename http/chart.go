package http

import (
	"bytes"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/wcharczuk/go-chart"
	"github.com/wcharczuk/go-chart/drawing"

	"diabetesform/inference"
	"diabetesform/ml"
)

const chartCacheSize = 64

var (
	negativeColor = drawing.ColorFromHex("2e8b57")
	positiveColor = drawing.ColorFromHex("cc0000")
)

var errEmptyDistribution = errors.New("distribution has no predictions")

// RenderPie draws the label distribution as a PNG pie chart. Labels
// whose count is zero get no slice.
func RenderPie(dist inference.Distribution) ([]byte, error) {
	if dist.Total() == 0 {
		return nil, errEmptyDistribution
	}

	var values []chart.Value
	if dist.Negative > 0 {
		values = append(values, chart.Value{
			Value: float64(dist.Negative),
			Label: fmt.Sprintf("Negatif %.1f%%", dist.Percent(ml.Negative)),
			Style: chart.Style{FillColor: negativeColor, FontColor: drawing.ColorWhite},
		})
	}
	if dist.Positive > 0 {
		values = append(values, chart.Value{
			Value: float64(dist.Positive),
			Label: fmt.Sprintf("Positif %.1f%%", dist.Percent(ml.Positive)),
			Style: chart.Style{FillColor: positiveColor, FontColor: drawing.ColorWhite},
		})
	}

	pie := chart.PieChart{
		Width:  480,
		Height: 480,
		Values: values,
	}

	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render pie chart: %w", err)
	}
	return buf.Bytes(), nil
}

// ChartCache memoises rendered charts by distribution.
type ChartCache struct {
	charts *lru.Cache[inference.Distribution, []byte]
}

// NewChartCache keeps up to size rendered charts.
func NewChartCache(size int) (*ChartCache, error) {
	charts, err := lru.New[inference.Distribution, []byte](size)
	if err != nil {
		return nil, err
	}
	return &ChartCache{charts: charts}, nil
}

// Get returns the cached chart for dist, rendering it on a miss.
func (c *ChartCache) Get(dist inference.Distribution) ([]byte, error) {
	if png, ok := c.charts.Get(dist); ok {
		return png, nil
	}
	png, err := RenderPie(dist)
	if err != nil {
		return nil, err
	}
	c.charts.Add(dist, png)
	return png, nil
}
