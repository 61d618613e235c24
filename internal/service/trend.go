package service

import "math"

type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
)

// trendWindow is the number of most-recent values considered when
// classifying a trend.
const trendWindow = 5

// trendThreshold is the slope cutoff relative to the mean magnitude, so
// goals with different units and scales classify consistently.
const trendThreshold = 0.01

// TrendOf fits an ordinary least-squares line over the trailing window
// of values and classifies the slope. Fewer than two values is stable.
func TrendOf(values []float64) Trend {
	if len(values) < 2 {
		return TrendStable
	}
	if len(values) > trendWindow {
		values = values[len(values)-trendWindow:]
	}

	n := float64(len(values))
	var xMean, yMean float64
	for i, v := range values {
		xMean += float64(i)
		yMean += v
	}
	xMean /= n
	yMean /= n

	var num, den float64
	for i, v := range values {
		dx := float64(i) - xMean
		num += dx * (v - yMean)
		den += dx * dx
	}
	if den == 0 {
		den = 1
	}
	slope := num / den

	cutoff := trendThreshold * math.Abs(yMean)
	switch {
	case slope > cutoff:
		return TrendImproving
	case slope < -cutoff:
		return TrendDeclining
	default:
		return TrendStable
	}
}
