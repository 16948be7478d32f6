package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/trendscope/trendscope/internal/timeseries"
)

// DescriptiveResults summarizes one value sequence. Variance and standard
// deviation are population figures (denominator N, not N-1); quartiles are
// picked by index floor(N*0.25) / floor(N*0.75) on the value-sorted copy.
type DescriptiveResults struct {
	Count        int     `json:"count"`
	Mean         float64 `json:"mean"`
	Variance     float64 `json:"variance"`
	StdDev       float64 `json:"stdDev"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Median       float64 `json:"median"`
	Q1           float64 `json:"q1"`
	Q3           float64 `json:"q3"`
	IQR          float64 `json:"iqr"`
	TrendPercent float64 `json:"trendPercent"`
	Summary      string  `json:"summary"`
}

// Kind returns the analysis type tag.
func (DescriptiveResults) Kind() Type { return TypeDescriptive }

// DescriptiveRoutine computes descriptive statistics over one sorted value
// sequence.
type DescriptiveRoutine struct{}

func init() {
	registerRoutine(&DescriptiveRoutine{})
}

// Name returns the analysis type tag this routine handles.
func (r *DescriptiveRoutine) Name() Type { return TypeDescriptive }

// Run computes the descriptive statistics. Empty input is a precondition
// violation, not a silent NaN producer.
func (r *DescriptiveRoutine) Run(_ *timeseries.TimeSeriesData, points []timeseries.DataPoint, _ Parameters) (Results, *Metrics, error) {
	n := len(points)
	if n == 0 {
		return nil, nil, &InsufficientDataError{Required: 1, Actual: 0}
	}

	values := make([]float64, n)
	for i, p := range points {
		values[i] = p.Value
	}

	sum := 0.0
	minVal, maxVal := values[0], values[0]
	for _, v := range values {
		sum += v
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	mean := sum / float64(n)

	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(n)
	stdDev := math.Sqrt(variance)

	// Quartiles and median work on a value-sorted copy; trend works on the
	// time-ordered input.
	byValue := make([]float64, n)
	copy(byValue, values)
	sort.Float64s(byValue)

	var median float64
	if n%2 == 0 {
		median = (byValue[n/2-1] + byValue[n/2]) / 2
	} else {
		median = byValue[n/2]
	}
	q1 := byValue[int(math.Floor(float64(n)*0.25))]
	q3 := byValue[int(math.Floor(float64(n)*0.75))]

	trend := 0.0
	if values[0] != 0 {
		trend = (values[n-1] - values[0]) / values[0] * 100
	}

	results := DescriptiveResults{
		Count:        n,
		Mean:         mean,
		Variance:     variance,
		StdDev:       stdDev,
		Min:          minVal,
		Max:          maxVal,
		Median:       median,
		Q1:           q1,
		Q3:           q3,
		IQR:          q3 - q1,
		TrendPercent: trend,
	}
	results.Summary = fmt.Sprintf(
		"Descriptive statistics over %d points: mean %.2f, stdDev %.2f, median %.2f, range [%.2f, %.2f], trend %+.1f%%",
		n, mean, stdDev, median, minVal, maxVal, trend)

	return results, nil, nil
}
