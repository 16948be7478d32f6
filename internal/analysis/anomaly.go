package analysis

import (
	"fmt"
	"math"

	"github.com/trendscope/trendscope/internal/timeseries"
)

const defaultZScoreThreshold = 2.0

// AnomalyPoint is one observation with its standard score and flags. The
// anomaly flag uses a strict comparison: a Z-score exactly at the threshold
// is not anomalous. The control-limit flags are independent of it.
type AnomalyPoint struct {
	Timestamp  string  `json:"timestamp"`
	Value      float64 `json:"value"`
	ZScore     float64 `json:"zScore"`
	IsAnomaly  bool    `json:"isAnomaly"`
	IsAboveUCL bool    `json:"isAboveUCL"`
	IsBelowLCL bool    `json:"isBelowLCL"`
}

// AnomalyResults holds the Z-score sweep and the derived control limits
// (mean ± threshold·stdDev).
type AnomalyResults struct {
	Mean           float64        `json:"mean"`
	StdDev         float64        `json:"stdDev"`
	Threshold      float64        `json:"threshold"`
	UpperLimit     float64        `json:"upperControlLimit"`
	LowerLimit     float64        `json:"lowerControlLimit"`
	AnomalyCount   int            `json:"anomalyCount"`
	AnomalyPercent float64        `json:"anomalyPercent"`
	Points         []AnomalyPoint `json:"points"`
	Summary        string         `json:"summary"`
}

// Kind returns the analysis type tag.
func (AnomalyResults) Kind() Type { return TypeAnomalyDetection }

// AnomalyRoutine flags points whose Z-score against the population mean and
// standard deviation exceeds a threshold. A constant series (stdDev 0) is a
// boundary case: Z-scores short-circuit to 0 and nothing is flagged.
type AnomalyRoutine struct{}

func init() {
	registerRoutine(&AnomalyRoutine{})
}

// Name returns the analysis type tag this routine handles.
func (r *AnomalyRoutine) Name() Type { return TypeAnomalyDetection }

// Run computes per-point Z-scores and control-limit flags.
func (r *AnomalyRoutine) Run(_ *timeseries.TimeSeriesData, points []timeseries.DataPoint, params Parameters) (Results, *Metrics, error) {
	n := len(points)
	if n == 0 {
		return nil, nil, &InsufficientDataError{Required: 1, Actual: 0}
	}

	threshold := defaultZScoreThreshold
	if params.ZScoreThreshold != nil {
		threshold = *params.ZScoreThreshold
	}

	values := make([]float64, n)
	for i, p := range points {
		values[i] = p.Value
	}
	mean := meanOf(values)

	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	stdDev := math.Sqrt(variance / float64(n))

	upper := mean + threshold*stdDev
	lower := mean - threshold*stdDev

	flagged := make([]AnomalyPoint, n)
	anomalies := 0
	for i, p := range points {
		zScore := 0.0
		if stdDev > 0 {
			zScore = (p.Value - mean) / stdDev
		}
		isAnomaly := math.Abs(zScore) > threshold
		if isAnomaly {
			anomalies++
		}
		flagged[i] = AnomalyPoint{
			Timestamp:  p.Timestamp,
			Value:      p.Value,
			ZScore:     zScore,
			IsAnomaly:  isAnomaly,
			IsAboveUCL: p.Value > upper,
			IsBelowLCL: p.Value < lower,
		}
	}

	percent := float64(anomalies) / float64(n) * 100

	results := AnomalyResults{
		Mean:           mean,
		StdDev:         stdDev,
		Threshold:      threshold,
		UpperLimit:     upper,
		LowerLimit:     lower,
		AnomalyCount:   anomalies,
		AnomalyPercent: percent,
		Points:         flagged,
		Summary: fmt.Sprintf(
			"Z-score anomaly detection (threshold %.1f): %d of %d points anomalous (%.1f%%), control limits [%.2f, %.2f]",
			threshold, anomalies, n, percent, lower, upper),
	}
	return results, nil, nil
}
