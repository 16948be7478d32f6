package analysis

import (
	"math"
	"testing"
)

func runAnomaly(t *testing.T, values []float64, params Parameters) AnomalyResults {
	t.Helper()
	routine := &AnomalyRoutine{}
	results, _, err := routine.Run(nil, createTestPoints(values), params)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	return results.(AnomalyResults)
}

func TestAnomaly_SingleOutlier(t *testing.T) {
	res := runAnomaly(t, []float64{10, 10, 10, 10, 10, 100}, Parameters{})

	if res.AnomalyCount != 1 {
		t.Fatalf("Expected exactly one anomaly, got %d", res.AnomalyCount)
	}
	outlier := res.Points[5]
	if !outlier.IsAnomaly {
		t.Error("Expected the value 100 to be flagged")
	}
	if !outlier.IsAboveUCL {
		t.Error("Expected the value 100 above the upper control limit")
	}
	if math.Abs(res.AnomalyPercent-100.0/6.0) > 0.001 {
		t.Errorf("Expected anomaly percentage ~16.7, got %f", res.AnomalyPercent)
	}
}

func TestAnomaly_ThresholdBoundaryIsStrict(t *testing.T) {
	// [10,10,10,10,100]: population stdDev 36, outlier Z-score exactly 2.0.
	// |Z| > threshold is strict, so nothing is flagged at threshold 2.
	res := runAnomaly(t, []float64{10, 10, 10, 10, 100}, Parameters{})

	if math.Abs(res.Points[4].ZScore-2.0) > 1e-9 {
		t.Fatalf("Expected Z-score exactly 2.0, got %f", res.Points[4].ZScore)
	}
	if res.AnomalyCount != 0 {
		t.Errorf("Expected boundary Z-score unflagged, got %d anomalies", res.AnomalyCount)
	}
}

func TestAnomaly_ControlLimits(t *testing.T) {
	res := runAnomaly(t, []float64{10, 10, 10, 10, 100}, Parameters{})

	// mean 28, stdDev 36, threshold 2.
	if math.Abs(res.UpperLimit-100) > 1e-9 {
		t.Errorf("Expected UCL 100, got %f", res.UpperLimit)
	}
	if math.Abs(res.LowerLimit-(-44)) > 1e-9 {
		t.Errorf("Expected LCL -44, got %f", res.LowerLimit)
	}
	// 100 == UCL: the above-limit flag is strict too.
	if res.Points[4].IsAboveUCL {
		t.Error("Expected value equal to UCL not flagged above it")
	}
}

func TestAnomaly_CustomThreshold(t *testing.T) {
	threshold := 1.5
	res := runAnomaly(t, []float64{10, 10, 10, 10, 100}, Parameters{ZScoreThreshold: &threshold})

	if res.AnomalyCount != 1 {
		t.Errorf("Expected one anomaly at threshold 1.5, got %d", res.AnomalyCount)
	}
	if res.Threshold != 1.5 {
		t.Errorf("Expected threshold 1.5 in results, got %f", res.Threshold)
	}
}

func TestAnomaly_ConstantSeries(t *testing.T) {
	// Zero standard deviation short-circuits Z-scores to 0.
	res := runAnomaly(t, []float64{7, 7, 7, 7}, Parameters{})

	if res.StdDev != 0 {
		t.Fatalf("Expected zero stdDev, got %f", res.StdDev)
	}
	if res.AnomalyCount != 0 {
		t.Errorf("Expected no anomalies on a constant series, got %d", res.AnomalyCount)
	}
	for _, p := range res.Points {
		if p.ZScore != 0 {
			t.Errorf("Expected guarded Z-score 0, got %f", p.ZScore)
		}
	}
}

func TestAnomaly_SymmetricFlags(t *testing.T) {
	threshold := 1.0
	res := runAnomaly(t, []float64{0, 50, 50, 50, 50, 100}, Parameters{ZScoreThreshold: &threshold})

	if !res.Points[0].IsBelowLCL {
		t.Error("Expected low outlier below LCL")
	}
	if !res.Points[5].IsAboveUCL {
		t.Error("Expected high outlier above UCL")
	}
}
