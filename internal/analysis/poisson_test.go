package analysis

import (
	"errors"
	"math"
	"testing"
)

func TestPoisson_ConstantCounts(t *testing.T) {
	routine := &PoissonRoutine{}
	results, metrics, err := routine.Run(nil, createTestPoints([]float64{5, 5, 5, 5, 5}), Parameters{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	poi := results.(PoissonRegressionResults)
	for _, p := range poi.Points {
		if math.Abs(p.Predicted-5) > 0.01 {
			t.Errorf("Expected fitted rate ~5, got %f at %s", p.Predicted, p.Timestamp)
		}
	}
	if metrics.RMSE > 0.01 {
		t.Errorf("Expected near-zero RMSE, got %f", metrics.RMSE)
	}
}

func TestPoisson_ExponentialGrowthLogLink(t *testing.T) {
	// Counts doubling every step are exactly log-linear.
	routine := &PoissonRoutine{}
	results, metrics, err := routine.Run(nil, createTestPoints([]float64{1, 2, 4, 8, 16, 32}), Parameters{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	poi := results.(PoissonRegressionResults)
	if poi.LinkFunction != LinkLog {
		t.Errorf("Expected default log link, got %s", poi.LinkFunction)
	}
	if poi.Slope <= 0 {
		t.Errorf("Expected positive slope, got %f", poi.Slope)
	}
	if metrics.PseudoRSquared < 0.95 {
		t.Errorf("Expected pseudo-R² near 1 for log-linear counts, got %f", metrics.PseudoRSquared)
	}
	if metrics.NullDeviance <= metrics.Deviance {
		t.Errorf("Expected null deviance %f above fitted deviance %f", metrics.NullDeviance, metrics.Deviance)
	}
}

func TestPoisson_IdentityLink(t *testing.T) {
	routine := &PoissonRoutine{}
	results, metrics, err := routine.Run(nil, createTestPoints([]float64{2, 4, 6, 8, 10}), Parameters{LinkFunction: LinkIdentity})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	poi := results.(PoissonRegressionResults)
	if poi.LinkFunction != LinkIdentity {
		t.Errorf("Expected identity link, got %s", poi.LinkFunction)
	}
	if poi.Slope <= 0 {
		t.Errorf("Expected positive slope, got %f", poi.Slope)
	}
	if metrics.PseudoRSquared < 0.9 {
		t.Errorf("Expected high pseudo-R² for linear counts, got %f", metrics.PseudoRSquared)
	}
}

func TestPoisson_SqrtLink(t *testing.T) {
	routine := &PoissonRoutine{}
	results, _, err := routine.Run(nil, createTestPoints([]float64{1, 4, 9, 16, 25}), Parameters{LinkFunction: LinkSqrt})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	poi := results.(PoissonRegressionResults)
	if poi.Slope <= 0 {
		t.Errorf("Expected positive slope, got %f", poi.Slope)
	}
}

func TestPoisson_UnsupportedLink(t *testing.T) {
	routine := &PoissonRoutine{}
	_, _, err := routine.Run(nil, createTestPoints([]float64{1, 2, 3}), Parameters{LinkFunction: "inverse"})

	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
}

func TestPoisson_ClampsValuesToCounts(t *testing.T) {
	// Negative and fractional values are rounded and clamped at zero before
	// fitting.
	routine := &PoissonRoutine{}
	results, _, err := routine.Run(nil, createTestPoints([]float64{-3, 1.6, 2.4, 5}), Parameters{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	poi := results.(PoissonRegressionResults)
	expected := []float64{0, 2, 2, 5}
	for i, p := range poi.Points {
		if p.Actual != expected[i] {
			t.Errorf("Expected clamped count %f at index %d, got %f", expected[i], i, p.Actual)
		}
	}
}

func TestPoisson_InsufficientData(t *testing.T) {
	routine := &PoissonRoutine{}
	_, _, err := routine.Run(nil, createTestPoints([]float64{3}), Parameters{})

	var insufficient *InsufficientDataError
	if !errors.As(err, &insufficient) {
		t.Fatalf("Expected InsufficientDataError, got %v", err)
	}
}
