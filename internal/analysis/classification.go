package analysis

import (
	"fmt"

	"github.com/trendscope/trendscope/internal/timeseries"
)

// Class labels assigned by threshold classification. The upper test is
// inclusive: value == threshold classifies as high risk.
const (
	ClassHighRisk = "High Risk"
	ClassLowRisk  = "Low Risk"
)

// ClassifiedPoint is one observation with its assigned class. ActualClass is
// copied from the point's category field when present.
type ClassifiedPoint struct {
	Timestamp      string  `json:"timestamp"`
	Value          float64 `json:"value"`
	PredictedClass string  `json:"predictedClass"`
	ActualClass    string  `json:"actualClass,omitempty"`
}

// ClassificationResults holds the threshold split of the input.
type ClassificationResults struct {
	Threshold     float64           `json:"threshold"`
	HighRiskCount int               `json:"highRiskCount"`
	LowRiskCount  int               `json:"lowRiskCount"`
	Points        []ClassifiedPoint `json:"points"`
	Summary       string            `json:"summary"`
}

// Kind returns the analysis type tag.
func (ClassificationResults) Kind() Type { return TypeClassification }

// ClassificationRoutine assigns each point a class by comparing its value
// against a threshold (defaulting to the input mean). When points carry
// category labels, a confusion matrix against "High Risk" ground truth
// yields accuracy/precision/recall/F1.
type ClassificationRoutine struct{}

func init() {
	registerRoutine(&ClassificationRoutine{})
}

// Name returns the analysis type tag this routine handles.
func (r *ClassificationRoutine) Name() Type { return TypeClassification }

// Run classifies the points.
func (r *ClassificationRoutine) Run(_ *timeseries.TimeSeriesData, points []timeseries.DataPoint, params Parameters) (Results, *Metrics, error) {
	n := len(points)
	if n == 0 {
		return nil, nil, &InsufficientDataError{Required: 1, Actual: 0}
	}

	values := make([]float64, n)
	for i, p := range points {
		values[i] = p.Value
	}

	threshold := meanOf(values)
	if params.Threshold != nil {
		threshold = *params.Threshold
	}

	classified := make([]ClassifiedPoint, n)
	highRisk := 0
	hasLabels := false
	for i, p := range points {
		class := ClassLowRisk
		if p.Value >= threshold {
			class = ClassHighRisk
			highRisk++
		}
		classified[i] = ClassifiedPoint{
			Timestamp:      p.Timestamp,
			Value:          p.Value,
			PredictedClass: class,
			ActualClass:    p.Category,
		}
		if p.Category != "" {
			hasLabels = true
		}
	}

	var metrics *Metrics
	if hasLabels {
		actual := make([]int, n)
		predicted := make([]int, n)
		for i, p := range points {
			if p.Category == ClassHighRisk {
				actual[i] = 1
			}
			if classified[i].PredictedClass == ClassHighRisk {
				predicted[i] = 1
			}
		}
		accuracy, precision, recall, f1 := confusionMetrics(actual, predicted)
		metrics = &Metrics{
			Accuracy:  accuracy,
			Precision: precision,
			Recall:    recall,
			F1Score:   f1,
		}
	}

	results := ClassificationResults{
		Threshold:     threshold,
		HighRiskCount: highRisk,
		LowRiskCount:  n - highRisk,
		Points:        classified,
		Summary: fmt.Sprintf(
			"Threshold classification at %.2f: %d of %d points high risk",
			threshold, highRisk, n),
	}
	return results, metrics, nil
}
