package analysis

import (
	"fmt"
	"math"

	"github.com/trendscope/trendscope/internal/timeseries"
)

const (
	logisticIterations     = 1000
	logisticLearningRate   = 0.03
	defaultRegularization  = 0.1
	defaultDecisionCutoff  = 0.5
	logisticRebinarization = 0.5
)

// LogisticPoint is one observation with its fitted probability and the
// binary labels the model was trained and evaluated against.
type LogisticPoint struct {
	Timestamp   string  `json:"timestamp"`
	Probability float64 `json:"probability"`
	Predicted   int     `json:"predicted"`
	Actual      int     `json:"actual"`
}

// LogisticRegressionResults holds the single-predictor (time) logistic fit.
type LogisticRegressionResults struct {
	Slope             float64         `json:"slope"`
	Intercept         float64         `json:"intercept"`
	Regularization    float64         `json:"regularization"`
	DecisionThreshold float64         `json:"decisionThreshold"`
	Points            []LogisticPoint `json:"points"`
	Summary           string          `json:"summary"`
}

// Kind returns the analysis type tag.
func (LogisticRegressionResults) Kind() Type { return TypeLogisticRegression }

// LogisticRoutine fits a time-predictor logistic model by batch gradient
// descent: fixed 1000 iterations, learning rate 0.03, L2 penalty applied to
// the slope gradient only. Ground truth is the target's min-max normalized
// values rebinarized at 0.5, so the model evaluates itself against a derived
// version of its own input.
type LogisticRoutine struct{}

func init() {
	registerRoutine(&LogisticRoutine{})
}

// Name returns the analysis type tag this routine handles.
func (r *LogisticRoutine) Name() Type { return TypeLogisticRegression }

// Run fits the model and computes confusion metrics, AUC, and binomial
// deviance.
func (r *LogisticRoutine) Run(_ *timeseries.TimeSeriesData, points []timeseries.DataPoint, params Parameters) (Results, *Metrics, error) {
	n := len(points)
	if n < 2 {
		return nil, nil, &InsufficientDataError{Required: 2, Actual: n}
	}

	lambda := defaultRegularization
	if params.Regularization != nil {
		lambda = *params.Regularization
	}
	cutoff := defaultDecisionCutoff
	if params.DecisionThreshold != nil {
		cutoff = *params.DecisionThreshold
	} else if params.Threshold != nil {
		cutoff = *params.Threshold
	}

	times := make([]float64, n)
	values := make([]float64, n)
	for i, p := range points {
		times[i] = float64(p.Time().Unix())
		values[i] = p.Value
	}
	x := timeseries.MinMaxNormalize(times)

	normalized := timeseries.MinMaxNormalize(values)
	labels := make([]int, n)
	y := make([]float64, n)
	for i, v := range normalized {
		if v >= logisticRebinarization {
			labels[i] = 1
			y[i] = 1
		}
	}

	slope, intercept := 0.0, 0.0
	for iter := 0; iter < logisticIterations; iter++ {
		gradSlope := 0.0
		gradIntercept := 0.0
		for i := 0; i < n; i++ {
			residual := sigmoid(intercept+slope*x[i]) - y[i]
			gradSlope += residual * x[i]
			gradIntercept += residual
		}
		gradSlope = gradSlope/float64(n) + lambda*slope
		gradIntercept /= float64(n)

		slope -= logisticLearningRate * gradSlope
		intercept -= logisticLearningRate * gradIntercept
	}

	probabilities := make([]float64, n)
	predicted := make([]int, n)
	fitted := make([]LogisticPoint, n)
	for i := 0; i < n; i++ {
		p := sigmoid(intercept + slope*x[i])
		probabilities[i] = p
		if p >= cutoff {
			predicted[i] = 1
		}
		fitted[i] = LogisticPoint{
			Timestamp:   points[i].Timestamp,
			Probability: p,
			Predicted:   predicted[i],
			Actual:      labels[i],
		}
	}

	accuracy, precision, recall, f1 := confusionMetrics(labels, predicted)

	deviance := 0.0
	for i := 0; i < n; i++ {
		p := probabilities[i]
		deviance += y[i]*math.Log(p+epsilon) + (1-y[i])*math.Log(1-p+epsilon)
	}
	deviance *= -2

	metrics := &Metrics{
		Accuracy:  accuracy,
		Precision: precision,
		Recall:    recall,
		F1Score:   f1,
		AUC:       calculateAUC(probabilities, labels),
		Deviance:  deviance,
	}

	results := LogisticRegressionResults{
		Slope:             slope,
		Intercept:         intercept,
		Regularization:    lambda,
		DecisionThreshold: cutoff,
		Points:            fitted,
		Summary: fmt.Sprintf(
			"Logistic regression over %d points: slope %.4f, intercept %.4f, accuracy %.3f, AUC %.3f",
			n, slope, intercept, accuracy, metrics.AUC),
	}
	return results, metrics, nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
