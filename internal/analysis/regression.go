package analysis

import (
	"fmt"
	"time"

	"github.com/trendscope/trendscope/internal/timeseries"
)

// regressionForecastHorizon is the number of daily-interval points appended
// when regressing against time.
const regressionForecastHorizon = 10

// PredictedPoint pairs an observed value with the model's fitted value.
type PredictedPoint struct {
	Timestamp string  `json:"timestamp"`
	Actual    float64 `json:"actual"`
	Predicted float64 `json:"predicted"`
}

// ForecastedValue is a model output beyond the observed range.
type ForecastedValue struct {
	Timestamp string  `json:"timestamp"`
	Value     float64 `json:"value"`
}

// RegressionResults holds the fitted linear model. Coefficients are keyed by
// predictor series name, or by "time" when regressing against the timestamp
// axis.
type RegressionResults struct {
	Coefficients map[string]float64 `json:"coefficients"`
	Intercept    float64            `json:"intercept"`
	Predictions  []PredictedPoint   `json:"predictions"`
	Forecast     []ForecastedValue  `json:"forecast,omitempty"`
	Summary      string             `json:"summary"`
}

// Kind returns the analysis type tag.
func (RegressionResults) Kind() Type { return TypeRegression }

// RegressionRoutine fits a linear model of the target series. With explicit
// predictors, each coefficient is a simple covariance estimate computed
// independently against the mean-centered target over min-max normalized
// predictor values; cross-predictor correlation is deliberately ignored.
// Without predictors the normalized timestamp is the sole regressor and a
// forward forecast is appended.
type RegressionRoutine struct{}

func init() {
	registerRoutine(&RegressionRoutine{})
}

// Name returns the analysis type tag this routine handles.
func (r *RegressionRoutine) Name() Type { return TypeRegression }

// Run fits the model and computes MSE/RMSE/R-squared over raw residuals.
func (r *RegressionRoutine) Run(dataset *timeseries.TimeSeriesData, points []timeseries.DataPoint, params Parameters) (Results, *Metrics, error) {
	if len(params.PredictorSeries) > 0 {
		return r.runMultivariate(dataset, params)
	}
	return r.runTimeTrend(points, params)
}

// runMultivariate aligns the predictors on the target's timestamp grid and
// fits one covariance coefficient per predictor.
func (r *RegressionRoutine) runMultivariate(dataset *timeseries.TimeSeriesData, params Parameters) (Results, *Metrics, error) {
	allSeries := append([]string{params.TargetSeries}, params.PredictorSeries...)
	shared := dataset.FilterValidTimestamps(allSeries)
	if len(shared) < 2 {
		return nil, nil, &InsufficientDataError{Required: 2, Actual: len(shared)}
	}

	aligned := dataset.AlignSeries(params.TargetSeries, params.PredictorSeries)
	n := len(aligned.TargetValues)
	if n < 2 {
		return nil, nil, &InsufficientDataError{Required: 2, Actual: n}
	}

	targetMean := meanOf(aligned.TargetValues)

	coefficients := make(map[string]float64, len(params.PredictorSeries))
	predictorMeans := make([]float64, len(params.PredictorSeries))
	slopes := make([]float64, len(params.PredictorSeries))
	for pi, name := range params.PredictorSeries {
		values := aligned.PredictorValues[pi]
		predictorMeans[pi] = meanOf(values)

		covariance := 0.0
		variance := 0.0
		for i := 0; i < n; i++ {
			dx := values[i] - predictorMeans[pi]
			covariance += dx * (aligned.TargetValues[i] - targetMean)
			variance += dx * dx
		}

		slope := 0.0
		if variance > epsilon {
			slope = covariance / variance
		}
		slopes[pi] = slope
		coefficients[name] = slope
	}

	intercept := targetMean
	for pi := range slopes {
		intercept -= slopes[pi] * predictorMeans[pi]
	}

	predicted := make([]float64, n)
	predictions := make([]PredictedPoint, n)
	for i := 0; i < n; i++ {
		yHat := intercept
		for pi := range slopes {
			yHat += slopes[pi] * aligned.PredictorValues[pi][i]
		}
		predicted[i] = yHat
		predictions[i] = PredictedPoint{
			Timestamp: aligned.Timestamps[i],
			Actual:    aligned.TargetValues[i],
			Predicted: yHat,
		}
	}

	metrics := &Metrics{
		MSE:      calculateMSE(aligned.TargetValues, predicted),
		RMSE:     calculateRMSE(aligned.TargetValues, predicted),
		RSquared: calculateRSquared(aligned.TargetValues, predicted),
	}

	results := RegressionResults{
		Coefficients: coefficients,
		Intercept:    intercept,
		Predictions:  predictions,
		Summary: fmt.Sprintf(
			"Linear regression of %s on %d predictor(s) over %d aligned points: intercept %.4f, R² %.4f",
			params.TargetSeries, len(params.PredictorSeries), n, intercept, metrics.RSquared),
	}
	return results, metrics, nil
}

// runTimeTrend regresses the target against its normalized timestamp and
// extends the fit with a daily-interval forecast.
func (r *RegressionRoutine) runTimeTrend(points []timeseries.DataPoint, params Parameters) (Results, *Metrics, error) {
	n := len(points)
	if n < 2 {
		return nil, nil, &InsufficientDataError{Required: 2, Actual: n}
	}

	times := make([]float64, n)
	actual := make([]float64, n)
	for i, p := range points {
		times[i] = float64(p.Time().Unix())
		actual[i] = p.Value
	}
	x := timeseries.MinMaxNormalize(times)

	slope, intercept := fitSimpleLinear(x, actual)

	predicted := make([]float64, n)
	predictions := make([]PredictedPoint, n)
	for i := 0; i < n; i++ {
		predicted[i] = intercept + slope*x[i]
		predictions[i] = PredictedPoint{
			Timestamp: points[i].Timestamp,
			Actual:    actual[i],
			Predicted: predicted[i],
		}
	}

	// Forward forecast on the same normalization scale: x keeps growing past
	// 1 as timestamps extend past the observed range.
	timeSpan := times[n-1] - times[0]
	forecast := make([]ForecastedValue, 0, regressionForecastHorizon)
	lastTime := points[n-1].Time()
	for i := 1; i <= regressionForecastHorizon; i++ {
		futureTime := lastTime.Add(time.Duration(i) * 24 * time.Hour)
		futureX := 0.0
		if timeSpan > 0 {
			futureX = (float64(futureTime.Unix()) - times[0]) / timeSpan
		}
		forecast = append(forecast, ForecastedValue{
			Timestamp: futureTime.Format(time.RFC3339),
			Value:     intercept + slope*futureX,
		})
	}

	metrics := &Metrics{
		MSE:      calculateMSE(actual, predicted),
		RMSE:     calculateRMSE(actual, predicted),
		RSquared: calculateRSquared(actual, predicted),
	}

	results := RegressionResults{
		Coefficients: map[string]float64{"time": slope},
		Intercept:    intercept,
		Predictions:  predictions,
		Forecast:     forecast,
		Summary: fmt.Sprintf(
			"Linear time-trend regression over %d points: slope %.4f, intercept %.4f, R² %.4f, %d-point forecast appended",
			n, slope, intercept, metrics.RSquared, regressionForecastHorizon),
	}
	return results, metrics, nil
}

// fitSimpleLinear fits y = intercept + slope*x by covariance over variance.
// A degenerate x (zero variance) yields slope 0 and intercept mean(y).
func fitSimpleLinear(x, y []float64) (slope, intercept float64) {
	xMean := meanOf(x)
	yMean := meanOf(y)

	covariance := 0.0
	variance := 0.0
	for i := range x {
		dx := x[i] - xMean
		covariance += dx * (y[i] - yMean)
		variance += dx * dx
	}

	if variance > epsilon {
		slope = covariance / variance
	}
	return slope, yMean - slope*xMean
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
