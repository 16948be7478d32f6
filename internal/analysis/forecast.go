package analysis

import (
	"fmt"
	"time"

	"github.com/trendscope/trendscope/internal/timeseries"
)

const (
	defaultWindowSize      = 3
	defaultForecastHorizon = 10
)

// ForecastResults holds the moving-average fit over the historical range and
// the rolled-forward forecast beyond it.
type ForecastResults struct {
	WindowSize int               `json:"windowSize"`
	Horizon    int               `json:"horizon"`
	Points     []PredictedPoint  `json:"points"`
	Forecast   []ForecastedValue `json:"forecast"`
	Summary    string            `json:"summary"`
}

// Kind returns the analysis type tag.
func (ForecastResults) Kind() Type { return TypeForecasting }

// ForecastRoutine implements moving-average forecasting. Before a full
// window is available the prediction is the actual value; afterwards it is
// the mean of the trailing window. Future points roll the average forward:
// each forecast joins the window used for the next one, a feedback loop
// rather than a re-read of the raw data.
type ForecastRoutine struct{}

func init() {
	registerRoutine(&ForecastRoutine{})
}

// Name returns the analysis type tag this routine handles.
func (r *ForecastRoutine) Name() Type { return TypeForecasting }

// Run fits and extends the moving average. MSE/RMSE/MAE cover only the
// historical points where an actual value exists.
func (r *ForecastRoutine) Run(_ *timeseries.TimeSeriesData, points []timeseries.DataPoint, params Parameters) (Results, *Metrics, error) {
	n := len(points)
	if n < 2 {
		return nil, nil, &InsufficientDataError{Required: 2, Actual: n}
	}

	windowSize := params.WindowSize
	if windowSize <= 0 {
		windowSize = defaultWindowSize
	}
	horizon := params.ForecastHorizon
	if horizon <= 0 {
		horizon = defaultForecastHorizon
	}

	actual := make([]float64, n)
	for i, p := range points {
		actual[i] = p.Value
	}

	predicted := make([]float64, n)
	historical := make([]PredictedPoint, n)
	for i := 0; i < n; i++ {
		if i < windowSize {
			predicted[i] = actual[i]
		} else {
			sum := 0.0
			for j := i - windowSize; j < i; j++ {
				sum += actual[j]
			}
			predicted[i] = sum / float64(windowSize)
		}
		historical[i] = PredictedPoint{
			Timestamp: points[i].Timestamp,
			Actual:    actual[i],
			Predicted: predicted[i],
		}
	}

	interval := averageInterval(points)

	// Rolling window seeded with the observed tail; each forecast becomes
	// part of the next window.
	window := make([]float64, 0, windowSize)
	start := n - windowSize
	if start < 0 {
		start = 0
	}
	window = append(window, actual[start:]...)

	forecast := make([]ForecastedValue, 0, horizon)
	lastTime := points[n-1].Time()
	for i := 1; i <= horizon; i++ {
		sum := 0.0
		for _, v := range window {
			sum += v
		}
		next := sum / float64(len(window))

		futureTime := lastTime.Add(time.Duration(i) * interval)
		forecast = append(forecast, ForecastedValue{
			Timestamp: futureTime.Format(time.RFC3339),
			Value:     next,
		})

		window = append(window, next)
		if len(window) > windowSize {
			window = window[1:]
		}
	}

	metrics := &Metrics{
		MSE:  calculateMSE(actual, predicted),
		RMSE: calculateRMSE(actual, predicted),
		MAE:  calculateMAE(actual, predicted),
	}

	results := ForecastResults{
		WindowSize: windowSize,
		Horizon:    horizon,
		Points:     historical,
		Forecast:   forecast,
		Summary: fmt.Sprintf(
			"Moving-average forecast (window %d) over %d points, %d future points at %s intervals",
			windowSize, n, horizon, interval),
	}
	return results, metrics, nil
}

// averageInterval returns the mean time delta between consecutive points,
// falling back to one day when the spacing is degenerate.
func averageInterval(points []timeseries.DataPoint) time.Duration {
	if len(points) < 2 {
		return 24 * time.Hour
	}

	total := time.Duration(0)
	for i := 1; i < len(points); i++ {
		total += points[i].Time().Sub(points[i-1].Time())
	}
	avg := total / time.Duration(len(points)-1)
	if avg <= 0 {
		return 24 * time.Hour
	}
	return avg
}
