// Package analysis is the statistical engine: stateless routines that
// transform a time-ordered sequence of observations into typed analysis
// results with fitted parameters, predictions, and fit-quality metrics.
//
// Every routine is pure and synchronous; one Analyze call is a function of
// its dataset and options with no shared state and no I/O.
package analysis

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/trendscope/trendscope/internal/timeseries"
)

// Type identifies an analysis routine.
type Type string

const (
	TypeDescriptive        Type = "descriptive"
	TypeRegression         Type = "regression"
	TypeClassification     Type = "classification"
	TypeForecasting        Type = "forecasting"
	TypeAnomalyDetection   Type = "anomaly-detection"
	TypeLogisticRegression Type = "logistic-regression"
	TypePoissonRegression  Type = "poisson-regression"
)

// Parameters holds the per-type knobs. Pointer fields distinguish "not set"
// from an explicit zero.
type Parameters struct {
	TargetSeries      string   `json:"targetSeries,omitempty"`
	PredictorSeries   []string `json:"predictorSeries,omitempty"`
	Threshold         *float64 `json:"threshold,omitempty"`
	WindowSize        int      `json:"windowSize,omitempty"`
	ForecastHorizon   int      `json:"forecastHorizon,omitempty"`
	ZScoreThreshold   *float64 `json:"zScoreThreshold,omitempty"`
	Regularization    *float64 `json:"regularization,omitempty"`
	DecisionThreshold *float64 `json:"decisionThreshold,omitempty"`
	LinkFunction      string   `json:"linkFunction,omitempty"`
}

// Options selects a routine and its parameters.
type Options struct {
	Type       Type       `json:"type"`
	Parameters Parameters `json:"parameters"`
}

// Metrics collects fit-quality measures. Routines fill only the fields that
// apply to them.
type Metrics struct {
	MSE            float64 `json:"mse,omitempty"`
	RMSE           float64 `json:"rmse,omitempty"`
	MAE            float64 `json:"mae,omitempty"`
	RSquared       float64 `json:"rSquared,omitempty"`
	Accuracy       float64 `json:"accuracy,omitempty"`
	Precision      float64 `json:"precision,omitempty"`
	Recall         float64 `json:"recall,omitempty"`
	F1Score        float64 `json:"f1Score,omitempty"`
	AUC            float64 `json:"auc,omitempty"`
	Deviance       float64 `json:"deviance,omitempty"`
	NullDeviance   float64 `json:"nullDeviance,omitempty"`
	PseudoRSquared float64 `json:"pseudoRSquared,omitempty"`
}

// Results is the tagged union of per-type result payloads. Each variant
// embeds a human-readable Summary string.
type Results interface {
	Kind() Type
}

// Result is the uniform envelope returned by Analyze. Results are immutable:
// created once per invocation, never mutated.
type Result struct {
	ID              string    `json:"id"`
	Type            Type      `json:"type"`
	TimeSeriesID    string    `json:"timeSeriesId"`
	TargetSeries    string    `json:"targetSeries,omitempty"`
	PredictorSeries []string  `json:"predictorSeries,omitempty"`
	Results         Results   `json:"results"`
	Metrics         *Metrics  `json:"metrics,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Routine is a single stateless analysis algorithm. The dataset is passed
// alongside the resolved point sequence because multivariate regression
// needs to align additional series from it.
type Routine interface {
	// Name returns the analysis type tag this routine handles.
	Name() Type

	// Run computes the typed results payload and optional metrics for the
	// already-sorted working point sequence.
	Run(dataset *timeseries.TimeSeriesData, points []timeseries.DataPoint, params Parameters) (Results, *Metrics, error)
}

var routineRegistry = make(map[Type]Routine)

func registerRoutine(r Routine) {
	routineRegistry[r.Name()] = r
}

// ListRoutines returns the registered analysis type tags, sorted.
func ListRoutines() []string {
	names := make([]string, 0, len(routineRegistry))
	for t := range routineRegistry {
		names = append(names, string(t))
	}
	sort.Strings(names)
	return names
}

// now is swappable in tests so result creation stays deterministic.
var now = time.Now

// targetRequired reports whether the routine cannot run without an explicit
// target series.
func targetRequired(t Type) bool {
	switch t {
	case TypeRegression, TypeLogisticRegression, TypePoissonRegression:
		return true
	}
	return false
}

// Analyze validates the options, resolves the working point sequence, and
// dispatches to the matching routine. It performs no computation itself.
func Analyze(dataset *timeseries.TimeSeriesData, opts Options) (*Result, error) {
	params := opts.Parameters

	if targetRequired(opts.Type) && params.TargetSeries == "" {
		return nil, newValidationError("missing target series for %s analysis", opts.Type)
	}

	var points []timeseries.DataPoint
	if params.TargetSeries != "" {
		points = dataset.ExtractSeries(params.TargetSeries)
		if len(points) == 0 {
			return nil, newValidationError("empty series: %s", params.TargetSeries)
		}
	} else {
		points = dataset.DataPoints
	}

	points = timeseries.SortByTimestamp(points)

	routine, ok := routineRegistry[opts.Type]
	if !ok {
		return nil, newValidationError("unsupported analysis type: %s", opts.Type)
	}

	results, metrics, err := routine.Run(dataset, points, params)
	if err != nil {
		return nil, err
	}

	return &Result{
		ID:              uuid.New().String(),
		Type:            opts.Type,
		TimeSeriesID:    dataset.ID,
		TargetSeries:    params.TargetSeries,
		PredictorSeries: params.PredictorSeries,
		Results:         results,
		Metrics:         metrics,
		CreatedAt:       now(),
	}, nil
}
