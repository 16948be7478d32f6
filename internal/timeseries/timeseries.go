// Package timeseries defines the canonical longitudinal data model consumed
// by the analysis engine, plus the series-resolution helpers that turn
// heterogeneous dataset layouts into analysis-ready numeric sequences.
package timeseries

import (
	"sort"
	"time"
)

// Format describes how series are laid out inside a dataset.
type Format string

const (
	// FormatWide means the dataset instance holds exactly one series; points
	// carry no per-row series tag.
	FormatWide Format = "wide"
	// FormatLong means each point is tagged with the series it belongs to.
	FormatLong Format = "long"
)

// DataPoint is a single observation. Timestamps stay as ISO-8601 (RFC3339)
// strings; upstream import validates them before they reach the engine.
type DataPoint struct {
	Timestamp string  `json:"timestamp"`
	Value     float64 `json:"value"`
	Category  string  `json:"category,omitempty"`
	SubjectID string  `json:"subjectId,omitempty"`
	SeriesID  string  `json:"seriesId,omitempty"`
}

// Time parses the point's timestamp. Unparseable timestamps yield the zero
// time, which sorts first; the engine does not revalidate upstream input.
func (p DataPoint) Time() time.Time {
	t, err := time.Parse(time.RFC3339, p.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Metadata carries dataset-level interpretation hints.
type Metadata struct {
	Format      Format `json:"format"`
	Unit        string `json:"unit,omitempty"`
	Description string `json:"description,omitempty"`
}

// TimeSeriesData is a named dataset of observations, possibly spanning
// multiple tagged series. It is created by import/simulation collaborators
// and passed read-only into the engine.
type TimeSeriesData struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	DataPoints []DataPoint `json:"dataPoints"`
	Metadata   Metadata    `json:"metadata"`
}

// SortByTimestamp returns a copy of points sorted ascending by parsed
// timestamp. The sort is stable: order among equal timestamps is preserved.
func SortByTimestamp(points []DataPoint) []DataPoint {
	sorted := make([]DataPoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time().Before(sorted[j].Time())
	})
	return sorted
}

// ExtractSeries returns the points belonging to the named series.
// Long-format datasets filter by per-point tag; wide-format datasets
// represent a single series and match on the dataset name. An empty result
// is not an error - callers must check emptiness themselves.
func (d *TimeSeriesData) ExtractSeries(seriesID string) []DataPoint {
	if d.Metadata.Format == FormatLong {
		var matched []DataPoint
		for _, p := range d.DataPoints {
			if p.SeriesID == seriesID {
				matched = append(matched, p)
			}
		}
		return matched
	}

	if seriesID == d.Name {
		points := make([]DataPoint, len(d.DataPoints))
		copy(points, d.DataPoints)
		return points
	}
	return nil
}

// AlignedSeries holds a target series and its predictors resolved onto the
// target's timestamp grid.
type AlignedSeries struct {
	Timestamps      []string
	TargetValues    []float64
	PredictorValues [][]float64
}

// AlignSeries aligns predictor series onto the sorted target series'
// timestamps. Predictor values are looked up by exact string match on the
// timestamp; a missing timestamp substitutes 0 (no interpolation). Each
// predictor vector is then min-max normalized to [0,1] so regression stays
// numerically stable regardless of the predictor's native scale.
func (d *TimeSeriesData) AlignSeries(targetID string, predictorIDs []string) *AlignedSeries {
	target := SortByTimestamp(d.ExtractSeries(targetID))

	aligned := &AlignedSeries{
		Timestamps:      make([]string, len(target)),
		TargetValues:    make([]float64, len(target)),
		PredictorValues: make([][]float64, len(predictorIDs)),
	}
	for i, p := range target {
		aligned.Timestamps[i] = p.Timestamp
		aligned.TargetValues[i] = p.Value
	}

	for pi, predictorID := range predictorIDs {
		byTimestamp := make(map[string]float64)
		for _, p := range d.ExtractSeries(predictorID) {
			// First occurrence wins on duplicate timestamps.
			if _, exists := byTimestamp[p.Timestamp]; !exists {
				byTimestamp[p.Timestamp] = p.Value
			}
		}

		values := make([]float64, len(target))
		for i, ts := range aligned.Timestamps {
			values[i] = byTimestamp[ts] // 0 when absent
		}
		aligned.PredictorValues[pi] = MinMaxNormalize(values)
	}

	return aligned
}

// FilterValidTimestamps returns the timestamps at which every requested
// series has at least one point, in chronological order. Regression uses
// this as a precondition check and requires at least 2 shared timestamps.
func (d *TimeSeriesData) FilterValidTimestamps(seriesIDs []string) []string {
	counts := make(map[string]int)
	for _, id := range seriesIDs {
		seen := make(map[string]bool)
		for _, p := range d.ExtractSeries(id) {
			if !seen[p.Timestamp] {
				seen[p.Timestamp] = true
				counts[p.Timestamp]++
			}
		}
	}

	var shared []DataPoint
	for ts, count := range counts {
		if count == len(seriesIDs) {
			shared = append(shared, DataPoint{Timestamp: ts})
		}
	}
	shared = SortByTimestamp(shared)

	timestamps := make([]string, len(shared))
	for i, p := range shared {
		timestamps[i] = p.Timestamp
	}
	return timestamps
}

// MinMaxNormalize scales values to [0,1]. A zero-range input (constant
// series) short-circuits to all zeros rather than dividing by zero.
func MinMaxNormalize(values []float64) []float64 {
	normalized := make([]float64, len(values))
	if len(values) == 0 {
		return normalized
	}

	minVal, maxVal := values[0], values[0]
	for _, v := range values {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}

	span := maxVal - minVal
	if span == 0 {
		return normalized
	}
	for i, v := range values {
		normalized[i] = (v - minVal) / span
	}
	return normalized
}
