package analysis

import (
	"time"

	"github.com/trendscope/trendscope/internal/timeseries"
)

// createTestPoints builds daily points starting 2024-01-01 UTC.
func createTestPoints(values []float64) []timeseries.DataPoint {
	points := make([]timeseries.DataPoint, len(values))
	baseTime := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, v := range values {
		points[i] = timeseries.DataPoint{
			Timestamp: baseTime.Add(time.Duration(i) * 24 * time.Hour).Format(time.RFC3339),
			Value:     v,
		}
	}
	return points
}

// createTestDataset wraps values in a single-series wide dataset named
// "metric".
func createTestDataset(values []float64) *timeseries.TimeSeriesData {
	return &timeseries.TimeSeriesData{
		ID:         "ds-test",
		Name:       "metric",
		DataPoints: createTestPoints(values),
		Metadata:   timeseries.Metadata{Format: timeseries.FormatWide},
	}
}

// createLongDataset builds a long-format dataset from per-series values;
// every series shares the same daily timestamps.
func createLongDataset(series map[string][]float64) *timeseries.TimeSeriesData {
	ds := &timeseries.TimeSeriesData{
		ID:       "ds-long",
		Name:     "longitudinal",
		Metadata: timeseries.Metadata{Format: timeseries.FormatLong},
	}
	baseTime := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for id, values := range series {
		for i, v := range values {
			ds.DataPoints = append(ds.DataPoints, timeseries.DataPoint{
				Timestamp: baseTime.Add(time.Duration(i) * 24 * time.Hour).Format(time.RFC3339),
				Value:     v,
				SeriesID:  id,
			})
		}
	}
	return ds
}
