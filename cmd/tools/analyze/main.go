package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/trendscope/trendscope/internal/analysis"
	"github.com/trendscope/trendscope/internal/timeseries"
)

// One-shot analysis runner: reads a dataset JSON file, runs a single
// routine against it, and prints the result envelope to stdout.
func main() {
	// Command line flags
	input := flag.String("input", "", "Path to dataset JSON file")
	analysisType := flag.String("type", "descriptive", "Analysis type (descriptive, regression, classification, forecasting, anomaly-detection, logistic-regression, poisson-regression)")
	target := flag.String("target", "", "Target series name (required for regression types)")
	predictors := flag.String("predictors", "", "Comma-separated predictor series names")
	threshold := flag.Float64("threshold", 0, "Classification threshold (0 = series mean)")
	windowSize := flag.Int("window", 0, "Moving-average window size (0 = default)")
	horizon := flag.Int("horizon", 0, "Forecast horizon (0 = default)")
	zScore := flag.Float64("z-score", 0, "Anomaly Z-score threshold (0 = default)")
	pretty := flag.Bool("pretty", true, "Pretty-print the result JSON")

	flag.Parse()

	// Validate required parameters
	if *input == "" {
		log.Fatal("Error: -input parameter is required (path to dataset JSON)")
	}

	data, err := os.ReadFile(*input)
	if err != nil {
		log.Fatalf("Error reading dataset file: %v\n", err)
	}

	var dataset timeseries.TimeSeriesData
	if err := json.Unmarshal(data, &dataset); err != nil {
		log.Fatalf("Error parsing dataset JSON: %v\n", err)
	}

	opts := analysis.Options{
		Type: analysis.Type(*analysisType),
		Parameters: analysis.Parameters{
			TargetSeries:    *target,
			WindowSize:      *windowSize,
			ForecastHorizon: *horizon,
		},
	}
	if *predictors != "" {
		opts.Parameters.PredictorSeries = strings.Split(*predictors, ",")
	}
	if *threshold != 0 {
		opts.Parameters.Threshold = threshold
	}
	if *zScore != 0 {
		opts.Parameters.ZScoreThreshold = zScore
	}

	result, err := analysis.Analyze(&dataset, opts)
	if err != nil {
		log.Fatalf("Analysis failed: %v\n", err)
	}

	var out []byte
	if *pretty {
		out, err = json.MarshalIndent(result, "", "  ")
	} else {
		out, err = json.Marshal(result)
	}
	if err != nil {
		log.Fatalf("Error encoding result: %v\n", err)
	}

	fmt.Println(string(out))
}
