package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/clinify/backend/internal/catalog"
	"github.com/clinify/backend/internal/evaluation"
	"github.com/clinify/backend/internal/matcher"
	appLogger "github.com/clinify/backend/pkg/logger"
)

func main() {
	datasetPath := flag.String("dataset", "", "path to a JSON dataset of {text, expected} items")
	catalogPath := flag.String("catalog", "", "conditions JSON file (default: embedded catalog)")
	asJSON := flag.Bool("json", false, "print the full report as JSON")
	logLevel := flag.String("log-level", "warn", "log level")
	flag.Parse()

	if *datasetPath == "" {
		fmt.Fprintln(os.Stderr, "usage: evaluate -dataset file.json [-catalog conditions.json] [-json]")
		os.Exit(2)
	}

	if err := appLogger.Init(*logLevel, "console", "stderr"); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	cat, err := catalog.Load(*catalogPath)
	if err != nil {
		appLogger.Fatal("Failed to load condition catalog", zap.Error(err))
	}

	dataset, err := evaluation.LoadDataset(*datasetPath)
	if err != nil {
		appLogger.Fatal("Failed to load dataset", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, err := evaluation.NewEvaluator(cat).RunDatasetEvaluation(ctx, dataset)
	if err != nil {
		appLogger.Fatal("Evaluation failed", zap.Error(err))
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			appLogger.Fatal("Failed to write report", zap.Error(err))
		}
		return
	}

	printSummary(report)
}

func printSummary(report *evaluation.EvaluationReport) {
	fmt.Printf("Items:        %d\n", report.TotalItems)
	fmt.Printf("Top-1:        %d (%.1f%%)\n", report.Top1Hits, report.Top1Rate*100)
	fmt.Printf("Top-3:        %d (%.1f%%)\n", report.Top3Hits, report.Top3Rate*100)
	fmt.Printf("No symptoms:  %d\n", report.NoSymptomsCount)
	fmt.Printf("No match:     %d\n", report.NoMatchCount)

	for _, label := range []matcher.Confidence{matcher.ConfidenceHigh, matcher.ConfidenceMedium, matcher.ConfidenceLow} {
		fmt.Printf("Top match %-7s %d\n", string(label)+":", report.ConfidenceCounts[label])
	}

	for _, item := range report.Items {
		if item.Rank == 1 {
			continue
		}
		fmt.Printf("MISS rank=%d expected=%q got=%v text=%q\n", item.Rank, item.Expected, item.Ranked, item.Text)
	}
}
