package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/akamensky/argparse"
	"github.com/boyangli/sitesafety-scorer/config"
	"github.com/boyangli/sitesafety-scorer/ingestion"
	"github.com/boyangli/sitesafety-scorer/models"
	"github.com/cyclopcam/logs"
	"github.com/joho/godotenv"
)

// Scores a detection CSV and prints the reports, without Kafka
func main() {
	parser := argparse.NewParser("dryrun", "Score a detection CSV and print the reports as JSON (no Kafka required)")
	csvPath := parser.String("c", "csv", &argparse.Options{Help: "Path to detection CSV file", Required: true})
	source := parser.String("s", "source", &argparse.Options{Help: "Source name for CSVs without a source column", Default: ""})
	limit := parser.Int("l", "limit", &argparse.Options{Help: "Number of reports to print", Default: 10})
	frames := parser.Flag("f", "frames", &argparse.Options{Help: "Also print a score for every frame"})
	if err := parser.Parse(os.Args); err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	log, err := logs.NewLog()
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	godotenv.Load()

	scorer, err := config.NewScoringConfig().NewScorer()
	if err != nil {
		log.Errorf("Failed to create scorer: %v", err)
		os.Exit(1)
	}

	startTime := time.Now()
	all, err := ingestion.NewCSVReader(log, *csvPath, *source).ReadAll()
	if err != nil {
		log.Errorf("Failed to read CSV: %v", err)
		os.Exit(1)
	}

	if *frames {
		for _, f := range all {
			res := scorer.ScoreImage(f.Fire, f.PPE)
			fmt.Printf("%v #%d: %.2f\n", f.Source, f.Number, res.TotalScore)
		}
	}

	frameChan := make(chan models.Frame, len(all))
	for _, f := range all {
		frameChan <- f
	}
	close(frameChan)

	printed := 0
	for _, r := range scorer.ScoreSources(frameChan) {
		if printed >= *limit {
			break
		}
		report := models.NewVideoReport(r.Source, r.Score.Result())
		b, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			log.Errorf("Failed to encode report: %v", err)
			continue
		}
		fmt.Println(string(b))
		printed++
	}

	log.Infof("Scored %d frames in %v", len(all), time.Since(startTime))
}
