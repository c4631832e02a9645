package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/akamensky/argparse"
	"github.com/boyangli/sitesafety-scorer/config"
	"github.com/boyangli/sitesafety-scorer/ingestion"
	"github.com/boyangli/sitesafety-scorer/models"
	"github.com/boyangli/sitesafety-scorer/producer"
	"github.com/boyangli/sitesafety-scorer/scoring"
	"github.com/cyclopcam/logs"
	"github.com/joho/godotenv"
)

func main() {
	parser := argparse.NewParser("scorer", "Score detector output per video and publish the reports to Kafka")
	csvPath := parser.String("c", "csv", &argparse.Options{Help: "Path to detection CSV file", Required: true})
	source := parser.String("s", "source", &argparse.Options{Help: "Source name for CSVs without a source column (defaults to the file name)", Default: ""})
	workers := parser.Int("w", "workers", &argparse.Options{Help: "Number of concurrent goroutines publishing reports", Default: 4})
	batchMode := parser.Flag("b", "batch", &argparse.Options{Help: "Read the whole CSV before scoring instead of streaming it"})
	if err := parser.Parse(os.Args); err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	log, err := logs.NewLog()
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	if err := godotenv.Load(); err != nil {
		log.Infof("No .env file found, using environment variables")
	}

	log.Infof("CSV Path: %s", *csvPath)
	log.Infof("Workers: %d", *workers)
	log.Infof("Mode: %s", getMode(*batchMode))

	scorer, err := config.NewScoringConfig().NewScorer()
	if err != nil {
		log.Errorf("Failed to create scorer: %v", err)
		os.Exit(1)
	}

	kafkaProducer, err := producer.NewKafkaProducer(log, config.NewKafkaConfig())
	if err != nil {
		log.Errorf("Failed to create Kafka producer: %v", err)
		os.Exit(1)
	}
	defer kafkaProducer.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Infof("Received shutdown signal")
		kafkaProducer.Close()
		os.Exit(0)
	}()

	csvReader := ingestion.NewCSVReader(log, *csvPath, *source)
	startTime := time.Now()

	if *batchMode {
		frames, err := csvReader.ReadAll()
		if err != nil {
			log.Errorf("Failed to read CSV: %v", err)
			os.Exit(1)
		}
		frameChan := make(chan models.Frame, len(frames))
		for _, f := range frames {
			frameChan <- f
		}
		close(frameChan)

		reports := toReports(log, scorer.ScoreSources(frameChan))
		if err := kafkaProducer.SendReportBatch(reports, *workers); err != nil {
			log.Warnf("Batch send errors: %v", err)
		}
	} else {
		frameChan := make(chan models.Frame, 1000)
		go func() {
			if err := csvReader.StreamToChannel(frameChan); err != nil {
				log.Errorf("CSV streaming error: %v", err)
			}
			close(frameChan)
		}()

		reportChan := make(chan *models.Report, 100)
		go func() {
			for _, r := range toReports(log, scorer.ScoreSources(frameChan)) {
				reportChan <- r
			}
			close(reportChan)
		}()

		if err := kafkaProducer.StreamFromChannel(reportChan, *workers); err != nil {
			log.Warnf("Stream errors: %v", err)
		}
	}

	kafkaProducer.Flush(90 * time.Second)

	elapsed := time.Since(startTime)
	kafkaProducer.LogMetrics()
	log.Infof("Total Time: %v", elapsed)
}

func toReports(log logs.Log, results []scoring.SourceScore) []*models.Report {
	reports := make([]*models.Report, 0, len(results))
	for _, r := range results {
		report := models.NewVideoReport(r.Source, r.Score.Result())
		if r.Score.Frames == 0 {
			log.Warnf("%v: %v", r.Source, report.Video.Explain)
		} else {
			log.Infof("%v: %d frames, total score %.2f", r.Source, r.Score.Frames, report.TotalScore())
		}
		reports = append(reports, report)
	}
	return reports
}

func getMode(batchMode bool) string {
	if batchMode {
		return "BATCH"
	}
	return "STREAMING"
}
