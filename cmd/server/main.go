package main

import (
	"fmt"
	"os"

	"github.com/akamensky/argparse"
	"github.com/boyangli/sitesafety-scorer/config"
	"github.com/boyangli/sitesafety-scorer/producer"
	"github.com/boyangli/sitesafety-scorer/server"
	"github.com/cyclopcam/logs"
	"github.com/joho/godotenv"
)

func main() {
	parser := argparse.NewParser("server", "HTTP API that scores detector output")
	addr := parser.String("a", "addr", &argparse.Options{Help: "Listen address (overrides HTTP_ADDR)", Default: ""})
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

	scorer, err := config.NewScoringConfig().NewScorer()
	if err != nil {
		log.Errorf("Failed to create scorer: %v", err)
		os.Exit(1)
	}

	serverConfig := config.NewServerConfig()
	if *addr != "" {
		serverConfig.Addr = *addr
	}

	var publisher server.Publisher
	if serverConfig.PublishReports {
		kafkaProducer, err := producer.NewKafkaProducer(log, config.NewKafkaConfig())
		if err != nil {
			log.Errorf("Failed to create Kafka producer: %v", err)
			os.Exit(1)
		}
		defer kafkaProducer.Close()
		publisher = kafkaProducer
	}

	s := server.NewServer(log, scorer, serverConfig, publisher)
	if err := s.ListenAndServe(); err != nil {
		log.Errorf("HTTP server stopped: %v", err)
	}
}
