package config

import (
	"fmt"

	"github.com/boyangli/sitesafety-scorer/labels"
	"github.com/boyangli/sitesafety-scorer/scoring"
)

// ScoringConfig selects the detector label maps and the distance threshold
type ScoringConfig struct {
	FireLabelsPath      string
	PPELabelsPath       string
	DistanceThresholdPx float64
}

// NewScoringConfig creates a scoring configuration from environment variables
func NewScoringConfig() *ScoringConfig {
	return &ScoringConfig{
		FireLabelsPath:      getEnv("FIRE_LABELS_PATH", ""),
		PPELabelsPath:       getEnv("PPE_LABELS_PATH", ""),
		DistanceThresholdPx: getEnvFloat("SCORE_DISTANCE_THRESHOLD_PX", scoring.DefaultDistanceThresholdPx),
	}
}

// NewScorer loads the class maps (falling back to the built-in ones) and builds a scorer
func (c *ScoringConfig) NewScorer() (*scoring.Scorer, error) {
	fireNames, err := labels.ClassNamesOrDefault(c.FireLabelsPath, labels.DefaultFireClasses())
	if err != nil {
		return nil, fmt.Errorf("failed to load fire labels: %w", err)
	}
	ppeNames, err := labels.ClassNamesOrDefault(c.PPELabelsPath, labels.DefaultPPEClasses())
	if err != nil {
		return nil, fmt.Errorf("failed to load PPE labels: %w", err)
	}
	return scoring.NewScorer(fireNames, ppeNames, c.DistanceThresholdPx), nil
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Addr           string
	LogRequests    bool
	MaxBodyBytes   int64
	PublishReports bool
}

// NewServerConfig creates a server configuration from environment variables
func NewServerConfig() *ServerConfig {
	return &ServerConfig{
		Addr:           getEnv("HTTP_ADDR", ":8000"),
		LogRequests:    getEnvBool("HTTP_LOG_REQUESTS", false),
		MaxBodyBytes:   int64(getEnvInt("HTTP_MAX_BODY_BYTES", 32*1024*1024)),
		PublishReports: getEnvBool("HTTP_PUBLISH_REPORTS", false),
	}
}
