package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKafkaConfigDefaults(t *testing.T) {
	t.Setenv("KAFKA_TOPIC", "")
	t.Setenv("KAFKA_MAX_IN_FLIGHT", "not-a-number")
	t.Setenv("KAFKA_SECURITY_PROTOCOL", "")
	cfg := NewKafkaConfig()
	assert.Equal(t, "site-safety-scores", cfg.Topic)
	assert.Equal(t, 5, cfg.MaxInFlight)
	assert.False(t, cfg.UsesSASL())
}

func TestKafkaConfigFromEnv(t *testing.T) {
	t.Setenv("KAFKA_TOPIC", "scores")
	t.Setenv("KAFKA_SECURITY_PROTOCOL", "SASL_SSL")
	t.Setenv("KAFKA_LINGER_MS", "25")
	cfg := NewKafkaConfig()
	assert.Equal(t, "scores", cfg.Topic)
	assert.Equal(t, 25, cfg.LingerMS)
	assert.True(t, cfg.UsesSASL())
}

func TestScoringConfig(t *testing.T) {
	t.Setenv("SCORE_DISTANCE_THRESHOLD_PX", "")
	t.Setenv("FIRE_LABELS_PATH", "")
	t.Setenv("PPE_LABELS_PATH", "")
	cfg := NewScoringConfig()
	assert.Equal(t, 500.0, cfg.DistanceThresholdPx)

	scorer, err := cfg.NewScorer()
	require.NoError(t, err)
	assert.Equal(t, "NO-Hardhat", scorer.PPENames.Name(2))
	assert.Equal(t, "fire", scorer.FireNames.Name(0))
}

func TestScoringConfigLabelFiles(t *testing.T) {
	dir := t.TempDir()
	firePath := filepath.Join(dir, "fire.txt")
	require.NoError(t, os.WriteFile(firePath, []byte("smoke\nfire\n"), 0644))

	t.Setenv("FIRE_LABELS_PATH", firePath)
	t.Setenv("PPE_LABELS_PATH", "")
	t.Setenv("SCORE_DISTANCE_THRESHOLD_PX", "320")
	scorer, err := NewScoringConfig().NewScorer()
	require.NoError(t, err)
	assert.Equal(t, "smoke", scorer.FireNames.Name(0))
	assert.Equal(t, 320.0, scorer.ThresholdPx)

	t.Setenv("PPE_LABELS_PATH", filepath.Join(dir, "missing.txt"))
	_, err = NewScoringConfig().NewScorer()
	require.Error(t, err)
}

func TestServerConfig(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("HTTP_PUBLISH_REPORTS", "true")
	t.Setenv("HTTP_LOG_REQUESTS", "")
	cfg := NewServerConfig()
	assert.Equal(t, ":8000", cfg.Addr)
	assert.True(t, cfg.PublishReports)
	assert.False(t, cfg.LogRequests)
}
