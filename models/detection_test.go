package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectionSerialization(t *testing.T) {
	detection := &Detection{
		ClassID:    5,
		ClassName:  "Person",
		Confidence: 0.5249,
		Box:        Box{X1: 100, Y1: 200, X2: 140, Y2: 300},
	}

	jsonBytes, err := json.Marshal(detection)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(jsonBytes, &raw))
	require.Contains(t, raw, "box")

	parsed := &Detection{}
	require.NoError(t, json.Unmarshal(jsonBytes, parsed))
	assert.Equal(t, 5, parsed.ClassID)
	assert.Equal(t, "Person", parsed.ClassName)
	assert.Equal(t, 0.5249, parsed.Confidence)
	assert.Equal(t, detection.Box, parsed.Box)
}

func TestDetectionCenter(t *testing.T) {
	d := Detection{Box: Box{X1: 100, Y1: 200, X2: 140, Y2: 300}}
	assert.Equal(t, Point{X: 120, Y: 250}, d.Center())
}

func TestClassNameMapFallback(t *testing.T) {
	names := ClassNameMap{0: "fire", 1: "smoke"}
	assert.Equal(t, "smoke", names.Name(1))
	assert.Equal(t, "7", names.Name(7))

	var empty ClassNameMap
	assert.Equal(t, "0", empty.Name(0))
}

func TestReportNullDetails(t *testing.T) {
	report := &Report{
		ReportID:    "test-123",
		Kind:        KindVideo,
		Source:      "site-cam-1.mp4",
		GeneratedAt: time.Now(),
		Video:       &VideoResult{Explain: "no frames"},
	}

	jsonBytes, err := report.ToJSON()
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(jsonBytes, &raw))
	video := raw["video"].(map[string]interface{})
	details := video["details"].(map[string]interface{})
	assert.Contains(t, details, "hardhat")
	assert.Nil(t, details["hardhat"])
	assert.NotContains(t, video["metrics"].(map[string]interface{}), "scores")
	assert.NotContains(t, raw, "image")

	parsed, err := ReportFromJSON(jsonBytes)
	require.NoError(t, err)
	assert.Equal(t, "test-123", parsed.ReportID)
	assert.Nil(t, parsed.Video.Details.Hardhat)
}

func TestScoresDetails(t *testing.T) {
	s := Scores{Hardhat: 3.33, SafetyVest: 10, Vehicle: 7, PersonCount: 6, FireAndSmoke: 0, Total: 36.33}
	d := s.Details()
	require.NotNil(t, d.Hardhat)
	assert.Equal(t, 3.33, *d.Hardhat)
	require.NotNil(t, d.FireAndSmoke)
	assert.Equal(t, 0.0, *d.FireAndSmoke)

	report := &Report{Image: &ImageResult{TotalScore: s.Total}}
	assert.Equal(t, 36.33, report.TotalScore())
}

func TestNewReports(t *testing.T) {
	img := NewImageReport("crane.jpg", ImageResult{TotalScore: 40})
	assert.Equal(t, KindImage, img.Kind)
	assert.Equal(t, "crane.jpg", img.Source)
	assert.Nil(t, img.Video)
	assert.Equal(t, 40.0, img.TotalScore())

	vid := NewVideoReport("yard.mp4", VideoResult{Frames: 3})
	assert.Equal(t, KindVideo, vid.Kind)
	assert.Equal(t, 3, vid.Video.Frames)
	assert.NotEmpty(t, vid.ReportID)
	assert.NotEqual(t, img.ReportID, vid.ReportID)
}
