package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Report kinds
const (
	KindImage = "image"
	KindVideo = "video"
)

// ScoreDetails holds the six sub-scores. Fields are null for a video with no frames.
type ScoreDetails struct {
	Hardhat           *float64 `json:"hardhat"`
	SafetyVest        *float64 `json:"safety_vest"`
	MachineryDistance *float64 `json:"machinery_distance"`
	Vehicle           *float64 `json:"vehicle"`
	PersonCount       *float64 `json:"person_count"`
	FireAndSmoke      *float64 `json:"fire_and_smoke"`
}

// Counts holds per-category detection counts. For videos these are per-frame averages.
type Counts struct {
	Persons      float64 `json:"persons"`
	NoHardhat    float64 `json:"no_hardhat"`
	NoSafetyVest float64 `json:"no_safety_vest"`
	Machineries  float64 `json:"machineries"`
	Vehicles     float64 `json:"vehicles"`
	Fires        float64 `json:"fires"`
	Smokes       float64 `json:"smokes"`
}

// Ratios gives the share of people missing each piece of PPE. Zero when nobody is present.
type Ratios struct {
	NoHardhatPerPerson    float64 `json:"no_hardhat_per_person"`
	NoSafetyVestPerPerson float64 `json:"no_safety_vest_per_person"`
}

// ImageDistance is the closest person-machinery pair in one image, null without a pair
type ImageDistance struct {
	MinPersonMachinery *float64 `json:"min_person_machinery"`
	ThresholdPx        float64  `json:"threshold_px"`
}

// VideoDistance is the closest person-machinery pair over all frames of a video
type VideoDistance struct {
	MinPersonMachineryMinOverall *float64 `json:"min_person_machinery_min_overall"`
	ThresholdPx                  float64  `json:"threshold_px"`
}

// Scores repeats the sub-scores together with the total
type Scores struct {
	Hardhat           float64 `json:"hardhat"`
	SafetyVest        float64 `json:"safety_vest"`
	MachineryDistance float64 `json:"machinery_distance"`
	Vehicle           float64 `json:"vehicle"`
	PersonCount       float64 `json:"person_count"`
	FireAndSmoke      float64 `json:"fire_and_smoke"`
	Total             float64 `json:"total"`
}

// Details converts the scores into non-null ScoreDetails
func (s Scores) Details() ScoreDetails {
	return ScoreDetails{
		Hardhat:           floatPtr(s.Hardhat),
		SafetyVest:        floatPtr(s.SafetyVest),
		MachineryDistance: floatPtr(s.MachineryDistance),
		Vehicle:           floatPtr(s.Vehicle),
		PersonCount:       floatPtr(s.PersonCount),
		FireAndSmoke:      floatPtr(s.FireAndSmoke),
	}
}

// ImageMetrics holds the raw figures behind an image score
type ImageMetrics struct {
	Counts     Counts        `json:"counts"`
	Ratios     Ratios        `json:"ratios"`
	DistancePx ImageDistance `json:"distance_px"`
	Scores     Scores        `json:"scores"`
}

// ImageResult is the scoring outcome for a single image
type ImageResult struct {
	TotalScore float64      `json:"total_score"`
	Details    ScoreDetails `json:"details"`
	Metrics    ImageMetrics `json:"metrics"`
	Explain    string       `json:"explain"`
}

// VideoMetrics holds the frame-averaged figures behind a video score. Scores is omitted when no frame was read.
type VideoMetrics struct {
	CountsAvgPerFrame Counts        `json:"counts_avg_per_frame"`
	DistancePx        VideoDistance `json:"distance_px"`
	Scores            *Scores       `json:"scores,omitempty"`
}

// VideoResult is the frame-averaged scoring outcome for a video
type VideoResult struct {
	TotalScore float64      `json:"total_score"`
	Details    ScoreDetails `json:"details"`
	Metrics    VideoMetrics `json:"metrics"`
	Explain    string       `json:"explain"`
	Frames     int          `json:"frames"`
}

// Report is the envelope published for every scored image or video
type Report struct {
	ReportID    string       `json:"report_id"`
	Kind        string       `json:"kind"`
	Source      string       `json:"source"`
	GeneratedAt time.Time    `json:"generated_at"`
	Image       *ImageResult `json:"image,omitempty"`
	Video       *VideoResult `json:"video,omitempty"`
}

// NewImageReport wraps an image result in a report with a fresh id
func NewImageReport(source string, res ImageResult) *Report {
	return &Report{
		ReportID:    GenerateReportID(),
		Kind:        KindImage,
		Source:      source,
		GeneratedAt: time.Now().UTC(),
		Image:       &res,
	}
}

// NewVideoReport wraps a video result in a report with a fresh id
func NewVideoReport(source string, res VideoResult) *Report {
	return &Report{
		ReportID:    GenerateReportID(),
		Kind:        KindVideo,
		Source:      source,
		GeneratedAt: time.Now().UTC(),
		Video:       &res,
	}
}

// GenerateReportID creates a unique report ID
func GenerateReportID() string {
	return uuid.New().String()
}

// TotalScore returns the total of whichever result the report carries
func (r *Report) TotalScore() float64 {
	switch {
	case r.Image != nil:
		return r.Image.TotalScore
	case r.Video != nil:
		return r.Video.TotalScore
	}
	return 0
}

// ToJSON serializes the Report to JSON
func (r *Report) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}

// ReportFromJSON deserializes JSON to Report
func ReportFromJSON(data []byte) (*Report, error) {
	var r Report
	err := json.Unmarshal(data, &r)
	return &r, err
}

func floatPtr(v float64) *float64 {
	return &v
}
