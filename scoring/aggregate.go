package scoring

import (
	"github.com/boyangli/sitesafety-scorer/models"
	"gonum.org/v1/gonum/floats"
)

// CountAverages holds per-frame average counts
type CountAverages struct {
	Persons      float64
	NoHardhat    float64
	NoSafetyVest float64
	Machineries  float64
	Vehicles     float64
	Fires        float64
	Smokes       float64
}

// AggregateScore is the outcome of a whole video. Sub-scores and counts are averaged
// over frames; the distance is the minimum over all frames.
type AggregateScore struct {
	Frames int

	Hardhat           float64
	SafetyVest        float64
	MachineryDistance float64
	Vehicle           float64
	PersonCount       float64
	FireAndSmoke      float64
	Total             float64

	CountSums     Counts
	AvgCounts     CountAverages
	MinDistancePx *float64
	ThresholdPx   float64
}

// Aggregator accumulates frame scores for one video. It is not safe for concurrent use;
// create one per video.
type Aggregator struct {
	thresholdPx float64
	frames      int

	hardhat           float64
	safetyVest        float64
	machineryDistance float64
	vehicle           float64
	personCount       float64
	fireAndSmoke      float64

	counts      Counts
	minDistance *float64
	totals      []float64
}

// NewAggregator creates an empty aggregator for one video
func NewAggregator(thresholdPx float64) *Aggregator {
	return &Aggregator{thresholdPx: thresholdPx}
}

// Add folds one frame into the running sums
func (a *Aggregator) Add(fs FrameScore) {
	a.frames++
	a.hardhat += fs.Hardhat
	a.safetyVest += fs.SafetyVest
	a.machineryDistance += fs.MachineryDistance
	a.vehicle += fs.Vehicle
	a.personCount += fs.PersonCount
	a.fireAndSmoke += fs.FireAndSmoke
	a.counts.add(fs.Counts)
	if fs.MinDistancePx != nil && (a.minDistance == nil || *fs.MinDistancePx < *a.minDistance) {
		d := *fs.MinDistancePx
		a.minDistance = &d
	}
	a.totals = append(a.totals, fs.Total)
}

// Result returns the aggregate of all frames added so far
func (a *Aggregator) Result() AggregateScore {
	agg := AggregateScore{
		Frames:      a.frames,
		CountSums:   a.counts,
		ThresholdPx: a.thresholdPx,
	}
	if a.frames == 0 {
		return agg
	}
	n := float64(a.frames)
	agg.Hardhat = a.hardhat / n
	agg.SafetyVest = a.safetyVest / n
	agg.MachineryDistance = a.machineryDistance / n
	agg.Vehicle = a.vehicle / n
	agg.PersonCount = a.personCount / n
	agg.FireAndSmoke = a.fireAndSmoke / n
	agg.Total = floats.Sum(a.totals) / n
	agg.AvgCounts = CountAverages{
		Persons:      float64(a.counts.Persons) / n,
		NoHardhat:    float64(a.counts.NoHardhat) / n,
		NoSafetyVest: float64(a.counts.NoSafetyVest) / n,
		Machineries:  float64(a.counts.Machineries) / n,
		Vehicles:     float64(a.counts.Vehicles) / n,
		Fires:        float64(a.counts.Fires) / n,
		Smokes:       float64(a.counts.Smokes) / n,
	}
	if a.minDistance != nil {
		d := *a.minDistance
		agg.MinDistancePx = &d
	}
	return agg
}

// Aggregate folds a sequence of frame scores
func Aggregate(thresholdPx float64, frames []FrameScore) AggregateScore {
	a := NewAggregator(thresholdPx)
	for _, fs := range frames {
		a.Add(fs)
	}
	return a.Result()
}

// Result renders the aggregate in its serialized form. A video with no frames yields null
// sub-scores, a zero total and an explanation saying nothing was read.
func (a AggregateScore) Result() models.VideoResult {
	res := models.VideoResult{
		Frames:  a.Frames,
		Explain: ExplainAggregate(a),
		Metrics: models.VideoMetrics{
			DistancePx: models.VideoDistance{
				MinPersonMachineryMinOverall: roundPtr(a.MinDistancePx, 1),
				ThresholdPx:                  a.ThresholdPx,
			},
		},
	}
	if a.Frames == 0 {
		return res
	}
	scores := models.Scores{
		Hardhat:           round(a.Hardhat, 2),
		SafetyVest:        round(a.SafetyVest, 2),
		MachineryDistance: round(a.MachineryDistance, 2),
		Vehicle:           round(a.Vehicle, 2),
		PersonCount:       round(a.PersonCount, 2),
		FireAndSmoke:      round(a.FireAndSmoke, 2),
		Total:             round(a.Total, 2),
	}
	res.TotalScore = scores.Total
	res.Details = scores.Details()
	res.Metrics.Scores = &scores
	res.Metrics.CountsAvgPerFrame = models.Counts{
		Persons:      round(a.AvgCounts.Persons, 2),
		NoHardhat:    round(a.AvgCounts.NoHardhat, 2),
		NoSafetyVest: round(a.AvgCounts.NoSafetyVest, 2),
		Machineries:  round(a.AvgCounts.Machineries, 2),
		Vehicles:     round(a.AvgCounts.Vehicles, 2),
		Fires:        round(a.AvgCounts.Fires, 2),
		Smokes:       round(a.AvgCounts.Smokes, 2),
	}
	return res
}
