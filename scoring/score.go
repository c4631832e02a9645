// Package scoring turns detector output into site safety scores.
//
// Each of six sub-scores lies on a 0-10 scale where 10 is safest. The total is the sum of
// the hardhat, safety vest, machinery distance, vehicle and person count sub-scores. The
// fire/smoke sub-score is reported alongside but is not part of the total.
package scoring

import (
	"math"

	"github.com/boyangli/sitesafety-scorer/models"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	// DefaultDistanceThresholdPx is the person-machinery distance at and beyond which there is no risk
	DefaultDistanceThresholdPx = 500.0

	// The machinery distance score drops by one for every step the minimum distance falls below the threshold
	distanceStepPx = 50.0

	maxScore = 10.0
)

// Counts holds the number of detections per category in one frame, or summed over frames
type Counts struct {
	Persons      int
	NoHardhat    int
	NoSafetyVest int
	Machineries  int
	Vehicles     int
	Fires        int
	Smokes       int
}

func (c *Counts) add(o Counts) {
	c.Persons += o.Persons
	c.NoHardhat += o.NoHardhat
	c.NoSafetyVest += o.NoSafetyVest
	c.Machineries += o.Machineries
	c.Vehicles += o.Vehicles
	c.Fires += o.Fires
	c.Smokes += o.Smokes
}

// FrameScore is the scoring outcome of one image or frame, at full precision
type FrameScore struct {
	Hardhat           float64
	SafetyVest        float64
	MachineryDistance float64
	Vehicle           float64
	PersonCount       float64
	FireAndSmoke      float64
	Total             float64

	Counts         Counts
	NoHardhatRatio float64
	NoVestRatio    float64
	MinDistancePx  *float64 // nil when there are no people or no machinery
	ThresholdPx    float64
}

// Score computes the frame score using the default distance threshold
func Score(b CategoryBundle) FrameScore {
	return ScoreWithThreshold(b, DefaultDistanceThresholdPx)
}

// ScoreWithThreshold computes the frame score. It is a pure function of its inputs.
func ScoreWithThreshold(b CategoryBundle, thresholdPx float64) FrameScore {
	counts := b.Counts()
	fs := FrameScore{
		Counts:      counts,
		ThresholdPx: thresholdPx,
	}

	fs.Hardhat, fs.NoHardhatRatio = complianceScore(counts.NoHardhat, counts.Persons)
	fs.SafetyVest, fs.NoVestRatio = complianceScore(counts.NoSafetyVest, counts.Persons)

	fs.MinDistancePx = minPersonMachineryDistance(b.Person, b.Machinery)
	fs.MachineryDistance = distanceScore(fs.MinDistancePx, thresholdPx)

	fs.Vehicle = vehicleScore(counts.Vehicles)
	fs.PersonCount = personCountScore(counts.Persons)

	if counts.Fires > 0 || counts.Smokes > 0 {
		fs.FireAndSmoke = 0
	} else {
		fs.FireAndSmoke = maxScore
	}

	fs.Total = fs.Hardhat + fs.SafetyVest + fs.MachineryDistance + fs.Vehicle + fs.PersonCount
	return fs
}

// complianceScore scores the share of people missing a piece of PPE.
// With nobody in frame the item gets full marks.
func complianceScore(missing, persons int) (score, ratio float64) {
	if persons == 0 {
		return maxScore, 0
	}
	ratio = float64(missing) / float64(persons)
	return math.Max(0, maxScore-ratio*maxScore), ratio
}

func minPersonMachineryDistance(persons, machinery models.DetectionSet) *float64 {
	if len(persons) == 0 || len(machinery) == 0 {
		return nil
	}
	best := math.Inf(1)
	for _, p := range persons {
		pc := toVec(p.Center())
		for _, m := range machinery {
			if d := r2.Norm(r2.Sub(pc, toVec(m.Center()))); d < best {
				best = d
			}
		}
	}
	return &best
}

func distanceScore(minDistance *float64, thresholdPx float64) float64 {
	if minDistance == nil {
		return maxScore
	}
	shortfall := math.Max(0, thresholdPx-*minDistance)
	return math.Max(0, maxScore-math.Ceil(shortfall/distanceStepPx))
}

func vehicleScore(vehicles int) float64 {
	switch vehicles {
	case 0:
		return 10
	case 1:
		return 7
	case 2:
		return 4
	}
	return 0
}

// personCountScore is deliberately not monotonic: an empty site and a large crew both
// score 10, while small groups of one to four are penalized, a lone worker most.
func personCountScore(persons int) float64 {
	switch {
	case persons == 0 || persons >= 5:
		return 10
	case persons == 1:
		return 0
	case persons == 2:
		return 4
	case persons == 3:
		return 6
	}
	return 8
}

func toVec(p models.Point) r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

func roundPtr(v *float64, places int) *float64 {
	if v == nil {
		return nil
	}
	r := round(*v, places)
	return &r
}

func (fs FrameScore) scores() models.Scores {
	return models.Scores{
		Hardhat:           round(fs.Hardhat, 2),
		SafetyVest:        round(fs.SafetyVest, 2),
		MachineryDistance: round(fs.MachineryDistance, 2),
		Vehicle:           round(fs.Vehicle, 2),
		PersonCount:       round(fs.PersonCount, 2),
		FireAndSmoke:      round(fs.FireAndSmoke, 2),
		Total:             round(fs.Total, 2),
	}
}

// Result renders the frame score in its serialized form, rounding at this boundary only
func (fs FrameScore) Result() models.ImageResult {
	scores := fs.scores()
	var ratios models.Ratios
	if fs.Counts.Persons > 0 {
		ratios.NoHardhatPerPerson = round(fs.NoHardhatRatio, 3)
		ratios.NoSafetyVestPerPerson = round(fs.NoVestRatio, 3)
	}
	return models.ImageResult{
		TotalScore: scores.Total,
		Details:    scores.Details(),
		Metrics: models.ImageMetrics{
			Counts: models.Counts{
				Persons:      float64(fs.Counts.Persons),
				NoHardhat:    float64(fs.Counts.NoHardhat),
				NoSafetyVest: float64(fs.Counts.NoSafetyVest),
				Machineries:  float64(fs.Counts.Machineries),
				Vehicles:     float64(fs.Counts.Vehicles),
				Fires:        float64(fs.Counts.Fires),
				Smokes:       float64(fs.Counts.Smokes),
			},
			Ratios: ratios,
			DistancePx: models.ImageDistance{
				MinPersonMachinery: roundPtr(fs.MinDistancePx, 1),
				ThresholdPx:        fs.ThresholdPx,
			},
			Scores: scores,
		},
		Explain: Explain(fs),
	}
}
