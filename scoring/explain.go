package scoring

import (
	"fmt"
	"math"
	"strings"
)

// NoFramesExplanation is reported for a video in which no frame could be read
const NoFramesExplanation = "No frames could be read from the video."

type explanation struct {
	persons      int
	noHardhat    int
	noVest       int
	vehicles     int
	hardhatRatio float64
	vestRatio    float64
	minDistance  *float64
	thresholdPx  float64
	average      bool
}

// Explain renders a frame score as newline separated sentences, always in the order
// hardhat, safety vest, machinery distance, vehicles, people.
func Explain(fs FrameScore) string {
	return explanation{
		persons:      fs.Counts.Persons,
		noHardhat:    fs.Counts.NoHardhat,
		noVest:       fs.Counts.NoSafetyVest,
		vehicles:     fs.Counts.Vehicles,
		hardhatRatio: fs.NoHardhatRatio,
		vestRatio:    fs.NoVestRatio,
		minDistance:  fs.MinDistancePx,
		thresholdPx:  fs.ThresholdPx,
	}.String()
}

// ExplainAggregate renders a video aggregate with the same sentences as Explain, using
// per-frame average counts rounded to whole numbers and the minimum distance over the
// whole stream. The distance is only mentioned when the average person count is nonzero.
func ExplainAggregate(a AggregateScore) string {
	if a.Frames == 0 {
		return NoFramesExplanation
	}
	e := explanation{
		persons:     int(math.Round(a.AvgCounts.Persons)),
		noHardhat:   int(math.Round(a.AvgCounts.NoHardhat)),
		noVest:      int(math.Round(a.AvgCounts.NoSafetyVest)),
		vehicles:    int(math.Round(a.AvgCounts.Vehicles)),
		thresholdPx: a.ThresholdPx,
		average:     true,
	}
	if e.persons > 0 {
		e.hardhatRatio = float64(e.noHardhat) / float64(e.persons)
		e.vestRatio = float64(e.noVest) / float64(e.persons)
		// Reported distance is rounded to 0.1px before the sentence truncates it
		e.minDistance = roundPtr(a.MinDistancePx, 1)
	}
	return e.String()
}

func (e explanation) String() string {
	prefix := ""
	if e.average {
		prefix = "On average, "
	}
	var lines []string
	if e.persons == 0 {
		lines = append(lines,
			"No person detected, so the hardhat item was given full marks.",
			"No person detected, so the safety vest item was given full marks.")
	} else {
		lines = append(lines,
			fmt.Sprintf("%s%d of %d people without a hardhat (%s)", prefix, e.noHardhat, e.persons, percent(e.hardhatRatio)),
			fmt.Sprintf("%s%d of %d people without a safety vest (%s)", prefix, e.noVest, e.persons, percent(e.vestRatio)))
	}
	if e.minDistance != nil {
		lines = append(lines, fmt.Sprintf("Minimum person-machinery distance %dpx (threshold %.0fpx)", int(*e.minDistance), e.thresholdPx))
	} else {
		lines = append(lines, "No machinery or no people, so no distance risk")
	}
	lines = append(lines,
		fmt.Sprintf("%s%d vehicles detected", prefix, e.vehicles),
		fmt.Sprintf("%s%d people detected", prefix, e.persons))
	return strings.Join(lines, "\n")
}

func percent(ratio float64) string {
	return fmt.Sprintf("%.0f%%", ratio*100)
}
