package scoring

import (
	"strings"
	"testing"

	"github.com/boyangli/sitesafety-scorer/models"
	"github.com/stretchr/testify/assert"
)

func TestExplainOrder(t *testing.T) {
	ppe := concat(repeat(clsPerson, 3), repeat(clsNoHardhat, 2), repeat(clsVehicle, 1))
	lines := strings.Split(Explain(scoreOf(nil, ppe)), "\n")
	assert.Equal(t, []string{
		"2 of 3 people without a hardhat (67%)",
		"0 of 3 people without a safety vest (0%)",
		"No machinery or no people, so no distance risk",
		"1 vehicles detected",
		"3 people detected",
	}, lines)
}

func TestExplainNoPeople(t *testing.T) {
	lines := strings.Split(Explain(scoreOf(nil, repeat(clsMachinery, 2))), "\n")
	assert.Equal(t, []string{
		"No person detected, so the hardhat item was given full marks.",
		"No person detected, so the safety vest item was given full marks.",
		"No machinery or no people, so no distance risk",
		"0 vehicles detected",
		"0 people detected",
	}, lines)
}

func TestExplainDistance(t *testing.T) {
	ppe := models.DetectionSet{det(clsPerson, 0, 0), det(clsMachinery, 100, 100), det(clsNoVest, 0, 0)}
	fs := scoreOf(nil, ppe)
	lines := strings.Split(fs.Result().Explain, "\n")
	assert.Equal(t, "0 of 1 people without a hardhat (0%)", lines[0])
	assert.Equal(t, "1 of 1 people without a safety vest (100%)", lines[1])
	assert.Equal(t, "Minimum person-machinery distance 141px (threshold 500px)", lines[2])
}

func TestExplainAggregateNoFrames(t *testing.T) {
	assert.Equal(t, NoFramesExplanation, ExplainAggregate(AggregateScore{}))
}
