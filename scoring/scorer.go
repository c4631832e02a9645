package scoring

import (
	"github.com/boyangli/sitesafety-scorer/models"
)

// Scorer binds the class maps of the two detectors and the distance threshold.
// It holds no mutable state and may be shared between goroutines.
type Scorer struct {
	FireNames   models.ClassNameMap
	PPENames    models.ClassNameMap
	ThresholdPx float64
}

// NewScorer creates a scorer. A non-positive threshold selects DefaultDistanceThresholdPx.
func NewScorer(fireNames, ppeNames models.ClassNameMap, thresholdPx float64) *Scorer {
	if thresholdPx <= 0 {
		thresholdPx = DefaultDistanceThresholdPx
	}
	return &Scorer{
		FireNames:   fireNames,
		PPENames:    ppeNames,
		ThresholdPx: thresholdPx,
	}
}

// ScoreFrame categorizes and scores one frame
func (s *Scorer) ScoreFrame(fire, ppe models.DetectionSet) FrameScore {
	bundle := Extract(fire, ppe, s.FireNames, s.PPENames)
	return ScoreWithThreshold(bundle, s.ThresholdPx)
}

// ScoreImage scores a single image and renders the result
func (s *Scorer) ScoreImage(fire, ppe models.DetectionSet) models.ImageResult {
	return s.ScoreFrame(fire, ppe).Result()
}

// NewAggregator creates an aggregator for one video
func (s *Scorer) NewAggregator() *Aggregator {
	return NewAggregator(s.ThresholdPx)
}

// ScoreVideo scores every frame and folds them into one aggregate
func (s *Scorer) ScoreVideo(frames []models.Frame) AggregateScore {
	agg := s.NewAggregator()
	for _, f := range frames {
		agg.Add(s.ScoreFrame(f.Fire, f.PPE))
	}
	return agg.Result()
}

// ScoreStream is ScoreVideo for frames arriving on a channel. It returns once the
// channel is closed.
func (s *Scorer) ScoreStream(frames <-chan models.Frame) AggregateScore {
	agg := s.NewAggregator()
	for f := range frames {
		agg.Add(s.ScoreFrame(f.Fire, f.PPE))
	}
	return agg.Result()
}

// SourceScore is the aggregate of one source in a multi-source stream
type SourceScore struct {
	Source string
	Score  AggregateScore
}

// ScoreSources aggregates frames per source, keeping one independent aggregator for each.
// Results are returned in order of each source's first frame once the channel is closed.
func (s *Scorer) ScoreSources(frames <-chan models.Frame) []SourceScore {
	aggs := map[string]*Aggregator{}
	var order []string
	for f := range frames {
		agg, ok := aggs[f.Source]
		if !ok {
			agg = s.NewAggregator()
			aggs[f.Source] = agg
			order = append(order, f.Source)
		}
		agg.Add(s.ScoreFrame(f.Fire, f.PPE))
	}
	results := make([]SourceScore, 0, len(order))
	for _, src := range order {
		results = append(results, SourceScore{Source: src, Score: aggs[src].Result()})
	}
	return results
}
