// Package aggregate holds the pure state-transition and trend math for
// session-level metrics.
package aggregate

import (
	"math"
	"time"

	"github.com/hareshchavan26/aimockinterviewer2-sub003/internal/analysis"
	"github.com/hareshchavan26/aimockinterviewer2-sub003/internal/hesitation"
	"github.com/hareshchavan26/aimockinterviewer2-sub003/internal/insight"
	"github.com/hareshchavan26/aimockinterviewer2-sub003/internal/nervousness"
)

// DefaultAlpha is the stock EMA smoothing factor.
const DefaultAlpha = 0.3

// Update is the per-result contribution folded into a session's state.
type Update struct {
	Confidence       float64
	HesitationScore  float64 // higher is better (absence of hesitation)
	NervousnessScore float64
	Pace             float64 // words per minute; 0 when no audio in this call
	EmotionalState   string
}

// Apply folds one result into the state with EMA smoothing and returns the
// new state. It never mutates its input; because every EMA input is in [0,1]
// and alpha is in (0,1), the bounded fields remain in [0,1] by convexity.
func Apply(state analysis.AggregatedState, u Update, alpha float64, now time.Time) analysis.AggregatedState {
	next := state
	next.OverallConfidence = ema(state.OverallConfidence, u.Confidence, alpha)
	next.NervousnessLevel = ema(state.NervousnessLevel, u.NervousnessScore, alpha)
	// HesitationLevel tracks presence of hesitation, so the contribution is
	// the complement of the per-result score.
	next.HesitationLevel = ema(state.HesitationLevel, 1-u.HesitationScore, alpha)
	next.CommunicationEffectiveness = (next.OverallConfidence + (1 - next.NervousnessLevel) + (1 - next.HesitationLevel)) / 3
	if u.Pace > 0 {
		next.CurrentPace = u.Pace
	}
	if u.EmotionalState != "" {
		next.EmotionalState = u.EmotionalState
	}
	next.LastUpdate = now
	return next
}

func ema(prev, value, alpha float64) float64 {
	return alpha*value + (1-alpha)*prev
}

// trendThreshold is the half-mean delta that separates stable from a trend.
const trendThreshold = 0.1

// CalculateTrend splits the series into halves and compares their means.
// Series shorter than 2 points are always stable with zero confidence.
func CalculateTrend(series []float64) analysis.Trend {
	if len(series) < 2 {
		return analysis.Trend{Direction: analysis.TrendStable, Confidence: 0}
	}

	mid := len(series) / 2
	firstMean := mean(series[:mid])
	secondMean := mean(series[mid:])
	delta := secondMean - firstMean

	direction := analysis.TrendStable
	switch {
	case delta > trendThreshold:
		direction = analysis.TrendImproving
	case delta < -trendThreshold:
		direction = analysis.TrendDeclining
	}

	confidence := math.Abs(delta) * 5
	if confidence > 1 {
		confidence = 1
	}
	return analysis.Trend{Direction: direction, Confidence: confidence}
}

func mean(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range series {
		sum += v
	}
	return sum / float64(len(series))
}

// ResultConfidence is the overall confidence for one result: the average of
// the mean insight confidence (0.5 when there are no insights), the
// hesitation score, and the complement of the nervousness score. The result
// is clamped so an out-of-range analyzer confidence cannot push it, or the
// EMA state fed from it, outside [0,1].
func ResultConfidence(insights []insight.Insight, hes hesitation.Analysis, nerv nervousness.Analysis) float64 {
	insightConf := 0.5
	if len(insights) > 0 {
		sum := 0.0
		for _, ins := range insights {
			sum += ins.Confidence
		}
		insightConf = sum / float64(len(insights))
	}
	return clamp01((insightConf + hes.OverallScore + (1 - nerv.OverallScore)) / 3)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
