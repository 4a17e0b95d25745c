// Package nervousness detects vocal stress indicators and aggregates their
// intensity into a session-comparable score.
package nervousness

import (
	"fmt"

	"github.com/hareshchavan26/aimockinterviewer2-sub003/internal/config"
	"github.com/hareshchavan26/aimockinterviewer2-sub003/internal/insight"
)

type IndicatorType string

const (
	IndicatorVoiceTremor    IndicatorType = "voice_tremor"
	IndicatorRapidSpeech    IndicatorType = "rapid_speech"
	IndicatorPitchVariation IndicatorType = "pitch_variation"
)

// Indicator is one detected stress signal.
type Indicator struct {
	Type        IndicatorType `json:"type"`
	Intensity   float64       `json:"intensity"`
	Confidence  float64       `json:"confidence"`
	Description string        `json:"description"`
}

// Analysis is the nervousness summary for one processing call.
type Analysis struct {
	Level           float64     `json:"nervousness_level"`
	Indicators      []Indicator `json:"nervousness_indicators"`
	VoiceStability  float64     `json:"voice_stability"`
	SpeechPattern   string      `json:"speech_pattern"`
	EmotionalState  string      `json:"emotional_state"`
	OverallScore    float64     `json:"overall_nervousness_score"`
	Recommendations []string    `json:"recommendations,omitempty"`
}

type Analyzer struct {
	tremorThreshold float64
	pitchThreshold  float64
	fastWPM         float64
	alertLevel      float64
}

func NewAnalyzer(cfg config.Pipeline) *Analyzer {
	return &Analyzer{
		tremorThreshold: cfg.TremorThreshold,
		pitchThreshold:  cfg.PitchVariationThreshold,
		fastWPM:         cfg.FastWPM,
		alertLevel:      cfg.NervousnessAlertLevel,
	}
}

// Analyze inspects the audio features for stress indicators. Level is the
// mean intensity over detected indicators, zero when none are detected.
func (a *Analyzer) Analyze(in insight.Input) Analysis {
	var indicators []Indicator
	voiceStability := 1.0

	if audio := in.Audio; audio != nil {
		if audio.VoiceTremor > a.tremorThreshold {
			indicators = append(indicators, Indicator{
				Type:        IndicatorVoiceTremor,
				Intensity:   clamp01(audio.VoiceTremor),
				Confidence:  0.8,
				Description: fmt.Sprintf("Voice tremor at %.2f intensity", audio.VoiceTremor),
			})
		}
		if audio.WordsPerMinute > a.fastWPM {
			excess := (audio.WordsPerMinute - a.fastWPM) / a.fastWPM
			indicators = append(indicators, Indicator{
				Type:        IndicatorRapidSpeech,
				Intensity:   clamp01(excess * 2),
				Confidence:  0.7,
				Description: fmt.Sprintf("Speech at %.0f WPM, above the %.0f WPM stress threshold", audio.WordsPerMinute, a.fastWPM),
			})
		}
		if audio.PitchVariation > a.pitchThreshold {
			indicators = append(indicators, Indicator{
				Type:        IndicatorPitchVariation,
				Intensity:   clamp01(audio.PitchVariation),
				Confidence:  0.7,
				Description: fmt.Sprintf("Pitch variation at %.2f", audio.PitchVariation),
			})
		}
		voiceStability = clamp01(1 - audio.VoiceTremor)
	}

	level := 0.0
	for _, ind := range indicators {
		level += ind.Intensity
	}
	if len(indicators) > 0 {
		level /= float64(len(indicators))
	}

	return Analysis{
		Level:           level,
		Indicators:      indicators,
		VoiceStability:  voiceStability,
		SpeechPattern:   speechPattern(in, indicators),
		EmotionalState:  emotionalState(level),
		OverallScore:    clamp01(level),
		Recommendations: a.recommend(indicators, level),
	}
}

func (a *Analyzer) recommend(indicators []Indicator, level float64) []string {
	var recs []string
	for _, ind := range indicators {
		switch ind.Type {
		case IndicatorVoiceTremor:
			recs = append(recs, "Take a slow breath before you answer to steady your voice")
		case IndicatorRapidSpeech:
			recs = append(recs, "You are rushing; pace your delivery with short sentences")
		case IndicatorPitchVariation:
			recs = append(recs, "Keep a steady tone; ground your voice at the start of each point")
		}
	}
	if level > a.alertLevel {
		recs = append(recs, "Nervousness is elevated; pause, reset, and remember this is a conversation")
	}
	return recs
}

func speechPattern(in insight.Input, indicators []Indicator) string {
	for _, ind := range indicators {
		if ind.Type == IndicatorRapidSpeech {
			return "rushed"
		}
	}
	if in.Audio != nil && in.Audio.PauseCount > 2 {
		return "hesitant"
	}
	return "steady"
}

func emotionalState(level float64) string {
	switch {
	case level > 0.7:
		return "anxious"
	case level > 0.4:
		return "tense"
	default:
		return "calm"
	}
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
