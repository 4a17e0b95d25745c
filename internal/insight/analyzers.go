package insight

import (
	"context"
	"fmt"
	"strings"

	"github.com/hareshchavan26/aimockinterviewer2-sub003/internal/config"
)

// TextAnalyzer produces insights from a transcript fragment.
type TextAnalyzer interface {
	AnalyzeText(ctx context.Context, text string, sc SessionContext) ([]Insight, error)
}

// AudioAnalyzer produces insights from one audio chunk's features.
type AudioAnalyzer interface {
	AnalyzeAudio(ctx context.Context, chunk *AudioChunk, sc SessionContext) ([]Insight, error)
}

// VideoAnalyzer produces insights from one video frame's classifier output.
type VideoAnalyzer interface {
	AnalyzeVideo(ctx context.Context, frame *VideoFrame, sc SessionContext) ([]Insight, error)
}

// LexiconTextAnalyzer flags filler-word density and structural language.
type LexiconTextAnalyzer struct {
	fillers         []string
	markers         []string
	fillerThreshold int
	minWords        int
}

func NewLexiconTextAnalyzer(cfg config.Pipeline) *LexiconTextAnalyzer {
	return &LexiconTextAnalyzer{
		fillers:         cfg.FillerWords,
		markers:         cfg.StructureMarkers,
		fillerThreshold: cfg.FillerThreshold,
		minWords:        cfg.MinStructureWords,
	}
}

func (a *LexiconTextAnalyzer) AnalyzeText(_ context.Context, text string, _ SessionContext) ([]Insight, error) {
	var insights []Insight

	fillerCount := CountFillers(text, a.fillers)
	if fillerCount > a.fillerThreshold {
		insights = append(insights, Insight{
			Type:       TypeFillerWords,
			Severity:   SeverityWarning,
			Message:    fmt.Sprintf("Detected %d filler words in this response", fillerCount),
			Suggestion: "Pause briefly instead of using filler words",
			Confidence: 0.85,
			TriggerData: map[string]any{
				"filler_count": fillerCount,
			},
		})
	}

	words := Words(text)
	if len(words) >= a.minWords && containsAnyMarker(text, a.markers) {
		insights = append(insights, Insight{
			Type:       TypeClearStructure,
			Severity:   SeverityPositive,
			Message:    "Response uses clear structural language",
			Suggestion: "Keep signposting your answers this way",
			Confidence: 0.75,
		})
	}

	return insights, nil
}

// PaceAudioAnalyzer classifies speaking pace against the configured WPM bounds.
type PaceAudioAnalyzer struct {
	slow    float64
	fast    float64
	optimal float64
}

func NewPaceAudioAnalyzer(cfg config.Pipeline) *PaceAudioAnalyzer {
	return &PaceAudioAnalyzer{slow: cfg.SlowWPM, fast: cfg.FastWPM, optimal: cfg.OptimalWPM}
}

func (a *PaceAudioAnalyzer) AnalyzeAudio(_ context.Context, chunk *AudioChunk, _ SessionContext) ([]Insight, error) {
	wpm := chunk.WordsPerMinute
	data := map[string]any{"wpm": wpm, "optimal_wpm": a.optimal}

	switch {
	case wpm < a.slow:
		return []Insight{{
			Type:        TypePaceTooSlow,
			Severity:    SeverityWarning,
			Message:     fmt.Sprintf("Speaking pace is %.0f WPM, below the %.0f WPM minimum", wpm, a.slow),
			Suggestion:  "Pick up the pace slightly to keep the interviewer engaged",
			Confidence:  0.8,
			TriggerData: data,
		}}, nil
	case wpm > a.fast:
		return []Insight{{
			Type:        TypePaceTooFast,
			Severity:    SeverityWarning,
			Message:     fmt.Sprintf("Speaking pace is %.0f WPM, above the %.0f WPM maximum", wpm, a.fast),
			Suggestion:  "Slow down and give your points room to land",
			Confidence:  0.8,
			TriggerData: data,
		}}, nil
	default:
		return []Insight{{
			Type:        TypeGoodPace,
			Severity:    SeverityPositive,
			Message:     fmt.Sprintf("Speaking pace of %.0f WPM is in the optimal range", wpm),
			Confidence:  0.8,
			TriggerData: data,
		}}, nil
	}
}

// SignalVideoAnalyzer classifies the upstream confidence signal for one frame.
type SignalVideoAnalyzer struct {
	threshold float64
}

func NewSignalVideoAnalyzer(cfg config.Pipeline) *SignalVideoAnalyzer {
	return &SignalVideoAnalyzer{threshold: cfg.VideoConfidenceThreshold}
}

// AnalyzeVideo classifies the frame's confidence signal. Upstream classifiers
// occasionally report values outside [0,1], so the insight confidence is
// clamped before it enters any downstream scoring.
func (a *SignalVideoAnalyzer) AnalyzeVideo(_ context.Context, frame *VideoFrame, _ SessionContext) ([]Insight, error) {
	data := map[string]any{"confidence_signal": frame.ConfidenceSignal}

	if frame.ConfidenceSignal >= a.threshold {
		return []Insight{{
			Type:        TypeConfidentDelivery,
			Severity:    SeverityPositive,
			Message:     "Body language reads as confident",
			Confidence:  clamp01(frame.ConfidenceSignal),
			TriggerData: data,
		}}, nil
	}
	return []Insight{{
		Type:        TypeLowConfidence,
		Severity:    SeverityWarning,
		Message:     "Body language reads as uncertain",
		Suggestion:  "Sit up, keep eye contact with the camera, and breathe",
		Confidence:  clamp01(1 - frame.ConfidenceSignal),
		TriggerData: data,
	}}, nil
}

// Words splits text into lowercase tokens with surrounding punctuation removed.
func Words(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		w := strings.Trim(f, ".,!?;:\"'()[]")
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}

// CountFillers counts lexicon matches in the fragment. Multi-word entries are
// matched as substrings of the normalized text, single words per token.
func CountFillers(text string, lexicon []string) int {
	words := Words(text)
	normalized := strings.ToLower(text)
	count := 0
	for _, entry := range lexicon {
		if strings.Contains(entry, " ") {
			count += strings.Count(normalized, entry)
			continue
		}
		for _, w := range words {
			if w == entry {
				count++
			}
		}
	}
	return count
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

func containsAnyMarker(text string, markers []string) bool {
	normalized := strings.ToLower(text)
	for _, m := range markers {
		if strings.Contains(normalized, m) {
			return true
		}
	}
	return false
}
