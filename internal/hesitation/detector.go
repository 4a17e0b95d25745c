// Package hesitation classifies interruptions in fluent delivery and scores
// their rate against session duration.
package hesitation

import (
	"fmt"
	"time"

	"github.com/hareshchavan26/aimockinterviewer2-sub003/internal/config"
	"github.com/hareshchavan26/aimockinterviewer2-sub003/internal/insight"
)

type PatternType string

const (
	PatternVerbalFiller        PatternType = "verbal_filler"
	PatternSilentPause         PatternType = "silent_pause"
	PatternRepetition          PatternType = "repetition"
	PatternTechnicalDifficulty PatternType = "technical_difficulty"
)

// Pattern is one detected hesitation class with its observed stats.
type Pattern struct {
	Type            PatternType `json:"type"`
	Frequency       int         `json:"frequency"`
	AverageDuration float64     `json:"average_duration_ms"`
	Severity        string      `json:"severity"`
}

// Analysis is the hesitation summary for one processing call.
type Analysis struct {
	HesitationCount           int       `json:"hesitation_count"`
	AverageHesitationDuration float64   `json:"average_hesitation_duration_ms"`
	HesitationFrequency       float64   `json:"hesitation_frequency"` // events per minute
	Patterns                  []Pattern `json:"hesitation_patterns"`
	OverallScore              float64   `json:"overall_hesitation_score"`
	Recommendations           []string  `json:"recommendations,omitempty"`
}

type Detector struct {
	fillers        []string
	alertFrequency float64
}

func NewDetector(cfg config.Pipeline) *Detector {
	return &Detector{
		fillers:        cfg.FillerWords,
		alertFrequency: cfg.HesitationAlertFrequency,
	}
}

// Typical event durations in milliseconds, used when the upstream feature
// extractor does not report one (fillers and repetitions from text).
const (
	fillerDurationMs     = 400
	repetitionDurationMs = 600
)

// Detect classifies hesitation patterns in the input and scores the session's
// event rate. sessionDuration is elapsed time since the session started.
func (d *Detector) Detect(in insight.Input, sessionDuration time.Duration) Analysis {
	var patterns []Pattern

	if in.Text != "" {
		if n := insight.CountFillers(in.Text, d.fillers); n > 0 {
			patterns = append(patterns, Pattern{
				Type:            PatternVerbalFiller,
				Frequency:       n,
				AverageDuration: fillerDurationMs,
				Severity:        severityFor(n),
			})
		}
		if n := countRepetitions(in.Text); n > 0 {
			patterns = append(patterns, Pattern{
				Type:            PatternRepetition,
				Frequency:       n,
				AverageDuration: repetitionDurationMs,
				Severity:        severityFor(n),
			})
		}
	}

	if in.Audio != nil {
		if in.Audio.PauseCount > 0 {
			patterns = append(patterns, Pattern{
				Type:            PatternSilentPause,
				Frequency:       in.Audio.PauseCount,
				AverageDuration: in.Audio.AvgPauseMs,
				Severity:        severityFor(in.Audio.PauseCount),
			})
		}
		// A non-trivial chunk with no measurable speech reads as a dropout.
		if in.Audio.DurationMs > 0 && in.Audio.WordsPerMinute == 0 && in.Audio.VolumeLevel < 0.05 {
			patterns = append(patterns, Pattern{
				Type:            PatternTechnicalDifficulty,
				Frequency:       1,
				AverageDuration: float64(in.Audio.DurationMs),
				Severity:        "high",
			})
		}
	}

	count := 0
	weightedDuration := 0.0
	for _, p := range patterns {
		count += p.Frequency
		weightedDuration += float64(p.Frequency) * p.AverageDuration
	}

	avgDuration := 0.0
	if count > 0 {
		avgDuration = weightedDuration / float64(count)
	}

	minutes := sessionDuration.Minutes()
	frequency := 0.0
	if minutes > 0 {
		frequency = float64(count) / minutes
	}

	score := 1 - frequency/10
	if score < 0 {
		score = 0
	}

	return Analysis{
		HesitationCount:           count,
		AverageHesitationDuration: avgDuration,
		HesitationFrequency:       frequency,
		Patterns:                  patterns,
		OverallScore:              score,
		Recommendations:           d.recommend(patterns, frequency),
	}
}

func (d *Detector) recommend(patterns []Pattern, frequency float64) []string {
	var recs []string
	for _, p := range patterns {
		switch p.Type {
		case PatternVerbalFiller:
			recs = append(recs, "Replace filler words with a short silent pause")
		case PatternSilentPause:
			recs = append(recs, "Use pauses deliberately: finish the sentence, then think")
		case PatternRepetition:
			recs = append(recs, "Slow down slightly so you finish phrases instead of restarting them")
		case PatternTechnicalDifficulty:
			recs = append(recs, "Check your microphone and connection")
		}
	}
	if frequency > d.alertFrequency {
		recs = append(recs, fmt.Sprintf("Hesitation rate of %.1f events/min is high; practice with prepared talking points", frequency))
	}
	return recs
}

func severityFor(frequency int) string {
	switch {
	case frequency >= 5:
		return "high"
	case frequency >= 3:
		return "moderate"
	default:
		return "low"
	}
}

// countRepetitions counts immediately repeated words and bigrams ("this is,
// this is my point" style restarts).
func countRepetitions(text string) int {
	words := insight.Words(text)
	count := 0
	for i := 1; i < len(words); i++ {
		if words[i] == words[i-1] {
			count++
		}
	}
	for i := 3; i < len(words); i++ {
		if words[i] == words[i-2] && words[i-1] == words[i-3] && words[i] != words[i-1] {
			count++
		}
	}
	return count
}
