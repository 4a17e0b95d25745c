// Package insight turns per-utterance signals into discrete observations.
package insight

import "time"

type Type string

const (
	TypeFillerWords       Type = "FILLER_WORDS"
	TypePaceTooFast       Type = "PACE_TOO_FAST"
	TypePaceTooSlow       Type = "PACE_TOO_SLOW"
	TypeGoodPace          Type = "GOOD_PACE"
	TypeConfidentDelivery Type = "CONFIDENT_DELIVERY"
	TypeLowConfidence     Type = "LOW_CONFIDENCE"
	TypeClearStructure    Type = "CLEAR_STRUCTURE"
)

type Severity string

const (
	SeverityPositive Severity = "positive"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Insight is a single timestamped observation about a response fragment.
type Insight struct {
	Type        Type           `json:"type"`
	Severity    Severity       `json:"severity"`
	Message     string         `json:"message"`
	Suggestion  string         `json:"suggestion,omitempty"`
	Confidence  float64        `json:"confidence"`
	Timestamp   time.Time      `json:"timestamp"`
	TriggerData map[string]any `json:"trigger_data,omitempty"`
}

// SessionContext is the slice of session state analyzers may read.
type SessionContext struct {
	SessionID string    `json:"session_id"`
	StartedAt time.Time `json:"started_at"`
	Sequence  int64     `json:"sequence"`
}

// AudioChunk carries prosody features extracted upstream from one audio
// segment. The raw samples never enter this subsystem.
type AudioChunk struct {
	DurationMs     int     `json:"duration_ms"`
	WordsPerMinute float64 `json:"words_per_minute"`
	VolumeLevel    float64 `json:"volume_level"`
	PitchVariation float64 `json:"pitch_variation"`
	VoiceTremor    float64 `json:"voice_tremor"`
	PauseCount     int     `json:"pause_count"`
	AvgPauseMs     float64 `json:"avg_pause_ms"`
}

// VideoFrame carries classifier outputs for one video frame.
type VideoFrame struct {
	ConfidenceSignal float64 `json:"confidence_signal"`
	EyeContact       float64 `json:"eye_contact"`
	PostureScore     float64 `json:"posture_score"`
}

// Input is the per-request signal bundle handed to the engine. Absent
// modalities are left zero/nil.
type Input struct {
	Text  string
	Audio *AudioChunk
	Video *VideoFrame
}
