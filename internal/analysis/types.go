// Package analysis defines the request and result shapes shared across the
// feedback pipeline.
package analysis

import (
	"time"

	"github.com/google/uuid"
	"github.com/hareshchavan26/aimockinterviewer2-sub003/internal/feedback"
	"github.com/hareshchavan26/aimockinterviewer2-sub003/internal/hesitation"
	"github.com/hareshchavan26/aimockinterviewer2-sub003/internal/insight"
	"github.com/hareshchavan26/aimockinterviewer2-sub003/internal/nervousness"
)

type Type string

const (
	TypeTextStream  Type = "TEXT_STREAM"
	TypeAudioStream Type = "AUDIO_STREAM"
	TypeVideoStream Type = "VIDEO_STREAM"
	TypeMultiModal  Type = "MULTI_MODAL"
)

// InputData is the per-utterance signal bundle for one request. At least one
// of Text, AudioChunk, VideoFrame must be populated.
type InputData struct {
	Text           string              `json:"text,omitempty"`
	AudioChunk     *insight.AudioChunk `json:"audio_chunk,omitempty"`
	VideoFrame     *insight.VideoFrame `json:"video_frame,omitempty"`
	Timestamp      time.Time           `json:"timestamp"`
	SequenceNumber int64               `json:"sequence_number"`
}

// Empty reports whether no modality is populated.
func (d *InputData) Empty() bool {
	return d.Text == "" && d.AudioChunk == nil && d.VideoFrame == nil
}

// Request is one processing call against an active session.
type Request struct {
	SessionID string         `json:"session_id"`
	Type      Type           `json:"analysis_type"`
	Input     *InputData     `json:"input_data"`
	Context   map[string]any `json:"context,omitempty"`
	Options   map[string]any `json:"options,omitempty"`
}

// AggregatedState is the rolling summary of one session. All [0,1] fields
// stay in [0,1] across updates by construction of the EMA transition.
type AggregatedState struct {
	OverallConfidence          float64   `json:"overall_confidence"`
	HesitationLevel            float64   `json:"hesitation_level"`
	NervousnessLevel           float64   `json:"nervousness_level"`
	CurrentPace                float64   `json:"current_pace"`
	EmotionalState             string    `json:"emotional_state"`
	CommunicationEffectiveness float64   `json:"communication_effectiveness"`
	LastUpdate                 time.Time `json:"last_update_time"`
}

// NewAggregatedState is the state every session starts from.
func NewAggregatedState() AggregatedState {
	return AggregatedState{
		OverallConfidence:          0.5,
		HesitationLevel:            0,
		NervousnessLevel:           0,
		EmotionalState:             "neutral",
		CommunicationEffectiveness: 0.5,
	}
}

type TrendDirection string

const (
	TrendImproving TrendDirection = "IMPROVING"
	TrendDeclining TrendDirection = "DECLINING"
	TrendStable    TrendDirection = "STABLE"
)

// Trend classifies a metric's direction over recent history.
type Trend struct {
	Direction  TrendDirection `json:"direction"`
	Confidence float64        `json:"confidence"`
}

// AggregatedMetrics is the post-update state snapshot plus rolling trends,
// recorded on every result.
type AggregatedMetrics struct {
	State            AggregatedState `json:"state"`
	ConfidenceTrend  Trend           `json:"confidence_trend"`
	PaceTrend        Trend           `json:"pace_trend"`
	HesitationTrend  Trend           `json:"hesitation_trend"`
	NervousnessTrend Trend           `json:"nervousness_trend"`
}

// Result is the immutable output of one processing call.
type Result struct {
	ID                uuid.UUID            `json:"id"`
	SessionID         string               `json:"session_id"`
	Timestamp         time.Time            `json:"timestamp"`
	SequenceNumber    int64                `json:"sequence_number"`
	Type              Type                 `json:"analysis_type"`
	Insights          []insight.Insight    `json:"immediate_insights"`
	Hesitation        hesitation.Analysis  `json:"hesitation_detection"`
	Nervousness       nervousness.Analysis `json:"nervousness_detection"`
	Metrics           AggregatedMetrics    `json:"aggregated_metrics"`
	Triggers          []feedback.Trigger   `json:"feedback_triggers"`
	Confidence        float64              `json:"confidence"`
	ProcessingLatency time.Duration        `json:"processing_latency"`
}
