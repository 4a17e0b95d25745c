package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hareshchavan26/aimockinterviewer2-sub003/internal/analysis"
	"github.com/hareshchavan26/aimockinterviewer2-sub003/internal/insight"
	"github.com/hareshchavan26/aimockinterviewer2-sub003/internal/metrics"
)

// SubjectStreamChunk is the NATS subject carrying inbound per-utterance
// signals from the capture layer.
const SubjectStreamChunk = "interview.stream.chunk"

// StreamChunkEvent is the wire format of one inbound chunk.
type StreamChunkEvent struct {
	SessionID      string              `json:"session_id"`
	AnalysisType   string              `json:"analysis_type"`
	Text           string              `json:"text,omitempty"`
	AudioChunk     *insight.AudioChunk `json:"audio_chunk,omitempty"`
	VideoFrame     *insight.VideoFrame `json:"video_frame,omitempty"`
	Timestamp      time.Time           `json:"timestamp"`
	SequenceNumber int64               `json:"sequence_number"`
}

// HandleStreamChunk is the NATS handler for interview.stream.chunk. Failures
// are logged, never propagated back to the broker.
func (p *Pipeline) HandleStreamChunk(subject string, data []byte) {
	req, err := parseStreamChunk(data)
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues(string(CodeStreamInterrupted)).Inc()
		p.logger.Error("undecodable stream chunk", "subject", subject, "error", err)
		return
	}

	if _, err := p.Process(context.Background(), *req); err != nil {
		p.logger.Error("stream chunk processing failed",
			"session_id", req.SessionID,
			"code", string(CodeOf(err)),
			"error", err,
		)
	}
}

func parseStreamChunk(data []byte) (*analysis.Request, error) {
	var evt StreamChunkEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		return nil, WrapError(CodeStreamInterrupted, err, "parse stream chunk")
	}
	return &analysis.Request{
		SessionID: evt.SessionID,
		Type:      analysis.Type(evt.AnalysisType),
		Input: &analysis.InputData{
			Text:           evt.Text,
			AudioChunk:     evt.AudioChunk,
			VideoFrame:     evt.VideoFrame,
			Timestamp:      evt.Timestamp,
			SequenceNumber: evt.SequenceNumber,
		},
	}, nil
}
