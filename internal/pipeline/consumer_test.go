package pipeline

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/hareshchavan26/aimockinterviewer2-sub003/internal/analysis"
)

func TestParseStreamChunk(t *testing.T) {
	evt := StreamChunkEvent{
		SessionID:      "s1",
		AnalysisType:   "TEXT_STREAM",
		Text:           "a clean answer",
		Timestamp:      time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		SequenceNumber: 7,
	}
	data, err := json.Marshal(evt)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	req, err := parseStreamChunk(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.SessionID != "s1" || req.Type != analysis.TypeTextStream {
		t.Errorf("unexpected request identity: %+v", req)
	}
	if req.Input == nil || req.Input.Text != "a clean answer" || req.Input.SequenceNumber != 7 {
		t.Errorf("unexpected input: %+v", req.Input)
	}
}

func TestParseStreamChunk_Undecodable(t *testing.T) {
	_, err := parseStreamChunk([]byte("not json"))
	if CodeOf(err) != CodeStreamInterrupted {
		t.Errorf("expected STREAM_INTERRUPTED, got %v", err)
	}
}

func TestHandleStreamChunk(t *testing.T) {
	p := newPipeline(nil)
	p.StartSession("s1")

	data, _ := json.Marshal(StreamChunkEvent{
		SessionID:      "s1",
		AnalysisType:   "TEXT_STREAM",
		Text:           "a clean answer",
		Timestamp:      time.Now(),
		SequenceNumber: 1,
	})
	p.HandleStreamChunk(SubjectStreamChunk, data)

	history, err := p.SessionHistory("s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected one result after handled chunk, got %d", len(history))
	}
	if history[0].SequenceNumber != 1 {
		t.Errorf("unexpected sequence: %d", history[0].SequenceNumber)
	}
}

func TestHandleStreamChunk_BadPayloadIsSwallowed(t *testing.T) {
	p := newPipeline(nil)
	p.StartSession("s1")

	p.HandleStreamChunk(SubjectStreamChunk, []byte("{broken"))

	history, _ := p.SessionHistory("s1")
	if len(history) != 0 {
		t.Errorf("expected untouched history, got %d entries", len(history))
	}
}
