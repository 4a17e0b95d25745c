package insight

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Engine fans the input out to the analyzers whose modality is present and
// collects their insights. Analyzers are injected so deterministic fakes can
// stand in for real inference during tests.
type Engine struct {
	text   TextAnalyzer
	audio  AudioAnalyzer
	video  VideoAnalyzer
	logger *slog.Logger
}

func NewEngine(text TextAnalyzer, audio AudioAnalyzer, video VideoAnalyzer, logger *slog.Logger) *Engine {
	return &Engine{text: text, audio: audio, video: video, logger: logger}
}

// Generate runs the applicable analyzers in parallel and returns their
// combined insights, each stamped with the request's processing timestamp.
// An analyzer panic surfaces as an error, never as a crash.
func (e *Engine) Generate(ctx context.Context, in Input, sc SessionContext, processedAt time.Time) ([]Insight, error) {
	type run struct {
		modality string
		fn       func() ([]Insight, error)
	}

	var runs []run
	if in.Text != "" && e.text != nil {
		runs = append(runs, run{"text", func() ([]Insight, error) { return e.text.AnalyzeText(ctx, in.Text, sc) }})
	}
	if in.Audio != nil && e.audio != nil {
		runs = append(runs, run{"audio", func() ([]Insight, error) { return e.audio.AnalyzeAudio(ctx, in.Audio, sc) }})
	}
	if in.Video != nil && e.video != nil {
		runs = append(runs, run{"video", func() ([]Insight, error) { return e.video.AnalyzeVideo(ctx, in.Video, sc) }})
	}
	if len(runs) == 0 {
		return nil, nil
	}

	outs := make([][]Insight, len(runs))
	errs := make([]error, len(runs))
	var wg sync.WaitGroup
	for i, r := range runs {
		wg.Add(1)
		go func(i int, r run) {
			defer wg.Done()
			defer func() {
				if rec := recover(); rec != nil {
					errs[i] = fmt.Errorf("%s analyzer panic: %v", r.modality, rec)
				}
			}()
			outs[i], errs[i] = r.fn()
		}(i, r)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-done:
	}

	var all []Insight
	for i := range runs {
		if errs[i] != nil {
			return nil, fmt.Errorf("%s analysis: %w", runs[i].modality, errs[i])
		}
		all = append(all, outs[i]...)
	}
	for i := range all {
		all[i].Timestamp = processedAt
	}

	e.logger.Debug("insights generated",
		"session_id", sc.SessionID,
		"modalities", len(runs),
		"insights", len(all),
	)
	return all, nil
}
