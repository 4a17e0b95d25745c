// Package pipeline orchestrates one real-time analysis call: validation,
// per-modality insight generation, hesitation and nervousness scoring,
// EMA aggregation, and feedback trigger generation.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hareshchavan26/aimockinterviewer2-sub003/internal/aggregate"
	"github.com/hareshchavan26/aimockinterviewer2-sub003/internal/analysis"
	"github.com/hareshchavan26/aimockinterviewer2-sub003/internal/config"
	"github.com/hareshchavan26/aimockinterviewer2-sub003/internal/feedback"
	"github.com/hareshchavan26/aimockinterviewer2-sub003/internal/hesitation"
	"github.com/hareshchavan26/aimockinterviewer2-sub003/internal/insight"
	"github.com/hareshchavan26/aimockinterviewer2-sub003/internal/metrics"
	"github.com/hareshchavan26/aimockinterviewer2-sub003/internal/nervousness"
	"github.com/hareshchavan26/aimockinterviewer2-sub003/internal/session"
)

// Publisher delivers events to the downstream relay. Publishing is best
// effort; a nil Publisher disables it.
type Publisher interface {
	Publish(subject string, data any) error
}

// NATS subjects emitted by the pipeline.
const (
	SubjectSessionStarted = "interview.session.started"
	SubjectSessionEnded   = "interview.session.ended"
	SubjectTrigger        = "interview.feedback.trigger"
)

type Pipeline struct {
	registry    *session.Registry
	engine      *insight.Engine
	hesitation  *hesitation.Detector
	nervousness *nervousness.Analyzer
	triggers    *feedback.Generator
	relay       Publisher
	cfg         config.Pipeline
	logger      *slog.Logger
	now         func() time.Time
}

func New(reg *session.Registry, engine *insight.Engine, hes *hesitation.Detector, nerv *nervousness.Analyzer, gen *feedback.Generator, relay Publisher, cfg config.Pipeline, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		registry:    reg,
		engine:      engine,
		hesitation:  hes,
		nervousness: nerv,
		triggers:    gen,
		relay:       relay,
		cfg:         cfg,
		logger:      logger,
		now:         time.Now,
	}
}

// StartSession registers a fresh session. Re-starting an active id resets it;
// callers must not re-start a session they still consider live.
func (p *Pipeline) StartSession(id string) (session.Handle, error) {
	if id == "" {
		return session.Handle{}, Errorf(CodeInvalidInputData, "session id is required")
	}

	handle := p.registry.Start(id, p.now())
	metrics.SessionsActive.Set(float64(p.registry.Count()))
	p.logger.Info("session started", "session_id", id)

	p.publish(SubjectSessionStarted, map[string]any{
		"session_id": id,
		"start_time": handle.StartTime.UTC().Format(time.RFC3339Nano),
	})
	return handle, nil
}

// EndSession removes the session; its state and history are discarded.
func (p *Pipeline) EndSession(id string) error {
	if err := p.registry.End(id); err != nil {
		return p.notFound(id, err)
	}
	metrics.SessionsActive.Set(float64(p.registry.Count()))
	p.logger.Info("session ended", "session_id", id)

	p.publish(SubjectSessionEnded, map[string]any{
		"session_id": id,
		"end_time":   p.now().UTC().Format(time.RFC3339Nano),
	})
	return nil
}

// SessionState returns a copy of the session's aggregated state.
func (p *Pipeline) SessionState(id string) (analysis.AggregatedState, error) {
	state, err := p.registry.State(id)
	if err != nil {
		return analysis.AggregatedState{}, p.notFound(id, err)
	}
	return state, nil
}

// SessionHistory returns the session's results in arrival order. Pagination
// is the caller's concern.
func (p *Pipeline) SessionHistory(id string) ([]analysis.Result, error) {
	history, err := p.registry.History(id)
	if err != nil {
		return nil, p.notFound(id, err)
	}
	return history, nil
}

// Process runs one analysis call. Validation happens before any state is
// touched; the session's state update and history append are applied
// atomically under the session's lock, in arrival order.
func (p *Pipeline) Process(ctx context.Context, req analysis.Request) (*analysis.Result, error) {
	started := p.now()

	if err := validate(req); err != nil {
		metrics.ErrorsTotal.WithLabelValues(string(CodeOf(err))).Inc()
		return nil, err
	}

	var result *analysis.Result
	err := p.registry.Apply(req.SessionID, func(s *session.Session) error {
		r, err := p.analyze(ctx, req, s, started)
		if err != nil {
			return err
		}

		next := aggregate.Apply(s.State(), aggregate.Update{
			Confidence:       r.Confidence,
			HesitationScore:  r.Hesitation.OverallScore,
			NervousnessScore: r.Nervousness.OverallScore,
			Pace:             pace(req.Input),
			EmotionalState:   r.Nervousness.EmotionalState,
		}, p.cfg.SmoothingAlpha, started)

		r.Metrics = p.metricsFor(s, r, next)
		r.ProcessingLatency = p.now().Sub(started)

		s.SetState(next, started)
		if s.Append(*r, p.cfg.HistoryLimit, p.cfg.HistoryTrimTo) {
			metrics.HistoryTrims.Inc()
			p.logger.Debug("history trimmed", "session_id", req.SessionID, "kept", p.cfg.HistoryTrimTo)
		}
		result = r
		return nil
	})
	if err != nil {
		coded := p.classify(req, err)
		metrics.ErrorsTotal.WithLabelValues(string(CodeOf(coded))).Inc()
		return nil, coded
	}

	metrics.AnalysesTotal.WithLabelValues(string(req.Type)).Inc()
	metrics.AnalysisDuration.Observe(result.ProcessingLatency.Seconds())
	p.publishTriggers(result)

	p.logger.Info("analysis processed",
		"session_id", req.SessionID,
		"analysis_type", string(req.Type),
		"sequence", req.Input.SequenceNumber,
		"insights", len(result.Insights),
		"triggers", len(result.Triggers),
		"latency_ms", result.ProcessingLatency.Milliseconds(),
	)
	return result, nil
}

// analyze runs the modality analyzers and detectors and assembles the
// immutable result, without touching session state.
func (p *Pipeline) analyze(ctx context.Context, req analysis.Request, s *session.Session, started time.Time) (r *analysis.Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("analysis panic: %v", rec)
		}
	}()

	sc := insight.SessionContext{
		SessionID: s.ID(),
		StartedAt: s.StartedAt(),
		Sequence:  req.Input.SequenceNumber,
	}
	in := insight.Input{
		Text:  req.Input.Text,
		Audio: req.Input.AudioChunk,
		Video: req.Input.VideoFrame,
	}

	insights, err := p.engine.Generate(ctx, in, sc, started)
	if err != nil {
		return nil, err
	}

	hes := p.hesitation.Detect(in, started.Sub(s.StartedAt()))
	nerv := p.nervousness.Analyze(in)
	confidence := aggregate.ResultConfidence(insights, hes, nerv)

	triggers, err := p.generateTriggers(insights, hes, nerv, started)
	if err != nil {
		return nil, err
	}

	return &analysis.Result{
		ID:             uuid.New(),
		SessionID:      req.SessionID,
		Timestamp:      started,
		SequenceNumber: req.Input.SequenceNumber,
		Type:           req.Type,
		Insights:       insights,
		Hesitation:     hes,
		Nervousness:    nerv,
		Triggers:       triggers,
		Confidence:     confidence,
	}, nil
}

func (p *Pipeline) generateTriggers(insights []insight.Insight, hes hesitation.Analysis, nerv nervousness.Analysis, now time.Time) (triggers []feedback.Trigger, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = Errorf(CodeFeedbackFailed, "trigger generation panic: %v", rec)
		}
	}()
	return p.triggers.Generate(insights, hes, nerv, now), nil
}

// metricsFor builds the post-update snapshot plus trends over the most
// recent history entries and the current result.
func (p *Pipeline) metricsFor(s *session.Session, r *analysis.Result, next analysis.AggregatedState) analysis.AggregatedMetrics {
	window := p.cfg.TrendWindow - 1
	history := s.History()
	if window > 0 && len(history) > window {
		history = history[len(history)-window:]
	}

	n := len(history) + 1
	confSeries := make([]float64, 0, n)
	paceSeries := make([]float64, 0, n)
	hesSeries := make([]float64, 0, n)
	nervSeries := make([]float64, 0, n)
	for _, h := range history {
		confSeries = append(confSeries, h.Confidence)
		paceSeries = append(paceSeries, h.Metrics.State.CurrentPace/p.cfg.OptimalWPM)
		hesSeries = append(hesSeries, h.Hesitation.OverallScore)
		nervSeries = append(nervSeries, h.Nervousness.OverallScore)
	}
	confSeries = append(confSeries, r.Confidence)
	paceSeries = append(paceSeries, next.CurrentPace/p.cfg.OptimalWPM)
	hesSeries = append(hesSeries, r.Hesitation.OverallScore)
	nervSeries = append(nervSeries, r.Nervousness.OverallScore)

	return analysis.AggregatedMetrics{
		State:            next,
		ConfidenceTrend:  aggregate.CalculateTrend(confSeries),
		PaceTrend:        aggregate.CalculateTrend(paceSeries),
		HesitationTrend:  aggregate.CalculateTrend(hesSeries),
		NervousnessTrend: aggregate.CalculateTrend(nervSeries),
	}
}

func validate(req analysis.Request) error {
	if req.SessionID == "" {
		return Errorf(CodeInvalidInputData, "session id is required")
	}
	if req.Input == nil {
		return Errorf(CodeInvalidInputData, "input data is required")
	}
	if req.Input.Empty() {
		return Errorf(CodeInsufficientData, "input data has no text, audio chunk, or video frame")
	}
	switch req.Type {
	case analysis.TypeTextStream, analysis.TypeAudioStream, analysis.TypeVideoStream, analysis.TypeMultiModal:
		return nil
	default:
		return Errorf(CodeInvalidInputData, "unknown analysis type %q", string(req.Type))
	}
}

// classify maps an orchestration failure to its caller-facing code.
func (p *Pipeline) classify(req analysis.Request, err error) error {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return p.notFound(req.SessionID, err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return WrapError(CodeAnalysisTimeout, err, "analysis timed out for session %s (%s)", req.SessionID, string(req.Type))
	case CodeOf(err) != "":
		return err
	default:
		return WrapError(CodeProcessingFailed, err, "processing failed for session %s (%s)", req.SessionID, string(req.Type))
	}
}

func (p *Pipeline) notFound(id string, err error) error {
	if CodeOf(err) == CodeSessionNotFound {
		return err
	}
	return WrapError(CodeSessionNotFound, err, "session %s not found", id)
}

func (p *Pipeline) publishTriggers(r *analysis.Result) {
	for _, trg := range r.Triggers {
		metrics.TriggersTotal.WithLabelValues(string(trg.Type), string(trg.Priority)).Inc()
		p.publish(SubjectTrigger, map[string]any{
			"session_id": r.SessionID,
			"trigger":    trg,
		})
	}
}

func (p *Pipeline) publish(subject string, data any) {
	if p.relay == nil {
		return
	}
	if err := p.relay.Publish(subject, data); err != nil {
		p.logger.Warn("publish failed", "subject", subject, "error", err)
	}
}

func pace(in *analysis.InputData) float64 {
	if in.AudioChunk == nil {
		return 0
	}
	return in.AudioChunk.WordsPerMinute
}

// SessionCount reports the number of active sessions.
func (p *Pipeline) SessionCount() int {
	return p.registry.Count()
}
