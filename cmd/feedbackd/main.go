package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hareshchavan26/aimockinterviewer2-sub003/internal/api"
	"github.com/hareshchavan26/aimockinterviewer2-sub003/internal/config"
	"github.com/hareshchavan26/aimockinterviewer2-sub003/internal/feedback"
	"github.com/hareshchavan26/aimockinterviewer2-sub003/internal/hesitation"
	"github.com/hareshchavan26/aimockinterviewer2-sub003/internal/insight"
	"github.com/hareshchavan26/aimockinterviewer2-sub003/internal/nervousness"
	"github.com/hareshchavan26/aimockinterviewer2-sub003/internal/pipeline"
	"github.com/hareshchavan26/aimockinterviewer2-sub003/internal/relay"
	"github.com/hareshchavan26/aimockinterviewer2-sub003/internal/session"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("feedbackd starting", "port", cfg.Port)

	if err := cfg.Pipeline.Validate(); err != nil {
		slog.Error("invalid pipeline configuration",
			"error", pipeline.WrapError(pipeline.CodeConfiguration, err, "validate pipeline config"))
		os.Exit(1)
	}

	// NATS relay (optional — without it the pipeline serves HTTP only, no
	// event-driven ingestion or trigger delivery).
	var relayClient *relay.Client
	if cfg.NatsURL != "" {
		connectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		var err error
		relayClient, err = relay.NewClient(connectCtx, cfg.NatsURL, cfg.NatsToken, slog.Default())
		cancel()
		if err != nil {
			slog.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer relayClient.Close()
		slog.Info("NATS connected", "url", cfg.NatsURL)
	} else {
		slog.Warn("NATS not configured — running without event relay")
	}

	// Default analyzers consume features extracted upstream; swap these for
	// model-backed implementations when wiring real inference.
	engine := insight.NewEngine(
		insight.NewLexiconTextAnalyzer(cfg.Pipeline),
		insight.NewPaceAudioAnalyzer(cfg.Pipeline),
		insight.NewSignalVideoAnalyzer(cfg.Pipeline),
		slog.Default(),
	)

	registry := session.NewRegistry(cfg.Pipeline, slog.Default())

	var publisher pipeline.Publisher
	if relayClient != nil {
		publisher = relayClient
	}
	proc := pipeline.New(
		registry,
		engine,
		hesitation.NewDetector(cfg.Pipeline),
		nervousness.NewAnalyzer(cfg.Pipeline),
		feedback.NewGenerator(cfg.Pipeline),
		publisher,
		cfg.Pipeline,
		slog.Default(),
	)

	// Subscribe to inbound stream chunks.
	if relayClient != nil {
		if err := relayClient.Subscribe(pipeline.SubjectStreamChunk, proc.HandleStreamChunk); err != nil {
			slog.Error("failed to subscribe to stream chunks", "error", err)
			os.Exit(1)
		}
	}

	// HTTP API
	srv := api.NewServer(cfg.Port, proc, slog.Default())
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	// Announce registration
	if relayClient != nil {
		if err := relayClient.Publish("interview.pipeline.registered", map[string]any{
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"port":      cfg.Port,
		}); err != nil {
			slog.Warn("failed to publish registration", "error", err)
		}
	}

	slog.Info("feedbackd ready", "port", cfg.Port)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")
	slog.Info("feedbackd stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
