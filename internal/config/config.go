package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Port      int
	NatsURL   string
	NatsToken string
	LogLevel  string
	Pipeline  Pipeline
}

// Pipeline holds the per-deployment analysis tunables. Built once at startup,
// read-only afterwards.
type Pipeline struct {
	FeedbackDelayMs        int
	AnalysisWindowSec      int
	AggregationIntervalSec int

	// EMA smoothing factor for aggregated session metrics.
	SmoothingAlpha float64

	// History housekeeping: trim to HistoryTrimTo once HistoryLimit is exceeded.
	HistoryLimit  int
	HistoryTrimTo int

	// Number of recent history entries considered for trend classification.
	TrendWindow int

	// Text analysis.
	FillerWords       []string
	FillerThreshold   int
	StructureMarkers  []string
	MinStructureWords int

	// Audio pace bounds (words per minute).
	OptimalWPM float64
	SlowWPM    float64
	FastWPM    float64

	// Video confidence signal threshold.
	VideoConfidenceThreshold float64

	// Nervousness indicator thresholds.
	TremorThreshold         float64
	PitchVariationThreshold float64
	NervousnessAlertLevel   float64
	NervousnessBoostLevel   float64

	// Hesitation alerting (events per minute).
	HesitationAlertFrequency float64
}

func Load() Config {
	return Config{
		Port:      envInt("FEEDBACK_PORT", 8760),
		NatsURL:   envStr("NATS_URL", "nats://localhost:4222"),
		NatsToken: envStr("NATS_TOKEN", ""),
		LogLevel:  envStr("LOG_LEVEL", "info"),
		Pipeline:  loadPipeline(),
	}
}

// DefaultPipeline returns the stock tunables without reading the environment.
func DefaultPipeline() Pipeline {
	return Pipeline{
		FeedbackDelayMs:          500,
		AnalysisWindowSec:        30,
		AggregationIntervalSec:   5,
		SmoothingAlpha:           0.3,
		HistoryLimit:             100,
		HistoryTrimTo:            50,
		TrendWindow:              10,
		FillerWords:              []string{"um", "uh", "like", "you know", "basically", "actually", "literally"},
		FillerThreshold:          2,
		StructureMarkers:         []string{"first", "second", "third", "next", "then", "finally", "for example", "in conclusion", "therefore", "additionally"},
		MinStructureWords:        20,
		OptimalWPM:               140,
		SlowWPM:                  110,
		FastWPM:                  170,
		VideoConfidenceThreshold: 0.6,
		TremorThreshold:          0.3,
		PitchVariationThreshold:  0.5,
		NervousnessAlertLevel:    0.5,
		NervousnessBoostLevel:    0.7,
		HesitationAlertFrequency: 5,
	}
}

func loadPipeline() Pipeline {
	p := DefaultPipeline()
	p.FeedbackDelayMs = envInt("FEEDBACK_DELAY_MS", p.FeedbackDelayMs)
	p.AnalysisWindowSec = envInt("ANALYSIS_WINDOW_SEC", p.AnalysisWindowSec)
	p.AggregationIntervalSec = envInt("AGGREGATION_INTERVAL_SEC", p.AggregationIntervalSec)
	p.SmoothingAlpha = envFloat("SMOOTHING_ALPHA", p.SmoothingAlpha)
	p.HistoryLimit = envInt("HISTORY_LIMIT", p.HistoryLimit)
	p.HistoryTrimTo = envInt("HISTORY_TRIM_TO", p.HistoryTrimTo)
	p.OptimalWPM = envFloat("OPTIMAL_WPM", p.OptimalWPM)
	p.SlowWPM = envFloat("SLOW_WPM", p.SlowWPM)
	p.FastWPM = envFloat("FAST_WPM", p.FastWPM)
	p.VideoConfidenceThreshold = envFloat("VIDEO_CONFIDENCE_THRESHOLD", p.VideoConfidenceThreshold)
	p.NervousnessAlertLevel = envFloat("NERVOUSNESS_ALERT_LEVEL", p.NervousnessAlertLevel)
	p.NervousnessBoostLevel = envFloat("NERVOUSNESS_BOOST_LEVEL", p.NervousnessBoostLevel)
	p.HesitationAlertFrequency = envFloat("HESITATION_ALERT_FREQUENCY", p.HesitationAlertFrequency)
	return p
}

// Validate checks the tunables the scoring math depends on.
func (p Pipeline) Validate() error {
	if p.SmoothingAlpha <= 0 || p.SmoothingAlpha >= 1 {
		return fmt.Errorf("smoothing alpha must be in (0,1), got %v", p.SmoothingAlpha)
	}
	if p.HistoryTrimTo <= 0 || p.HistoryTrimTo > p.HistoryLimit {
		return fmt.Errorf("history trim target %d must be positive and at most the limit %d", p.HistoryTrimTo, p.HistoryLimit)
	}
	if p.SlowWPM <= 0 || p.FastWPM <= p.SlowWPM {
		return fmt.Errorf("pace bounds invalid: slow=%v fast=%v", p.SlowWPM, p.FastWPM)
	}
	if p.OptimalWPM < p.SlowWPM || p.OptimalWPM > p.FastWPM {
		return fmt.Errorf("optimal wpm %v outside [%v, %v]", p.OptimalWPM, p.SlowWPM, p.FastWPM)
	}
	if p.VideoConfidenceThreshold < 0 || p.VideoConfidenceThreshold > 1 {
		return fmt.Errorf("video confidence threshold must be in [0,1], got %v", p.VideoConfidenceThreshold)
	}
	if p.NervousnessBoostLevel < p.NervousnessAlertLevel {
		return fmt.Errorf("nervousness boost level %v below alert level %v", p.NervousnessBoostLevel, p.NervousnessAlertLevel)
	}
	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
