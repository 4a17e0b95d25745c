package feedback

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hareshchavan26/aimockinterviewer2-sub003/internal/config"
	"github.com/hareshchavan26/aimockinterviewer2-sub003/internal/hesitation"
	"github.com/hareshchavan26/aimockinterviewer2-sub003/internal/insight"
	"github.com/hareshchavan26/aimockinterviewer2-sub003/internal/nervousness"
)

func newGenerator() *Generator {
	return NewGenerator(config.DefaultPipeline())
}

func TestGenerate_NoThresholdCrossed(t *testing.T) {
	got := newGenerator().Generate(nil, hesitation.Analysis{}, nervousness.Analysis{}, time.Now())
	if len(got) != 0 {
		t.Errorf("expected no triggers, got %v", got)
	}
}

func TestGenerate_InsightMapping(t *testing.T) {
	tests := []struct {
		name         string
		severity     insight.Severity
		wantType     Type
		wantPriority Priority
		wantAction   bool
	}{
		{"critical insight", insight.SeverityCritical, TypeImmediateCorrection, PriorityUrgent, true},
		{"warning insight", insight.SeverityWarning, TypeImmediateCorrection, PriorityMedium, false},
		{"positive insight", insight.SeverityPositive, TypeEncouragement, PriorityLow, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ins := []insight.Insight{{
				Type:       insight.TypeFillerWords,
				Severity:   tt.severity,
				Message:    "observed",
				Suggestion: "do better",
			}}
			got := newGenerator().Generate(ins, hesitation.Analysis{}, nervousness.Analysis{}, time.Now())

			if len(got) != 1 {
				t.Fatalf("expected 1 trigger, got %d", len(got))
			}
			trg := got[0]
			if trg.Type != tt.wantType {
				t.Errorf("type = %s, want %s", trg.Type, tt.wantType)
			}
			if trg.Priority != tt.wantPriority {
				t.Errorf("priority = %s, want %s", trg.Priority, tt.wantPriority)
			}
			if trg.ActionRequired != tt.wantAction {
				t.Errorf("action_required = %v, want %v", trg.ActionRequired, tt.wantAction)
			}
			if trg.ID == uuid.Nil {
				t.Error("trigger id not set")
			}
		})
	}
}

func TestGenerate_CorrectionCarriesSuggestion(t *testing.T) {
	ins := []insight.Insight{{
		Severity:   insight.SeverityWarning,
		Message:    "pace too fast",
		Suggestion: "slow down",
	}}
	got := newGenerator().Generate(ins, hesitation.Analysis{}, nervousness.Analysis{}, time.Now())

	if len(got) != 1 || got[0].Message != "slow down" {
		t.Errorf("expected suggestion as message, got %v", got)
	}
}

func TestGenerate_HesitationTechnique(t *testing.T) {
	hes := hesitation.Analysis{HesitationFrequency: 6}
	got := newGenerator().Generate(nil, hes, nervousness.Analysis{}, time.Now())

	if len(got) != 1 {
		t.Fatalf("expected 1 trigger, got %d", len(got))
	}
	if got[0].Type != TypeTechniqueSuggestion || got[0].Priority != PriorityMedium {
		t.Errorf("expected medium technique suggestion, got %+v", got[0])
	}
}

func TestGenerate_HesitationAtThresholdDoesNotFire(t *testing.T) {
	hes := hesitation.Analysis{HesitationFrequency: 5}
	got := newGenerator().Generate(nil, hes, nervousness.Analysis{}, time.Now())
	if len(got) != 0 {
		t.Errorf("frequency exactly at threshold must not trigger, got %v", got)
	}
}

func TestGenerate_ConfidenceBoost(t *testing.T) {
	nerv := nervousness.Analysis{OverallScore: 0.8}
	got := newGenerator().Generate(nil, hesitation.Analysis{}, nerv, time.Now())

	if len(got) != 1 {
		t.Fatalf("expected 1 trigger, got %d", len(got))
	}
	if got[0].Type != TypeConfidenceBoost || got[0].Priority != PriorityHigh {
		t.Errorf("expected high confidence boost, got %+v", got[0])
	}
	if !got[0].ActionRequired {
		t.Error("confidence boost should require action")
	}
}

func TestGenerate_Combined(t *testing.T) {
	ins := []insight.Insight{
		{Severity: insight.SeverityWarning, Suggestion: "slow down"},
		{Severity: insight.SeverityPositive, Message: "good structure"},
	}
	hes := hesitation.Analysis{HesitationFrequency: 7}
	nerv := nervousness.Analysis{OverallScore: 0.9}

	got := newGenerator().Generate(ins, hes, nerv, time.Now())
	if len(got) != 4 {
		t.Fatalf("expected 4 triggers, got %d", len(got))
	}

	counts := map[Type]int{}
	for _, trg := range got {
		counts[trg.Type]++
	}
	for _, want := range []Type{TypeImmediateCorrection, TypeEncouragement, TypeTechniqueSuggestion, TypeConfidenceBoost} {
		if counts[want] != 1 {
			t.Errorf("expected one %s trigger, got %d", want, counts[want])
		}
	}
}
