// Package feedback maps analysis output to prioritized, actionable triggers
// for downstream delivery to the interviewee.
package feedback

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hareshchavan26/aimockinterviewer2-sub003/internal/config"
	"github.com/hareshchavan26/aimockinterviewer2-sub003/internal/hesitation"
	"github.com/hareshchavan26/aimockinterviewer2-sub003/internal/insight"
	"github.com/hareshchavan26/aimockinterviewer2-sub003/internal/nervousness"
)

type Type string

const (
	TypeImmediateCorrection Type = "IMMEDIATE_CORRECTION"
	TypeEncouragement       Type = "ENCOURAGEMENT"
	TypeTechniqueSuggestion Type = "TECHNIQUE_SUGGESTION"
	TypeConfidenceBoost     Type = "CONFIDENCE_BOOST"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Trigger is one actionable feedback item.
type Trigger struct {
	ID             uuid.UUID      `json:"id"`
	Type           Type           `json:"type"`
	Priority       Priority       `json:"priority"`
	Message        string         `json:"message"`
	ActionRequired bool           `json:"action_required"`
	Timestamp      time.Time      `json:"timestamp"`
	Data           map[string]any `json:"data,omitempty"`
}

type Generator struct {
	hesitationAlertFrequency float64
	nervousnessBoostLevel    float64
}

func NewGenerator(cfg config.Pipeline) *Generator {
	return &Generator{
		hesitationAlertFrequency: cfg.HesitationAlertFrequency,
		nervousnessBoostLevel:    cfg.NervousnessBoostLevel,
	}
}

// Generate derives triggers from one call's combined output. The mapping is
// deterministic; when no threshold is crossed no trigger is emitted.
func (g *Generator) Generate(insights []insight.Insight, hes hesitation.Analysis, nerv nervousness.Analysis, now time.Time) []Trigger {
	var triggers []Trigger

	for _, ins := range insights {
		switch ins.Severity {
		case insight.SeverityCritical, insight.SeverityWarning:
			priority := PriorityMedium
			if ins.Severity == insight.SeverityCritical {
				priority = PriorityUrgent
			}
			message := ins.Suggestion
			if message == "" {
				message = ins.Message
			}
			triggers = append(triggers, Trigger{
				ID:             uuid.New(),
				Type:           TypeImmediateCorrection,
				Priority:       priority,
				Message:        message,
				ActionRequired: priority == PriorityUrgent,
				Timestamp:      now,
				Data: map[string]any{
					"insight_type": string(ins.Type),
				},
			})
		case insight.SeverityPositive:
			triggers = append(triggers, Trigger{
				ID:        uuid.New(),
				Type:      TypeEncouragement,
				Priority:  PriorityLow,
				Message:   ins.Message,
				Timestamp: now,
				Data: map[string]any{
					"insight_type": string(ins.Type),
				},
			})
		}
	}

	if hes.HesitationFrequency > g.hesitationAlertFrequency {
		triggers = append(triggers, Trigger{
			ID:        uuid.New(),
			Type:      TypeTechniqueSuggestion,
			Priority:  PriorityMedium,
			Message:   fmt.Sprintf("Hesitation rate is %.1f events/min; try the pause-and-answer technique", hes.HesitationFrequency),
			Timestamp: now,
			Data: map[string]any{
				"hesitation_frequency": hes.HesitationFrequency,
			},
		})
	}

	if nerv.OverallScore > g.nervousnessBoostLevel {
		triggers = append(triggers, Trigger{
			ID:             uuid.New(),
			Type:           TypeConfidenceBoost,
			Priority:       PriorityHigh,
			Message:        "You know this material. Slow down, breathe, and take the next question fresh.",
			ActionRequired: true,
			Timestamp:      now,
			Data: map[string]any{
				"nervousness_score": nerv.OverallScore,
			},
		})
	}

	return triggers
}
