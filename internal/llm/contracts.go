package llm

import (
	"context"

	"github.com/joseph-ayodele/diet-planner/internal/guidance"
)

// PlanRequest is what the prompt is built from.
type PlanRequest struct {
	Guidelines guidance.DietGuidelines
	RiskScore  string
	Days       int    // default 7
	Cuisine    string // default "Indian"
}

// PlanGenerator is the chat-completion collaborator: prompt -> plan text.
type PlanGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
