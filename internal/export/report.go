package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/joseph-ayodele/diet-planner/internal/guidance"
	"github.com/joseph-ayodele/diet-planner/internal/plan"
	"github.com/joseph-ayodele/diet-planner/internal/validate"
)

// Report is the downloadable JSON summary of one run.
type Report struct {
	Date       string                  `json:"date"`
	Prediction string                  `json:"prediction"`
	Guidelines guidance.DietGuidelines `json:"guidelines"`
	DietPlan   string                  `json:"diet_plan"`
	Days       []plan.Day              `json:"days"`
}

// NewReport stamps the report with now in RFC 3339.
func NewReport(now time.Time, prediction string, g guidance.DietGuidelines, planText string, days []plan.Day) Report {
	if days == nil {
		days = []plan.Day{}
	}
	return Report{
		Date:       now.Format(time.RFC3339),
		Prediction: prediction,
		Guidelines: g,
		DietPlan:   planText,
		Days:       days,
	}
}

func stringList() map[string]any {
	return map[string]any{"type": "array", "items": map[string]any{"type": "string"}}
}

var reportSchema = validate.MustCompile(map[string]any{
	"type":     "object",
	"required": []string{"date", "prediction", "guidelines", "diet_plan", "days"},
	"properties": map[string]any{
		"date":       map[string]any{"type": "string", "minLength": 1},
		"prediction": map[string]any{"type": "string"},
		"diet_plan":  map[string]any{"type": "string"},
		"guidelines": map[string]any{
			"type":     "object",
			"required": []string{"condition", "allowed_foods", "restricted_foods", "diet_plan", "lifestyle_advice"},
			"properties": map[string]any{
				"condition":        map[string]any{"type": "string", "minLength": 1},
				"allowed_foods":    stringList(),
				"restricted_foods": stringList(),
				"diet_plan":        map[string]any{"type": "string"},
				"lifestyle_advice": map[string]any{"type": "string"},
			},
		},
		"days": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []string{"title"},
			},
		},
	},
})

// MarshalReport renders the report as indented JSON and checks it against the schema.
func MarshalReport(r Report) ([]byte, error) {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}
	if err := validate.JSON(reportSchema, b); err != nil {
		return nil, fmt.Errorf("report: %w", err)
	}
	return b, nil
}
