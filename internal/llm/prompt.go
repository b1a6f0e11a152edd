package llm

import (
	"fmt"
	"strings"
)

// BuildPlanPrompt embeds the guidelines and risk score and asks for a fixed
// day/meal layout the plan parser understands.
func BuildPlanPrompt(req PlanRequest) string {
	days := req.Days
	if days <= 0 {
		days = 7
	}
	cuisine := strings.TrimSpace(req.Cuisine)
	if cuisine == "" {
		cuisine = "Indian"
	}
	risk := strings.TrimSpace(req.RiskScore)
	if risk == "" {
		risk = "N/A"
	}
	g := req.Guidelines

	var b strings.Builder
	fmt.Fprintf(&b, "Create a clear %d day %s diet plan.\n\n", days, cuisine)
	b.WriteString("Condition: " + g.Condition + "\n")
	b.WriteString("Diet advice: " + g.DietPlan + "\n")
	b.WriteString("Lifestyle advice: " + g.LifestyleAdvice + "\n")
	b.WriteString("Allowed foods: " + strings.Join(g.AllowedFoods, ", ") + "\n")
	b.WriteString("Restricted foods: " + strings.Join(g.RestrictedFoods, ", ") + "\n")
	b.WriteString("Health Score: " + risk + "\n\n")
	b.WriteString("Format:\nDay 1\nBreakfast:\nLunch:\nDinner:\n")
	return b.String()
}
