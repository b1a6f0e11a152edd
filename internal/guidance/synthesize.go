package guidance

import "strings"

const (
	GeneralCondition = "General"
	NoSpecificAdvice = "No specific advice"
	DietPlanLead     = "Follow a balanced diet."
)

// The food lists do not depend on the detected condition.
var (
	allowedFoods    = []string{"vegetables", "whole grains", "fruits"}
	restrictedFoods = []string{"sugar", "fried food", "junk food"}
)

// Synthesize formats structured guidance into diet guidelines. It is pure:
// the same input always yields an identical record.
func Synthesize(sg StructuredGuidance) DietGuidelines {
	return DietGuidelines{
		Condition:       joinOr(sg.Diseases, GeneralCondition),
		AllowedFoods:    append([]string(nil), allowedFoods...),
		RestrictedFoods: append([]string(nil), restrictedFoods...),
		DietPlan:        DietPlanLead + " " + joinOr(sg.DietAdvice, NoSpecificAdvice),
		LifestyleAdvice: joinOr(sg.LifestyleAdvice, NoSpecificAdvice),
	}
}

func joinOr(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return strings.Join(items, ", ")
}
