package guidance

import "strings"

// Aggregate keeps disease entities and diet/lifestyle sentences, in scan order.
// Labels are matched as case-folded substrings; a label containing both
// "diet" and "lifestyle" lands in both lists. Diagnosis and medication
// intents are dropped here.
func Aggregate(entities []EntitySpan, intents []IntentResult) StructuredGuidance {
	out := StructuredGuidance{
		Diseases:        []string{},
		DietAdvice:      []string{},
		LifestyleAdvice: []string{},
	}
	for _, e := range entities {
		if strings.Contains(strings.ToLower(e.GroupLabel), "disease") {
			out.Diseases = append(out.Diseases, e.Text)
		}
	}
	for _, in := range intents {
		label := strings.ToLower(in.Label)
		if strings.Contains(label, "diet") {
			out.DietAdvice = append(out.DietAdvice, in.Sentence)
		}
		if strings.Contains(label, "lifestyle") {
			out.LifestyleAdvice = append(out.LifestyleAdvice, in.Sentence)
		}
	}
	return out
}
