// Package guidance folds per-sentence model output into the structured
// guidance record and derives the diet guidelines and risk score from it.
package guidance

// EntitySpan is one labeled span from the medical NER model.
type EntitySpan struct {
	Text       string  `json:"word"`
	GroupLabel string  `json:"entity_group"`
	Confidence float64 `json:"score"`
}

// IntentResult is the top zero-shot label for a sentence.
type IntentResult struct {
	Sentence string `json:"sentence"`
	Label    string `json:"intent"`
}

// StructuredGuidance is built once per document and not mutated afterwards.
type StructuredGuidance struct {
	Diseases        []string `json:"diseases"`
	DietAdvice      []string `json:"diet_advice"`
	LifestyleAdvice []string `json:"lifestyle_advice"`
}

// DietGuidelines is the fixed-shape record handed to the prompt and the report.
type DietGuidelines struct {
	Condition       string   `json:"condition"`
	AllowedFoods    []string `json:"allowed_foods"`
	RestrictedFoods []string `json:"restricted_foods"`
	DietPlan        string   `json:"diet_plan"`
	LifestyleAdvice string   `json:"lifestyle_advice"`
}
