package constants

// Intent is one of the candidate labels offered to the zero-shot classifier.
type Intent string

const (
	IntentDiagnosis  Intent = "diagnosis"
	IntentDiet       Intent = "diet advice"
	IntentMedication Intent = "medication"
	IntentLifestyle  Intent = "lifestyle advice"
)

var allIntents = []Intent{
	IntentDiagnosis,
	IntentDiet,
	IntentMedication,
	IntentLifestyle,
}

// IntentLabels returns the closed candidate label set in its canonical order.
func IntentLabels() []string {
	result := make([]string, len(allIntents))
	for i, in := range allIntents {
		result[i] = string(in)
	}
	return result
}
