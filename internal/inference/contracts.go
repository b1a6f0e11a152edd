package inference

import (
	"context"

	"github.com/joseph-ayodele/diet-planner/internal/guidance"
)

// EntityRecognizer is the medical NER model: sentence -> labeled spans.
type EntityRecognizer interface {
	Recognize(ctx context.Context, sentence string) ([]guidance.EntitySpan, error)
}

// LabelScore is one ranked zero-shot label.
type LabelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// IntentClassifier is the zero-shot model: sentence + candidate labels -> ranked labels.
type IntentClassifier interface {
	Classify(ctx context.Context, sentence string, labels []string) ([]LabelScore, error)
}

// TopIntent returns the highest ranked label, or "" when ranked is empty.
func TopIntent(ranked []LabelScore) string {
	best := -1
	for i, ls := range ranked {
		if best < 0 || ls.Score > ranked[best].Score {
			best = i
		}
	}
	if best < 0 {
		return ""
	}
	return ranked[best].Label
}
