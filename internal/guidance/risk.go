package guidance

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/diet-planner/constants"
	"github.com/joseph-ayodele/diet-planner/internal/extract"
)

// InsufficientDataMessage is the single human-readable form of the sentinel.
const InsufficientDataMessage = "Not enough data for risk prediction"

// RiskClassifier scores an ordered feature vector.
type RiskClassifier interface {
	Predict(ctx context.Context, features []float64) (string, error)
}

// RiskScore is either a classifier value or the InsufficientData sentinel.
type RiskScore struct {
	Value        string
	Insufficient bool
	Reason       string // why the sentinel was emitted; empty for real scores
}

// InsufficientData returns the sentinel score.
func InsufficientData(reason string) RiskScore {
	return RiskScore{Insufficient: true, Reason: reason}
}

func (r RiskScore) String() string {
	if r.Insufficient {
		return InsufficientDataMessage
	}
	return r.Value
}

// NonNumericError lists the columns that failed strict coercion.
type NonNumericError struct {
	Columns []string
}

func (e *NonNumericError) Error() string {
	return fmt.Sprintf("non-numeric values in columns: %s", strings.Join(e.Columns, ", "))
}

// Features coerces the record to numbers in column order. Under
// CoercionDefaultZero unparsable cells become 0; under CoercionStrict they
// yield a *NonNumericError.
func Features(rec *extract.NumericRecord, policy constants.Coercion) ([]float64, error) {
	if rec.Len() == 0 {
		return nil, nil
	}
	out := make([]float64, len(rec.Fields))
	var bad []string
	for i, f := range rec.Fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f.Raw), 64)
		if err != nil {
			if policy == constants.CoercionStrict {
				bad = append(bad, f.Name)
			}
			continue
		}
		out[i] = v
	}
	if len(bad) > 0 {
		return nil, &NonNumericError{Columns: bad}
	}
	return out, nil
}

// ScoreRisk emits the sentinel when there is no record, the record is empty
// or strict coercion rejects it. Only classifier failures are returned as errors.
func ScoreRisk(ctx context.Context, clf RiskClassifier, rec *extract.NumericRecord, policy constants.Coercion) (RiskScore, error) {
	if rec.Len() == 0 {
		return InsufficientData("no numeric fields"), nil
	}
	features, err := Features(rec, policy)
	if err != nil {
		return InsufficientData(err.Error()), nil
	}
	if clf == nil {
		return InsufficientData("risk classifier not configured"), nil
	}
	v, err := clf.Predict(ctx, features)
	if err != nil {
		return RiskScore{}, fmt.Errorf("risk classifier: %w", err)
	}
	return RiskScore{Value: v}, nil
}
