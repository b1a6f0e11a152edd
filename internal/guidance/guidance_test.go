package guidance

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/diet-planner/constants"
	"github.com/joseph-ayodele/diet-planner/internal/extract"
)

func TestAggregateDiseases(t *testing.T) {
	entities := []EntitySpan{
		{GroupLabel: "Disease_Disorder", Text: "diabetes"},
		{GroupLabel: "Biological_structure", Text: "pancreas"},
	}
	got := Aggregate(entities, nil)
	assert.Equal(t, []string{"diabetes"}, got.Diseases)
	assert.Empty(t, got.DietAdvice)
	assert.Empty(t, got.LifestyleAdvice)
}

func TestAggregateKeepsDuplicatesAndOrder(t *testing.T) {
	entities := []EntitySpan{
		{GroupLabel: "DISEASE_DISORDER", Text: "anemia"},
		{GroupLabel: "Medication", Text: "metformin"},
		{GroupLabel: "disease_disorder", Text: "diabetes"},
		{GroupLabel: "Disease_Disorder", Text: "anemia"},
	}
	got := Aggregate(entities, nil)
	assert.Equal(t, []string{"anemia", "diabetes", "anemia"}, got.Diseases)
}

func TestAggregateIntents(t *testing.T) {
	intents := []IntentResult{
		{Sentence: "patient has diabetes.", Label: "diagnosis"},
		{Sentence: "avoid sugar.", Label: "diet advice"},
		{Sentence: "take metformin daily.", Label: "medication"},
		{Sentence: "walk every morning.", Label: "Lifestyle Advice"},
		{Sentence: "both kinds.", Label: "diet and lifestyle"},
	}
	got := Aggregate(nil, intents)
	assert.Equal(t, []string{"avoid sugar.", "both kinds."}, got.DietAdvice)
	assert.Equal(t, []string{"walk every morning.", "both kinds."}, got.LifestyleAdvice)
	assert.Empty(t, got.Diseases)
}

func TestAggregateOnlyDiseaseLabelsReachDiseases(t *testing.T) {
	labels := []string{"Disease_Disorder", "Sign_symptom", "Diagnostic_procedure", "Medication", "Age", "Diseased"}
	var entities []EntitySpan
	for i, l := range labels {
		entities = append(entities, EntitySpan{GroupLabel: l, Text: strings.Repeat("x", i+1)})
	}
	got := Aggregate(entities, nil)
	byText := map[string]string{}
	for _, e := range entities {
		byText[e.Text] = e.GroupLabel
	}
	for _, d := range got.Diseases {
		assert.Contains(t, strings.ToLower(byText[d]), "disease")
	}
	assert.Len(t, got.Diseases, 2)
}

func TestSynthesize(t *testing.T) {
	sg := StructuredGuidance{
		Diseases:        []string{"diabetes", "hypertension"},
		DietAdvice:      []string{"avoid sugar.", "eat more fibre."},
		LifestyleAdvice: []string{"walk daily."},
	}
	got := Synthesize(sg)
	assert.Equal(t, DietGuidelines{
		Condition:       "diabetes, hypertension",
		AllowedFoods:    []string{"vegetables", "whole grains", "fruits"},
		RestrictedFoods: []string{"sugar", "fried food", "junk food"},
		DietPlan:        "Follow a balanced diet. avoid sugar., eat more fibre.",
		LifestyleAdvice: "walk daily.",
	}, got)
}

func TestSynthesizeFallbacks(t *testing.T) {
	got := Synthesize(StructuredGuidance{})
	assert.Equal(t, "General", got.Condition)
	assert.Equal(t, "Follow a balanced diet. No specific advice", got.DietPlan)
	assert.Equal(t, "No specific advice", got.LifestyleAdvice)
}

func TestSynthesizeIsIdempotent(t *testing.T) {
	sg := StructuredGuidance{Diseases: []string{"anemia"}, DietAdvice: []string{"eat spinach."}}
	first, err := json.Marshal(Synthesize(sg))
	require.NoError(t, err)

	a := Synthesize(sg)
	a.AllowedFoods[0] = "mutated"

	second, err := json.Marshal(Synthesize(sg))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

type fakeRisk struct {
	got []float64
	out string
	err error
}

func (f *fakeRisk) Predict(_ context.Context, features []float64) (string, error) {
	f.got = features
	return f.out, f.err
}

func vitals() *extract.NumericRecord {
	return &extract.NumericRecord{Fields: []extract.Field{
		{Name: "age", Raw: "45"},
		{Name: "bmi", Raw: "n/a"},
		{Name: "bp", Raw: "120"},
	}}
}

func TestFeaturesDefaultZero(t *testing.T) {
	got, err := Features(vitals(), constants.CoercionDefaultZero)
	require.NoError(t, err)
	assert.Equal(t, []float64{45, 0, 120}, got)
}

func TestFeaturesStrict(t *testing.T) {
	_, err := Features(vitals(), constants.CoercionStrict)
	var nn *NonNumericError
	require.ErrorAs(t, err, &nn)
	assert.Equal(t, []string{"bmi"}, nn.Columns)
}

func TestScoreRiskDefaultZero(t *testing.T) {
	clf := &fakeRisk{out: "1"}
	score, err := ScoreRisk(context.Background(), clf, vitals(), constants.CoercionDefaultZero)
	require.NoError(t, err)
	assert.False(t, score.Insufficient)
	assert.Equal(t, "1", score.String())
	assert.Equal(t, []float64{45, 0, 120}, clf.got)
}

func TestScoreRiskStrictFlagsInsufficient(t *testing.T) {
	clf := &fakeRisk{out: "1"}
	score, err := ScoreRisk(context.Background(), clf, vitals(), constants.CoercionStrict)
	require.NoError(t, err)
	assert.True(t, score.Insufficient)
	assert.Equal(t, InsufficientDataMessage, score.String())
	assert.Contains(t, score.Reason, "bmi")
	assert.Nil(t, clf.got)
}

func TestScoreRiskWithoutRecord(t *testing.T) {
	score, err := ScoreRisk(context.Background(), &fakeRisk{}, nil, constants.CoercionDefaultZero)
	require.NoError(t, err)
	assert.True(t, score.Insufficient)

	score, err = ScoreRisk(context.Background(), &fakeRisk{}, &extract.NumericRecord{}, constants.CoercionDefaultZero)
	require.NoError(t, err)
	assert.True(t, score.Insufficient)

	score, err = ScoreRisk(context.Background(), nil, vitals(), constants.CoercionDefaultZero)
	require.NoError(t, err)
	assert.True(t, score.Insufficient)
}

func TestScoreRiskClassifierError(t *testing.T) {
	_, err := ScoreRisk(context.Background(), &fakeRisk{err: errors.New("down")}, vitals(), constants.CoercionDefaultZero)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "down")
}
