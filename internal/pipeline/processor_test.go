package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/diet-planner/constants"
	"github.com/joseph-ayodele/diet-planner/internal/common"
	"github.com/joseph-ayodele/diet-planner/internal/extract"
	"github.com/joseph-ayodele/diet-planner/internal/guidance"
	"github.com/joseph-ayodele/diet-planner/internal/inference"
	"github.com/joseph-ayodele/diet-planner/internal/segment"
)

type fakeNER struct{ calls []string }

func (f *fakeNER) Recognize(_ context.Context, s string) ([]guidance.EntitySpan, error) {
	f.calls = append(f.calls, s)
	if strings.Contains(s, "diabetes") {
		return []guidance.EntitySpan{
			{Text: "diabetes", GroupLabel: "Disease_disorder", Confidence: 0.97},
			{Text: "pancreas", GroupLabel: "Biological_structure", Confidence: 0.8},
		}, nil
	}
	return nil, nil
}

type fakeZeroShot struct{ labels [][]string }

func (f *fakeZeroShot) Classify(_ context.Context, s string, labels []string) ([]inference.LabelScore, error) {
	f.labels = append(f.labels, labels)
	top := "diagnosis"
	switch {
	case strings.Contains(s, "sugar"):
		top = "diet advice"
	case strings.Contains(s, "walk"):
		top = "lifestyle advice"
	case strings.Contains(s, "metformin"):
		top = "medication"
	}
	return []inference.LabelScore{{Label: "other", Score: 0.1}, {Label: top, Score: 0.9}}, nil
}

type fakeRisk struct{ features []float64 }

func (f *fakeRisk) Predict(_ context.Context, features []float64) (string, error) {
	f.features = features
	return "1", nil
}

type fakeGen struct {
	prompt string
	out    string
	err    error
}

func (f *fakeGen) Generate(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.out, f.err
}

const report = "Patient was diagnosed with diabetes. Avoid sugar and sweets. Take metformin twice daily. Walk thirty minutes."

func newProcessor(t *testing.T, gen *fakeGen, risk guidance.RiskClassifier, coercion constants.Coercion) (*Processor, *fakeNER, *fakeZeroShot) {
	t.Helper()
	ner, zs := &fakeNER{}, &fakeZeroShot{}
	split := func(text string) ([]string, error) { return strings.SplitAfter(text, "."), nil }
	p, err := NewProcessor(Deps{
		Extractor: extract.NewExtractor(extract.Config{Mode: constants.OCRNever}, nil, nil),
		Segmenter: segment.New(split, nil),
		Entities:  ner,
		Intents:   zs,
		Risk:      risk,
		Generator: gen,
	}, Config{Coercion: coercion}, nil)
	require.NoError(t, err)
	return p, ner, zs
}

func TestProcessText(t *testing.T) {
	gen := &fakeGen{out: "Day 1\nBreakfast: oats\nLunch: rice and dal\nDinner: khichdi\n"}
	p, ner, zs := newProcessor(t, gen, &fakeRisk{}, "")

	res, err := p.Process(context.Background(), extract.Document{Name: "report.txt", Reader: strings.NewReader(report)})
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, constants.RunStatusPlanned, res.Status)
	assert.Len(t, res.Sentences, 4)
	assert.Equal(t, res.Sentences, ner.calls)
	for _, l := range zs.labels {
		assert.Equal(t, constants.IntentLabels(), l)
	}

	assert.Equal(t, []string{"diabetes"}, res.Structured.Diseases)
	assert.Equal(t, []string{"avoid sugar and sweets."}, res.Structured.DietAdvice)
	assert.Equal(t, []string{"walk thirty minutes."}, res.Structured.LifestyleAdvice)
	require.Len(t, res.Intents, 4)
	assert.Equal(t, "medication", res.Intents[2].Label)

	assert.Equal(t, "diabetes", res.Guidelines.Condition)
	assert.True(t, res.Risk.Insufficient)
	assert.Contains(t, gen.prompt, "Health Score: "+guidance.InsufficientDataMessage)
	assert.Contains(t, gen.prompt, "Condition: diabetes")

	require.Len(t, res.Days, 1)
	assert.Equal(t, "oats\n", res.Days[0].Breakfast)

	rep := res.Report(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	assert.Equal(t, guidance.InsufficientDataMessage, rep.Prediction)
	assert.Equal(t, gen.out, rep.DietPlan)
}

func TestProcessCSVScoresRisk(t *testing.T) {
	gen := &fakeGen{out: "Day 1\nLunch: salad\n"}
	risk := &fakeRisk{}
	p, _, _ := newProcessor(t, gen, risk, constants.CoercionDefaultZero)

	res, err := p.Process(context.Background(), extract.Document{
		Name:   "vitals.csv",
		Reader: strings.NewReader("age,bmi,bp\n45,n/a,120\n"),
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{45, 0, 120}, risk.features)
	assert.Equal(t, "1", res.Risk.String())
	assert.Contains(t, gen.prompt, "Health Score: 1")
}

func TestProcessCSVStrictCoercion(t *testing.T) {
	risk := &fakeRisk{}
	p, _, _ := newProcessor(t, &fakeGen{out: "Day 1"}, risk, constants.CoercionStrict)

	res, err := p.Process(context.Background(), extract.Document{
		Name:   "vitals.csv",
		Reader: strings.NewReader("age,bmi,bp\n45,n/a,120\n"),
	})
	require.NoError(t, err)
	assert.True(t, res.Risk.Insufficient)
	assert.Nil(t, risk.features)
}

func TestProcessGenerationFailureDegrades(t *testing.T) {
	gen := &fakeGen{err: common.GenerationError(errors.New("503"))}
	p, _, _ := newProcessor(t, gen, nil, "")

	res, err := p.Process(context.Background(), extract.Document{Name: "r.txt", Reader: strings.NewReader(report)})
	require.NoError(t, err)
	assert.Equal(t, constants.RunStatusPlanFailed, res.Status)
	assert.Equal(t, PlaceholderPlan, res.PlanText)
	assert.ErrorIs(t, res.GenerationErr, common.ErrGeneration)
	assert.Empty(t, res.Days)
	assert.Equal(t, []string{"diabetes"}, res.Structured.Diseases)
}

func TestProcessExtractionFailureSurfaces(t *testing.T) {
	gen := &fakeGen{out: "Day 1"}
	p, ner, _ := newProcessor(t, gen, nil, "")

	res, err := p.Process(context.Background(), extract.Document{Name: "x.docx", Reader: strings.NewReader("x")})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUnsupportedFormat)
	require.NotNil(t, res)
	assert.Empty(t, ner.calls)
	assert.Empty(t, gen.prompt)
}

type failingNER struct{}

func (failingNER) Recognize(context.Context, string) ([]guidance.EntitySpan, error) {
	return nil, common.DependencyUnavailable("ner model", errors.New("connection refused"))
}

func TestProcessInferenceFailureSurfaces(t *testing.T) {
	gen := &fakeGen{out: "Day 1"}
	p, err := NewProcessor(Deps{
		Extractor: extract.NewExtractor(extract.Config{}, nil, nil),
		Segmenter: segment.New(func(s string) ([]string, error) { return []string{s}, nil }, nil),
		Entities:  failingNER{},
		Intents:   &fakeZeroShot{},
		Generator: gen,
	}, Config{}, nil)
	require.NoError(t, err)

	_, err = p.Process(context.Background(), extract.Document{Name: "r.txt", Reader: strings.NewReader(report)})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrDependencyUnavailable)
	assert.Empty(t, gen.prompt)
}

func TestNewProcessorRequiresDeps(t *testing.T) {
	_, err := NewProcessor(Deps{}, Config{}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}
