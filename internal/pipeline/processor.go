// Package pipeline runs one document through extraction, segmentation,
// model inference, guideline synthesis, plan generation and plan parsing.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/diet-planner/constants"
	"github.com/joseph-ayodele/diet-planner/internal/common"
	"github.com/joseph-ayodele/diet-planner/internal/export"
	"github.com/joseph-ayodele/diet-planner/internal/extract"
	"github.com/joseph-ayodele/diet-planner/internal/guidance"
	"github.com/joseph-ayodele/diet-planner/internal/inference"
	"github.com/joseph-ayodele/diet-planner/internal/llm"
	"github.com/joseph-ayodele/diet-planner/internal/plan"
)

// PlaceholderPlan stands in for the plan text when generation fails.
const PlaceholderPlan = "Diet plan could not be generated at this time. Follow the guidelines above and try again later."

// Segmenter splits extracted text into sentences.
type Segmenter interface {
	Segment(text string) ([]string, error)
}

// Deps are the collaborators, built once at process start. Risk may be nil,
// in which case every run scores InsufficientData.
type Deps struct {
	Extractor extract.TextExtractor
	Segmenter Segmenter
	Entities  inference.EntityRecognizer
	Intents   inference.IntentClassifier
	Risk      guidance.RiskClassifier
	Generator llm.PlanGenerator
}

type Config struct {
	Coercion constants.Coercion // default default_zero
	Days     int                // plan length requested from the generator, default 7
	Cuisine  string             // default "Indian"
}

// Result carries every intermediate record of a run.
type Result struct {
	RunID      string
	Status     constants.RunStatus
	Extraction extract.Result
	Sentences  []string
	Entities   []guidance.EntitySpan
	Intents    []guidance.IntentResult
	Structured guidance.StructuredGuidance
	Guidelines guidance.DietGuidelines
	Risk       guidance.RiskScore
	Prompt     string
	PlanText   string
	Days       []plan.Day
	// GenerationErr is set when PlanText is the placeholder.
	GenerationErr error
	Duration      time.Duration
}

// Report builds the JSON export for this run.
func (r *Result) Report(now time.Time) export.Report {
	return export.NewReport(now, r.Risk.String(), r.Guidelines, r.PlanText, r.Days)
}

// Processor runs the stages strictly in order.
type Processor struct {
	deps   Deps
	cfg    Config
	logger *slog.Logger
}

func NewProcessor(deps Deps, cfg Config, logger *slog.Logger) (*Processor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch {
	case deps.Extractor == nil:
		return nil, common.NewAppError(common.CodeConfigError, "extractor is required", common.ErrInvalidInput)
	case deps.Segmenter == nil:
		return nil, common.NewAppError(common.CodeConfigError, "segmenter is required", common.ErrInvalidInput)
	case deps.Entities == nil:
		return nil, common.NewAppError(common.CodeConfigError, "entity recognizer is required", common.ErrInvalidInput)
	case deps.Intents == nil:
		return nil, common.NewAppError(common.CodeConfigError, "intent classifier is required", common.ErrInvalidInput)
	case deps.Generator == nil:
		return nil, common.NewAppError(common.CodeConfigError, "plan generator is required", common.ErrInvalidInput)
	}
	if cfg.Coercion == "" {
		cfg.Coercion = constants.CoercionDefaultZero
	}
	if cfg.Days <= 0 {
		cfg.Days = 7
	}
	if cfg.Cuisine == "" {
		cfg.Cuisine = "Indian"
	}
	return &Processor{deps: deps, cfg: cfg, logger: logger}, nil
}

// Process runs one document end to end. Extraction, segmentation, inference
// and risk failures abort the run and are returned together with the
// partial result. A generation failure does not: the plan text becomes
// PlaceholderPlan and Status is PLAN_FAILED.
func (p *Processor) Process(ctx context.Context, doc extract.Document) (*Result, error) {
	start := time.Now()
	res := &Result{RunID: uuid.New().String()}
	ctx = common.WithRequestID(common.WithRunID(ctx, res.RunID), res.RunID)
	log := p.logger.With("run_id", res.RunID, "document", doc.Name)

	// 1) Extract
	ex, err := p.deps.Extractor.Extract(ctx, doc)
	if err != nil {
		log.Error("pipeline.extract.failed", "error", err)
		return res, fmt.Errorf("extract: %w", err)
	}
	res.Extraction = ex
	log.Info("pipeline.extract.ok", "method", ex.Method, "chars", len(ex.Text), "numeric_fields", ex.Numeric.Len())

	// 2) Segment
	sents, err := p.deps.Segmenter.Segment(ex.Text)
	if err != nil {
		log.Error("pipeline.segment.failed", "error", err)
		return res, fmt.Errorf("segment: %w", err)
	}
	res.Sentences = sents

	// 3) Entities and intents, one call per sentence in order
	if err := p.runInference(ctx, res); err != nil {
		log.Error("pipeline.inference.failed", "error", err)
		return res, err
	}
	log.Info("pipeline.inference.ok", "sentences", len(res.Sentences), "entities", len(res.Entities), "intents", len(res.Intents))

	// 4) Aggregate and synthesize
	res.Structured = guidance.Aggregate(res.Entities, res.Intents)
	res.Guidelines = guidance.Synthesize(res.Structured)

	// 5) Risk
	risk, err := guidance.ScoreRisk(ctx, p.deps.Risk, ex.Numeric, p.cfg.Coercion)
	if err != nil {
		log.Error("pipeline.risk.failed", "error", err)
		return res, fmt.Errorf("risk: %w", err)
	}
	res.Risk = risk
	if risk.Insufficient {
		log.Info("pipeline.risk.insufficient", "reason", risk.Reason)
	}

	// 6) Generate, degrading to the placeholder
	res.Prompt = llm.BuildPlanPrompt(llm.PlanRequest{
		Guidelines: res.Guidelines,
		RiskScore:  risk.String(),
		Days:       p.cfg.Days,
		Cuisine:    p.cfg.Cuisine,
	})
	planText, err := p.deps.Generator.Generate(ctx, res.Prompt)
	if err != nil {
		log.Warn("pipeline.generate.failed", "error", err)
		res.GenerationErr = err
		res.PlanText = PlaceholderPlan
		res.Status = constants.RunStatusPlanFailed
	} else {
		res.PlanText = planText
		res.Status = constants.RunStatusPlanned
	}

	// 7) Parse
	res.Days = plan.Parse(res.PlanText)
	res.Duration = time.Since(start)

	log.Info("pipeline.ok",
		"status", res.Status,
		"days", len(res.Days),
		"risk", res.Risk.String(),
		"elapsed_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

func (p *Processor) runInference(ctx context.Context, res *Result) error {
	labels := constants.IntentLabels()
	res.Entities = []guidance.EntitySpan{}
	res.Intents = make([]guidance.IntentResult, 0, len(res.Sentences))

	for i, s := range res.Sentences {
		spans, err := p.deps.Entities.Recognize(ctx, s)
		if err != nil {
			return fmt.Errorf("ner sentence %d: %w", i, err)
		}
		res.Entities = append(res.Entities, spans...)
	}
	for i, s := range res.Sentences {
		ranked, err := p.deps.Intents.Classify(ctx, s, labels)
		if err != nil {
			return fmt.Errorf("classify sentence %d: %w", i, err)
		}
		res.Intents = append(res.Intents, guidance.IntentResult{Sentence: s, Label: inference.TopIntent(ranked)})
	}
	return nil
}
