package main

import (
	"log/slog"

	"github.com/joseph-ayodele/diet-planner/constants"
	"github.com/joseph-ayodele/diet-planner/internal/common"
	"github.com/joseph-ayodele/diet-planner/internal/extract"
	"github.com/joseph-ayodele/diet-planner/internal/inference"
	"github.com/joseph-ayodele/diet-planner/internal/llm/openai"
	"github.com/joseph-ayodele/diet-planner/internal/ocr"
	"github.com/joseph-ayodele/diet-planner/internal/pipeline"
	"github.com/joseph-ayodele/diet-planner/internal/segment"
)

func newExtractor(c *common.Config, log *slog.Logger) *extract.Extractor {
	var engine extract.OCR
	if c.OCR.Mode != constants.OCRNever {
		engine = ocr.NewEngine(ocr.Config{
			Pdftoppm:    c.OCR.Pdftoppm,
			Tesseract:   c.OCR.Tesseract,
			Language:    c.OCR.Language,
			DPI:         c.OCR.DPI,
			TessdataDir: c.OCR.TessdataDir,
		}, nil, log)
	}
	return extract.NewExtractor(extract.Config{Mode: c.OCR.Mode, Language: c.OCR.Language}, engine, log)
}

// newDeps builds every collaborator once for the process.
func newDeps(c *common.Config, log *slog.Logger) pipeline.Deps {
	models := inference.NewClient(inference.Config{
		NERURL:      c.Inference.NERURL,
		ZeroShotURL: c.Inference.ZeroShotURL,
		RiskURL:     c.Inference.RiskURL,
		Token:       c.Inference.Token,
		Timeout:     c.Inference.Timeout,
		MaxAttempts: c.Inference.MaxAttempts,
	}, log)

	deps := pipeline.Deps{
		Extractor: newExtractor(c, log),
		Segmenter: segment.New(nil, log),
		Entities:  models,
		Intents:   models,
		Generator: openai.NewClient(openai.Config{
			APIKey:      c.LLM.APIKey,
			BaseURL:     c.LLM.BaseURL,
			Model:       c.LLM.Model,
			Temperature: c.LLM.Temperature,
			Timeout:     c.LLM.Timeout,
		}, log),
	}
	if c.Inference.RiskURL != "" {
		deps.Risk = models
	} else {
		log.Warn("risk.disabled", "hint", "set RISK_URL to score tabular reports")
	}
	return deps
}
