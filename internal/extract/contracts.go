package extract

import (
	"context"
	"io"
	"time"

	"github.com/joseph-ayodele/diet-planner/constants"
)

// Document is an uploaded file: its name carries the extension used for dispatch.
type Document struct {
	Name   string
	Reader io.ReadSeeker
}

// Field is one column of the first tabular row, kept as the raw cell text.
type Field struct {
	Name string `json:"name"`
	Raw  string `json:"raw"`
}

// NumericRecord holds the first CSV row in column order.
type NumericRecord struct {
	Fields []Field `json:"fields"`
}

// Len reports the number of columns; a nil record has none.
func (r *NumericRecord) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Fields)
}

// Result is what the Extractor returns for one document.
type Result struct {
	Text     string
	Numeric  *NumericRecord // nil unless the source is tabular with a data row
	Format   constants.Format
	Pages    int
	Method   string
	Language string
	Duration time.Duration
	Warnings []string
}

// Extraction methods recorded on Result.Method.
const (
	MethodPDFText       = "pdf-text"
	MethodPDFOCR        = "pdf-ocr"
	MethodPDFMixed      = "pdf-mixed"
	MethodText          = "txt"
	MethodCSV           = "csv"
	MethodImageOCR      = "image-ocr"
	MethodImageDisabled = "image-disabled"
)

// ImageOCRDisabledText is returned for images when OCR is switched off.
const ImageOCRDisabledText = "Image OCR not supported in this deployment."

// TextExtractor is stage 1 of the pipeline: document -> text (+ numeric record).
type TextExtractor interface {
	Extract(ctx context.Context, doc Document) (Result, error)
}

// OCR is the engine the extractor falls back to for scanned pages and images.
type OCR interface {
	RecognizeImage(ctx context.Context, path string) (string, error)
	RecognizePDFPage(ctx context.Context, pdfPath string, page int) (string, error)
}
