package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/joseph-ayodele/diet-planner/constants"
	"github.com/joseph-ayodele/diet-planner/internal/common"
)

type Config struct {
	Mode     constants.OCRMode // default fallback_on_empty
	Language string            // reported on results produced by OCR
}

// Extractor dispatches on the document extension.
type Extractor struct {
	cfg     Config
	ocr     OCR
	openPDF func(data []byte) (pageSource, error)
	logger  *slog.Logger
}

// NewExtractor builds an extractor. engine may be nil when Mode is never.
func NewExtractor(cfg Config, engine OCR, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Mode == "" {
		cfg.Mode = constants.OCRFallbackOnEmpty
	}
	return &Extractor{cfg: cfg, ocr: engine, openPDF: openLedongthuc, logger: logger}
}

// Extract rewinds the stream and converts it to text.
func (e *Extractor) Extract(ctx context.Context, doc Document) (Result, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(doc.Name))
	format := constants.MapExtToFormat(ext)
	if format == "" {
		e.logger.Error("extract.unsupported", "name", doc.Name, "ext", ext)
		return Result{}, common.UnsupportedFormat(ext)
	}
	if doc.Reader == nil {
		return Result{}, common.NewAppError(common.CodeDecodeError, "document has no content", common.ErrInvalidInput)
	}
	if _, err := doc.Reader.Seek(0, io.SeekStart); err != nil {
		return Result{}, common.DecodeError("rewind document", err)
	}
	data, err := io.ReadAll(doc.Reader)
	if err != nil {
		return Result{}, common.DecodeError("read document", err)
	}

	e.logger.Debug("extract.start", "name", doc.Name, "format", format, "bytes", len(data), "ocr_mode", e.cfg.Mode)

	var res Result
	switch format {
	case constants.PDF:
		res, err = e.extractPDF(ctx, data)
	case constants.TXT:
		res, err = extractText(data)
	case constants.CSV:
		res, err = extractCSV(data)
	case constants.IMAGE:
		res, err = e.extractImage(ctx, data, ext)
	}
	res.Format = format
	res.Duration = time.Since(start)
	if err != nil {
		e.logger.Error("extract.failed", "name", doc.Name, "format", format, "error", err)
		return res, err
	}
	res.Text = strings.TrimSpace(res.Text)

	e.logger.Info("extract.ok",
		"name", doc.Name,
		"format", format,
		"method", res.Method,
		"pages", res.Pages,
		"text_len", len(res.Text),
		"numeric_fields", res.Numeric.Len(),
		"elapsed_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

var bom = []byte{0xEF, 0xBB, 0xBF}

func extractText(data []byte) (Result, error) {
	data = bytes.TrimPrefix(data, bom)
	if !utf8.Valid(data) {
		return Result{}, common.DecodeError("decode text", errors.New("input is not valid UTF-8"))
	}
	return Result{Text: string(data), Pages: 1, Method: MethodText}, nil
}

func (e *Extractor) extractImage(ctx context.Context, data []byte, ext string) (Result, error) {
	if e.cfg.Mode == constants.OCRNever {
		return Result{
			Text:     ImageOCRDisabledText,
			Pages:    1,
			Method:   MethodImageDisabled,
			Warnings: []string{"image ocr disabled"},
		}, nil
	}
	if e.ocr == nil {
		return Result{}, common.DependencyUnavailable("ocr engine", nil)
	}
	path, cleanup, err := spool(data, "."+ext)
	if err != nil {
		return Result{}, err
	}
	defer cleanup()

	txt, err := e.ocr.RecognizeImage(ctx, path)
	if err != nil {
		return Result{}, fmt.Errorf("image ocr: %w", err)
	}
	return Result{Text: txt, Pages: 1, Method: MethodImageOCR, Language: e.cfg.Language}, nil
}

// spool writes the document to a temp file for the exec'd OCR binaries.
func spool(data []byte, suffix string) (string, func(), error) {
	f, err := os.CreateTemp("", "dp-doc-*"+suffix)
	if err != nil {
		return "", nil, fmt.Errorf("create temp file: %w", err)
	}
	cleanup := func() { _ = os.Remove(f.Name()) }
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		cleanup()
		return "", nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("close temp file: %w", err)
	}
	return f.Name(), cleanup, nil
}
