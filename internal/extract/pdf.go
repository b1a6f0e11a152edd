package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/joseph-ayodele/diet-planner/constants"
	"github.com/joseph-ayodele/diet-planner/internal/common"
)

// pageSource yields the digital text layer of a PDF, 1-based.
type pageSource interface {
	NumPage() int
	PageText(page int) (string, error)
}

type ledongthucSource struct {
	r *pdf.Reader
}

func openLedongthuc(data []byte) (src pageSource, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("malformed pdf: %v", p)
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	return ledongthucSource{r: r}, nil
}

func (s ledongthucSource) NumPage() int { return s.r.NumPage() }

func (s ledongthucSource) PageText(n int) (txt string, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("malformed page %d: %v", n, p)
		}
	}()
	p := s.r.Page(n)
	if p.V.IsNull() {
		return "", nil
	}
	return p.GetPlainText(nil)
}

func (e *Extractor) extractPDF(ctx context.Context, data []byte) (Result, error) {
	src, err := e.openPDF(data)
	if err != nil {
		return Result{}, common.DecodeError("open pdf", err)
	}

	n := src.NumPage()
	pages := make([]string, 0, n)
	var warns []string
	ocrPages := 0
	spooled := ""
	cleanup := func() {}
	defer func() { cleanup() }()

	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		txt, err := src.PageText(i)
		if err != nil {
			return Result{}, common.DecodeError(fmt.Sprintf("read pdf page %d", i), err)
		}
		if !e.needsOCR(txt) {
			pages = append(pages, txt)
			continue
		}

		if e.ocr == nil {
			return Result{}, common.DependencyUnavailable("ocr engine", nil)
		}
		if spooled == "" {
			path, rm, err := spool(data, ".pdf")
			if err != nil {
				return Result{}, err
			}
			spooled, cleanup = path, rm
		}
		e.logger.Debug("extract.pdf.page_ocr", "page", i, "digital_len", len(strings.TrimSpace(txt)))
		ocrTxt, err := e.ocr.RecognizePDFPage(ctx, spooled, i)
		if err != nil {
			return Result{}, fmt.Errorf("ocr page %d: %w", i, err)
		}
		if strings.TrimSpace(ocrTxt) == "" {
			warns = append(warns, fmt.Sprintf("page %d: no text after ocr", i))
		}
		pages = append(pages, ocrTxt)
		ocrPages++
	}

	method := MethodPDFText
	switch {
	case ocrPages > 0 && ocrPages == n:
		method = MethodPDFOCR
	case ocrPages > 0:
		method = MethodPDFMixed
	}
	res := Result{
		Text:     strings.Join(pages, "\n"),
		Pages:    n,
		Method:   method,
		Warnings: warns,
	}
	if ocrPages > 0 {
		res.Language = e.cfg.Language
	}
	return res, nil
}

func (e *Extractor) needsOCR(digital string) bool {
	switch e.cfg.Mode {
	case constants.OCRAlways:
		return true
	case constants.OCRNever:
		return false
	default:
		return strings.TrimSpace(digital) == ""
	}
}
