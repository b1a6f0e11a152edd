package export

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// File names written next to each other in the output directory.
const (
	JSONFile = "diet_plan.json"
	PDFFile  = "diet_plan.pdf"
	XLSXFile = "diet_plan.xlsx"
)

// Paths lists what WriteFiles produced.
type Paths struct {
	JSON string
	PDF  string
	XLSX string
}

// WriteFiles renders the report in all three formats into dir.
func WriteFiles(dir string, r Report, logger *slog.Logger) (Paths, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Paths{}, fmt.Errorf("create output dir: %w", err)
	}

	js, err := MarshalReport(r)
	if err != nil {
		return Paths{}, err
	}
	pdf, err := PlanPDF("Weekly Diet Plan", r.DietPlan)
	if err != nil {
		return Paths{}, err
	}
	xlsx, err := PlanXLSX(r.Guidelines, r.Prediction, r.DietPlan, r.Days)
	if err != nil {
		return Paths{}, err
	}

	p := Paths{
		JSON: filepath.Join(dir, JSONFile),
		PDF:  filepath.Join(dir, PDFFile),
		XLSX: filepath.Join(dir, XLSXFile),
	}
	for path, data := range map[string][]byte{p.JSON: js, p.PDF: pdf, p.XLSX: xlsx} {
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return Paths{}, fmt.Errorf("write %s: %w", filepath.Base(path), err)
		}
	}

	logger.Info("export.files.ok",
		"dir", dir,
		"days", len(r.Days),
		"json_bytes", len(js),
		"pdf_bytes", len(pdf),
		"xlsx_bytes", len(xlsx),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return p, nil
}
