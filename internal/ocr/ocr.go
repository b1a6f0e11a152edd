package ocr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/diet-planner/internal/common"
)

type Config struct {
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	Language    string // default "eng"
	DPI         int    // page rasterization DPI, default 300
	TessdataDir string

	PSM int // e.g., 6 is good for uniform block of text
}

// Engine wraps the tesseract and pdftoppm binaries.
type Engine struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

// NewEngine fills defaults. A nil runner uses ExecRunner.
func NewEngine(cfg Config, runner Runner, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Language == "" {
		cfg.Language = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &Engine{cfg: cfg, runner: runner, logger: logger}
}

// Language reports the tesseract language in use.
func (e *Engine) Language() string { return e.cfg.Language }

// RecognizeImage runs tesseract on an image file and returns normalized text.
func (e *Engine) RecognizeImage(ctx context.Context, path string) (string, error) {
	args := []string{path, "stdout", "-l", e.cfg.Language}
	if e.cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(e.cfg.PSM))
	}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}

	// tesseract <file> stdout -l <lang>
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, e.logger, args...)
	if err != nil {
		return "", commandError(e.cfg.Tesseract, errb, err)
	}
	return Normalize(reBoxNoise.ReplaceAllString(string(out), "")), nil
}

// RecognizePDFPage rasterizes one 1-based page of a PDF and OCRs it.
func (e *Engine) RecognizePDFPage(ctx context.Context, pdfPath string, page int) (string, error) {
	tmpDir, err := os.MkdirTemp("", "dp-page-*")
	if err != nil {
		return "", err
	}
	defer func(path string) {
		if err := os.RemoveAll(path); err != nil {
			e.logger.Warn("ocr.tmpdir.remove_failed", "dir", path, "error", err)
		}
	}(tmpDir)

	prefix := filepath.Join(tmpDir, "page")
	n := strconv.Itoa(page)
	// pdftoppm -r 300 -f N -l N -singlefile -png <in.pdf> <tmp/page>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm, e.logger,
		"-r", strconv.Itoa(e.cfg.DPI), "-f", n, "-l", n, "-singlefile", "-png", pdfPath, prefix)
	if err != nil {
		return "", commandError(e.cfg.Pdftoppm, errb, err)
	}

	img := prefix + ".png"
	if _, statErr := os.Stat(img); statErr != nil {
		return "", fmt.Errorf("pdftoppm produced no image for page %d: %w", page, statErr)
	}
	return e.RecognizeImage(ctx, img)
}

func commandError(bin string, stderr []byte, err error) error {
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return common.DependencyUnavailable(bin, err)
	}
	if msg := strings.TrimSpace(string(stderr)); msg != "" {
		return fmt.Errorf("%s: %w: %s", bin, err, truncate(msg, 512))
	}
	return fmt.Errorf("%s: %w", bin, err)
}
