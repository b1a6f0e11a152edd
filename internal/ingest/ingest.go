// Package ingest discovers report files on disk and hands them, one at a
// time, to a handler. Files are identified by content hash so the same
// report dropped twice is planned once.
package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/diet-planner/constants"
	"github.com/joseph-ayodele/diet-planner/internal/common"
)

// Handler processes one report file.
type Handler func(ctx context.Context, path string) error

type FileResult struct {
	Path         string
	HashHex      string
	Deduplicated bool
	Err          string
}

type DirStats struct {
	Scanned      uint32
	Matched      uint32
	Succeeded    uint32
	Deduplicated uint32
	Failed       uint32
}

// Options filter what a walk or watch considers.
type Options struct {
	SkipHidden  bool
	ExcludeDirs []string // absolute or relative; anything beneath them is ignored
}

// Ingestor remembers the hashes it has handled successfully. It is not safe
// for concurrent use.
type Ingestor struct {
	handle Handler
	opts   Options
	seen   map[string]string // hash -> first path
	logger *slog.Logger
}

func NewIngestor(h Handler, opts Options, logger *slog.Logger) *Ingestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingestor{handle: h, opts: opts, seen: map[string]string{}, logger: logger}
}

// AllowedExt reports whether ext is a supported report extension.
func AllowedExt(ext string) bool {
	_, ok := constants.AllowedExtensions[constants.NormalizeExt(ext)]
	return ok
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}

// Skip reports whether path is hidden (when configured) or lies under an excluded dir.
func (o Options) Skip(path string) bool {
	if o.SkipHidden && IsHidden(path) {
		return true
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	for _, d := range o.ExcludeDirs {
		ex, err := filepath.Abs(d)
		if err != nil {
			continue
		}
		if abs == ex || strings.HasPrefix(abs, ex+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// IngestPath hashes the file and runs the handler unless the same content
// was already handled.
func (i *Ingestor) IngestPath(ctx context.Context, path string) (FileResult, error) {
	out := FileResult{Path: path}
	if !AllowedExt(filepath.Ext(path)) {
		return out, common.UnsupportedFormat(constants.NormalizeExt(filepath.Ext(path)))
	}

	sum, err := hashFile(path)
	if err != nil {
		return out, err
	}
	out.HashHex = sum

	if first, ok := i.seen[sum]; ok {
		out.Deduplicated = true
		i.logger.Info("ingest.dedup", "path", path, "first", first, "hash", sum)
		return out, nil
	}

	if err := i.handle(ctx, path); err != nil {
		return out, err
	}
	i.seen[sum] = path
	return out, nil
}

// IngestDirectory walks root and ingests every supported file. Per-file
// failures are recorded in the results and do not stop the walk.
func (i *Ingestor) IngestDirectory(ctx context.Context, root string) ([]FileResult, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root path is required")
	}

	var results []FileResult
	var stats DirStats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats.Scanned++
		if walkErr != nil {
			results = append(results, FileResult{Path: path, Err: walkErr.Error()})
			stats.Failed++
			return nil
		}
		if path != root && i.opts.Skip(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !AllowedExt(filepath.Ext(path)) {
			return nil
		}
		stats.Matched++

		r, err := i.IngestPath(ctx, path)
		if err != nil {
			r.Err = err.Error()
			results = append(results, r)
			stats.Failed++
			i.logger.Warn("ingest.file.failed", "path", path, "err", err)
			return nil
		}
		results = append(results, r)
		stats.Succeeded++
		if r.Deduplicated {
			stats.Deduplicated++
		}
		return nil
	})
	if err != nil {
		return results, stats, fmt.Errorf("walk: %w", err)
	}

	i.logger.Info("ingest.dir.ok", "root", root,
		"matched", stats.Matched, "succeeded", stats.Succeeded,
		"deduplicated", stats.Deduplicated, "failed", stats.Failed)
	return results, stats, nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
