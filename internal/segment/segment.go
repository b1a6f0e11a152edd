// Package segment turns extracted text into the cleaned sentences fed to the
// entity and intent models.
package segment

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/jdkato/prose/v2"
)

// MinSentenceLen is the shortest trimmed sentence that is kept, exclusive.
const MinSentenceLen = 5

var reDisallowed = regexp.MustCompile(`[^a-z0-9., ]`)

// SplitFunc is a sentence boundary detector.
type SplitFunc func(text string) ([]string, error)

// Segmenter cleans text and splits it into sentences.
type Segmenter struct {
	split  SplitFunc
	logger *slog.Logger
}

// New returns a Segmenter backed by prose. A nil split uses ProseSplit.
func New(split SplitFunc, logger *slog.Logger) *Segmenter {
	if logger == nil {
		logger = slog.Default()
	}
	if split == nil {
		split = ProseSplit
	}
	return &Segmenter{split: split, logger: logger}
}

// Clean lower-cases text and drops every character outside [a-z0-9., ].
// Line breaks are outside the class and are removed as well.
func Clean(text string) string {
	return reDisallowed.ReplaceAllString(strings.ToLower(text), "")
}

// Segment returns the cleaned sentences longer than MinSentenceLen, in order.
func (s *Segmenter) Segment(text string) ([]string, error) {
	cleaned := Clean(text)
	if strings.TrimSpace(cleaned) == "" {
		return nil, nil
	}
	candidates, err := s.split(cleaned)
	if err != nil {
		return nil, fmt.Errorf("segment sentences: %w", err)
	}

	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if len(c) <= MinSentenceLen {
			continue
		}
		out = append(out, c)
	}
	s.logger.Debug("segment.ok", "candidates", len(candidates), "sentences", len(out))
	return out, nil
}

// ProseSplit runs prose's sentence segmenter with tagging and NER disabled.
func ProseSplit(text string) ([]string, error) {
	doc, err := prose.NewDocument(text,
		prose.WithTagging(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return nil, err
	}
	sents := doc.Sentences()
	out := make([]string, len(sents))
	for i, s := range sents {
		out[i] = s.Text
	}
	return out, nil
}
