package constants

import (
	"fmt"
	"strings"
)

// OCRMode is the deployment-wide OCR policy.
type OCRMode string

const (
	OCRNever           OCRMode = "never"
	OCRFallbackOnEmpty OCRMode = "fallback_on_empty"
	OCRAlways          OCRMode = "always"
)

// ParseOCRMode accepts the mode names case-insensitively; "" maps to OCRFallbackOnEmpty.
func ParseOCRMode(s string) (OCRMode, error) {
	switch OCRMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", OCRFallbackOnEmpty:
		return OCRFallbackOnEmpty, nil
	case OCRNever:
		return OCRNever, nil
	case OCRAlways:
		return OCRAlways, nil
	default:
		return "", fmt.Errorf("unknown ocr mode %q", s)
	}
}

// Coercion controls how non-numeric tabular values reach the risk classifier.
type Coercion string

const (
	CoercionDefaultZero Coercion = "default_zero"
	CoercionStrict      Coercion = "strict"
)

// ParseCoercion accepts the policy names case-insensitively; "" maps to CoercionDefaultZero.
func ParseCoercion(s string) (Coercion, error) {
	switch Coercion(strings.ToLower(strings.TrimSpace(s))) {
	case "", CoercionDefaultZero:
		return CoercionDefaultZero, nil
	case CoercionStrict:
		return CoercionStrict, nil
	default:
		return "", fmt.Errorf("unknown coercion policy %q", s)
	}
}
