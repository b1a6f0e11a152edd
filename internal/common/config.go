package common

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joseph-ayodele/diet-planner/constants"
)

// Config holds all application configuration
type Config struct {
	OCR       OCRConfig
	LLM       LLMConfig
	Inference InferenceConfig
	Risk      RiskConfig
	Log       LogConfig
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Mode        constants.OCRMode
	Tesseract   string
	Pdftoppm    string
	Language    string
	DPI         int
	TessdataDir string
}

// LLMConfig holds LLM-related configuration
type LLMConfig struct {
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float32
	Timeout     time.Duration
}

// InferenceConfig points at the hosted NER, zero-shot and risk models.
type InferenceConfig struct {
	NERURL      string
	ZeroShotURL string
	RiskURL     string
	Token       string
	Timeout     time.Duration
	MaxAttempts int
}

// RiskConfig holds the tabular risk scoring policy
type RiskConfig struct {
	Coercion constants.Coercion
}

// LogConfig selects the slog handler
type LogConfig struct {
	Level  slog.Level
	Format string // "text" | "json"
}

// Hosted model endpoints used when no override is configured.
const (
	DefaultNERURL      = "https://api-inference.huggingface.co/models/d4data/biomedical-ner-all"
	DefaultZeroShotURL = "https://api-inference.huggingface.co/models/typeform/distilbert-base-uncased-mnli"
)

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	mode, err := constants.ParseOCRMode(getEnv("OCR_MODE", ""))
	if err != nil {
		return nil, NewAppError(CodeConfigError, "OCR_MODE", ErrInvalidInput)
	}
	coercion, err := constants.ParseCoercion(getEnv("RISK_COERCION", ""))
	if err != nil {
		return nil, NewAppError(CodeConfigError, "RISK_COERCION", ErrInvalidInput)
	}
	return &Config{
		OCR: OCRConfig{
			Mode:        mode,
			Tesseract:   getEnv("TESSERACT_BIN", "tesseract"),
			Pdftoppm:    getEnv("PDFTOPPM_BIN", "pdftoppm"),
			Language:    getEnv("TESSERACT_LANG", "eng"),
			DPI:         getEnvAsInt("OCR_DPI", 300),
			TessdataDir: getEnv("TESSDATA_PREFIX", ""),
		},
		LLM: LLMConfig{
			Model:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			BaseURL:     getEnv("OPENAI_BASE_URL", ""),
			Temperature: getEnvAsFloat32("OPENAI_TEMPERATURE", 0.7),
			Timeout:     getEnvAsDuration("OPENAI_TIMEOUT", 45*time.Second),
		},
		Inference: InferenceConfig{
			NERURL:      getEnv("NER_URL", DefaultNERURL),
			ZeroShotURL: getEnv("ZERO_SHOT_URL", DefaultZeroShotURL),
			RiskURL:     getEnv("RISK_URL", ""),
			Token:       getEnv("INFERENCE_TOKEN", ""),
			Timeout:     getEnvAsDuration("INFERENCE_TIMEOUT", 30*time.Second),
			MaxAttempts: getEnvAsInt("INFERENCE_MAX_ATTEMPTS", 1),
		},
		Risk: RiskConfig{
			Coercion: coercion,
		},
		Log: LogConfig{
			Level:  getEnvAsLevel("LOG_LEVEL", slog.LevelInfo),
			Format: strings.ToLower(getEnv("LOG_FORMAT", "text")),
		},
	}, nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsLevel(key string, defaultValue slog.Level) slog.Level {
	if value := os.Getenv(key); value != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(value)); err == nil {
			return lvl
		}
	}
	return defaultValue
}

// Validate checks what the full plan pipeline needs. Extraction-only runs skip it.
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return NewAppError(CodeConfigError, "OPENAI_API_KEY is required", ErrInvalidInput)
	}
	if c.Inference.NERURL == "" {
		return NewAppError(CodeConfigError, "NER_URL is required", ErrInvalidInput)
	}
	if c.Inference.ZeroShotURL == "" {
		return NewAppError(CodeConfigError, "ZERO_SHOT_URL is required", ErrInvalidInput)
	}
	if c.OCR.DPI <= 0 {
		return NewAppError(CodeConfigError, "OCR_DPI must be positive", ErrInvalidInput)
	}
	return nil
}
