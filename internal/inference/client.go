package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/joseph-ayodele/diet-planner/internal/common"
	"github.com/joseph-ayodele/diet-planner/internal/guidance"
	"github.com/joseph-ayodele/diet-planner/internal/retry"
	"github.com/joseph-ayodele/diet-planner/internal/validate"
)

type Config struct {
	NERURL      string
	ZeroShotURL string
	RiskURL     string
	Token       string        // sent as a bearer token when set
	Timeout     time.Duration // per request, default 30s
	MaxAttempts int           // default 1; only unavailability is retried
}

// Client talks to hosted models using the Hugging Face inference payloads.
type Client struct {
	cfg    Config
	http   *http.Client
	retry  retry.Config
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		retry: retry.Config{
			MaxAttempts:     cfg.MaxAttempts,
			InitialDelay:    500 * time.Millisecond,
			MaxDelay:        5 * time.Second,
			JitterFraction:  0.1,
			RetryableErrors: []error{common.ErrDependencyUnavailable},
			Logger:          logger,
		},
		logger: logger,
	}
}

// Recognize implements EntityRecognizer.
func (c *Client) Recognize(ctx context.Context, sentence string) ([]guidance.EntitySpan, error) {
	body := map[string]any{
		"inputs":     sentence,
		"parameters": map[string]any{"aggregation_strategy": "simple"},
	}
	raw, err := c.call(ctx, "ner", c.cfg.NERURL, body)
	if err != nil {
		return nil, err
	}
	if err := validate.JSON(nerSchema, raw); err != nil {
		return nil, fmt.Errorf("ner response: %w", err)
	}

	// Some deployments wrap single inputs in an outer batch array.
	if bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[[")) {
		var batch [][]guidance.EntitySpan
		if err := json.Unmarshal(raw, &batch); err != nil {
			return nil, fmt.Errorf("decode ner response: %w", err)
		}
		var out []guidance.EntitySpan
		for _, b := range batch {
			out = append(out, b...)
		}
		return out, nil
	}
	var out []guidance.EntitySpan
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode ner response: %w", err)
	}
	return out, nil
}

// Classify implements IntentClassifier.
func (c *Client) Classify(ctx context.Context, sentence string, labels []string) ([]LabelScore, error) {
	body := map[string]any{
		"inputs":     sentence,
		"parameters": map[string]any{"candidate_labels": labels},
	}
	raw, err := c.call(ctx, "zero_shot", c.cfg.ZeroShotURL, body)
	if err != nil {
		return nil, err
	}
	if err := validate.JSON(zeroShotSchema, raw); err != nil {
		return nil, fmt.Errorf("zero-shot response: %w", err)
	}

	var resp struct {
		Labels []string  `json:"labels"`
		Scores []float64 `json:"scores"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode zero-shot response: %w", err)
	}
	if len(resp.Labels) != len(resp.Scores) {
		return nil, fmt.Errorf("zero-shot response: %d labels but %d scores", len(resp.Labels), len(resp.Scores))
	}
	out := make([]LabelScore, len(resp.Labels))
	for i := range resp.Labels {
		out[i] = LabelScore{Label: resp.Labels[i], Score: resp.Scores[i]}
	}
	return out, nil
}

// Predict implements guidance.RiskClassifier. The classifier receives a
// batch of one row and its first prediction is returned as text.
func (c *Client) Predict(ctx context.Context, features []float64) (string, error) {
	body := map[string]any{"features": [][]float64{features}}
	raw, err := c.call(ctx, "risk", c.cfg.RiskURL, body)
	if err != nil {
		return "", err
	}
	if err := validate.JSON(riskSchema, raw); err != nil {
		return "", fmt.Errorf("risk response: %w", err)
	}

	var resp struct {
		Prediction []any `json:"prediction"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("decode risk response: %w", err)
	}
	switch v := resp.Prediction[0].(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case string:
		return v, nil
	default:
		return fmt.Sprint(v), nil
	}
}

func (c *Client) call(ctx context.Context, model, url string, body any) ([]byte, error) {
	if url == "" {
		return nil, common.DependencyUnavailable(model+" model", errors.New("endpoint not configured"))
	}
	headers := map[string]string{}
	if c.cfg.Token != "" {
		headers["Authorization"] = "Bearer " + c.cfg.Token
	}

	start := time.Now()
	raw, err := retry.DoWithResult(ctx, c.retry, func() ([]byte, error) {
		raw, _, err := SendJSON(ctx, c.http, url, body, headers, c.logger)
		if err != nil {
			return nil, classify(model, err)
		}
		return raw, nil
	})
	if err != nil {
		c.logger.Error("inference.call.failed", "model", model, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return nil, err
	}
	return raw, nil
}

// classify maps transport failures and 5xx/429 responses to DependencyUnavailable.
func classify(model string, err error) error {
	var se *StatusError
	if errors.As(err, &se) {
		if se.Status >= 500 || se.Status == http.StatusTooManyRequests {
			return common.DependencyUnavailable(model+" model", err)
		}
		return fmt.Errorf("%s model: %w", model, err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s model: %w", model, err)
	}
	return common.DependencyUnavailable(model+" model", err)
}
