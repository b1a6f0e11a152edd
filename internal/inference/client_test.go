package inference

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/diet-planner/constants"
	"github.com/joseph-ayodele/diet-planner/internal/common"
	"github.com/joseph-ayodele/diet-planner/internal/guidance"
)

func serve(t *testing.T, status int, reply string, check func(t *testing.T, body map[string]any)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer hf-token", r.Header.Get("Authorization"))
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if check != nil {
			check(t, body)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRecognize(t *testing.T) {
	srv := serve(t, http.StatusOK,
		`[{"entity_group":"Disease_disorder","word":"diabetes","score":0.98,"start":12,"end":20},
		  {"entity_group":"Biological_structure","word":"pancreas","score":0.91}]`,
		func(t *testing.T, body map[string]any) {
			assert.Equal(t, "patient has diabetes.", body["inputs"])
			assert.Equal(t, map[string]any{"aggregation_strategy": "simple"}, body["parameters"])
		})
	c := NewClient(Config{NERURL: srv.URL, Token: "hf-token"}, nil)

	got, err := c.Recognize(context.Background(), "patient has diabetes.")
	require.NoError(t, err)
	assert.Equal(t, []guidance.EntitySpan{
		{Text: "diabetes", GroupLabel: "Disease_disorder", Confidence: 0.98},
		{Text: "pancreas", GroupLabel: "Biological_structure", Confidence: 0.91},
	}, got)
}

func TestRecognizeBatchShape(t *testing.T) {
	srv := serve(t, http.StatusOK, `[[{"entity_group":"Disease_disorder","word":"anemia","score":0.9}]]`, nil)
	c := NewClient(Config{NERURL: srv.URL, Token: "hf-token"}, nil)

	got, err := c.Recognize(context.Background(), "low hb suggests anemia.")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "anemia", got[0].Text)
}

func TestRecognizeRejectsBadShape(t *testing.T) {
	srv := serve(t, http.StatusOK, `{"error":"unexpected"}`, nil)
	c := NewClient(Config{NERURL: srv.URL, Token: "hf-token"}, nil)

	_, err := c.Recognize(context.Background(), "anything here.")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ner response")
}

func TestClassify(t *testing.T) {
	srv := serve(t, http.StatusOK,
		`{"sequence":"avoid sugar.","labels":["diet advice","lifestyle advice","diagnosis","medication"],"scores":[0.7,0.2,0.06,0.04]}`,
		func(t *testing.T, body map[string]any) {
			params := body["parameters"].(map[string]any)
			assert.Equal(t, []any{"diagnosis", "diet advice", "medication", "lifestyle advice"}, params["candidate_labels"])
		})
	c := NewClient(Config{ZeroShotURL: srv.URL, Token: "hf-token"}, nil)

	got, err := c.Classify(context.Background(), "avoid sugar.", constants.IntentLabels())
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, "diet advice", TopIntent(got))
}

func TestClassifyMismatchedScores(t *testing.T) {
	srv := serve(t, http.StatusOK, `{"labels":["diagnosis","medication"],"scores":[0.9]}`, nil)
	c := NewClient(Config{ZeroShotURL: srv.URL, Token: "hf-token"}, nil)

	_, err := c.Classify(context.Background(), "x y z w v.", constants.IntentLabels())
	require.Error(t, err)
}

func TestPredict(t *testing.T) {
	tests := []struct {
		reply string
		want  string
	}{
		{`{"prediction":[1]}`, "1"},
		{`{"prediction":[0.35]}`, "0.35"},
		{`{"prediction":["high"]}`, "high"},
	}
	for _, tt := range tests {
		srv := serve(t, http.StatusOK, tt.reply, func(t *testing.T, body map[string]any) {
			assert.Equal(t, []any{[]any{45.0, 0.0, 120.0}}, body["features"])
		})
		c := NewClient(Config{RiskURL: srv.URL, Token: "hf-token"}, nil)

		got, err := c.Predict(context.Background(), []float64{45, 0, 120})
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestUnavailableBackends(t *testing.T) {
	srv := serve(t, http.StatusServiceUnavailable, `{"error":"Model is currently loading"}`, nil)
	c := NewClient(Config{NERURL: srv.URL, Token: "hf-token"}, nil)

	_, err := c.Recognize(context.Background(), "patient has diabetes.")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrDependencyUnavailable)

	_, err = NewClient(Config{}, nil).Predict(context.Background(), []float64{1})
	assert.ErrorIs(t, err, common.ErrDependencyUnavailable)
}

func TestClientErrorIsNotUnavailable(t *testing.T) {
	srv := serve(t, http.StatusBadRequest, `{"error":"bad input"}`, nil)
	c := NewClient(Config{ZeroShotURL: srv.URL, Token: "hf-token", MaxAttempts: 3}, nil)

	_, err := c.Classify(context.Background(), "patient has diabetes.", constants.IntentLabels())
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrDependencyUnavailable)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.Status)
}

func TestRetriesUnavailable(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"prediction":[0]}`))
	}))
	defer srv.Close()
	c := NewClient(Config{RiskURL: srv.URL, MaxAttempts: 2}, nil)

	got, err := c.Predict(context.Background(), []float64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, "0", got)
	assert.Equal(t, int32(2), hits.Load())
}

func TestTopIntent(t *testing.T) {
	assert.Empty(t, TopIntent(nil))
	assert.Equal(t, "medication", TopIntent([]LabelScore{{"diagnosis", 0.1}, {"medication", 0.8}, {"diet advice", 0.1}}))
}
