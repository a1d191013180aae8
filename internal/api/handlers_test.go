package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchability/internal/artifacts"
	"matchability/internal/artifacts/artifactstest"
	"matchability/internal/common/config"
	apperrors "matchability/internal/common/errors"
	"matchability/internal/common/logger"
	"matchability/internal/features"
	"matchability/internal/models"
	"matchability/internal/scoring"
)

const franceRecord = `{"name_entity":"France","name_region":"Europe","programme_id":"1","earliest_start_date":"2019-06-01","created_at":"2019-01-01","duration_min":60,"openings":3}`

type storedOpportunities map[string]features.Record

func (s storedOpportunities) Get(_ context.Context, id string) (features.Record, error) {
	r, ok := s[id]
	if !ok {
		return nil, apperrors.NewOpportunityNotFoundError(id)
	}
	return r, nil
}

type stubHistory struct{ predictions []models.Prediction }

func (h *stubHistory) Save(_ context.Context, p *models.Prediction) error {
	h.predictions = append(h.predictions, *p)
	return nil
}

func (h *stubHistory) ListByOpportunity(_ context.Context, id string, _ int) ([]models.Prediction, error) {
	out := []models.Prediction{}
	for _, p := range h.predictions {
		if p.OpportunityID == id {
			out = append(out, p)
		}
	}
	return out, nil
}

func newTestServer(t *testing.T, mutate func(*artifacts.Bundle), checks map[string]Check) *httptest.Server {
	t.Helper()
	b, err := artifacts.Load(artifactstest.Default().Write(t), logger.NewTestLogger(t))
	require.NoError(t, err)
	if mutate != nil {
		mutate(b)
	}

	svc := scoring.NewService(scoring.NewScorer(b), logger.NewTestLogger(t), scoring.Options{
		Opportunities: storedOpportunities{"opp-42": {"name_entity": "France", "openings": 2.0}},
		History:       &stubHistory{},
		Clock:         func() time.Time { return time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC) },
	})
	h := NewHandler(svc, config.Config{}, checks, logger.NewTestLogger(t))

	srv := httptest.NewServer(h.Router())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, body string) (*http.Response, scoring.Response) {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/opportunity", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out scoring.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestScore_OK(t *testing.T) {
	srv := newTestServer(t, nil, nil)

	for name, body := range map[string]string{
		"raw record": franceRecord,
		"envelope":   `{"data":` + franceRecord + `}`,
	} {
		t.Run(name, func(t *testing.T) {
			resp, out := post(t, srv, body)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
			assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
			assert.Equal(t, "OK", out.Status)
			assert.Equal(t, "True", out.Output)
			require.NotNil(t, out.Value)
			assert.Greater(t, *out.Value, 0.5)
			assert.Equal(t, "2019-06-01 00:00:00.000000", out.Timestamp)
		})
	}
}

func TestScore_EmptyObject(t *testing.T) {
	srv := newTestServer(t, nil, nil)

	resp, out := post(t, srv, `{}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "False", out.Output)
	assert.Equal(t, 0.5, *out.Value)
}

func TestScore_BadRequests(t *testing.T) {
	srv := newTestServer(t, nil, nil)

	tests := []struct {
		name string
		body string
		code string
	}{
		{"invalid json", `{"openings":`, "PARSE_ERROR"},
		{"array", `[{"openings":3}]`, "INVALID_REQUEST"},
		{"string", `"France"`, "INVALID_REQUEST"},
		{"data not an object", `{"data":"France"}`, "INVALID_REQUEST"},
		{"empty body", ``, "PARSE_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, out := post(t, srv, tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, "ERROR", out.Status)
			assert.Equal(t, tt.code, out.Code)
			assert.Nil(t, out.Value)
		})
	}
}

func TestScore_SchemaDriftIsServerError(t *testing.T) {
	srv := newTestServer(t, func(b *artifacts.Bundle) {
		b.FeatureOrder = append(append([]string(nil), b.FeatureOrder...), "num_meals_per_week")
	}, nil)

	resp, out := post(t, srv, franceRecord)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "SCHEMA_DRIFT", out.Code)
	assert.NotEmpty(t, out.Message)
}

func TestGreeting(t *testing.T) {
	srv := newTestServer(t, nil, nil)

	resp, err := http.Get(srv.URL + "/api/opportunity")
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Hello, world!", out["message"])
}

func TestScoreStoredAndHistory(t *testing.T) {
	srv := newTestServer(t, nil, nil)

	resp, err := http.Get(srv.URL + "/api/opportunity/opp-42/score")
	require.NoError(t, err)
	var scored scoring.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&scored))
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", scored.Status)

	resp, err = http.Get(srv.URL + "/api/opportunity/opp-42/predictions?limit=5")
	require.NoError(t, err)
	var history struct {
		OpportunityID string              `json:"opportunityId"`
		Predictions   []models.Prediction `json:"predictions"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&history))
	resp.Body.Close()
	assert.Equal(t, "opp-42", history.OpportunityID)
	require.Len(t, history.Predictions, 1)
	assert.Equal(t, *scored.Value, history.Predictions[0].Probability)

	resp, err = http.Get(srv.URL + "/api/opportunity/nope/score")
	require.NoError(t, err)
	var missing scoring.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&missing))
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "OPPORTUNITY_NOT_FOUND", missing.Code)
}

func TestHealthAndReady(t *testing.T) {
	srv := newTestServer(t, nil, map[string]Check{
		"postgres": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return errors.New("dial tcp: connection refused") },
	})

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	var health map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	resp.Body.Close()
	assert.Equal(t, "healthy", health["status"])
	assert.Equal(t, artifactstest.ModelVersion, health["modelVersion"])

	resp, err = http.Get(srv.URL + "/ready")
	require.NoError(t, err)
	var ready struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ready))
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "not_ready", ready.Status)
	assert.Equal(t, "ok", ready.Checks["postgres"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	post(t, srv, franceRecord)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

type panickingService struct{ ScoringService }

func (panickingService) ScoreRecord(context.Context, features.Record, models.Source) (*models.Prediction, error) {
	panic("nil map write")
}

func (panickingService) Failure(err error) scoring.Response {
	return scoring.Failure(err, time.Now())
}

func TestPanicBecomesErrorResponse(t *testing.T) {
	h := NewHandler(panickingService{}, config.Config{}, nil, logger.NewTestLogger(t))
	srv := httptest.NewServer(h.Router())
	defer srv.Close()

	resp, out := post(t, srv, franceRecord)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "ERROR", out.Status)
	assert.Equal(t, "INTERNAL_ERROR", out.Code)
	assert.NotContains(t, out.Message, "nil map")
}
