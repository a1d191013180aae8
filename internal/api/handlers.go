package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	apperrors "matchability/internal/common/errors"
	"matchability/internal/common/validation"
	"matchability/internal/features"
	"matchability/internal/models"
)

const readyTimeout = 2 * time.Second

var requestSchema = validation.MustCompile("opportunity request", `{
	"type": "object",
	"properties": {
		"data": {"type": ["object", "null"]}
	}
}`)

// handleScore accepts either the opportunity itself or {"data": {...}}.
func (h *Handler) handleScore(w http.ResponseWriter, r *http.Request) {
	record, err := h.decodeRecord(w, r)
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	p, err := h.scoring.ScoreRecord(r.Context(), record, models.SourceHTTP)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.scoring.Success(p))
}

func (h *Handler) handleGreeting(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Hello, world!"})
}

func (h *Handler) handleScoreStored(w http.ResponseWriter, r *http.Request) {
	p, err := h.scoring.ScoreStored(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.scoring.Success(p))
}

func (h *Handler) handlePredictions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	// a missing or unreadable limit falls back to the store default
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	predictions, err := h.scoring.History(r.Context(), id, limit)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"opportunityId": id,
		"predictions":   predictions,
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":       "healthy",
		"modelVersion": h.scoring.ModelVersion(),
	})
}

func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.log.Warn("readiness check failed", map[string]interface{}{"check": name, "error": err})
			results[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	state := "ready"
	if status != http.StatusOK {
		state = "not_ready"
	}
	writeJSON(w, status, map[string]interface{}{"status": state, "checks": results})
}

func (h *Handler) decodeRecord(w http.ResponseWriter, r *http.Request) (features.Record, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apperrors.NewInvalidRequestError("request body too large")
		}
		return nil, apperrors.NewParseError(err)
	}
	return ParseRecord(body)
}

// ParseRecord validates a request body and returns the opportunity it
// carries. A body whose only key is "data" is treated as an envelope.
func ParseRecord(body []byte) (features.Record, error) {
	result, err := requestSchema.ValidateBytes(body)
	if err != nil {
		return nil, apperrors.NewParseError(err)
	}
	if !result.Valid {
		return nil, apperrors.NewInvalidRequestError(result.Error())
	}

	var record features.Record
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, apperrors.NewParseError(err)
	}
	if data, ok := record["data"].(map[string]interface{}); ok && len(record) == 1 {
		record = data
	}
	return record, nil
}

func (h *Handler) writeFailure(w http.ResponseWriter, err error) {
	std := apperrors.AsStandard(err)
	if std.Code == apperrors.ErrCodeInternal {
		h.log.Error("request failed", map[string]interface{}{"error": err, "details": std.Details})
	}
	writeJSON(w, apperrors.HTTPStatus(std.Code), h.scoring.Failure(std))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
