package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"foodflow/internal/common/logger"
	"foodflow/internal/domain"
	"foodflow/internal/eventbus"
	"foodflow/internal/service"
)

type Handler struct {
	svc       *service.Service
	bus       *eventbus.Bus
	lg        *logger.Logger
	heartbeat time.Duration
}

func New(svc *service.Service, bus *eventbus.Bus, lg *logger.Logger, heartbeat time.Duration) *Handler {
	if heartbeat <= 0 {
		heartbeat = 15 * time.Second
	}
	return &Handler{svc: svc, bus: bus, lg: lg, heartbeat: heartbeat}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the domain error taxonomy onto HTTP statuses;
// internal failures carry the failing stage as "where".
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": ve.Msg})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "Not found"})
	case errors.Is(err, domain.ErrConflict):
		writeJSON(w, http.StatusConflict, map[string]any{"error": err.Error()})
	default:
		body := map[string]any{"error": err.Error()}
		if stage := domain.StageOf(err); stage != "" {
			body["where"] = stage
		}
		h.lg.Error("request_failed", err, nil)
		writeJSON(w, http.StatusInternalServerError, body)
	}
}

func idParam(r *http.Request, key string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, key), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError("invalid %s", key)
	}
	return id, nil
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.NewValidationError("bad json")
	}
	return nil
}
