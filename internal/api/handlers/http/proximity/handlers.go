package proximity

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Dibyajyoti630/RedZone/internal/domain"
	"github.com/Dibyajyoti630/RedZone/pkg/e"

	chimw "github.com/go-chi/chi/v5/middleware"
)

//go:generate mockgen -source=handlers.go -destination=mocks/mock.go
type RiskChecker interface {
	Check(ctx context.Context, req domain.ProximityCheckRequest) (domain.ProximityCheckResponse, error)
}

type Handler struct {
	logger *slog.Logger
	Risk   RiskChecker
}

func NewHandler(logger *slog.Logger, risk RiskChecker) *Handler {
	return &Handler{
		logger: logger,
		Risk:   risk,
	}
}

func (h *Handler) log(r *http.Request) *slog.Logger {
	reqID := chimw.GetReqID(r.Context())
	if reqID == "" {
		return h.logger
	}
	return h.logger.With(slog.String("request_id", reqID))
}

// ProximityCheck classifies the caller's position against approved zones.
// Unauthenticated on purpose: a risk lookup must work before login.
func (h *Handler) ProximityCheck(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	var req domain.ProximityCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		l.Warn("invalid JSON", slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	resp, err := h.Risk.Check(r.Context(), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Debug("proximity check",
		slog.Float64("lat", req.Lat),
		slog.Float64("lng", req.Lng),
		slog.String("tier", string(resp.Tier)),
	)
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	l := h.log(r)

	l.Error("handler error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err),
	)

	switch {
	case errors.Is(err, e.ErrInvalidCoordinates):
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid coordinates"})
	default:
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
