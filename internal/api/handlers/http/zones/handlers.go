package zones

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Dibyajyoti630/RedZone/internal/domain"
	"github.com/Dibyajyoti630/RedZone/internal/middleware"
	"github.com/Dibyajyoti630/RedZone/pkg/validator"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

//go:generate mockgen -source=handlers.go -destination=mocks/mock.go
type ZoneReporter interface {
	Report(ctx context.Context, actor domain.Identity, req domain.CreateZoneRequest) (*domain.Zone, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Zone, error)
	Recent(ctx context.Context, limit int) ([]*domain.Zone, error)
	List(ctx context.Context, actor domain.Identity, page, limit int) ([]*domain.Zone, int64, error)
}

type Moderator interface {
	Transition(ctx context.Context, zoneID uuid.UUID, target domain.ZoneStatus, actor domain.Identity) (*domain.Zone, error)
}

type Handler struct {
	logger     *slog.Logger
	Zones      ZoneReporter
	Moderation Moderator
}

func NewHandler(logger *slog.Logger, zones ZoneReporter, moderation Moderator) *Handler {
	return &Handler{
		logger:     logger,
		Zones:      zones,
		Moderation: moderation,
	}
}

func (h *Handler) log(r *http.Request) *slog.Logger {
	reqID := chimw.GetReqID(r.Context())
	if reqID == "" {
		return h.logger
	}
	return h.logger.With(slog.String("request_id", reqID))
}

func (h *Handler) ZoneCreate(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	actor, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	var req domain.CreateZoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		l.Warn("invalid JSON", slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if err := validator.ValidateStruct(req); err != nil {
		l.Warn("validation failed", slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	l.Info("zone report received",
		slog.String("title", req.Title),
		slog.String("severity", string(req.Severity)),
	)

	zone, err := h.Zones.Report(r.Context(), actor, req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("zone created", slog.String("id", zone.ID.String()), slog.String("status", string(zone.Status)))
	h.writeJSON(w, http.StatusCreated, zone)
}

func (h *Handler) ZoneRecent(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	limit := parseInt(r.URL.Query().Get("limit"), 10)

	zones, err := h.Zones.Recent(r.Context(), limit)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Debug("recent zones served", slog.Int("count", len(zones)))
	h.writeJSON(w, http.StatusOK, map[string]any{"zones": zones})
}

func (h *Handler) ZoneList(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	actor, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	page := parseInt(r.URL.Query().Get("page"), 1)
	limit := parseInt(r.URL.Query().Get("limit"), 20)
	if limit > 100 {
		limit = 100
		l.Warn("limit capped", slog.Int("limit", limit))
	}

	zones, total, err := h.Zones.List(r.Context(), actor, page, limit)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, domain.ZoneListResponse{
		Zones: zones,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

func (h *Handler) ZoneGet(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	id, ok := h.zoneID(w, r, l)
	if !ok {
		return
	}

	zone, err := h.Zones.Get(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, zone)
}

func (h *Handler) ZoneApprove(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, domain.ZoneApproved)
}

func (h *Handler) ZoneReject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, domain.ZoneRejected)
}

func (h *Handler) ZoneSafeNow(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, domain.ZoneSafe)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, target domain.ZoneStatus) {
	l := h.log(r)

	actor, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	id, ok := h.zoneID(w, r, l)
	if !ok {
		return
	}

	zone, err := h.Moderation.Transition(r.Context(), id, target, actor)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("zone transitioned",
		slog.String("id", id.String()),
		slog.String("status", string(target)),
	)
	h.writeJSON(w, http.StatusOK, zone)
}

func (h *Handler) zoneID(w http.ResponseWriter, r *http.Request, l *slog.Logger) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		l.Warn("invalid id", slog.String("id", idStr), slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}
