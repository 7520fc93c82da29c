package contacts

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Dibyajyoti630/RedZone/internal/domain"
	"github.com/Dibyajyoti630/RedZone/internal/middleware"
	"github.com/Dibyajyoti630/RedZone/pkg/e"
	"github.com/Dibyajyoti630/RedZone/pkg/validator"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

//go:generate mockgen -source=handlers.go -destination=mocks/mock.go
type ContactManager interface {
	Upsert(ctx context.Context, actor domain.Identity, req domain.UpsertContactRequest) (*domain.Contact, error)
	Me(ctx context.Context, actor domain.Identity) (*domain.Contact, error)
	RequestRemoval(ctx context.Context, actor domain.Identity) (*domain.Contact, error)
	DeleteMine(ctx context.Context, actor domain.Identity) error
	List(ctx context.Context, actor domain.Identity) ([]*domain.Contact, error)
	Delete(ctx context.Context, actor domain.Identity, userID uuid.UUID) error
}

type Handler struct {
	logger   *slog.Logger
	Contacts ContactManager
}

func NewHandler(logger *slog.Logger, contacts ContactManager) *Handler {
	return &Handler{
		logger:   logger,
		Contacts: contacts,
	}
}

func (h *Handler) log(r *http.Request) *slog.Logger {
	reqID := chimw.GetReqID(r.Context())
	if reqID == "" {
		return h.logger
	}
	return h.logger.With(slog.String("request_id", reqID))
}

// ContactNotify opts the caller in to SMS alerts, replacing any previous
// registration for the same user.
func (h *Handler) ContactNotify(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	actor, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	var req domain.UpsertContactRequest
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

	contact, err := h.Contacts.Upsert(r.Context(), actor, req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("contact saved", slog.String("user_id", actor.UserID.String()))
	h.writeJSON(w, http.StatusOK, contact)
}

func (h *Handler) ContactMe(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	contact, err := h.Contacts.Me(r.Context(), actor)
	if err != nil {
		// Not registered is an ordinary answer here, not a 404.
		if errors.Is(err, e.ErrNotFound) {
			h.writeJSON(w, http.StatusOK, domain.ContactResponse{Exists: false})
			return
		}
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, domain.ContactResponse{Exists: true, Contact: contact})
}

func (h *Handler) ContactRequestRemoval(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	actor, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	contact, err := h.Contacts.RequestRemoval(r.Context(), actor)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("removal requested", slog.String("user_id", actor.UserID.String()))
	h.writeJSON(w, http.StatusOK, contact)
}

func (h *Handler) ContactDeleteMe(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	if err := h.Contacts.DeleteMine(r.Context(), actor); err != nil {
		h.handleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ContactList(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	list, err := h.Contacts.List(r.Context(), actor)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"contacts": list})
}

func (h *Handler) ContactDelete(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	actor, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	idStr := chi.URLParam(r, "id")
	userID, err := uuid.Parse(idStr)
	if err != nil {
		l.Warn("invalid id", slog.String("id", idStr), slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	if err := h.Contacts.Delete(r.Context(), actor, userID); err != nil {
		h.handleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
