package contacts_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"log/slog"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"

	"github.com/Dibyajyoti630/RedZone/internal/api/handlers/http/contacts"
	"github.com/Dibyajyoti630/RedZone/internal/domain"
	"github.com/Dibyajyoti630/RedZone/internal/middleware"
	"github.com/Dibyajyoti630/RedZone/pkg/e"

	mock_service "github.com/Dibyajyoti630/RedZone/internal/service/mocks"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), &slog.HandlerOptions{Level: slog.LevelError}))
}

func withIdentity(r *http.Request, id domain.Identity) *http.Request {
	return r.WithContext(middleware.ContextWithIdentity(r.Context(), id))
}

func TestContactNotify_OK(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mock_service.NewMockContactService(ctrl)
	h := contacts.NewHandler(newTestLogger(), svc)

	actor := domain.Identity{UserID: uuid.New()}
	svc.EXPECT().
		Upsert(gomock.Any(), actor, domain.UpsertContactRequest{Name: "Asha", Phone: "9876543210"}).
		Return(&domain.Contact{UserID: actor.UserID, Phone: "+919876543210", Status: domain.ContactActive}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/contacts/notify",
		bytes.NewBufferString(`{"name":"Asha","phone":"9876543210"}`))
	rr := httptest.NewRecorder()

	h.ContactNotify(rr, withIdentity(req, actor))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d, body=%s", rr.Code, rr.Body.String())
	}
	var got domain.Contact
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got.Phone != "+919876543210" {
		t.Fatalf("expected canonical phone, got %q", got.Phone)
	}
}

func TestContactNotify_InvalidPhone_400(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mock_service.NewMockContactService(ctrl)
	h := contacts.NewHandler(newTestLogger(), svc)

	actor := domain.Identity{UserID: uuid.New()}
	svc.EXPECT().
		Upsert(gomock.Any(), actor, gomock.Any()).
		Return(nil, e.ErrInvalidPhone)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/contacts/notify",
		bytes.NewBufferString(`{"phone":"abc"}`))
	rr := httptest.NewRecorder()

	h.ContactNotify(rr, withIdentity(req, actor))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
}

func TestContactMe_NotRegistered(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mock_service.NewMockContactService(ctrl)
	h := contacts.NewHandler(newTestLogger(), svc)

	actor := domain.Identity{UserID: uuid.New()}
	svc.EXPECT().Me(gomock.Any(), actor).Return(nil, e.ErrNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/contacts/me", nil)
	rr := httptest.NewRecorder()

	h.ContactMe(rr, withIdentity(req, actor))

	if rr.Code != http.StatusOK {
		t.Fatalf("an unregistered caller is a normal answer, got %d", rr.Code)
	}
	var got domain.ContactResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got.Exists || got.Contact != nil {
		t.Fatalf("expected exists=false, got %+v", got)
	}
}

func TestContactRequestRemoval_OK(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mock_service.NewMockContactService(ctrl)
	h := contacts.NewHandler(newTestLogger(), svc)

	actor := domain.Identity{UserID: uuid.New()}
	svc.EXPECT().RequestRemoval(gomock.Any(), actor).
		Return(&domain.Contact{UserID: actor.UserID, Status: domain.ContactPendingRemoval}, nil)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/contacts/me/request-removal", nil)
	rr := httptest.NewRecorder()

	h.ContactRequestRemoval(rr, withIdentity(req, actor))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
}

func TestContactList_Forbidden_403(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mock_service.NewMockContactService(ctrl)
	h := contacts.NewHandler(newTestLogger(), svc)

	actor := domain.Identity{UserID: uuid.New(), Role: domain.RoleUser}
	svc.EXPECT().List(gomock.Any(), actor).Return(nil, e.ErrForbidden)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/contacts/", nil)
	rr := httptest.NewRecorder()

	h.ContactList(rr, withIdentity(req, actor))

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rr.Code)
	}
}

func TestContactDeleteMe_NoContent(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mock_service.NewMockContactService(ctrl)
	h := contacts.NewHandler(newTestLogger(), svc)

	actor := domain.Identity{UserID: uuid.New()}
	svc.EXPECT().DeleteMine(gomock.Any(), actor).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/contacts/me", nil)
	rr := httptest.NewRecorder()

	h.ContactDeleteMe(rr, withIdentity(req, actor))

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", rr.Code)
	}
}
