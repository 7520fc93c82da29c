package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/Dibyajyoti630/RedZone/internal/domain"
	"github.com/Dibyajyoti630/RedZone/internal/service"
	"github.com/Dibyajyoti630/RedZone/pkg/e"

	mock_service "github.com/Dibyajyoti630/RedZone/internal/service/mocks"
)

func newContactsFixture(ctrl *gomock.Controller) (*mock_service.MockContactRepository, service.ContactService) {
	repo := mock_service.NewMockContactRepository(ctrl)
	svc := service.NewContactService(repo, discardLogger(), clockwork.NewFakeClockAt(frozenAt), "+91")
	return repo, svc
}

func TestContacts_Upsert_NormalizesPhone(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	actor := domain.Identity{UserID: uuid.New()}
	repo, svc := newContactsFixture(ctrl)

	var stored *domain.Contact
	repo.EXPECT().
		Upsert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, c *domain.Contact) error {
			stored = c
			return nil
		})
	repo.EXPECT().FindByUser(gomock.Any(), actor.UserID).
		DoAndReturn(func(_ context.Context, _ uuid.UUID) (*domain.Contact, error) {
			return stored, nil
		})

	got, err := svc.Upsert(context.Background(), actor, domain.UpsertContactRequest{
		Name:  "Asha",
		Phone: "09876543210",
		Email: "asha@example.com",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Phone != "+919876543210" {
		t.Fatalf("phone not canonicalized: %q", got.Phone)
	}
	if got.Status != domain.ContactActive {
		t.Fatalf("new contact must start active, got %q", got.Status)
	}
	if stored.UserID != actor.UserID || stored.Name != "Asha" {
		t.Fatalf("contact fields lost: %+v", stored)
	}
}

func TestContacts_Upsert_InvalidPhone(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	_, svc := newContactsFixture(ctrl)
	// repo must not be touched with a number we cannot dial

	_, err := svc.Upsert(context.Background(), domain.Identity{UserID: uuid.New()},
		domain.UpsertContactRequest{Phone: "not-a-number"})
	if !errors.Is(err, e.ErrInvalidPhone) {
		t.Fatalf("expected ErrInvalidPhone, got %v", err)
	}
}

func TestContacts_RequestRemoval(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	actor := domain.Identity{UserID: uuid.New()}
	repo, svc := newContactsFixture(ctrl)
	repo.EXPECT().SetStatus(gomock.Any(), actor.UserID, domain.ContactPendingRemoval).Return(nil)
	repo.EXPECT().FindByUser(gomock.Any(), actor.UserID).
		Return(&domain.Contact{UserID: actor.UserID, Status: domain.ContactPendingRemoval}, nil)

	got, err := svc.RequestRemoval(context.Background(), actor)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Status != domain.ContactPendingRemoval {
		t.Fatalf("expected pending_removal, got %q", got.Status)
	}
}

func TestContacts_RequestRemoval_NoContact(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	actor := domain.Identity{UserID: uuid.New()}
	repo, svc := newContactsFixture(ctrl)
	repo.EXPECT().SetStatus(gomock.Any(), actor.UserID, domain.ContactPendingRemoval).Return(e.ErrNotFound)

	_, err := svc.RequestRemoval(context.Background(), actor)
	if !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestContacts_ModeratorGates(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user := domain.Identity{UserID: uuid.New(), Role: domain.RoleUser}
	_, svc := newContactsFixture(ctrl)

	if _, err := svc.List(context.Background(), user); !errors.Is(err, e.ErrForbidden) {
		t.Fatalf("List: expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(context.Background(), user, uuid.New()); !errors.Is(err, e.ErrForbidden) {
		t.Fatalf("Delete: expected ErrForbidden, got %v", err)
	}
}

func TestContacts_ModeratorDelete(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	target := uuid.New()
	repo, svc := newContactsFixture(ctrl)
	repo.EXPECT().DeleteByUser(gomock.Any(), target).Return(nil)

	if err := svc.Delete(context.Background(), moderator(), target); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}
