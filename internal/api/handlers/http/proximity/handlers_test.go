package proximity_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"log/slog"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"

	"github.com/Dibyajyoti630/RedZone/internal/api/handlers/http/proximity"
	"github.com/Dibyajyoti630/RedZone/internal/domain"
	"github.com/Dibyajyoti630/RedZone/pkg/e"

	mock_service "github.com/Dibyajyoti630/RedZone/internal/service/mocks"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestProximityCheck_OK(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mock_service.NewMockProximityService(ctrl)
	h := proximity.NewHandler(newTestLogger(), svc)

	dist := 0.3
	svc.EXPECT().
		Check(gomock.Any(), domain.ProximityCheckRequest{Lat: 28.6139, Lng: 77.2090}).
		Return(domain.ProximityCheckResponse{
			Tier:        domain.TierDanger,
			DistanceKM:  &dist,
			NearestZone: &domain.Zone{ID: uuid.New()},
		}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/proximity/check",
		bytes.NewBufferString(`{"lat":28.6139,"lng":77.2090}`))
	rr := httptest.NewRecorder()

	h.ProximityCheck(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d, body=%s", rr.Code, rr.Body.String())
	}
	var got domain.ProximityCheckResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got.Tier != domain.TierDanger {
		t.Fatalf("expected danger, got %q", got.Tier)
	}
}

func TestProximityCheck_InvalidCoordinates_400(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mock_service.NewMockProximityService(ctrl)
	h := proximity.NewHandler(newTestLogger(), svc)

	svc.EXPECT().
		Check(gomock.Any(), gomock.Any()).
		Return(domain.ProximityCheckResponse{}, e.ErrInvalidCoordinates)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/proximity/check",
		bytes.NewBufferString(`{"lat":120,"lng":0}`))
	rr := httptest.NewRecorder()

	h.ProximityCheck(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
}

func TestProximityCheck_BadJSON_400(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := proximity.NewHandler(newTestLogger(), mock_service.NewMockProximityService(ctrl))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/proximity/check",
		bytes.NewBufferString(`{lat:`))
	rr := httptest.NewRecorder()

	h.ProximityCheck(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
}
