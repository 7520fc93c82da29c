package system

import (
	"net/http"

	"log/slog"
)

type Handler struct {
	logger       *slog.Logger
	smsSimulated bool
}

func NewHandler(logger *slog.Logger, smsSimulated bool) *Handler {
	return &Handler{logger: logger, smsSimulated: smsSimulated}
}

func (h *Handler) SystemHealth(w http.ResponseWriter, r *http.Request) {
	mode := "live"
	if h.smsSimulated {
		mode = "simulated"
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok","sms_mode":"` + mode + `"}`))
}
