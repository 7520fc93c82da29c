package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Dibyajyoti630/RedZone/internal/config"
	"github.com/Dibyajyoti630/RedZone/pkg/e"
)

const twilioAPIBase = "https://api.twilio.com/2010-04-01"

// Twilio sends real messages through the Twilio messaging-service API.
type Twilio struct {
	logger  *slog.Logger
	cfg     config.SMSConfig
	http    *http.Client
	baseURL string
}

func NewTwilio(logger *slog.Logger, cfg config.SMSConfig) *Twilio {
	return &Twilio{
		logger:  logger,
		cfg:     cfg,
		http:    &http.Client{Timeout: 10 * time.Second},
		baseURL: twilioAPIBase,
	}
}

// WithBaseURL points the client at a different API host. Used by tests.
func (t *Twilio) WithBaseURL(u string) *Twilio {
	t.baseURL = u
	return t
}

type twilioMessageResponse struct {
	SID     string `json:"sid"`
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (t *Twilio) Send(ctx context.Context, to, body string) (SendResult, error) {
	const op = "sms.Twilio.Send"

	form := url.Values{}
	form.Set("To", to)
	form.Set("Body", body)
	form.Set("MessagingServiceSid", t.cfg.MessagingServiceSID)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", t.baseURL, t.cfg.AccountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return SendResult{}, e.Wrap(op, err)
	}
	req.SetBasicAuth(t.cfg.AccountSID, t.cfg.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.http.Do(req)
	if err != nil {
		t.logger.Warn("twilio request failed", slog.String("op", op), slog.Any("error", err))
		return SendResult{}, fmt.Errorf("%s: %w", op, e.ErrProviderUnavailable)
	}
	defer resp.Body.Close()

	var msg twilioMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&msg); err != nil {
		return SendResult{}, fmt.Errorf("%s: decode response: %w", op, e.ErrProviderUnavailable)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		t.logger.Warn("twilio rejected message",
			slog.String("op", op),
			slog.Int("http_status", resp.StatusCode),
			slog.Int("code", msg.Code),
			slog.String("message", msg.Message),
		)
		return SendResult{}, fmt.Errorf("%s: code %d: %s: %w", op, msg.Code, msg.Message, e.ErrInvalidInput)
	}

	return SendResult{ID: msg.SID, Status: msg.Status}, nil
}
