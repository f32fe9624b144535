package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/codeclip-inc/lastly-auth/domain"
	"github.com/codeclip-inc/lastly-auth/internal/config"
)

// AligoServiceImpl implements domain.NotificationService on the Aligo SMS API
type AligoServiceImpl struct {
	client *http.Client
	cfg    config.AligoConfig
}

// aligoResponse is the subset of the send response we inspect. result_code is
// a number in current responses and a string in some older ones.
type aligoResponse struct {
	ResultCode json.RawMessage `json:"result_code"`
	Message    string          `json:"message"`
}

// NewAligoService creates a new Aligo notification service
func NewAligoService(cfg config.AligoConfig, timeout time.Duration) domain.NotificationService {
	return &AligoServiceImpl{
		client: &http.Client{Timeout: timeout},
		cfg:    cfg,
	}
}

// SendSMS implements domain.NotificationService
func (a *AligoServiceImpl) SendSMS(ctx context.Context, to, message string) error {
	form := url.Values{}
	form.Set("key", a.cfg.Key)
	form.Set("user_id", a.cfg.UserID)
	form.Set("sender", a.cfg.Sender)
	form.Set("receiver", to)
	form.Set("msg", message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.Endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build SMS request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return fmt.Errorf("failed to read SMS response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("SMS gateway returned status %d", resp.StatusCode)
	}

	var out aligoResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return fmt.Errorf("failed to decode SMS response: %w", err)
	}
	if strings.Trim(string(out.ResultCode), `"`) != "1" {
		return fmt.Errorf("SMS gateway rejected message: %s (%s)", out.Message, string(out.ResultCode))
	}

	return nil
}
