package e2e

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/codeclip-inc/lastly-auth/internal/config"
)

var codePattern = regexp.MustCompile(`\d{6}`)

// FakeAligo records every SMS the service sends
type FakeAligo struct {
	*httptest.Server
	mu    sync.Mutex
	codes map[string]string
}

func NewFakeAligo(t *testing.T) *FakeAligo {
	t.Helper()
	f := &FakeAligo{codes: make(map[string]string)}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.codes[r.PostForm.Get("receiver")] = codePattern.FindString(r.PostForm.Get("msg"))
		f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"result_code": 1, "message": "success"})
	}))
	t.Cleanup(f.Close)
	return f
}

// LastCode returns the code most recently sent to phone
func (f *FakeAligo) LastCode(phone string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.codes[phone]
}

// ProductionConfig returns a production configuration that sends SMS to aligo
func ProductionConfig(aligo *FakeAligo) *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: config.EnvProduction, ServiceName: "lastly-auth-e2e"},
		JWT: config.JWTConfig{
			AccessSecret:            "e2e-access-secret",
			AccessExpiresIn:         "15m",
			RefreshSecret:           "e2e-refresh-secret",
			RefreshExpiresIn:        "1d",
			RefreshCookieMaxAgeDays: 14,
		},
		OTP: config.OTPConfig{DailyLimit: 10, Validity: 5 * time.Minute, ResendWindow: time.Minute},
		SMS: config.SMSConfig{
			Provider:        config.SMSProviderAligo,
			Timeout:         5 * time.Second,
			MessageTemplate: "[LastLy] code %s",
			Aligo: config.AligoConfig{
				Key:      "e2e-key",
				UserID:   "e2e",
				Sender:   "000-0000-0000",
				Endpoint: aligo.URL + "/send/",
			},
		},
	}
}
