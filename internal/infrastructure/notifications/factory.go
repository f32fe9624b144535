package notifications

import (
	"fmt"

	"github.com/codeclip-inc/lastly-auth/domain"
	"github.com/codeclip-inc/lastly-auth/internal/config"
)

// New returns the SMS sender selected by cfg.Provider
func New(cfg config.SMSConfig) (domain.NotificationService, error) {
	switch cfg.Provider {
	case config.SMSProviderAligo:
		return NewAligoService(cfg.Aligo, cfg.Timeout), nil
	case config.SMSProviderTwilio:
		return NewTwilioService(cfg.Twilio), nil
	default:
		return nil, fmt.Errorf("unsupported SMS provider %q", cfg.Provider)
	}
}
