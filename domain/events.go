package domain

import (
	"context"
	"time"
)

// AuditEventType defines the type of audit event
type AuditEventType string

const (
	// Verification code events
	CodeRequestedEvent      AuditEventType = "AUTH_CODE_REQUESTED"
	CodeDispatchFailedEvent AuditEventType = "AUTH_CODE_DISPATCH_FAILED"

	// Authentication events
	UserLoginEvent          AuditEventType = "USER_LOGIN"
	UserLoginFailureEvent   AuditEventType = "USER_LOGIN_FAILED"
	UserSignupEvent         AuditEventType = "USER_SIGNUP"
	UserSignupFailureEvent  AuditEventType = "USER_SIGNUP_FAILED"
	TokenRefreshedEvent     AuditEventType = "TOKEN_REFRESHED"
	TokenRefreshFailedEvent AuditEventType = "TOKEN_REFRESH_FAILED"
	UserLogoutEvent         AuditEventType = "USER_LOGOUT"
)

// AuditEvent represents a business event that occurred in the system
type AuditEvent struct {
	EventType AuditEventType         `json:"event_type"`
	UserID    int64                  `json:"user_id,omitempty"`
	Phone     string                 `json:"phone,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	ErrorMsg  string                 `json:"error_msg,omitempty"`
	Success   bool                   `json:"success"`
}

// AuditLogger defines operations for audit logging
type AuditLogger interface {
	LogEvent(ctx context.Context, event *AuditEvent) error
}

// NewAuditEvent creates a new audit event with common fields populated
func NewAuditEvent(eventType AuditEventType, userID int64) *AuditEvent {
	return &AuditEvent{
		EventType: eventType,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
		Metadata:  make(map[string]interface{}),
		Success:   true,
	}
}

// WithError sets error information on the audit event
func (e *AuditEvent) WithError(err error) *AuditEvent {
	e.Success = false
	if err != nil {
		e.ErrorMsg = err.Error()
	}
	return e
}

// WithPhone sets the phone field
func (e *AuditEvent) WithPhone(phone string) *AuditEvent {
	e.Phone = phone
	return e
}

// WithMetadata adds metadata to the event
func (e *AuditEvent) WithMetadata(key string, value interface{}) *AuditEvent {
	e.Metadata[key] = value
	return e
}
