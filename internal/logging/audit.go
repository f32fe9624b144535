package logging

import (
	"context"

	"go.uber.org/zap"

	"github.com/codeclip-inc/lastly-auth/domain"
)

// ZapAuditLogger implements domain.AuditLogger on top of zap
type ZapAuditLogger struct {
	logger *zap.Logger
}

// NewAuditLogger creates an audit logger writing under the "audit" name
func NewAuditLogger(logger *zap.Logger) domain.AuditLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapAuditLogger{logger: logger.Named("audit")}
}

// LogEvent implements domain.AuditLogger
func (l *ZapAuditLogger) LogEvent(ctx context.Context, event *domain.AuditEvent) error {
	if event == nil {
		return nil
	}

	fields := []zap.Field{
		zap.String("event_type", string(event.EventType)),
		zap.Bool("success", event.Success),
		zap.Time("timestamp", event.Timestamp),
	}
	if event.UserID != 0 {
		fields = append(fields, zap.Int64("user_id", event.UserID))
	}
	if event.Phone != "" {
		fields = append(fields, zap.String("phone", MaskPhone(event.Phone)))
	}
	if event.ErrorMsg != "" {
		fields = append(fields, zap.String("error", event.ErrorMsg))
	}
	if len(event.Metadata) > 0 {
		fields = append(fields, zap.Any("metadata", event.Metadata))
	}

	if event.Success {
		l.logger.Info("audit", fields...)
	} else {
		l.logger.Warn("audit", fields...)
	}
	return nil
}
