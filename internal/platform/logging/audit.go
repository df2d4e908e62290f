package logging

import (
	"context"

	"go.uber.org/zap"
)

// AuditEvent describes a security-relevant action. Never put secret values in Details.
type AuditEvent struct {
	Action       string
	ResourceType string
	ResourceID   string
	Result       string
	Details      map[string]any
}

// LogAuditEvent logs a structured audit event using the request-aware logger.
func LogAuditEvent(ctx context.Context, event AuditEvent) {
	fields := []zap.Field{
		zap.String("audit.action", event.Action),
		zap.String("audit.resource_type", event.ResourceType),
		zap.String("audit.resource_id", event.ResourceID),
		zap.String("audit.result", event.Result),
	}
	if len(event.Details) > 0 {
		fields = append(fields, zap.Any("audit.details", event.Details))
	}
	LoggerFromContext(ctx).Info("Audit event", fields...)
}
