package service

import (
	"context"

	"go.uber.org/zap"
)

// LogAuditRecorder writes audit entries to the structured log. It is used
// when there is no local database to hold audit_logs.
type LogAuditRecorder struct {
	logger *zap.Logger
}

func NewLogAuditRecorder(logger *zap.Logger) *LogAuditRecorder {
	return &LogAuditRecorder{logger: logger.Named("audit")}
}

func (r *LogAuditRecorder) CreateAuditLog(_ context.Context, userID *uint, action string, details string) error {
	fields := []zap.Field{zap.String("action", action), zap.String("details", details)}
	if userID != nil {
		fields = append(fields, zap.Uint("user_id", *userID))
	}
	r.logger.Info("audit", fields...)
	return nil
}
