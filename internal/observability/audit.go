package observability

import (
	"context"
	"log/slog"
)

type requestIDKey struct{}

// WithRequestID stores the request ID for audit lines emitted further down.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(requestIDKey{}).(string)
	return value
}

// AuditLogger writes one structured line per ledger or timer mutation.
type AuditLogger struct {
	logger *slog.Logger
}

func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{logger: logger}
}

func (audit *AuditLogger) LogAction(ctx context.Context, userID uint, action string, resource string, resourceID uint, attrs ...slog.Attr) {
	if audit == nil {
		return
	}
	base := []slog.Attr{
		slog.String("action", action),
		slog.String("resource", resource),
		slog.Uint64("resource_id", uint64(resourceID)),
		slog.Uint64("user_id", uint64(userID)),
		slog.String("request_id", RequestID(ctx)),
	}
	audit.logger.LogAttrs(ctx, slog.LevelInfo, "audit", append(base, attrs...)...)
}
