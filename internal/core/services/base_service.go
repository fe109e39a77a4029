package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/SscSPs/bookkeeping_engine/internal/apperrors"
	"github.com/SscSPs/bookkeeping_engine/internal/middleware"
	"github.com/SscSPs/bookkeeping_engine/internal/observability/metrics"
)

// BaseService provides common functionality for all services
type BaseService struct {
	now     func() time.Time
	metrics *metrics.EngineMetrics
}

// ServiceOption configures the shared parts of a service.
type ServiceOption func(*BaseService)

// WithClock overrides the time source, mainly for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(b *BaseService) {
		if now != nil {
			b.now = now
		}
	}
}

// WithMetrics attaches the engine metrics. Without it nothing is recorded.
func WithMetrics(m *metrics.EngineMetrics) ServiceOption {
	return func(b *BaseService) { b.metrics = m }
}

func newBaseService(opts ...ServiceOption) BaseService {
	b := BaseService{now: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// Now returns the current time from the configured clock.
func (s *BaseService) Now() time.Time {
	if s.now == nil {
		return time.Now().UTC()
	}
	return s.now()
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Error(msg, args...)
}

// LogWarn logs a warning with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Warn(msg, keyvals...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// LogIsolationViolation reports a cross-tenant attempt at ERROR level. Other errors are ignored.
func (s *BaseService) LogIsolationViolation(ctx context.Context, err error) {
	var cross *apperrors.CrossTenantAccessError
	if !errors.As(err, &cross) {
		return
	}
	s.GetLogger(ctx).Error("Cross-tenant access denied",
		slog.String("resource", cross.Resource),
		slog.String("context_tenant_id", cross.ContextTenant),
		slog.String("target_tenant_id", cross.TargetTenant),
	)
}
