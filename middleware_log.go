package berth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// loggingMiddleware logs every resolution through a zap logger.
type loggingMiddleware struct {
	log *zap.Logger
}

// NewLoggingMiddleware returns middleware that logs successful resolutions at
// debug level and failed ones at warn level. A nil logger logs nothing.
//
// Example:
//
//	logger, _ := zap.NewDevelopment()
//	p, err := c.Build(berth.WithMiddleware(berth.NewLoggingMiddleware(logger)))
func NewLoggingMiddleware(log *zap.Logger) Middleware {
	if log == nil {
		log = zap.NewNop()
	}

	return &loggingMiddleware{log: log.Named("berth")}
}

// BeforeResolve implements Middleware.
func (m *loggingMiddleware) BeforeResolve(context.Context, ResolveEvent) error {
	return nil
}

// AfterResolve implements Middleware.
func (m *loggingMiddleware) AfterResolve(_ context.Context, ev ResolveEvent, _ any, err error) error {
	fields := []zap.Field{
		zap.Stringer("service", ev.Key),
		zap.Stringer("lifetime", ev.Lifetime),
		zap.Int("depth", ev.Depth),
		zap.Bool("cached", ev.Cached),
		zap.Duration("duration", time.Since(ev.Started)),
	}
	if ev.ScopeID != uuid.Nil {
		fields = append(fields, zap.Stringer("scope", ev.ScopeID))
	}

	if err != nil {
		m.log.Warn("service resolution failed", append(fields, zap.Error(err))...)
		return nil
	}

	m.log.Debug("service resolved", fields...)

	return nil
}
