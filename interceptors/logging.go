package interceptors

import (
	"context"
	"log/slog"
	"time"

	"github.com/glimte/hookable-go/contracts"
	"github.com/glimte/hookable-go/hooks"
	"github.com/glimte/hookable-go/registry"
)

// LoggingInterceptor logs every call of a method
type LoggingInterceptor struct {
	logger *slog.Logger
	level  slog.Level
}

// NewLoggingInterceptor creates a new logging interceptor
func NewLoggingInterceptor(logger *slog.Logger) *LoggingInterceptor {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingInterceptor{logger: logger, level: slog.LevelInfo}
}

// WithLevel sets the level successful calls are logged at
func (i *LoggingInterceptor) WithLevel(level slog.Level) *LoggingInterceptor {
	i.level = level
	return i
}

// Attach implements Interceptor
func (i *LoggingInterceptor) Attach(b *hooks.Builder, key contracts.Key) (*registry.Registration, error) {
	return b.Method(key, func(self contracts.Instance, original contracts.Func, args []any) (any, error) {
		start := time.Now()
		typ, member := typeName(self), keyName(key)

		i.logger.Debug("calling method", "type", typ, "key", member, "args", len(args))

		result, err := original(args...)
		return settle(result, err, func(_ any, err error) {
			duration := time.Since(start)
			if err != nil {
				i.logger.Error("method call failed",
					"type", typ,
					"key", member,
					"duration", duration,
					"error", err,
				)
				return
			}
			i.logger.Log(context.Background(), i.level, "method call completed",
				"type", typ,
				"key", member,
				"duration", duration,
			)
		})
	})
}

// Name implements Interceptor
func (i *LoggingInterceptor) Name() string {
	return "LoggingInterceptor"
}

// Logging attaches a LoggingInterceptor to key
func Logging(b *hooks.Builder, key contracts.Key, logger *slog.Logger) (*registry.Registration, error) {
	return NewLoggingInterceptor(logger).Attach(b, key)
}
