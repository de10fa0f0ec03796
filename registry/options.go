package registry

import "log/slog"

// DefaultPriority is the priority used when none is given
const DefaultPriority = 10

// Option configures a Container
type Option func(*Container)

// WithLogger sets the logger used for registration events
func WithLogger(logger *slog.Logger) Option {
	return func(c *Container) {
		if logger != nil {
			c.logger = logger
		}
	}
}
