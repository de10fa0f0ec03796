package interceptors

import (
	"errors"
	"fmt"
	"time"

	"github.com/glimte/hookable-go/contracts"
	"github.com/glimte/hookable-go/hooks"
	"github.com/glimte/hookable-go/registry"
)

// MetricsCollector receives call metrics
type MetricsCollector interface {
	IncrementCallCount(typ, key string)
	RecordCallDuration(typ, key string, duration time.Duration)
	IncrementErrorCount(typ, key, errorType string)
}

// MetricsInterceptor reports metrics for every call of a method
type MetricsInterceptor struct {
	collector MetricsCollector
}

// NewMetricsInterceptor creates a new metrics interceptor
func NewMetricsInterceptor(collector MetricsCollector) *MetricsInterceptor {
	return &MetricsInterceptor{collector: collector}
}

// Attach implements Interceptor
func (i *MetricsInterceptor) Attach(b *hooks.Builder, key contracts.Key) (*registry.Registration, error) {
	if i.collector == nil {
		return nil, errors.New("metrics interceptor: collector cannot be nil")
	}
	return b.Method(key, func(self contracts.Instance, original contracts.Func, args []any) (any, error) {
		start := time.Now()
		typ, member := typeName(self), keyName(key)

		i.collector.IncrementCallCount(typ, member)

		result, err := original(args...)
		return settle(result, err, func(_ any, err error) {
			i.collector.RecordCallDuration(typ, member, time.Since(start))
			if err != nil {
				i.collector.IncrementErrorCount(typ, member, fmt.Sprintf("%T", err))
			}
		})
	})
}

// Name implements Interceptor
func (i *MetricsInterceptor) Name() string {
	return "MetricsInterceptor"
}

// Metrics attaches a MetricsInterceptor to key
func Metrics(b *hooks.Builder, key contracts.Key, collector MetricsCollector) (*registry.Registration, error) {
	return NewMetricsInterceptor(collector).Attach(b, key)
}
