package monitor

import (
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/glimte/hookable-go/interceptors"
)

// DefaultSampleSize is the number of recent durations kept per member
const DefaultSampleSize = 100

// Member returns the summary key for a member of a type
func Member(typ, key string) string {
	return typ + "." + key
}

// CallMetrics is an in-memory MetricsCollector keyed by "Type.key"
type CallMetrics struct {
	mu sync.RWMutex

	sampleSize int
	calls      map[string]int64
	errors     map[string]map[string]int64
	durations  map[string]*durationStats
}

type durationStats struct {
	count   int64
	total   time.Duration
	min     time.Duration
	max     time.Duration
	samples []time.Duration
}

// Option configures CallMetrics
type Option func(*CallMetrics)

// WithSampleSize sets how many recent durations are kept for percentiles
func WithSampleSize(n int) Option {
	return func(c *CallMetrics) {
		if n > 0 {
			c.sampleSize = n
		}
	}
}

// NewCallMetrics creates an empty collector
func NewCallMetrics(options ...Option) *CallMetrics {
	c := &CallMetrics{sampleSize: DefaultSampleSize}
	for _, opt := range options {
		opt(c)
	}
	c.reset()
	return c
}

// IncrementCallCount implements interceptors.MetricsCollector
func (c *CallMetrics) IncrementCallCount(typ, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls[Member(typ, key)]++
}

// RecordCallDuration implements interceptors.MetricsCollector
func (c *CallMetrics) RecordCallDuration(typ, key string, d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := Member(typ, key)
	stats, ok := c.durations[m]
	if !ok {
		stats = &durationStats{min: d, max: d, samples: make([]time.Duration, 0, c.sampleSize)}
		c.durations[m] = stats
	}

	stats.count++
	stats.total += d
	stats.min = min(stats.min, d)
	stats.max = max(stats.max, d)

	if len(stats.samples) >= c.sampleSize {
		stats.samples = stats.samples[1:]
	}
	stats.samples = append(stats.samples, d)
}

// IncrementErrorCount implements interceptors.MetricsCollector
func (c *CallMetrics) IncrementErrorCount(typ, key, errorType string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := Member(typ, key)
	if c.errors[m] == nil {
		c.errors[m] = make(map[string]int64)
	}
	c.errors[m][errorType]++
}

// Summary is a snapshot of the collected metrics
type Summary struct {
	Members     map[string]MemberStats `json:"members"`
	TotalCalls  int64                  `json:"total_calls"`
	TotalErrors int64                  `json:"total_errors"`
	ErrorRate   float64                `json:"error_rate"`
	TopErrors   []ErrorTypeStats       `json:"top_errors"`
}

// MemberStats summarizes the calls of one member
type MemberStats struct {
	Calls  int64            `json:"calls"`
	Errors map[string]int64 `json:"errors,omitempty"`
	Min    time.Duration    `json:"min"`
	Max    time.Duration    `json:"max"`
	Mean   time.Duration    `json:"mean"`
	P50    time.Duration    `json:"p50"`
	P95    time.Duration    `json:"p95"`
	P99    time.Duration    `json:"p99"`
}

// ErrorTypeStats counts one error type across all members
type ErrorTypeStats struct {
	ErrorType string  `json:"error_type"`
	Count     int64   `json:"count"`
	Rate      float64 `json:"rate"`
}

// Summary returns a snapshot of all collected metrics
func (c *CallMetrics) Summary() Summary {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Summary{Members: make(map[string]MemberStats)}
	member := func(m string) MemberStats {
		return s.Members[m]
	}

	for m, n := range c.calls {
		ms := member(m)
		ms.Calls = n
		s.Members[m] = ms
		s.TotalCalls += n
	}

	byType := make(map[string]int64)
	for m, errs := range c.errors {
		ms := member(m)
		ms.Errors = make(map[string]int64, len(errs))
		for typ, n := range errs {
			ms.Errors[typ] = n
			byType[typ] += n
			s.TotalErrors += n
		}
		s.Members[m] = ms
	}

	for m, stats := range c.durations {
		ms := member(m)
		ms.Min, ms.Max = stats.min, stats.max
		if stats.count > 0 {
			ms.Mean = stats.total / time.Duration(stats.count)
		}
		sorted := slices.Clone(stats.samples)
		slices.Sort(sorted)
		ms.P50 = percentile(sorted, 0.50)
		ms.P95 = percentile(sorted, 0.95)
		ms.P99 = percentile(sorted, 0.99)
		s.Members[m] = ms
	}

	if s.TotalCalls > 0 {
		s.ErrorRate = float64(s.TotalErrors) / float64(s.TotalCalls)
	}
	for typ, n := range byType {
		s.TopErrors = append(s.TopErrors, ErrorTypeStats{
			ErrorType: typ,
			Count:     n,
			Rate:      float64(n) / float64(s.TotalErrors),
		})
	}
	sort.Slice(s.TopErrors, func(i, j int) bool {
		if s.TopErrors[i].Count != s.TopErrors[j].Count {
			return s.TopErrors[i].Count > s.TopErrors[j].Count
		}
		return s.TopErrors[i].ErrorType < s.TopErrors[j].ErrorType
	})
	return s
}

// percentile reads p from sorted samples
func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	return sorted[int(float64(len(sorted)-1)*p)]
}

// Reset clears all collected metrics
func (c *CallMetrics) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
}

func (c *CallMetrics) reset() {
	c.calls = make(map[string]int64)
	c.errors = make(map[string]map[string]int64)
	c.durations = make(map[string]*durationStats)
}

var _ interceptors.MetricsCollector = (*CallMetrics)(nil)
