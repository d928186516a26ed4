package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// slowThreshold is the duration beyond which a request is logged as slow.
const slowThreshold = 500 * time.Millisecond

// Collector accumulates request-timing figures for the dashboard.
type Collector struct {
	mu    sync.Mutex
	count int
	total time.Duration
	max   time.Duration
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Record adds one request's duration.
func (c *Collector) Record(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count++
	c.total += d
	if d > c.max {
		c.max = d
	}
}

// Snapshot returns the request count, average, and maximum in milliseconds.
// INVARIANT: Collector state is not mutated
func (c *Collector) Snapshot() (int, float64, float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.count == 0 {
		return 0, 0, 0
	}
	avg := float64(c.total.Microseconds()) / float64(c.count) / 1000.0
	return c.count, avg, float64(c.max.Microseconds()) / 1000.0
}

// Timing returns middleware that records every request's duration and logs
// slow ones.
func Timing(collector *Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			elapsed := time.Since(start)
			if collector != nil {
				collector.Record(elapsed)
			}
			if elapsed > slowThreshold {
				slog.Warn("slow_request", "method", r.Method, "path", r.URL.Path, "ms", elapsed.Milliseconds())
			}
		})
	}
}
