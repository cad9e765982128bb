package middleware

import (
	"net/http"
	"sync/atomic"
)

// Metrics holds request counters reported by the /metrics endpoint.
type Metrics struct {
	Requests    atomic.Int64
	Errors      atomic.Int64
	ServerErrs  atomic.Int64
	RateLimited atomic.Int64
	InFlight    atomic.Int64
}

// Snapshot is a point-in-time copy of Metrics.
type Snapshot struct {
	Requests    int64 `json:"request_count"`
	Errors      int64 `json:"error_count"`
	ServerErrs  int64 `json:"server_error_count"`
	RateLimited int64 `json:"rate_limited_count"`
	InFlight    int64 `json:"in_flight"`
}

func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		Requests:    m.Requests.Load(),
		Errors:      m.Errors.Load(),
		ServerErrs:  m.ServerErrs.Load(),
		RateLimited: m.RateLimited.Load(),
		InFlight:    m.InFlight.Load(),
	}
}

// Middleware returns middleware that counts requests and errors.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.Requests.Add(1)
		m.InFlight.Add(1)
		defer m.InFlight.Add(-1)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		switch {
		case rw.statusCode == http.StatusTooManyRequests:
			m.RateLimited.Add(1)
			m.Errors.Add(1)
		case rw.statusCode >= http.StatusInternalServerError:
			m.ServerErrs.Add(1)
			m.Errors.Add(1)
		case rw.statusCode >= http.StatusBadRequest:
			m.Errors.Add(1)
		}
	})
}
