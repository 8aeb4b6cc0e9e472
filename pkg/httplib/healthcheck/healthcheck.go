package healthcheck

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"
)

// Probe reports whether a dependency is usable.
type Probe func(ctx context.Context) error

// Status values rendered by the health endpoint.
const (
	StatusOK          = "ok"
	StatusUnavailable = "unavailable"
)

const defaultTimeout = 2 * time.Second

// Report is the body of GET /health.
type Report struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// HealthCheck is the health check handler.
type HealthCheck struct {
	probes  map[string]Probe
	timeout time.Duration
}

// New creates a HealthCheck running probes on every request. A zero timeout
// uses two seconds.
func New(timeout time.Duration, probes map[string]Probe) HealthCheck {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return HealthCheck{probes: probes, timeout: timeout}
}

// Handler is used to control the flow of GET /health endpoint
func (hc HealthCheck) Handler(h http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		if IsHealthCheckRequest(r) {
			hc.ServeHTTP(w, r)

			return
		}

		h.ServeHTTP(w, r)
	}

	return http.HandlerFunc(fn)
}

// Check runs every probe and collects the results.
func (hc HealthCheck) Check(ctx context.Context) Report {
	ctx, cancel := context.WithTimeout(ctx, hc.timeout)
	defer cancel()

	names := make([]string, 0, len(hc.probes))
	for name := range hc.probes {
		names = append(names, name)
	}
	sort.Strings(names)

	report := Report{Status: StatusOK}
	if len(names) == 0 {
		return report
	}

	report.Checks = make(map[string]string, len(names))
	for _, name := range names {
		if err := hc.probes[name](ctx); err != nil {
			report.Status = StatusUnavailable
			report.Checks[name] = err.Error()
			continue
		}
		report.Checks[name] = StatusOK
	}
	return report
}

// ServeHTTP serve http request for health check
func (hc HealthCheck) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	report := hc.Check(r.Context())

	w.Header().Set("Content-Type", "application/json")
	if report.Status != StatusOK {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	_ = json.NewEncoder(w).Encode(report)
}

// IsHealthCheckRequest is used to check if the request is a health check request
func IsHealthCheckRequest(r *http.Request) bool {
	return r.Method == http.MethodGet && r.URL.Path == "/health"
}
