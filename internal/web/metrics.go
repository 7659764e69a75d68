package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors of the web process.
type Metrics struct {
	Requests       *prometheus.CounterVec
	Duration       *prometheus.HistogramVec
	InFlight       prometheus.Gauge
	GuardRedirects *prometheus.CounterVec
	Wizard         *prometheus.CounterVec
}

// Wizard event labels.
const (
	wizardAdvanced  = "advanced"
	wizardRejected  = "rejected"
	wizardSubmitted = "submitted"
	wizardFailed    = "failed"
)

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(T); ok {
				return existing, nil
			}
			return c, fmt.Errorf("existing collector has unexpected type %T", already.ExistingCollector)
		}
		return c, fmt.Errorf("register collector: %w", err)
	}
	return c, nil
}

// NewMetrics registers the collectors with reg (the default registerer when nil).
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	var (
		m   Metrics
		err error
	)

	m.Requests, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "masar",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests partitioned by method, route, and status code.",
	}, []string{"method", "route", "status"}))
	if err != nil {
		return nil, err
	}

	m.Duration, err = register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "masar",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Histogram of HTTP request latencies in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"}))
	if err != nil {
		return nil, err
	}

	m.InFlight, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "masar",
		Subsystem: "http",
		Name:      "in_flight_requests",
		Help:      "Current number of in-flight HTTP requests.",
	}))
	if err != nil {
		return nil, err
	}

	m.GuardRedirects, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "masar",
		Subsystem: "guard",
		Name:      "redirects_total",
		Help:      "Requests redirected by the route guard, by reason.",
	}, []string{"reason"}))
	if err != nil {
		return nil, err
	}

	m.Wizard, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "masar",
		Subsystem: "registration",
		Name:      "wizard_events_total",
		Help:      "Registration wizard transitions by user type and event.",
	}, []string{"user_type", "event"}))
	if err != nil {
		return nil, err
	}

	return &m, nil
}

// Handler records request metrics. A nil *Metrics is a pass-through.
func (m *Metrics) Handler(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		m.InFlight.Inc()
		defer m.InFlight.Dec()

		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		labels := prometheus.Labels{
			"method": r.Method,
			"route":  route,
			"status": strconv.Itoa(status),
		}
		m.Requests.With(labels).Inc()
		m.Duration.With(labels).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) guardRedirects() *prometheus.CounterVec {
	if m == nil {
		return nil
	}
	return m.GuardRedirects
}

func (m *Metrics) wizard(userType, event string) {
	if m == nil {
		return
	}
	if userType == "" {
		userType = "none"
	}
	m.Wizard.WithLabelValues(userType, event).Inc()
}
