// Package metrics defines the custom Prometheus metrics of the staff-auth API.
// It is the single source of truth for metric names, labels, and help strings.
//
// Metrics are registered on the Registerer passed to New, so each router (and
// each test) can own an isolated registry.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vetcare/staff-auth/internal/core/domain"
)

const namespace = "staff_auth"

// OutcomeSuccess labels operations that completed without error.
const OutcomeSuccess = "success"

type Metrics struct {
	// LoginAttempts counts login attempts.
	// Labels:
	//   - outcome: "success" or the error kind (e.g. "invalid_credentials", "account_inactive")
	LoginAttempts *prometheus.CounterVec

	// LoginDuration measures login latency, which is dominated by bcrypt.
	// Label:
	//   - outcome: as for LoginAttempts
	LoginDuration *prometheus.HistogramVec

	// TokenChecks counts bearer token checks made by the guard and the
	// verify-token endpoint.
	// Label:
	//   - outcome: "success" or the error kind
	TokenChecks *prometheus.CounterVec

	// Logouts counts successful logouts.
	Logouts prometheus.Counter
}

// New creates the metrics and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		LoginAttempts: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "login_attempts_total",
				Help:      "Total number of login attempts, by outcome.",
			},
			[]string{"outcome"},
		),
		LoginDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "login_duration_seconds",
				Help:      "Duration of login requests from credential lookup to token issue.",
				Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"outcome"},
		),
		TokenChecks: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "token_checks_total",
				Help:      "Total number of bearer token checks, by outcome.",
			},
			[]string{"outcome"},
		),
		Logouts: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logouts_total",
			Help:      "Total number of successful logouts.",
		}),
	}
}

// ObserveLogin records one login attempt.
func (m *Metrics) ObserveLogin(err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := Outcome(err)
	m.LoginAttempts.WithLabelValues(outcome).Inc()
	m.LoginDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// ObserveTokenCheck records one bearer token check.
func (m *Metrics) ObserveTokenCheck(err error) {
	if m == nil {
		return
	}
	m.TokenChecks.WithLabelValues(Outcome(err)).Inc()
}

// ObserveLogout records one logout.
func (m *Metrics) ObserveLogout() {
	if m == nil {
		return
	}
	m.Logouts.Inc()
}

// Outcome maps err to a bounded label value.
func Outcome(err error) string {
	if err == nil {
		return OutcomeSuccess
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return string(de.Kind)
	}
	return "internal"
}
