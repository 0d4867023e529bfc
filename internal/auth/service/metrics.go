package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for authentication metrics.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// LoginAttempts counts login attempts by outcome. Rejections are not split by
// reason: /metrics is public and the split would reveal which usernames exist.
// The reason is logged instead. Use RegisterMetrics to register this with a Prometheus registry.
var LoginAttempts = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "noteful_auth_login_attempts_total",
		Help: "Total number of login attempts",
	},
	[]string{"outcome"},
)

// TokenRefreshes counts refresh attempts by outcome.
var TokenRefreshes = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "noteful_auth_token_refreshes_total",
		Help: "Total number of token refresh attempts",
	},
	[]string{"outcome"},
)

// LoginDuration is the histogram of end-to-end login latency, dominated by
// password verification.
var LoginDuration = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "noteful_auth_login_duration_seconds",
		Help:    "Login duration in seconds",
		Buckets: prometheus.DefBuckets,
	},
)

// UsersCreated counts successful registrations.
var UsersCreated = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "noteful_auth_users_created_total",
		Help: "Total number of users created",
	},
)

// RegisterMetrics registers service metrics with the given Prometheus registry.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(LoginAttempts)
	reg.MustRegister(TokenRefreshes)
	reg.MustRegister(LoginDuration)
	reg.MustRegister(UsersCreated)
}
