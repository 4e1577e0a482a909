// Package metrics defines and registers all custom Prometheus metrics for the
// clinic back office. It is the single source of truth for metric names,
// labels, and help strings.
//
// All metrics register with the default registry via promauto at package
// init; the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "clinic"

// LoginAttemptsTotal counts login attempts by outcome.
// Label:
//   - result: "success", "invalid_credentials", or "rate_limited"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokensIssuedTotal counts bearer tokens issued on successful logins.
var TokensIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of bearer tokens issued.",
	},
)

// TokenRejectionsTotal counts requests rejected by the request gate.
// Label:
//   - reason: "missing", "malformed", "bad_signature", or "expired"
var TokenRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_rejections_total",
		Help:      "Total number of requests rejected at the gate, by reason.",
	},
	[]string{"reason"},
)

// PasswordResetRequestsTotal counts forgot-password requests.
// Label:
//   - result: "sent" or "unknown_email"
var PasswordResetRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_reset_requests_total",
		Help:      "Total number of password reset requests, by result.",
	},
	[]string{"result"},
)

// PasswordResetsTotal counts reset-token consumptions.
// Label:
//   - result: "success" or "invalid_token"
var PasswordResetsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_resets_total",
		Help:      "Total number of password reset completions, by result.",
	},
	[]string{"result"},
)
