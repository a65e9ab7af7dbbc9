// Package metrics defines and registers all custom Prometheus metrics for the
// user service. It is the single source of truth for metric names, labels,
// and help strings. Metrics register with the default registry at import time
// via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "users"

// SignupsTotal counts successfully registered accounts.
var SignupsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of successful signups.",
	},
)

// SigninsTotal counts signin attempts.
// Label:
//   - result: "success", "invalid_credentials", or "throttled"
var SigninsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signins_total",
		Help:      "Total number of signin attempts, labelled by result.",
	},
	[]string{"result"},
)

// ConfirmationsTotal counts accounts that completed email confirmation.
var ConfirmationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "confirmations_total",
		Help:      "Total number of confirmed accounts.",
	},
)

// AccessDenialsTotal counts guard denials on protected routes.
// Label:
//   - reason: "no_token", "invalid_token", "expired_token",
//     "insufficient_role", or "not_owner"
var AccessDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denials_total",
		Help:      "Total number of requests rejected by the access guard, labelled by reason.",
	},
	[]string{"reason"},
)

// ConfirmationMailsTotal counts confirmation mail deliveries handed to the
// mailer.
// Label:
//   - result: "sent" or "error"
var ConfirmationMailsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "confirmation_mails_total",
		Help:      "Total number of confirmation mails processed by the dispatcher, labelled by result.",
	},
	[]string{"result"},
)
