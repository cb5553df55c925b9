// Package metrics provides observability for the sign-in flows.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts sign-in attempts by flow and outcome.
type Metrics struct {
	SignInOutcome *prometheus.CounterVec
	MemberLogins  *prometheus.CounterVec
}

// New creates a Metrics instance with all counters registered on the
// default registry.
func New() *Metrics {
	return &Metrics{
		SignInOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "trivet_signin_outcomes_total",
			Help: "Total sign-in completions by flow and outcome",
		}, []string{"flow", "outcome"}), // flow: "owner", "member"; outcome: "success", "failure"

		MemberLogins: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "trivet_member_logins_total",
			Help: "Total member sign-ins by classification",
		}, []string{"type"}), // type: "NEW", "RETURNING"
	}
}

// IncrementOutcome records a sign-in completion.
func (m *Metrics) IncrementOutcome(flow, outcome string) {
	if m != nil {
		m.SignInOutcome.WithLabelValues(flow, outcome).Inc()
	}
}

// IncrementMemberLogin records a member sign-in by classification.
func (m *Metrics) IncrementMemberLogin(loginType string) {
	if m != nil {
		m.MemberLogins.WithLabelValues(loginType).Inc()
	}
}
