package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// InvitationMetrics records issuance and acceptance outcomes per invitation type.
type InvitationMetrics struct {
	issued   *prometheus.CounterVec
	accepted *prometheus.CounterVec
	rejected *prometheus.CounterVec
}

// NewInvitationMetrics registers the invitation metrics on the provided registerer.
func NewInvitationMetrics(reg prometheus.Registerer) *InvitationMetrics {
	if reg == nil {
		return &InvitationMetrics{}
	}
	issued := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "invitations_issued_total",
		Help: "Invitations created, by type.",
	}, []string{"type"})
	accepted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "invitations_accepted_total",
		Help: "Invitations accepted, by type.",
	}, []string{"type"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "invitations_rejected_total",
		Help: "Acceptance attempts rejected (invalid, expired, or consumed tokens).",
	}, []string{"reason"})
	reg.MustRegister(issued, accepted, rejected)
	return &InvitationMetrics{
		issued:   issued,
		accepted: accepted,
		rejected: rejected,
	}
}

// IncIssued increments the issued counter for the invitation type.
func (m *InvitationMetrics) IncIssued(invitationType string) {
	if m == nil || m.issued == nil {
		return
	}
	m.issued.WithLabelValues(normalizeLabel(invitationType)).Inc()
}

// IncAccepted increments the accepted counter for the invitation type.
func (m *InvitationMetrics) IncAccepted(invitationType string) {
	if m == nil || m.accepted == nil {
		return
	}
	m.accepted.WithLabelValues(normalizeLabel(invitationType)).Inc()
}

// IncRejected increments the rejected counter for the failure reason.
func (m *InvitationMetrics) IncRejected(reason string) {
	if m == nil || m.rejected == nil {
		return
	}
	m.rejected.WithLabelValues(normalizeLabel(reason)).Inc()
}
