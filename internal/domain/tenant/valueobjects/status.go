package valueobjects

// SubscriptionStatus is the billing lifecycle state of a tenant. Only the
// five core states participate in the transition graph; expired,
// pending_payment and pending_renewal are transient markers surfaced by
// status-check reads and never written through the state machine.
type SubscriptionStatus string

const (
	StatusTrial     SubscriptionStatus = "trial"
	StatusActive    SubscriptionStatus = "active"
	StatusGrace     SubscriptionStatus = "grace"
	StatusSuspended SubscriptionStatus = "suspended"
	StatusCancelled SubscriptionStatus = "cancelled"

	// Transient read-side markers.
	StatusExpired        SubscriptionStatus = "expired"
	StatusPendingPayment SubscriptionStatus = "pending_payment"
	StatusPendingRenewal SubscriptionStatus = "pending_renewal"
)

func (s SubscriptionStatus) String() string {
	return string(s)
}

// transitions is the authoritative allowed-transition table. Cancelled is
// terminal. Self-transitions are handled by the aggregate as idempotent
// no-ops and never consult this table.
var transitions = map[SubscriptionStatus][]SubscriptionStatus{
	StatusActive:    {StatusGrace, StatusCancelled, StatusSuspended},
	StatusTrial:     {StatusGrace, StatusCancelled, StatusActive},
	StatusGrace:     {StatusSuspended, StatusActive, StatusCancelled},
	StatusSuspended: {StatusActive, StatusCancelled},
	StatusCancelled: {},
}

// CanTransitionTo reports whether the status may move to target. Unknown and
// transient statuses have no outgoing edges.
func (s SubscriptionStatus) CanTransitionTo(target SubscriptionStatus) bool {
	allowed, exists := transitions[s]
	if !exists {
		return false
	}
	for _, a := range allowed {
		if a == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition can ever leave this status.
func (s SubscriptionStatus) IsTerminal() bool {
	return s == StatusCancelled
}

// InTransitionGraph reports whether the status participates in the
// transition graph (i.e. is a valid transition target).
func (s SubscriptionStatus) InTransitionGraph() bool {
	_, ok := transitions[s]
	return ok
}

var ValidStatuses = map[SubscriptionStatus]bool{
	StatusTrial:          true,
	StatusActive:         true,
	StatusGrace:          true,
	StatusSuspended:      true,
	StatusCancelled:      true,
	StatusExpired:        true,
	StatusPendingPayment: true,
	StatusPendingRenewal: true,
}
