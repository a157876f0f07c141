package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveAccessLevel(t *testing.T) {
	tests := []struct {
		name       string
		status     SubscriptionStatus
		suspension SuspensionType
		want       AccessLevel
	}{
		{"trial", StatusTrial, SuspensionNone, AccessFull},
		{"active", StatusActive, SuspensionNone, AccessFull},
		{"grace", StatusGrace, SuspensionNone, AccessReadOnly},
		{"suspended soft", StatusSuspended, SuspensionSoft, AccessBillingOnly},
		{"suspended none", StatusSuspended, SuspensionNone, AccessBillingOnly},
		{"suspended hard", StatusSuspended, SuspensionHard, AccessBlock},
		{"cancelled", StatusCancelled, SuspensionNone, AccessBlock},
		{"expired marker", StatusExpired, SuspensionNone, AccessBlock},
		{"pending payment marker", StatusPendingPayment, SuspensionNone, AccessBlock},
		{"pending renewal marker", StatusPendingRenewal, SuspensionNone, AccessBlock},
		{"unknown fails closed", SubscriptionStatus("garbage"), SuspensionNone, AccessBlock},
		{"empty fails closed", SubscriptionStatus(""), SuspensionNone, AccessBlock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveAccessLevel(tt.status, tt.suspension))
		})
	}
}

func TestAccessLevel_Allows(t *testing.T) {
	assert.True(t, AccessFull.AllowsReads())
	assert.True(t, AccessFull.AllowsWrites())

	assert.True(t, AccessReadOnly.AllowsReads())
	assert.False(t, AccessReadOnly.AllowsWrites())

	assert.True(t, AccessBillingOnly.AllowsReads())
	assert.False(t, AccessBillingOnly.AllowsWrites())

	assert.False(t, AccessBlock.AllowsReads())
	assert.False(t, AccessBlock.AllowsWrites())
}

func TestSubscriptionStatus_Transitions(t *testing.T) {
	// Cancelled is terminal: no outgoing edges at all.
	for _, target := range []SubscriptionStatus{StatusTrial, StatusActive, StatusGrace, StatusSuspended} {
		assert.False(t, StatusCancelled.CanTransitionTo(target), "cancelled -> %s", target)
	}
	assert.True(t, StatusCancelled.IsTerminal())

	// Transient markers never participate in the graph.
	for _, s := range []SubscriptionStatus{StatusExpired, StatusPendingPayment, StatusPendingRenewal} {
		assert.False(t, s.InTransitionGraph())
		assert.False(t, s.CanTransitionTo(StatusActive))
	}

	assert.True(t, StatusGrace.CanTransitionTo(StatusActive), "payment during grace restores active")
	assert.False(t, StatusTrial.CanTransitionTo(StatusSuspended), "trial skips straight to grace, never suspended")
}
