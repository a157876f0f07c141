package handlers

import (
	"time"

	"motordesk/internal/domain/tenant"
)

type tenantResponse struct {
	SID                 string     `json:"sid"`
	Name                string     `json:"name"`
	PlanTier            string     `json:"plan_tier,omitempty"`
	Status              string     `json:"status"`
	SuspensionType      string     `json:"suspension_type,omitempty"`
	AccessLevel         string     `json:"access_level"`
	TrialEndsAt         *time.Time `json:"trial_ends_at,omitempty"`
	SubscriptionEndsAt  *time.Time `json:"subscription_ends_at,omitempty"`
	ScheduledDeletionAt *time.Time `json:"scheduled_deletion_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

func tenantResponseFrom(t *tenant.Tenant) tenantResponse {
	return tenantResponse{
		SID:                 t.SID(),
		Name:                t.Name(),
		PlanTier:            t.PlanTier(),
		Status:              string(t.Status()),
		SuspensionType:      string(t.SuspensionType()),
		AccessLevel:         string(t.AccessLevel()),
		TrialEndsAt:         t.TrialEndsAt(),
		SubscriptionEndsAt:  t.SubscriptionEndsAt(),
		ScheduledDeletionAt: t.ScheduledDeletionAt(),
		CreatedAt:           t.CreatedAt(),
	}
}
