// Package plan models subscription plans: quantitative resource limits and
// boolean feature flags. Limits use -1 as the unlimited sentinel; a plan that
// cannot be resolved fails closed (limit 0, features disabled) at the
// evaluator layer, never defaults to permissive.
package plan

import (
	"fmt"
	"strings"
	"time"

	"motordesk/internal/shared/id"
)

// Unlimited is the sentinel meaning "no quantitative limit".
const Unlimited int64 = -1

// LimitKind names a countable resource gated by a plan.
type LimitKind string

const (
	LimitVehicles     LimitKind = "vehicles"
	LimitUsers        LimitKind = "users"
	LimitBranches     LimitKind = "branches"
	LimitCustomers    LimitKind = "customers"
	LimitGroupMembers LimitKind = "group_members"
)

func (k LimitKind) IsValid() bool {
	switch k {
	case LimitVehicles, LimitUsers, LimitBranches, LimitCustomers, LimitGroupMembers:
		return true
	}
	return false
}

// First-class feature keys. Group creation has a dedicated column; everything
// else lives in the features map.
const (
	FeatureGroupCreation = "group_creation"
	FeatureStockTransfer = "stock_transfer"
	FeatureAPIAccess     = "api_access"
)

// Plan is the plan aggregate root.
type Plan struct {
	id              uint
	sid             string
	slug            string
	name            string
	maxVehicles     int64
	maxUsers        int64
	maxBranches     int64
	maxCustomers    int64
	maxGroupMembers int64
	canCreateGroup  bool
	features        map[string]interface{}
	active          bool
	createdAt       time.Time
	updatedAt       time.Time
}

// Limits bundles the quantitative limits for construction.
type Limits struct {
	MaxVehicles     int64
	MaxUsers        int64
	MaxBranches     int64
	MaxCustomers    int64
	MaxGroupMembers int64
}

// NewPlan creates a plan. Slug is the stable lookup key bridging legacy
// tenant tiers.
func NewPlan(slug, name string, limits Limits, canCreateGroup bool, features map[string]interface{}) (*Plan, error) {
	if slug == "" {
		return nil, fmt.Errorf("plan slug is required")
	}
	if name == "" {
		return nil, fmt.Errorf("plan name is required")
	}
	if features == nil {
		features = make(map[string]interface{})
	}

	sid, err := id.GenerateWithPrefix(id.PrefixPlan, id.DefaultLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate plan SID: %w", err)
	}

	now := time.Now().UTC()
	return &Plan{
		sid:             sid,
		slug:            strings.ToLower(slug),
		name:            name,
		maxVehicles:     limits.MaxVehicles,
		maxUsers:        limits.MaxUsers,
		maxBranches:     limits.MaxBranches,
		maxCustomers:    limits.MaxCustomers,
		maxGroupMembers: limits.MaxGroupMembers,
		canCreateGroup:  canCreateGroup,
		features:        features,
		active:          true,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// PlanReconstructParams carries persistence state back into the aggregate.
type PlanReconstructParams struct {
	ID              uint
	SID             string
	Slug            string
	Name            string
	MaxVehicles     int64
	MaxUsers        int64
	MaxBranches     int64
	MaxCustomers    int64
	MaxGroupMembers int64
	CanCreateGroup  bool
	Features        map[string]interface{}
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ReconstructPlan rebuilds a plan from persistence.
func ReconstructPlan(p PlanReconstructParams) (*Plan, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("plan ID cannot be zero")
	}
	if p.Slug == "" {
		return nil, fmt.Errorf("plan slug is required")
	}
	if p.Features == nil {
		p.Features = make(map[string]interface{})
	}

	return &Plan{
		id:              p.ID,
		sid:             p.SID,
		slug:            p.Slug,
		name:            p.Name,
		maxVehicles:     p.MaxVehicles,
		maxUsers:        p.MaxUsers,
		maxBranches:     p.MaxBranches,
		maxCustomers:    p.MaxCustomers,
		maxGroupMembers: p.MaxGroupMembers,
		canCreateGroup:  p.CanCreateGroup,
		features:        p.Features,
		active:          p.Active,
		createdAt:       p.CreatedAt,
		updatedAt:       p.UpdatedAt,
	}, nil
}

func (p *Plan) ID() uint             { return p.id }
func (p *Plan) SID() string          { return p.sid }
func (p *Plan) Slug() string         { return p.slug }
func (p *Plan) Name() string         { return p.name }
func (p *Plan) CanCreateGroup() bool { return p.canCreateGroup }
func (p *Plan) Active() bool         { return p.active }
func (p *Plan) CreatedAt() time.Time { return p.createdAt }
func (p *Plan) UpdatedAt() time.Time { return p.updatedAt }

// SetID sets the plan ID (only for persistence layer use)
func (p *Plan) SetID(planID uint) error {
	if p.id != 0 {
		return fmt.Errorf("plan ID is already set")
	}
	if planID == 0 {
		return fmt.Errorf("plan ID cannot be zero")
	}
	p.id = planID
	return nil
}

// Features returns a copy of the feature map.
func (p *Plan) Features() map[string]interface{} {
	out := make(map[string]interface{}, len(p.features))
	for k, v := range p.features {
		out[k] = v
	}
	return out
}

// LimitFor returns the quantitative limit for a resource kind. Unlimited is
// the -1 sentinel.
func (p *Plan) LimitFor(kind LimitKind) (int64, error) {
	switch kind {
	case LimitVehicles:
		return p.maxVehicles, nil
	case LimitUsers:
		return p.maxUsers, nil
	case LimitBranches:
		return p.maxBranches, nil
	case LimitCustomers:
		return p.maxCustomers, nil
	case LimitGroupMembers:
		return p.maxGroupMembers, nil
	default:
		return 0, fmt.Errorf("unknown limit kind: %s", kind)
	}
}

// HasFeature reports whether a boolean feature is enabled. Group creation is
// a first-class column; everything else is a feature-map lookup. Absent keys
// are disabled.
func (p *Plan) HasFeature(key string) bool {
	if key == FeatureGroupCreation {
		return p.canCreateGroup
	}

	v, ok := p.features[key]
	if !ok {
		return false
	}
	switch val := v.(type) {
	case bool:
		return val
	case float64:
		// JSON numbers decode as float64; positive means enabled.
		return val > 0
	case int:
		return val > 0
	case int64:
		return val > 0
	default:
		return false
	}
}

// Deactivate retires the plan from new assignments.
func (p *Plan) Deactivate() {
	if !p.active {
		return
	}
	p.active = false
	p.updatedAt = time.Now().UTC()
}
