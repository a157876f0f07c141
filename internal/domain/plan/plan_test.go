package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPlan(t *testing.T, limits Limits, canCreateGroup bool, features map[string]interface{}) *Plan {
	t.Helper()
	p, err := NewPlan("starter", "Starter", limits, canCreateGroup, features)
	require.NoError(t, err)
	return p
}

func TestNewPlan(t *testing.T) {
	p := newTestPlan(t, Limits{MaxVehicles: 50, MaxUsers: 5}, false, nil)

	assert.NotEmpty(t, p.SID())
	assert.Equal(t, "starter", p.Slug())
	assert.True(t, p.Active())

	// Slug is normalized to lower case.
	p2, err := NewPlan("PRO", "Pro", Limits{}, false, nil)
	require.NoError(t, err)
	assert.Equal(t, "pro", p2.Slug())

	_, err = NewPlan("", "Starter", Limits{}, false, nil)
	assert.Error(t, err)
	_, err = NewPlan("starter", "", Limits{}, false, nil)
	assert.Error(t, err)
}

func TestPlan_LimitFor(t *testing.T) {
	p := newTestPlan(t, Limits{
		MaxVehicles:     50,
		MaxUsers:        5,
		MaxBranches:     2,
		MaxCustomers:    Unlimited,
		MaxGroupMembers: 0,
	}, false, nil)

	tests := []struct {
		kind LimitKind
		want int64
	}{
		{LimitVehicles, 50},
		{LimitUsers, 5},
		{LimitBranches, 2},
		{LimitCustomers, Unlimited},
		{LimitGroupMembers, 0},
	}
	for _, tt := range tests {
		got, err := p.LimitFor(tt.kind)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "kind %s", tt.kind)
	}

	_, err := p.LimitFor(LimitKind("parking_spots"))
	assert.Error(t, err)
}

func TestPlan_HasFeature(t *testing.T) {
	p := newTestPlan(t, Limits{}, true, map[string]interface{}{
		FeatureStockTransfer: true,
		FeatureAPIAccess:     false,
		"export_quota":       float64(10), // JSON numbers decode as float64
		"zero_quota":         float64(0),
		"weird":              "yes",
	})

	assert.True(t, p.HasFeature(FeatureGroupCreation), "group creation is the dedicated column")
	assert.True(t, p.HasFeature(FeatureStockTransfer))
	assert.False(t, p.HasFeature(FeatureAPIAccess))
	assert.True(t, p.HasFeature("export_quota"))
	assert.False(t, p.HasFeature("zero_quota"))
	assert.False(t, p.HasFeature("weird"), "non-boolean non-numeric values are disabled")
	assert.False(t, p.HasFeature("absent"), "absent keys are disabled")
}

func TestPlan_Deactivate(t *testing.T) {
	p := newTestPlan(t, Limits{}, false, nil)
	require.True(t, p.Active())

	p.Deactivate()
	assert.False(t, p.Active())

	p.Deactivate()
	assert.False(t, p.Active())
}
