package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizePayload(t *testing.T) {
	payload := map[string]any{
		"id":         42,
		"sid":        "veh_forged",
		"tenant_id":  9,
		"tenantId":   9,
		"created_at": "2020-01-01T00:00:00Z",
		"deleted_at": nil,
		"name":       "kept",
		"price_cents": 100,
	}

	got := SanitizePayload(payload)

	assert.Equal(t, map[string]any{
		"name":        "kept",
		"price_cents": 100,
	}, got)
}

func TestSanitizePayload_Nil(t *testing.T) {
	assert.Nil(t, SanitizePayload(nil))
}

func TestProtectedFields_ReturnsCopy(t *testing.T) {
	fields := ProtectedFields()
	assert.Contains(t, fields, "tenant_id")

	fields[0] = "mutated"
	assert.NotContains(t, ProtectedFields(), "mutated")
}
