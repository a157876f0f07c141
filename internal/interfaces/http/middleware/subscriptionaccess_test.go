package middleware

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "motordesk/internal/domain/tenant/valueobjects"
	"motordesk/internal/shared/errors"
)

func TestCheckAccess(t *testing.T) {
	tests := []struct {
		name     string
		level    vo.AccessLevel
		method   string
		path     string
		wantCode string // empty means allowed
	}{
		{"full allows writes", vo.AccessFull, http.MethodPost, "/api/v1/vehicles", ""},
		{"full allows reads", vo.AccessFull, http.MethodGet, "/api/v1/vehicles", ""},

		{"read-only allows GET", vo.AccessReadOnly, http.MethodGet, "/api/v1/vehicles", ""},
		{"read-only blocks POST", vo.AccessReadOnly, http.MethodPost, "/api/v1/vehicles", errors.CodeReadOnlyMode},
		{"read-only blocks PUT", vo.AccessReadOnly, http.MethodPut, "/api/v1/vehicles/v_1", errors.CodeReadOnlyMode},
		{"read-only blocks PATCH", vo.AccessReadOnly, http.MethodPatch, "/api/v1/vehicles/v_1", errors.CodeReadOnlyMode},
		{"read-only blocks DELETE", vo.AccessReadOnly, http.MethodDelete, "/api/v1/vehicles/v_1", errors.CodeReadOnlyMode},
		{"read-only allows billing writes", vo.AccessReadOnly, http.MethodPost, "/api/v1/billing/renew", ""},

		{"billing-only allows billing reads", vo.AccessBillingOnly, http.MethodGet, "/api/v1/billing/subscription", ""},
		{"billing-only allows billing writes", vo.AccessBillingOnly, http.MethodPost, "/api/v1/billing/renew", ""},
		{"billing-only allows reads elsewhere", vo.AccessBillingOnly, http.MethodGet, "/api/v1/vehicles", ""},
		{"billing-only blocks writes elsewhere", vo.AccessBillingOnly, http.MethodPost, "/api/v1/vehicles", errors.CodeReadOnlyMode},

		{"block blocks reads", vo.AccessBlock, http.MethodGet, "/api/v1/vehicles", errors.CodeSubscriptionBlocked},
		{"block blocks writes", vo.AccessBlock, http.MethodDelete, "/api/v1/vehicles/v_1", errors.CodeSubscriptionBlocked},
		{"block still reaches billing reads", vo.AccessBlock, http.MethodGet, "/api/v1/billing/subscription", ""},
		{"block still reaches billing writes", vo.AccessBlock, http.MethodPost, "/api/v1/billing/renew", ""},

		{"unknown level fails closed", vo.AccessLevel("weird"), http.MethodGet, "/api/v1/vehicles", errors.CodeSubscriptionBlocked},
		{"unknown level still reaches billing", vo.AccessLevel("weird"), http.MethodPost, "/api/v1/billing/renew", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkAccess(tt.level, tt.method, tt.path)
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, tt.wantCode), "want code %s, got %v", tt.wantCode, err)
		})
	}
}

func TestIsWriteMethod(t *testing.T) {
	for _, m := range []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete} {
		assert.True(t, isWriteMethod(m), m)
	}
	for _, m := range []string{http.MethodGet, http.MethodHead, http.MethodOptions} {
		assert.False(t, isWriteMethod(m), m)
	}
}

func TestIsBillingPath(t *testing.T) {
	assert.True(t, isBillingPath("/api/v1/billing"))
	assert.True(t, isBillingPath("/api/v1/billing/renew"))
	assert.False(t, isBillingPath("/api/v1/vehicles"))
	assert.False(t, isBillingPath("/api/v1/billingish"))
}
