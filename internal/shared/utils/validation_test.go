package utils

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonContext(t *testing.T, body string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("PATCH", "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c
}

func TestBindSanitizedJSON_DropsForgedTenantID(t *testing.T) {
	var dst struct {
		Name     *string `json:"name"`
		TenantID *uint   `json:"tenant_id"`
	}

	c := jsonContext(t, `{"name":"renamed","tenant_id":9,"id":42,"sid":"veh_forged"}`)
	require.NoError(t, BindSanitizedJSON(c, &dst))

	require.NotNil(t, dst.Name)
	assert.Equal(t, "renamed", *dst.Name)
	assert.Nil(t, dst.TenantID, "forged tenant_id never reaches the DTO")
}

func TestBindSanitizedJSON_MalformedBody(t *testing.T) {
	var dst struct {
		Name *string `json:"name"`
	}

	c := jsonContext(t, `{"name":`)
	assert.Error(t, BindSanitizedJSON(c, &dst))
}
