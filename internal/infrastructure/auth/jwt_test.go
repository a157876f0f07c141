package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"motordesk/internal/shared/authorization"
)

func testPrincipal() authorization.Principal {
	return authorization.Principal{
		SubjectSID:          "usr_abc123",
		Email:               "owner@example.com",
		Role:                authorization.RoleOwner,
		TenantSID:           "tnt_xyz789",
		EmailVerified:       true,
		OnboardingCompleted: true,
	}
}

func newTestService() *JWTService {
	return NewJWTService("test-secret", 15, 7)
}

func TestJWTService_GenerateAndVerify(t *testing.T) {
	svc := newTestService()

	pair, err := svc.Generate(testPrincipal())
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, int64(15*60), pair.ExpiresIn)

	claims, err := svc.Verify(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)

	p := claims.Principal()
	assert.Equal(t, "usr_abc123", p.SubjectSID)
	assert.Equal(t, "owner@example.com", p.Email)
	assert.Equal(t, authorization.RoleOwner, p.Role)
	assert.Equal(t, "tnt_xyz789", p.TenantSID)
	assert.True(t, p.EmailVerified)
	assert.True(t, p.OnboardingCompleted)

	refreshClaims, err := svc.Verify(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, refreshClaims.TokenType)
}

func TestJWTService_Verify_WrongSecret(t *testing.T) {
	pair, err := newTestService().Generate(testPrincipal())
	require.NoError(t, err)

	other := NewJWTService("other-secret", 15, 7)
	_, err = other.Verify(pair.AccessToken)
	assert.Error(t, err)
}

func TestJWTService_Verify_Garbage(t *testing.T) {
	_, err := newTestService().Verify("not.a.token")
	assert.Error(t, err)

	_, err = newTestService().Verify("")
	assert.Error(t, err)
}

func TestJWTService_Refresh(t *testing.T) {
	svc := newTestService()

	pair, err := svc.Generate(testPrincipal())
	require.NoError(t, err)

	newPair, err := svc.Refresh(pair.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, newPair.AccessToken)

	claims, err := svc.Verify(newPair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "usr_abc123", claims.UserSID)

	// An access token is not accepted as a refresh token.
	_, err = svc.Refresh(pair.AccessToken)
	assert.Error(t, err)
}

func TestJWTService_VerificationToken(t *testing.T) {
	svc := newTestService()

	token, err := svc.GenerateVerificationToken("usr_new1", "new@example.com")
	require.NoError(t, err)

	sid, err := svc.VerifyVerificationToken(token)
	require.NoError(t, err)
	assert.Equal(t, "usr_new1", sid)

	// Access and refresh tokens are rejected at the verification endpoint.
	pair, err := svc.Generate(testPrincipal())
	require.NoError(t, err)
	_, err = svc.VerifyVerificationToken(pair.AccessToken)
	assert.Error(t, err)
	_, err = svc.VerifyVerificationToken(pair.RefreshToken)
	assert.Error(t, err)
}
