package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"motordesk/internal/shared/authorization"
	"motordesk/internal/shared/biztime"
)

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
	TokenTypeVerify  TokenType = "verify"
)

const verifyTokenTTL = 48 * time.Hour

// Claims carries everything the principal resolver needs, so a request is
// authorized without a user lookup on the hot path. TenantSID is empty for
// platform operators.
type Claims struct {
	UserSID             string                 `json:"user_sid"`
	Email               string                 `json:"email"`
	Role                authorization.UserRole `json:"role"`
	TenantSID           string                 `json:"tenant_sid,omitempty"`
	EmailVerified       bool                   `json:"email_verified"`
	OnboardingCompleted bool                   `json:"onboarding_completed"`
	TokenType           TokenType              `json:"token_type"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

type JWTService struct {
	secret           []byte
	accessExpMinutes int
	refreshExpDays   int
}

func NewJWTService(secret string, accessExpMinutes, refreshExpDays int) *JWTService {
	return &JWTService{
		secret:           []byte(secret),
		accessExpMinutes: accessExpMinutes,
		refreshExpDays:   refreshExpDays,
	}
}

// Generate signs an access/refresh pair for the principal.
func (s *JWTService) Generate(p authorization.Principal) (*TokenPair, error) {
	now := biztime.NowUTC()

	accessTokenString, err := s.sign(p, TokenTypeAccess, now, now.Add(time.Duration(s.accessExpMinutes)*time.Minute))
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshTokenString, err := s.sign(p, TokenTypeRefresh, now, now.Add(time.Duration(s.refreshExpDays)*24*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessTokenString,
		RefreshToken: refreshTokenString,
		ExpiresIn:    int64(s.accessExpMinutes * 60),
	}, nil
}

func (s *JWTService) sign(p authorization.Principal, tokenType TokenType, now, exp time.Time) (string, error) {
	claims := &Claims{
		UserSID:             p.SubjectSID,
		Email:               p.Email,
		Role:                p.Role,
		TenantSID:           p.TenantSID,
		EmailVerified:       p.EmailVerified,
		OnboardingCompleted: p.OnboardingCompleted,
		TokenType:           tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *JWTService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

// Principal projects verified claims back into the request-scoped identity.
func (c *Claims) Principal() authorization.Principal {
	return authorization.Principal{
		SubjectSID:          c.UserSID,
		Email:               c.Email,
		Role:                c.Role,
		TenantSID:           c.TenantSID,
		EmailVerified:       c.EmailVerified,
		OnboardingCompleted: c.OnboardingCompleted,
	}
}

// ShouldRefresh checks if the access token should be refreshed
// Returns true if the token will expire within the threshold (default: 5 minutes)
func (s *JWTService) ShouldRefresh(claims *Claims) bool {
	if claims == nil || claims.ExpiresAt == nil {
		return false
	}
	threshold := 5 * time.Minute
	return biztime.NowUTC().Add(threshold).After(claims.ExpiresAt.Time)
}

// AccessExpMinutes returns the access token expiration time in minutes
func (s *JWTService) AccessExpMinutes() int {
	return s.accessExpMinutes
}

// GenerateVerificationToken signs a short-lived single-purpose token carried
// in the email verification link.
func (s *JWTService) GenerateVerificationToken(userSID, email string) (string, error) {
	now := biztime.NowUTC()
	claims := &Claims{
		UserSID:   userSID,
		Email:     email,
		TokenType: TokenTypeVerify,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(verifyTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// VerifyVerificationToken returns the user SID a verification token was
// issued for. Access and refresh tokens are rejected here.
func (s *JWTService) VerifyVerificationToken(tokenString string) (string, error) {
	claims, err := s.Verify(tokenString)
	if err != nil {
		return "", err
	}
	if claims.TokenType != TokenTypeVerify {
		return "", fmt.Errorf("token is not a verification token")
	}
	return claims.UserSID, nil
}

// Refresh verifies a refresh token and issues a new pair (refresh token
// rotation). Claims are re-signed as-is; callers that need fresh user state
// (role change, verification) re-issue through Generate instead.
func (s *JWTService) Refresh(refreshTokenString string) (*TokenPair, error) {
	claims, err := s.Verify(refreshTokenString)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	if claims.TokenType != TokenTypeRefresh {
		return nil, fmt.Errorf("token is not a refresh token")
	}

	return s.Generate(claims.Principal())
}
