package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"motordesk/internal/domain/tenant"
	vo "motordesk/internal/domain/tenant/valueobjects"
	"motordesk/internal/infrastructure/auth"
	"motordesk/internal/shared/authorization"
	"motordesk/internal/shared/errors"
	"motordesk/internal/shared/logger"
)

type stubTenantRepo struct {
	bySID map[string]*tenant.Tenant
}

func (r *stubTenantRepo) Create(ctx context.Context, t *tenant.Tenant) error { return nil }
func (r *stubTenantRepo) Update(ctx context.Context, t *tenant.Tenant) error { return nil }
func (r *stubTenantRepo) GetByID(ctx context.Context, id uint) (*tenant.Tenant, error) {
	return nil, errors.NewNotFoundError("tenant not found")
}
func (r *stubTenantRepo) List(ctx context.Context, offset, limit int) ([]*tenant.Tenant, int64, error) {
	return nil, 0, nil
}
func (r *stubTenantRepo) ListLapsed(ctx context.Context, now time.Time, limit int) ([]*tenant.Tenant, error) {
	return nil, nil
}
func (r *stubTenantRepo) ListPastScheduledDeletion(ctx context.Context, now time.Time, limit int) ([]*tenant.Tenant, error) {
	return nil, nil
}
func (r *stubTenantRepo) HardDelete(ctx context.Context, id uint) error { return nil }

func (r *stubTenantRepo) GetBySID(ctx context.Context, sid string) (*tenant.Tenant, error) {
	if t, ok := r.bySID[sid]; ok {
		return t, nil
	}
	return nil, errors.NewNotFoundError("tenant not found")
}

func makeStubTenant(t *testing.T, sid string, status vo.SubscriptionStatus, suspension vo.SuspensionType) *tenant.Tenant {
	t.Helper()
	tn, err := tenant.ReconstructTenant(tenant.TenantReconstructParams{
		ID:             1,
		SID:            sid,
		Name:           "Pipeline Motors",
		PlanTier:       "starter",
		Status:         status,
		SuspensionType: suspension,
		Version:        1,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	})
	require.NoError(t, err)
	return tn
}

// newPipelineRouter wires the full tenant pipeline the way the production
// router does, with a workspace route and a billing route.
func newPipelineRouter(repo tenant.Repository, jwtService *auth.JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	log := logger.NewNop()
	authMW := NewAuthMiddleware(jwtService, log)
	tenantMW := NewTenantContextMiddleware(repo, log)

	ok := func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) }

	workspace := engine.Group("/api/v1")
	workspace.Use(authMW.RequireAuth(), UserState(false, false), tenantMW.Resolve(), RequireTenant(), SubscriptionAccess())
	workspace.GET("/vehicles", ok)
	workspace.POST("/vehicles", ok)

	billing := engine.Group("/api/v1/billing")
	billing.Use(authMW.RequireAuth(), UserState(false, true), tenantMW.Resolve(), RequireTenant(), SubscriptionAccess())
	billing.GET("/subscription", ok)
	billing.POST("/renew", RequireRole(authorization.RoleOwner), ok)

	return engine
}

func signAccessToken(t *testing.T, svc *auth.JWTService, p authorization.Principal) string {
	t.Helper()
	pair, err := svc.Generate(p)
	require.NoError(t, err)
	return pair.AccessToken
}

func doRequest(engine *gin.Engine, method, path, token, tenantHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if tenantHeader != "" {
		req.Header.Set("X-Tenant-ID", tenantHeader)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error *struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	if body.Error == nil {
		return ""
	}
	return body.Error.Code
}

func ownerPrincipal(tenantSID string) authorization.Principal {
	return authorization.Principal{
		SubjectSID:          "usr_owner1",
		Email:               "owner@example.com",
		Role:                authorization.RoleOwner,
		TenantSID:           tenantSID,
		EmailVerified:       true,
		OnboardingCompleted: true,
	}
}

func TestPipeline_ActiveTenantFullAccess(t *testing.T) {
	svc := auth.NewJWTService("pipeline-secret", 15, 7)
	repo := &stubTenantRepo{bySID: map[string]*tenant.Tenant{
		"tnt_active": makeStubTenant(t, "tnt_active", vo.StatusActive, vo.SuspensionNone),
	}}
	engine := newPipelineRouter(repo, svc)
	token := signAccessToken(t, svc, ownerPrincipal("tnt_active"))

	assert.Equal(t, http.StatusOK, doRequest(engine, http.MethodGet, "/api/v1/vehicles", token, "").Code)
	assert.Equal(t, http.StatusOK, doRequest(engine, http.MethodPost, "/api/v1/vehicles", token, "").Code)
}

func TestPipeline_MissingToken(t *testing.T) {
	svc := auth.NewJWTService("pipeline-secret", 15, 7)
	engine := newPipelineRouter(&stubTenantRepo{}, svc)

	assert.Equal(t, http.StatusUnauthorized, doRequest(engine, http.MethodGet, "/api/v1/vehicles", "", "").Code)
}

func TestPipeline_TenantHeaderMismatch(t *testing.T) {
	svc := auth.NewJWTService("pipeline-secret", 15, 7)
	repo := &stubTenantRepo{bySID: map[string]*tenant.Tenant{
		"tnt_active": makeStubTenant(t, "tnt_active", vo.StatusActive, vo.SuspensionNone),
	}}
	engine := newPipelineRouter(repo, svc)
	token := signAccessToken(t, svc, ownerPrincipal("tnt_active"))

	w := doRequest(engine, http.MethodGet, "/api/v1/vehicles", token, "tnt_other")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, errors.CodeTenantMismatch, errorCode(t, w))
}

func TestPipeline_SuperadminOverride(t *testing.T) {
	svc := auth.NewJWTService("pipeline-secret", 15, 7)
	repo := &stubTenantRepo{bySID: map[string]*tenant.Tenant{
		"tnt_active": makeStubTenant(t, "tnt_active", vo.StatusActive, vo.SuspensionNone),
	}}
	engine := newPipelineRouter(repo, svc)

	admin := authorization.Principal{
		SubjectSID: "usr_admin1", Email: "admin@example.com", Role: authorization.RoleSuperAdmin,
	}
	token := signAccessToken(t, svc, admin)

	// With an override header the superadmin sees the tenant.
	assert.Equal(t, http.StatusOK, doRequest(engine, http.MethodGet, "/api/v1/vehicles", token, "tnt_active").Code)

	// Without one, tenant routes refuse the tenant-less request.
	w := doRequest(engine, http.MethodGet, "/api/v1/vehicles", token, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, errors.CodeNoTenantAssociated, errorCode(t, w))
}

func TestPipeline_UnverifiedUser(t *testing.T) {
	svc := auth.NewJWTService("pipeline-secret", 15, 7)
	repo := &stubTenantRepo{bySID: map[string]*tenant.Tenant{
		"tnt_active": makeStubTenant(t, "tnt_active", vo.StatusActive, vo.SuspensionNone),
	}}
	engine := newPipelineRouter(repo, svc)

	p := ownerPrincipal("tnt_active")
	p.EmailVerified = false
	token := signAccessToken(t, svc, p)

	w := doRequest(engine, http.MethodGet, "/api/v1/vehicles", token, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, errors.CodeEmailNotVerified, errorCode(t, w))
}

func TestPipeline_GraceTenantReadOnly(t *testing.T) {
	svc := auth.NewJWTService("pipeline-secret", 15, 7)
	repo := &stubTenantRepo{bySID: map[string]*tenant.Tenant{
		"tnt_grace": makeStubTenant(t, "tnt_grace", vo.StatusGrace, vo.SuspensionNone),
	}}
	engine := newPipelineRouter(repo, svc)
	token := signAccessToken(t, svc, ownerPrincipal("tnt_grace"))

	assert.Equal(t, http.StatusOK, doRequest(engine, http.MethodGet, "/api/v1/vehicles", token, "").Code)

	w := doRequest(engine, http.MethodPost, "/api/v1/vehicles", token, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, errors.CodeReadOnlyMode, errorCode(t, w))

	// Billing writes stay open during grace.
	assert.Equal(t, http.StatusOK, doRequest(engine, http.MethodPost, "/api/v1/billing/renew", token, "").Code)
}

func TestPipeline_SoftSuspendedBillingOnly(t *testing.T) {
	svc := auth.NewJWTService("pipeline-secret", 15, 7)
	repo := &stubTenantRepo{bySID: map[string]*tenant.Tenant{
		"tnt_susp": makeStubTenant(t, "tnt_susp", vo.StatusSuspended, vo.SuspensionSoft),
	}}
	engine := newPipelineRouter(repo, svc)
	token := signAccessToken(t, svc, ownerPrincipal("tnt_susp"))

	// Reads behave like read-only mode; writes outside billing do not.
	assert.Equal(t, http.StatusOK, doRequest(engine, http.MethodGet, "/api/v1/vehicles", token, "").Code)

	w := doRequest(engine, http.MethodPost, "/api/v1/vehicles", token, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, errors.CodeReadOnlyMode, errorCode(t, w))

	// The escape hatch: billing stays reachable so the tenant can pay.
	assert.Equal(t, http.StatusOK, doRequest(engine, http.MethodGet, "/api/v1/billing/subscription", token, "").Code)
	assert.Equal(t, http.StatusOK, doRequest(engine, http.MethodPost, "/api/v1/billing/renew", token, "").Code)
}

func TestPipeline_HardSuspendedKeepsBillingOpen(t *testing.T) {
	svc := auth.NewJWTService("pipeline-secret", 15, 7)
	repo := &stubTenantRepo{bySID: map[string]*tenant.Tenant{
		"tnt_hard": makeStubTenant(t, "tnt_hard", vo.StatusSuspended, vo.SuspensionHard),
	}}
	engine := newPipelineRouter(repo, svc)
	token := signAccessToken(t, svc, ownerPrincipal("tnt_hard"))

	// Everything outside billing is gone.
	w := doRequest(engine, http.MethodGet, "/api/v1/vehicles", token, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, errors.CodeSubscriptionBlocked, errorCode(t, w))

	// Billing survives even a hard suspension so the tenant can unblock itself.
	assert.Equal(t, http.StatusOK, doRequest(engine, http.MethodGet, "/api/v1/billing/subscription", token, "").Code)
	assert.Equal(t, http.StatusOK, doRequest(engine, http.MethodPost, "/api/v1/billing/renew", token, "").Code)
}

func TestPipeline_RoleGate(t *testing.T) {
	svc := auth.NewJWTService("pipeline-secret", 15, 7)
	repo := &stubTenantRepo{bySID: map[string]*tenant.Tenant{
		"tnt_active": makeStubTenant(t, "tnt_active", vo.StatusActive, vo.SuspensionNone),
	}}
	engine := newPipelineRouter(repo, svc)

	staff := ownerPrincipal("tnt_active")
	staff.Role = authorization.RoleStaff
	token := signAccessToken(t, svc, staff)

	w := doRequest(engine, http.MethodPost, "/api/v1/billing/renew", token, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, errors.CodeInsufficientRole, errorCode(t, w))
}

func TestPipeline_RefreshTokenRejectedAsAccess(t *testing.T) {
	svc := auth.NewJWTService("pipeline-secret", 15, 7)
	repo := &stubTenantRepo{bySID: map[string]*tenant.Tenant{
		"tnt_active": makeStubTenant(t, "tnt_active", vo.StatusActive, vo.SuspensionNone),
	}}
	engine := newPipelineRouter(repo, svc)

	pair, err := svc.Generate(ownerPrincipal("tnt_active"))
	require.NoError(t, err)

	w := doRequest(engine, http.MethodGet, "/api/v1/vehicles", pair.RefreshToken, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
