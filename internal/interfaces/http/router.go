package http

import (
	"io"

	"github.com/gin-gonic/gin"

	"motordesk/internal/infrastructure/ratelimit"
	"motordesk/internal/interfaces/http/handlers"
	"motordesk/internal/interfaces/http/middleware"
	"motordesk/internal/shared/authorization"
)

// Router assembles the gin engine: global middleware, then the route tree.
//
// Every tenant-scoped group runs the same pipeline in order: authentication,
// user-state gate, tenant context resolution, subscription access. Platform
// routes skip tenant resolution entirely.
type Router struct {
	engine    *gin.Engine
	container *Container
}

func NewRouter(container *Container) *Router {
	gin.DefaultWriter = io.Discard

	engine := gin.New()
	return &Router{
		engine:    engine,
		container: container,
	}
}

func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

func (r *Router) SetupRoutes() {
	c := r.container
	log := c.Logger

	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.Logger(log))
	r.engine.Use(middleware.SecurityHeaders())
	r.engine.Use(middleware.CORS(c.Cfg.Server.AllowedOrigins))
	r.engine.Use(middleware.ErrorHandler())

	if c.Cfg.RateLimit.Enabled {
		r.engine.Use(middleware.RateLimit(c.RateLimiter, ratelimit.RateLimitConfig{
			RequestsPerMinute: c.Cfg.RateLimit.RequestsPerMinute,
			RequestsPerHour:   c.Cfg.RateLimit.RequestsPerHour,
			RequestsPerDay:    c.Cfg.RateLimit.RequestsPerDay,
		}, log))
	}

	authMW := middleware.NewAuthMiddleware(c.JWTService, log)
	tenantMW := middleware.NewTenantContextMiddleware(c.TenantRepo, log)

	healthHandler := handlers.NewHealthHandler(c.DB)
	authHandler := handlers.NewAuthHandler(
		c.Register, c.Login, c.RefreshToken, c.VerifyEmail, c.ResendVerification,
		c.CompleteOnboarding, c.UserRepo, &c.Cfg.Auth, log)
	planHandler := handlers.NewPlanHandler(c.CreatePlan, c.ListPlans, c.GetPlan, c.RetirePlan, log)
	vehicleHandler := handlers.NewVehicleHandler(
		c.CreateVehicle, c.GetVehicle, c.ListVehicles, c.UpdateVehicle, c.ChangeVehicleStatus, c.DeleteVehicle, log)
	customerHandler := handlers.NewCustomerHandler(
		c.CreateCustomer, c.GetCustomer, c.ListCustomers, c.UpdateCustomer, c.DeleteCustomer, log)
	branchHandler := handlers.NewBranchHandler(c.CreateBranch, c.ListBranches, c.UpdateBranch, c.DeleteBranch, log)
	transferHandler := handlers.NewTransferHandler(c.InitiateTransfer, c.ResolveTransfer, c.ListTransfers, log)
	billingHandler := handlers.NewBillingHandler(c.Renew, c.Cancel, c.Limits, log)
	userHandler := handlers.NewUserHandler(c.ListUsers, c.InviteUser, c.ChangeUserRole, c.DeactivateUser, log)
	adminTenantHandler := handlers.NewAdminTenantHandler(
		c.ListTenants, c.GetTenant, c.Provision, c.Transition, c.ChangePlan, c.ListHistory, c.HardDelete, log)

	r.engine.GET("/health", healthHandler.Health)
	r.engine.GET("/ready", healthHandler.Ready)

	v1 := r.engine.Group("/api/v1")

	// Public surface: signup and the plan catalog.
	authRoutes := v1.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/refresh", authHandler.Refresh)
		authRoutes.POST("/verify-email", authHandler.VerifyEmail)
		authRoutes.POST("/resend-verification", authHandler.ResendVerification)
	}
	v1.GET("/plans", planHandler.ListPublic)

	// Authenticated but before verification/onboarding: account surface.
	account := v1.Group("/auth")
	account.Use(authMW.RequireAuth())
	{
		account.GET("/me", middleware.UserState(true, true), authHandler.Me)
		account.POST("/logout", middleware.UserState(true, true), authHandler.Logout)
		account.POST("/onboarding", middleware.UserState(false, true), authHandler.CompleteOnboarding)
	}

	// Tenant workspace: full pipeline.
	workspace := v1.Group("")
	workspace.Use(
		authMW.RequireAuth(),
		middleware.UserState(false, false),
		tenantMW.Resolve(),
		middleware.RequireTenant(),
		middleware.SubscriptionAccess(),
	)
	{
		vehicles := workspace.Group("/vehicles")
		{
			vehicles.POST("", vehicleHandler.Create)
			vehicles.GET("", vehicleHandler.List)
			vehicles.GET("/:sid", vehicleHandler.Get)
			vehicles.PATCH("/:sid", vehicleHandler.Update)
			vehicles.POST("/:sid/status", vehicleHandler.ChangeStatus)
			vehicles.DELETE("/:sid", middleware.RequireRole(authorization.RoleManager), vehicleHandler.Delete)
		}

		customers := workspace.Group("/customers")
		{
			customers.POST("", customerHandler.Create)
			customers.GET("", customerHandler.List)
			customers.GET("/:sid", customerHandler.Get)
			customers.PATCH("/:sid", customerHandler.Update)
			customers.DELETE("/:sid", middleware.RequireRole(authorization.RoleManager), customerHandler.Delete)
		}

		branches := workspace.Group("/branches")
		{
			branches.GET("", branchHandler.List)
			branches.POST("", middleware.RequireRole(authorization.RoleManager), branchHandler.Create)
			branches.PATCH("/:sid", middleware.RequireRole(authorization.RoleManager), branchHandler.Update)
			branches.DELETE("/:sid", middleware.RequireRole(authorization.RoleOwner), branchHandler.Delete)
		}

		transfers := workspace.Group("/transfers")
		{
			transfers.GET("", transferHandler.List)
			transfers.POST("", middleware.RequireRole(authorization.RoleManager), transferHandler.Initiate)
			transfers.POST("/:sid/resolve", middleware.RequireRole(authorization.RoleManager), transferHandler.Resolve)
		}

		team := workspace.Group("/team")
		team.Use(middleware.RequireRole(authorization.RoleManager))
		{
			team.GET("", userHandler.List)
			team.POST("", userHandler.Invite)
			team.PATCH("/:sid/role", userHandler.ChangeRole)
			team.PATCH("/:sid/active", userHandler.SetActive)
		}
	}

	// Billing: same pipeline, but reachable under BILLING_ONLY by path
	// whitelist, and open to unonboarded owners so payment is never gated
	// behind onboarding.
	billing := v1.Group("/billing")
	billing.Use(
		authMW.RequireAuth(),
		middleware.UserState(false, true),
		tenantMW.Resolve(),
		middleware.RequireTenant(),
		middleware.SubscriptionAccess(),
	)
	{
		billing.GET("/subscription", billingHandler.GetSubscription)
		billing.POST("/renew", middleware.RequireRole(authorization.RoleOwner), billingHandler.Renew)
		billing.POST("/cancel", middleware.RequireRole(authorization.RoleOwner), billingHandler.Cancel)
	}

	// Platform administration: no tenant context, platform roles only.
	admin := v1.Group("/admin")
	admin.Use(authMW.RequireAuth(), middleware.RequirePlatform())
	{
		tenants := admin.Group("/tenants")
		{
			tenants.GET("", adminTenantHandler.List)
			tenants.POST("", adminTenantHandler.Provision)
			tenants.GET("/:sid", adminTenantHandler.Get)
			tenants.POST("/:sid/transition", adminTenantHandler.Transition)
			tenants.POST("/:sid/plan", adminTenantHandler.ChangePlan)
			tenants.GET("/:sid/history", adminTenantHandler.History)
			tenants.DELETE("/:sid", middleware.RequireSuperAdmin(), adminTenantHandler.HardDelete)
		}

		plans := admin.Group("/plans")
		{
			plans.GET("", planHandler.ListAll)
			plans.POST("", middleware.RequireSuperAdmin(), planHandler.Create)
			plans.GET("/:slug", planHandler.Get)
			plans.DELETE("/:slug", middleware.RequireSuperAdmin(), planHandler.Retire)
		}
	}
}
