package http

import (
	"context"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	dealershipusecases "motordesk/internal/application/dealership/usecases"
	"motordesk/internal/application/limits"
	planusecases "motordesk/internal/application/plan/usecases"
	tenantusecases "motordesk/internal/application/tenant/usecases"
	userusecases "motordesk/internal/application/user/usecases"
	"motordesk/internal/domain/dealership"
	"motordesk/internal/domain/plan"
	"motordesk/internal/domain/shared/events"
	"motordesk/internal/domain/tenant"
	"motordesk/internal/domain/user"
	"motordesk/internal/infrastructure/auth"
	"motordesk/internal/infrastructure/config"
	"motordesk/internal/infrastructure/email"
	"motordesk/internal/infrastructure/ratelimit"
	"motordesk/internal/infrastructure/repository"
	"motordesk/internal/shared/db"
	"motordesk/internal/shared/logger"
)

// Container wires repositories, use cases and supporting services. Built once
// at startup; the router and the scheduler both pull from it.
type Container struct {
	Cfg    *config.Config
	DB     *gorm.DB
	Logger logger.Interface

	JWTService  *auth.JWTService
	RateLimiter ratelimit.RateLimiter
	Hooks       *events.HookRunner

	TenantRepo   tenant.Repository
	HistoryRepo  tenant.HistoryRepository
	PlanRepo     plan.Repository
	UserRepo     user.Repository
	VehicleRepo  dealership.VehicleRepository
	CustomerRepo dealership.CustomerRepository
	BranchRepo   dealership.BranchRepository
	TransferRepo dealership.StockTransferRepository

	Limits *limits.Evaluator

	// tenant lifecycle
	Transition    *tenantusecases.TransitionTenantStatusUseCase
	CreateTenant  *tenantusecases.CreateTenantUseCase
	Provision     *tenantusecases.ProvisionTenantUseCase
	Renew         *tenantusecases.RenewSubscriptionUseCase
	Cancel        *tenantusecases.CancelTenantUseCase
	ChangePlan    *tenantusecases.ChangeTenantPlanUseCase
	GetTenant     *tenantusecases.GetTenantUseCase
	ListTenants   *tenantusecases.ListTenantsUseCase
	ListHistory   *tenantusecases.ListStatusHistoryUseCase
	HardDelete    *tenantusecases.HardDeleteTenantUseCase
	SuspendLapsed *tenantusecases.SuspendLapsedTenantsJob
	PurgeDeleted  *tenantusecases.PurgeScheduledTenantsJob

	// users and auth
	Register           *userusecases.RegisterDealershipUseCase
	Login              *userusecases.LoginUseCase
	RefreshToken       *userusecases.RefreshTokenUseCase
	VerifyEmail        *userusecases.VerifyEmailUseCase
	ResendVerification *userusecases.ResendVerificationUseCase
	CompleteOnboarding *userusecases.CompleteOnboardingUseCase
	ListUsers          *userusecases.ListUsersUseCase
	InviteUser         *userusecases.InviteUserUseCase
	ChangeUserRole     *userusecases.ChangeUserRoleUseCase
	DeactivateUser     *userusecases.DeactivateUserUseCase

	// plans
	CreatePlan *planusecases.CreatePlanUseCase
	ListPlans  *planusecases.ListPlansUseCase
	GetPlan    *planusecases.GetPlanUseCase
	RetirePlan *planusecases.RetirePlanUseCase

	// dealership
	CreateVehicle       *dealershipusecases.CreateVehicleUseCase
	GetVehicle          *dealershipusecases.GetVehicleUseCase
	ListVehicles        *dealershipusecases.ListVehiclesUseCase
	UpdateVehicle       *dealershipusecases.UpdateVehicleUseCase
	ChangeVehicleStatus *dealershipusecases.ChangeVehicleStatusUseCase
	DeleteVehicle       *dealershipusecases.DeleteVehicleUseCase
	CreateCustomer      *dealershipusecases.CreateCustomerUseCase
	GetCustomer         *dealershipusecases.GetCustomerUseCase
	ListCustomers       *dealershipusecases.ListCustomersUseCase
	UpdateCustomer      *dealershipusecases.UpdateCustomerUseCase
	DeleteCustomer      *dealershipusecases.DeleteCustomerUseCase
	CreateBranch        *dealershipusecases.CreateBranchUseCase
	ListBranches        *dealershipusecases.ListBranchesUseCase
	UpdateBranch        *dealershipusecases.UpdateBranchUseCase
	DeleteBranch        *dealershipusecases.DeleteBranchUseCase
	InitiateTransfer    *dealershipusecases.InitiateStockTransferUseCase
	ResolveTransfer     *dealershipusecases.ResolveStockTransferUseCase
	ListTransfers       *dealershipusecases.ListStockTransfersUseCase
}

func NewContainer(cfg *config.Config, gormDB *gorm.DB, log logger.Interface) (*Container, error) {
	c := &Container{
		Cfg:    cfg,
		DB:     gormDB,
		Logger: log,
	}

	c.JWTService = auth.NewJWTService(
		cfg.Auth.JWT.Secret,
		cfg.Auth.JWT.AccessExpMinutes,
		cfg.Auth.JWT.RefreshExpDays,
	)
	hasher := auth.NewBcryptPasswordHasher(cfg.Auth.Password.BcryptCost)
	txManager := db.NewTransactionManager(gormDB)
	c.Hooks = events.NewHookRunner(log)

	c.initRateLimiter()

	emailSender := c.initEmailSender()

	c.TenantRepo = repository.NewTenantRepository(gormDB, log)
	c.HistoryRepo = repository.NewTenantStatusHistoryRepository(gormDB, log)
	c.PlanRepo = repository.NewPlanRepository(gormDB, log)
	c.UserRepo = repository.NewUserRepository(gormDB, log)
	c.VehicleRepo = repository.NewVehicleRepository(gormDB, log)
	c.CustomerRepo = repository.NewCustomerRepository(gormDB, log)
	c.BranchRepo = repository.NewBranchRepository(gormDB, log)
	c.TransferRepo = repository.NewStockTransferRepository(gormDB, log)

	c.Limits = limits.NewEvaluator(c.PlanRepo, map[plan.LimitKind]limits.Counter{
		plan.LimitVehicles:  tenantCounter(c.VehicleRepo.CountByTenant),
		plan.LimitUsers:     tenantCounter(c.UserRepo.CountByTenant),
		plan.LimitBranches:  tenantCounter(c.BranchRepo.CountByTenant),
		plan.LimitCustomers: tenantCounter(c.CustomerRepo.CountByTenant),
	}, log)

	tcfg := cfg.Tenant
	c.Transition = tenantusecases.NewTransitionTenantStatusUseCase(c.TenantRepo, c.HistoryRepo, txManager, c.Hooks, log)
	c.CreateTenant = tenantusecases.NewCreateTenantUseCase(c.TenantRepo, tcfg.TrialDays, log)
	c.Provision = tenantusecases.NewProvisionTenantUseCase(c.TenantRepo, log)
	c.Renew = tenantusecases.NewRenewSubscriptionUseCase(c.TenantRepo, c.Transition, txManager, log)
	c.Cancel = tenantusecases.NewCancelTenantUseCase(c.TenantRepo, c.Transition, tcfg.DeletionOffsetMonths, log)
	c.ChangePlan = tenantusecases.NewChangeTenantPlanUseCase(c.TenantRepo, c.PlanRepo, log)
	c.GetTenant = tenantusecases.NewGetTenantUseCase(c.TenantRepo, log)
	c.ListTenants = tenantusecases.NewListTenantsUseCase(c.TenantRepo, log)
	c.ListHistory = tenantusecases.NewListStatusHistoryUseCase(c.TenantRepo, c.HistoryRepo, log)
	c.HardDelete = tenantusecases.NewHardDeleteTenantUseCase(
		c.TenantRepo, c.UserRepo, c.VehicleRepo, c.CustomerRepo, c.BranchRepo, c.TransferRepo, txManager, log)
	c.SuspendLapsed = tenantusecases.NewSuspendLapsedTenantsJob(
		c.TenantRepo, c.Transition, tcfg.GraceDays, tcfg.DeletionOffsetMonths, log)
	c.PurgeDeleted = tenantusecases.NewPurgeScheduledTenantsJob(c.TenantRepo, log)

	c.Hooks.Register(tenant.EventTypeStatusChanged, tenantusecases.NewStatusChangedEmailHook(
		c.TenantRepo, c.UserRepo, emailSender, tcfg.GraceDays, log))

	c.Register = userusecases.NewRegisterDealershipUseCase(
		c.CreateTenant, c.UserRepo, hasher, c.JWTService, emailSender, txManager, log)
	c.Login = userusecases.NewLoginUseCase(c.UserRepo, c.TenantRepo, hasher, c.JWTService, log)
	c.RefreshToken = userusecases.NewRefreshTokenUseCase(c.UserRepo, c.TenantRepo, c.JWTService, log)
	c.VerifyEmail = userusecases.NewVerifyEmailUseCase(c.UserRepo, c.JWTService, log)
	c.ResendVerification = userusecases.NewResendVerificationUseCase(c.UserRepo, c.JWTService, emailSender, log)
	c.CompleteOnboarding = userusecases.NewCompleteOnboardingUseCase(c.UserRepo, log)
	c.ListUsers = userusecases.NewListUsersUseCase(c.UserRepo)
	c.InviteUser = userusecases.NewInviteUserUseCase(
		c.TenantRepo, c.UserRepo, hasher, c.JWTService, emailSender, c.Limits, log)
	c.ChangeUserRole = userusecases.NewChangeUserRoleUseCase(c.UserRepo, log)
	c.DeactivateUser = userusecases.NewDeactivateUserUseCase(c.UserRepo, log)

	c.CreatePlan = planusecases.NewCreatePlanUseCase(c.PlanRepo, log)
	c.ListPlans = planusecases.NewListPlansUseCase(c.PlanRepo)
	c.GetPlan = planusecases.NewGetPlanUseCase(c.PlanRepo)
	c.RetirePlan = planusecases.NewRetirePlanUseCase(c.PlanRepo, log)

	c.CreateVehicle = dealershipusecases.NewCreateVehicleUseCase(c.TenantRepo, c.VehicleRepo, c.BranchRepo, c.Limits, log)
	c.GetVehicle = dealershipusecases.NewGetVehicleUseCase(c.VehicleRepo)
	c.ListVehicles = dealershipusecases.NewListVehiclesUseCase(c.VehicleRepo)
	c.UpdateVehicle = dealershipusecases.NewUpdateVehicleUseCase(c.VehicleRepo, c.BranchRepo, log)
	c.ChangeVehicleStatus = dealershipusecases.NewChangeVehicleStatusUseCase(c.VehicleRepo, log)
	c.DeleteVehicle = dealershipusecases.NewDeleteVehicleUseCase(c.VehicleRepo, log)
	c.CreateCustomer = dealershipusecases.NewCreateCustomerUseCase(c.TenantRepo, c.CustomerRepo, c.Limits, log)
	c.GetCustomer = dealershipusecases.NewGetCustomerUseCase(c.CustomerRepo)
	c.ListCustomers = dealershipusecases.NewListCustomersUseCase(c.CustomerRepo)
	c.UpdateCustomer = dealershipusecases.NewUpdateCustomerUseCase(c.CustomerRepo, log)
	c.DeleteCustomer = dealershipusecases.NewDeleteCustomerUseCase(c.CustomerRepo, log)
	c.CreateBranch = dealershipusecases.NewCreateBranchUseCase(c.TenantRepo, c.BranchRepo, c.Limits, log)
	c.ListBranches = dealershipusecases.NewListBranchesUseCase(c.BranchRepo)
	c.UpdateBranch = dealershipusecases.NewUpdateBranchUseCase(c.BranchRepo, log)
	c.DeleteBranch = dealershipusecases.NewDeleteBranchUseCase(c.BranchRepo, c.VehicleRepo, log)
	c.InitiateTransfer = dealershipusecases.NewInitiateStockTransferUseCase(
		c.TenantRepo, c.VehicleRepo, c.TransferRepo, c.Limits, txManager, log)
	c.ResolveTransfer = dealershipusecases.NewResolveStockTransferUseCase(
		c.TenantRepo, c.VehicleRepo, c.TransferRepo, c.Limits, txManager, log)
	c.ListTransfers = dealershipusecases.NewListStockTransfersUseCase(c.TransferRepo)

	return c, nil
}

// initRateLimiter prefers redis so limits hold across instances; single-node
// deployments fall back to the in-memory limiter.
func (c *Container) initRateLimiter() {
	if !c.Cfg.Redis.Enabled {
		c.RateLimiter = ratelimit.NewMemoryRateLimiter()
		c.Logger.Infow("rate limiter initialized", "backend", "memory")
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:     c.Cfg.Redis.GetAddr(),
		Password: c.Cfg.Redis.Password,
		DB:       c.Cfg.Redis.DB,
	})
	c.RateLimiter = ratelimit.NewRedisRateLimiter(client)
	c.Logger.Infow("rate limiter initialized", "backend", "redis", "addr", c.Cfg.Redis.GetAddr())
}

// mailService is everything the container needs from outbound mail: account
// verification plus lifecycle notices.
type mailService interface {
	userusecases.EmailSender
	tenantusecases.LifecycleNotifier
}

func (c *Container) initEmailSender() mailService {
	if !c.Cfg.Email.Enabled {
		c.Logger.Infow("email delivery disabled, outbound mail will be logged only")
		return logEmailSender{logger: c.Logger}
	}
	return email.NewSMTPEmailService(email.SMTPConfig{
		Host:        c.Cfg.Email.SMTPHost,
		Port:        c.Cfg.Email.SMTPPort,
		Username:    c.Cfg.Email.SMTPUser,
		Password:    c.Cfg.Email.SMTPPassword,
		FromAddress: c.Cfg.Email.FromAddress,
		FromName:    c.Cfg.Email.FromName,
		BaseURL:     c.Cfg.Server.BaseURL,
	})
}

// logEmailSender stands in when SMTP is not configured (dev, test).
type logEmailSender struct {
	logger logger.Interface
}

func (s logEmailSender) SendVerificationEmail(to, token string) error {
	s.logger.Infow("verification email suppressed", "to", to, "token", token)
	return nil
}

func (s logEmailSender) SendGraceNoticeEmail(to, tenantName, suspendDate string) error {
	s.logger.Infow("grace notice email suppressed", "to", to, "tenant", tenantName, "suspend_date", suspendDate)
	return nil
}

func (s logEmailSender) SendSuspensionEmail(to, tenantName string) error {
	s.logger.Infow("suspension email suppressed", "to", to, "tenant", tenantName)
	return nil
}

func (s logEmailSender) SendCancellationEmail(to, tenantName, deletionDate string) error {
	s.logger.Infow("cancellation email suppressed", "to", to, "tenant", tenantName, "deletion_date", deletionDate)
	return nil
}

// tenantCounter adapts a repository CountByTenant method to the limits
// Counter interface.
type tenantCounter func(ctx context.Context, tenantID uint) (int64, error)

func (f tenantCounter) CountByTenant(ctx context.Context, tenantID uint) (int64, error) {
	return f(ctx, tenantID)
}
