package usecases

import (
	"context"
	"strings"

	tenantusecases "motordesk/internal/application/tenant/usecases"
	"motordesk/internal/domain/tenant"
	"motordesk/internal/domain/user"
	"motordesk/internal/infrastructure/auth"
	"motordesk/internal/shared/authorization"
	"motordesk/internal/shared/db"
	"motordesk/internal/shared/errors"
	"motordesk/internal/shared/logger"
)

// EmailSender is the slice of the mail service registration needs.
type EmailSender interface {
	SendVerificationEmail(to, token string) error
}

type RegisterDealershipCommand struct {
	DealershipName string
	PlanTier       string
	OwnerName      string
	Email          string
	Password       string
}

type RegisterDealershipResult struct {
	Tenant *tenant.Tenant
	Owner  *user.User
}

// RegisterDealershipUseCase is public signup: one transaction creates the
// trial tenant and its owner account, then a verification email goes out.
// The owner cannot pass the user-state gate until the email is verified.
type RegisterDealershipUseCase struct {
	createTenant *tenantusecases.CreateTenantUseCase
	userRepo     user.Repository
	hasher       *auth.BcryptPasswordHasher
	jwtService   *auth.JWTService
	emailSender  EmailSender
	txManager    *db.TransactionManager
	logger       logger.Interface
}

func NewRegisterDealershipUseCase(
	createTenant *tenantusecases.CreateTenantUseCase,
	userRepo user.Repository,
	hasher *auth.BcryptPasswordHasher,
	jwtService *auth.JWTService,
	emailSender EmailSender,
	txManager *db.TransactionManager,
	logger logger.Interface,
) *RegisterDealershipUseCase {
	return &RegisterDealershipUseCase{
		createTenant: createTenant,
		userRepo:     userRepo,
		hasher:       hasher,
		jwtService:   jwtService,
		emailSender:  emailSender,
		txManager:    txManager,
		logger:       logger,
	}
}

func (uc *RegisterDealershipUseCase) Execute(ctx context.Context, cmd RegisterDealershipCommand) (*RegisterDealershipResult, error) {
	email := strings.ToLower(strings.TrimSpace(cmd.Email))
	if len(cmd.Password) < 8 {
		return nil, errors.NewValidationError("password must be at least 8 characters")
	}

	if existing, err := uc.userRepo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, errors.NewConflictError("email address is already registered")
	} else if err != nil && !errors.IsNotFoundError(err) {
		return nil, err
	}

	passwordHash, err := uc.hasher.Hash(cmd.Password)
	if err != nil {
		return nil, err
	}

	var (
		t *tenant.Tenant
		u *user.User
	)
	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		t, err = uc.createTenant.Execute(txCtx, tenantusecases.CreateTenantCommand{
			Name:     cmd.DealershipName,
			PlanTier: cmd.PlanTier,
		})
		if err != nil {
			return err
		}

		u, err = user.NewUser(t.ID(), email, passwordHash, cmd.OwnerName, authorization.RoleOwner)
		if err != nil {
			return err
		}
		return uc.userRepo.Create(txCtx, u)
	})
	if err != nil {
		return nil, err
	}

	token, err := uc.jwtService.GenerateVerificationToken(u.SID(), u.Email())
	if err != nil {
		uc.logger.Errorw("failed to sign verification token", "user_sid", u.SID(), "error", err)
	} else if err := uc.emailSender.SendVerificationEmail(u.Email(), token); err != nil {
		// Registration stands; the user can request a resend.
		uc.logger.Errorw("failed to send verification email", "user_sid", u.SID(), "error", err)
	}

	uc.logger.Infow("dealership registered",
		"tenant_sid", t.SID(),
		"owner_sid", u.SID())

	return &RegisterDealershipResult{Tenant: t, Owner: u}, nil
}
