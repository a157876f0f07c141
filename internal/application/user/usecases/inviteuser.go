package usecases

import (
	"context"
	"strings"

	"motordesk/internal/application/limits"
	"motordesk/internal/domain/plan"
	"motordesk/internal/domain/tenant"
	"motordesk/internal/domain/user"
	"motordesk/internal/infrastructure/auth"
	"motordesk/internal/shared/authorization"
	"motordesk/internal/shared/errors"
	"motordesk/internal/shared/logger"
)

type InviteUserCommand struct {
	TenantID      uint
	InviterRole   authorization.UserRole
	Name          string
	Email         string
	Password      string
	Role          authorization.UserRole
	SkipUserLimit bool
}

// InviteUserUseCase adds a staff account to the tenant, bounded by the plan's
// user limit. Inviters can only grant roles below their own; owners may mint
// other owners.
type InviteUserUseCase struct {
	tenantRepo  tenant.Repository
	userRepo    user.Repository
	hasher      *auth.BcryptPasswordHasher
	jwtService  *auth.JWTService
	emailSender EmailSender
	limits      *limits.Evaluator
	logger      logger.Interface
}

func NewInviteUserUseCase(
	tenantRepo tenant.Repository,
	userRepo user.Repository,
	hasher *auth.BcryptPasswordHasher,
	jwtService *auth.JWTService,
	emailSender EmailSender,
	limits *limits.Evaluator,
	logger logger.Interface,
) *InviteUserUseCase {
	return &InviteUserUseCase{
		tenantRepo:  tenantRepo,
		userRepo:    userRepo,
		hasher:      hasher,
		jwtService:  jwtService,
		emailSender: emailSender,
		limits:      limits,
		logger:      logger,
	}
}

func (uc *InviteUserUseCase) Execute(ctx context.Context, cmd InviteUserCommand) (*user.User, error) {
	if cmd.Role.IsPlatform() {
		return nil, errors.NewValidationError("platform roles cannot be granted within a tenant")
	}
	if cmd.Role == authorization.RoleOwner && cmd.InviterRole != authorization.RoleOwner {
		return nil, errors.NewInsufficientRoleError(string(authorization.RoleOwner))
	}

	email := strings.ToLower(strings.TrimSpace(cmd.Email))
	if existing, err := uc.userRepo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, errors.NewConflictError("email address is already registered")
	} else if err != nil && !errors.IsNotFoundError(err) {
		return nil, err
	}

	t, err := uc.tenantRepo.GetByID(ctx, cmd.TenantID)
	if err != nil {
		return nil, err
	}
	if !cmd.SkipUserLimit {
		if err := uc.limits.AssertCanCreate(ctx, t, plan.LimitUsers); err != nil {
			return nil, err
		}
	}

	passwordHash, err := uc.hasher.Hash(cmd.Password)
	if err != nil {
		return nil, err
	}

	u, err := user.NewUser(cmd.TenantID, email, passwordHash, cmd.Name, cmd.Role)
	if err != nil {
		return nil, err
	}
	if err := uc.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}

	if token, err := uc.jwtService.GenerateVerificationToken(u.SID(), u.Email()); err == nil {
		if err := uc.emailSender.SendVerificationEmail(u.Email(), token); err != nil {
			uc.logger.Errorw("failed to send verification email", "user_sid", u.SID(), "error", err)
		}
	}

	uc.logger.Infow("user invited",
		"tenant_id", cmd.TenantID,
		"user_sid", u.SID(),
		"role", u.Role())

	return u, nil
}
