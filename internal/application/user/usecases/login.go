package usecases

import (
	"context"
	"strings"

	"motordesk/internal/domain/tenant"
	"motordesk/internal/domain/user"
	"motordesk/internal/infrastructure/auth"
	"motordesk/internal/shared/biztime"
	"motordesk/internal/shared/errors"
	"motordesk/internal/shared/logger"
)

type LoginCommand struct {
	Email    string
	Password string
}

type LoginResult struct {
	User   *user.User
	Tokens *auth.TokenPair
}

// LoginUseCase authenticates by email and password and issues a token pair.
// Failures are deliberately indistinguishable: unknown email, wrong password
// and deactivated account all return the same unauthorized error.
type LoginUseCase struct {
	userRepo   user.Repository
	tenantRepo tenant.Repository
	hasher     *auth.BcryptPasswordHasher
	jwtService *auth.JWTService
	logger     logger.Interface
}

func NewLoginUseCase(
	userRepo user.Repository,
	tenantRepo tenant.Repository,
	hasher *auth.BcryptPasswordHasher,
	jwtService *auth.JWTService,
	logger logger.Interface,
) *LoginUseCase {
	return &LoginUseCase{
		userRepo:   userRepo,
		tenantRepo: tenantRepo,
		hasher:     hasher,
		jwtService: jwtService,
		logger:     logger,
	}
}

func (uc *LoginUseCase) Execute(ctx context.Context, cmd LoginCommand) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(cmd.Email))

	u, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return nil, errors.NewUnauthorizedError("invalid credentials")
		}
		return nil, err
	}

	if err := uc.hasher.Verify(cmd.Password, u.PasswordHash()); err != nil {
		return nil, errors.NewUnauthorizedError("invalid credentials")
	}
	if !u.Active() {
		return nil, errors.NewUnauthorizedError("invalid credentials")
	}

	tenantSID := ""
	if tenantID := u.TenantID(); tenantID != nil {
		t, err := uc.tenantRepo.GetByID(ctx, *tenantID)
		if err != nil {
			return nil, err
		}
		if t.IsDeleted() {
			return nil, errors.NewUnauthorizedError("invalid credentials")
		}
		tenantSID = t.SID()
	}

	tokens, err := uc.jwtService.Generate(u.Principal(tenantSID))
	if err != nil {
		return nil, err
	}

	u.RecordLogin(biztime.NowUTC())
	if err := uc.userRepo.Update(ctx, u); err != nil {
		// Login succeeded; the timestamp is best effort.
		uc.logger.Warnw("failed to record login time", "user_sid", u.SID(), "error", err)
	}

	uc.logger.Infow("user logged in", "user_sid", u.SID(), "tenant_sid", tenantSID)

	return &LoginResult{User: u, Tokens: tokens}, nil
}

// RefreshTokenUseCase rotates a refresh token into a new pair with fresh user
// state, so a just-verified or role-changed user picks the change up on the
// next refresh instead of at re-login.
type RefreshTokenUseCase struct {
	userRepo   user.Repository
	tenantRepo tenant.Repository
	jwtService *auth.JWTService
	logger     logger.Interface
}

func NewRefreshTokenUseCase(
	userRepo user.Repository,
	tenantRepo tenant.Repository,
	jwtService *auth.JWTService,
	logger logger.Interface,
) *RefreshTokenUseCase {
	return &RefreshTokenUseCase{
		userRepo:   userRepo,
		tenantRepo: tenantRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

func (uc *RefreshTokenUseCase) Execute(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	claims, err := uc.jwtService.Verify(refreshToken)
	if err != nil || claims.TokenType != auth.TokenTypeRefresh {
		return nil, errors.NewUnauthorizedError("invalid refresh token")
	}

	u, err := uc.userRepo.GetBySID(ctx, claims.UserSID)
	if err != nil {
		return nil, errors.NewUnauthorizedError("invalid refresh token")
	}
	if !u.Active() {
		return nil, errors.NewUnauthorizedError("invalid refresh token")
	}

	tenantSID := ""
	if tenantID := u.TenantID(); tenantID != nil {
		t, err := uc.tenantRepo.GetByID(ctx, *tenantID)
		if err != nil || t.IsDeleted() {
			return nil, errors.NewUnauthorizedError("invalid refresh token")
		}
		tenantSID = t.SID()
	}

	return uc.jwtService.Generate(u.Principal(tenantSID))
}
