package usecases

import (
	"context"

	"motordesk/internal/domain/user"
	"motordesk/internal/infrastructure/auth"
	"motordesk/internal/shared/errors"
	"motordesk/internal/shared/logger"
)

// VerifyEmailUseCase redeems a verification token. Verifying twice is a
// no-op, so a user double-clicking the link sees success both times.
type VerifyEmailUseCase struct {
	userRepo   user.Repository
	jwtService *auth.JWTService
	logger     logger.Interface
}

func NewVerifyEmailUseCase(userRepo user.Repository, jwtService *auth.JWTService, logger logger.Interface) *VerifyEmailUseCase {
	return &VerifyEmailUseCase{
		userRepo:   userRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

func (uc *VerifyEmailUseCase) Execute(ctx context.Context, token string) (*user.User, error) {
	userSID, err := uc.jwtService.VerifyVerificationToken(token)
	if err != nil {
		return nil, errors.NewUnauthorizedError("invalid or expired verification token")
	}

	u, err := uc.userRepo.GetBySID(ctx, userSID)
	if err != nil {
		return nil, err
	}

	if u.EmailVerified() {
		return u, nil
	}

	u.VerifyEmail()
	if err := uc.userRepo.Update(ctx, u); err != nil {
		return nil, err
	}

	uc.logger.Infow("email verified", "user_sid", u.SID())
	return u, nil
}

// ResendVerificationUseCase signs a fresh token for an unverified user. The
// response never reveals whether the email exists.
type ResendVerificationUseCase struct {
	userRepo    user.Repository
	jwtService  *auth.JWTService
	emailSender EmailSender
	logger      logger.Interface
}

func NewResendVerificationUseCase(
	userRepo user.Repository,
	jwtService *auth.JWTService,
	emailSender EmailSender,
	logger logger.Interface,
) *ResendVerificationUseCase {
	return &ResendVerificationUseCase{
		userRepo:    userRepo,
		jwtService:  jwtService,
		emailSender: emailSender,
		logger:      logger,
	}
}

func (uc *ResendVerificationUseCase) Execute(ctx context.Context, email string) error {
	u, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return nil
		}
		return err
	}
	if u.EmailVerified() {
		return nil
	}

	token, err := uc.jwtService.GenerateVerificationToken(u.SID(), u.Email())
	if err != nil {
		return err
	}
	if err := uc.emailSender.SendVerificationEmail(u.Email(), token); err != nil {
		uc.logger.Errorw("failed to resend verification email", "user_sid", u.SID(), "error", err)
		return err
	}
	return nil
}
