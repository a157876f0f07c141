package usecases

import (
	"context"

	"motordesk/internal/domain/user"
	"motordesk/internal/shared/logger"
)

// CompleteOnboardingUseCase marks the caller's onboarding done. The domain
// refuses it for unverified users.
type CompleteOnboardingUseCase struct {
	userRepo user.Repository
	logger   logger.Interface
}

func NewCompleteOnboardingUseCase(userRepo user.Repository, logger logger.Interface) *CompleteOnboardingUseCase {
	return &CompleteOnboardingUseCase{userRepo: userRepo, logger: logger}
}

func (uc *CompleteOnboardingUseCase) Execute(ctx context.Context, userSID string) (*user.User, error) {
	u, err := uc.userRepo.GetBySID(ctx, userSID)
	if err != nil {
		return nil, err
	}

	if u.OnboardingCompleted() {
		return u, nil
	}

	if err := u.CompleteOnboarding(); err != nil {
		return nil, err
	}
	if err := uc.userRepo.Update(ctx, u); err != nil {
		return nil, err
	}

	uc.logger.Infow("onboarding completed", "user_sid", u.SID())
	return u, nil
}
