package usecases

import (
	"context"

	"motordesk/internal/domain/user"
	"motordesk/internal/shared/authorization"
	"motordesk/internal/shared/errors"
	"motordesk/internal/shared/logger"
)

// ListUsersUseCase pages through the tenant's staff accounts.
type ListUsersUseCase struct {
	userRepo user.Repository
}

func NewListUsersUseCase(userRepo user.Repository) *ListUsersUseCase {
	return &ListUsersUseCase{userRepo: userRepo}
}

func (uc *ListUsersUseCase) Execute(ctx context.Context, tenantID uint, page, pageSize int) ([]*user.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	return uc.userRepo.ListByTenant(ctx, tenantID, page, pageSize)
}

type ChangeUserRoleCommand struct {
	TenantID    uint
	UserSID     string
	InviterRole authorization.UserRole
	NewRole     authorization.UserRole
}

// ChangeUserRoleUseCase regrades a staff account within the tenant. Role
// changes reach the session on the next token refresh.
type ChangeUserRoleUseCase struct {
	userRepo user.Repository
	logger   logger.Interface
}

func NewChangeUserRoleUseCase(userRepo user.Repository, logger logger.Interface) *ChangeUserRoleUseCase {
	return &ChangeUserRoleUseCase{userRepo: userRepo, logger: logger}
}

func (uc *ChangeUserRoleUseCase) Execute(ctx context.Context, cmd ChangeUserRoleCommand) (*user.User, error) {
	if cmd.NewRole == authorization.RoleOwner && cmd.InviterRole != authorization.RoleOwner {
		return nil, errors.NewInsufficientRoleError(string(authorization.RoleOwner))
	}

	u, err := uc.lookupInTenant(ctx, cmd.TenantID, cmd.UserSID)
	if err != nil {
		return nil, err
	}

	if err := u.ChangeRole(cmd.NewRole); err != nil {
		return nil, err
	}
	if err := uc.userRepo.Update(ctx, u); err != nil {
		return nil, err
	}

	uc.logger.Infow("user role changed",
		"tenant_id", cmd.TenantID,
		"user_sid", u.SID(),
		"role", u.Role())

	return u, nil
}

func (uc *ChangeUserRoleUseCase) lookupInTenant(ctx context.Context, tenantID uint, sid string) (*user.User, error) {
	return lookupUserInTenant(ctx, uc.userRepo, tenantID, sid)
}

type DeactivateUserCommand struct {
	TenantID   uint
	UserSID    string
	CallerSID  string
	Deactivate bool
}

// DeactivateUserUseCase flips an account's active flag. Self-deactivation is
// refused so a tenant cannot lock out its last owner by accident.
type DeactivateUserUseCase struct {
	userRepo user.Repository
	logger   logger.Interface
}

func NewDeactivateUserUseCase(userRepo user.Repository, logger logger.Interface) *DeactivateUserUseCase {
	return &DeactivateUserUseCase{userRepo: userRepo, logger: logger}
}

func (uc *DeactivateUserUseCase) Execute(ctx context.Context, cmd DeactivateUserCommand) (*user.User, error) {
	if cmd.Deactivate && cmd.UserSID == cmd.CallerSID {
		return nil, errors.NewValidationError("cannot deactivate your own account")
	}

	u, err := lookupUserInTenant(ctx, uc.userRepo, cmd.TenantID, cmd.UserSID)
	if err != nil {
		return nil, err
	}

	if cmd.Deactivate {
		u.Deactivate()
	} else {
		u.Activate()
	}
	if err := uc.userRepo.Update(ctx, u); err != nil {
		return nil, err
	}

	uc.logger.Infow("user active state changed",
		"tenant_id", cmd.TenantID,
		"user_sid", u.SID(),
		"active", u.Active())

	return u, nil
}

// lookupUserInTenant hides the existence of users from other tenants behind a
// plain not-found.
func lookupUserInTenant(ctx context.Context, repo user.Repository, tenantID uint, sid string) (*user.User, error) {
	u, err := repo.GetBySID(ctx, sid)
	if err != nil {
		return nil, err
	}
	if u.TenantID() == nil || *u.TenantID() != tenantID {
		return nil, errors.NewNotFoundError("user not found")
	}
	return u, nil
}
