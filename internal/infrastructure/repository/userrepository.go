package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"motordesk/internal/domain/user"
	"motordesk/internal/infrastructure/persistence/models"
	"motordesk/internal/shared/authorization"
	"motordesk/internal/shared/db"
	"motordesk/internal/shared/errors"
	"motordesk/internal/shared/logger"
	"motordesk/internal/shared/query"
)

// UserRepositoryImpl implements the user.Repository interface
type UserRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

// NewUserRepository creates a new user repository instance
func NewUserRepository(database *gorm.DB, logger logger.Interface) user.Repository {
	return &UserRepositoryImpl{
		db:     database,
		logger: logger,
	}
}

// Create persists a new user
func (r *UserRepositoryImpl) Create(ctx context.Context, u *user.User) error {
	model := userToModel(u)

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return errors.NewConflictError("email already registered")
		}
		r.logger.Errorw("failed to create user", "email", u.Email(), "error", err)
		return fmt.Errorf("failed to create user: %w", err)
	}

	if err := u.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set user ID: %w", err)
	}

	r.logger.Infow("user created", "id", model.ID, "sid", model.SID, "role", model.Role)
	return nil
}

// GetByID fetches a user by numeric ID
func (r *UserRepositoryImpl) GetByID(ctx context.Context, userID uint) (*user.User, error) {
	var model models.UserModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.First(&model, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("user not found")
		}
		r.logger.Errorw("failed to get user", "id", userID, "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return userToDomain(&model)
}

// GetBySID fetches a user by its public SID
func (r *UserRepositoryImpl) GetBySID(ctx context.Context, sid string) (*user.User, error) {
	var model models.UserModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("sid = ?", sid).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("user not found")
		}
		r.logger.Errorw("failed to get user", "sid", sid, "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return userToDomain(&model)
}

// GetByEmail fetches a user by email. Global lookup: authentication runs
// before any tenant context exists.
func (r *UserRepositoryImpl) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var model models.UserModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("email = ?", strings.ToLower(email)).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("user not found")
		}
		r.logger.Errorw("failed to get user by email", "error", err)
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return userToDomain(&model)
}

// GetOwnerByTenant returns the tenant's owner account. Lifecycle
// notifications go to this address.
func (r *UserRepositoryImpl) GetOwnerByTenant(ctx context.Context, tenantID uint) (*user.User, error) {
	var model models.UserModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.
		Scopes(query.TenantScope(tenantID)).
		Where("role = ?", string(authorization.RoleOwner)).
		Order("created_at ASC").
		First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("tenant owner not found")
		}
		r.logger.Errorw("failed to get tenant owner", "tenant_id", tenantID, "error", err)
		return nil, fmt.Errorf("failed to get tenant owner: %w", err)
	}
	return userToDomain(&model)
}

// ListByTenant returns one tenant's users
func (r *UserRepositoryImpl) ListByTenant(ctx context.Context, tenantID uint, page, pageSize int) ([]*user.User, int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var total int64
	if err := tx.Model(&models.UserModel{}).
		Scopes(query.TenantScope(tenantID)).
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var rows []models.UserModel
	if err := tx.
		Scopes(query.TenantScope(tenantID)).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error; err != nil {
		r.logger.Errorw("failed to list users", "tenant_id", tenantID, "error", err)
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]*user.User, 0, len(rows))
	for i := range rows {
		u, err := userToDomain(&rows[i])
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, nil
}

// Update persists user state
func (r *UserRepositoryImpl) Update(ctx context.Context, u *user.User) error {
	model := userToModel(u)

	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Model(&models.UserModel{}).
		Where("id = ?", u.ID()).
		Updates(map[string]interface{}{
			"email":                model.Email,
			"password_hash":        model.PasswordHash,
			"name":                 model.Name,
			"role":                 model.Role,
			"email_verified":       model.EmailVerified,
			"onboarding_completed": model.OnboardingCompleted,
			"active":               model.Active,
			"last_login_at":        model.LastLoginAt,
			"updated_at":           model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update user", "id", u.ID(), "error", result.Error)
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("user not found")
	}

	return nil
}

// CountByTenant counts one tenant's users for limit evaluation
func (r *UserRepositoryImpl) CountByTenant(ctx context.Context, tenantID uint) (int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var count int64
	if err := tx.Model(&models.UserModel{}).
		Scopes(query.TenantScope(tenantID)).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// DeleteByTenant permanently removes all of a tenant's users (cascade)
func (r *UserRepositoryImpl) DeleteByTenant(ctx context.Context, tenantID uint) (int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Unscoped().
		Scopes(query.TenantScope(tenantID)).
		Delete(&models.UserModel{})
	if result.Error != nil {
		r.logger.Errorw("failed to delete tenant users", "tenant_id", tenantID, "error", result.Error)
		return 0, fmt.Errorf("failed to delete tenant users: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func userToModel(u *user.User) *models.UserModel {
	return &models.UserModel{
		ID:                  u.ID(),
		SID:                 u.SID(),
		TenantID:            u.TenantID(),
		Email:               u.Email(),
		PasswordHash:        u.PasswordHash(),
		Name:                u.Name(),
		Role:                u.Role().String(),
		EmailVerified:       u.EmailVerified(),
		OnboardingCompleted: u.OnboardingCompleted(),
		Active:              u.Active(),
		LastLoginAt:         u.LastLoginAt(),
		CreatedAt:           u.CreatedAt(),
		UpdatedAt:           u.UpdatedAt(),
	}
}

func userToDomain(m *models.UserModel) (*user.User, error) {
	u, err := user.ReconstructUser(user.UserReconstructParams{
		ID:                  m.ID,
		SID:                 m.SID,
		TenantID:            m.TenantID,
		Email:               m.Email,
		PasswordHash:        m.PasswordHash,
		Name:                m.Name,
		Role:                authorization.UserRole(m.Role),
		EmailVerified:       m.EmailVerified,
		OnboardingCompleted: m.OnboardingCompleted,
		Active:              m.Active,
		LastLoginAt:         m.LastLoginAt,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct user: %w", err)
	}
	return u, nil
}
