package user

import "context"

// Repository is the persistence port for users. Email lookup is global
// because authentication happens before a tenant context exists; everything
// else is tenant-scoped.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, userID uint) (*User, error)
	GetBySID(ctx context.Context, sid string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetOwnerByTenant(ctx context.Context, tenantID uint) (*User, error)
	ListByTenant(ctx context.Context, tenantID uint, page, pageSize int) ([]*User, int64, error)
	Update(ctx context.Context, u *User) error
	CountByTenant(ctx context.Context, tenantID uint) (int64, error)
	DeleteByTenant(ctx context.Context, tenantID uint) (int64, error)
}
