package plan

import "context"

// Repository is the persistence port for plans. GetBySlug backs the legacy
// tier bridge: tenants without a direct plan FK resolve by lowercased tier.
type Repository interface {
	Create(ctx context.Context, p *Plan) error
	GetByID(ctx context.Context, planID uint) (*Plan, error)
	GetBySlug(ctx context.Context, slug string) (*Plan, error)
	List(ctx context.Context, activeOnly bool) ([]*Plan, error)
	Update(ctx context.Context, p *Plan) error
}
