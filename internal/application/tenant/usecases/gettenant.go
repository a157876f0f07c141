package usecases

import (
	"context"

	"motordesk/internal/domain/tenant"
	"motordesk/internal/shared/logger"
)

// GetTenantUseCase reads one tenant by SID.
type GetTenantUseCase struct {
	tenantRepo tenant.Repository
	logger     logger.Interface
}

func NewGetTenantUseCase(tenantRepo tenant.Repository, logger logger.Interface) *GetTenantUseCase {
	return &GetTenantUseCase{tenantRepo: tenantRepo, logger: logger}
}

func (uc *GetTenantUseCase) Execute(ctx context.Context, sid string) (*tenant.Tenant, error) {
	return uc.tenantRepo.GetBySID(ctx, sid)
}

// ListTenantsUseCase pages through all tenants (platform surface).
type ListTenantsUseCase struct {
	tenantRepo tenant.Repository
	logger     logger.Interface
}

func NewListTenantsUseCase(tenantRepo tenant.Repository, logger logger.Interface) *ListTenantsUseCase {
	return &ListTenantsUseCase{tenantRepo: tenantRepo, logger: logger}
}

func (uc *ListTenantsUseCase) Execute(ctx context.Context, page, pageSize int) ([]*tenant.Tenant, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	return uc.tenantRepo.List(ctx, (page-1)*pageSize, pageSize)
}

// ListStatusHistoryUseCase reads a tenant's audit trail.
type ListStatusHistoryUseCase struct {
	tenantRepo  tenant.Repository
	historyRepo tenant.HistoryRepository
	logger      logger.Interface
}

func NewListStatusHistoryUseCase(
	tenantRepo tenant.Repository,
	historyRepo tenant.HistoryRepository,
	logger logger.Interface,
) *ListStatusHistoryUseCase {
	return &ListStatusHistoryUseCase{
		tenantRepo:  tenantRepo,
		historyRepo: historyRepo,
		logger:      logger,
	}
}

func (uc *ListStatusHistoryUseCase) Execute(ctx context.Context, tenantSID string, page, pageSize int) ([]*tenant.StatusHistory, int64, error) {
	t, err := uc.tenantRepo.GetBySID(ctx, tenantSID)
	if err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	return uc.historyRepo.ListByTenant(ctx, t.ID(), (page-1)*pageSize, pageSize)
}
