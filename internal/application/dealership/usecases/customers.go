package usecases

import (
	"context"

	"motordesk/internal/application/limits"
	"motordesk/internal/domain/dealership"
	"motordesk/internal/domain/plan"
	"motordesk/internal/domain/tenant"
	"motordesk/internal/shared/logger"
)

type CreateCustomerCommand struct {
	TenantID uint
	Name     string
	Email    string
	Phone    string
	Notes    string
}

type CreateCustomerUseCase struct {
	tenantRepo   tenant.Repository
	customerRepo dealership.CustomerRepository
	limits       *limits.Evaluator
	logger       logger.Interface
}

func NewCreateCustomerUseCase(
	tenantRepo tenant.Repository,
	customerRepo dealership.CustomerRepository,
	limits *limits.Evaluator,
	logger logger.Interface,
) *CreateCustomerUseCase {
	return &CreateCustomerUseCase{
		tenantRepo:   tenantRepo,
		customerRepo: customerRepo,
		limits:       limits,
		logger:       logger,
	}
}

func (uc *CreateCustomerUseCase) Execute(ctx context.Context, cmd CreateCustomerCommand) (*dealership.Customer, error) {
	t, err := uc.tenantRepo.GetByID(ctx, cmd.TenantID)
	if err != nil {
		return nil, err
	}
	if err := uc.limits.AssertCanCreate(ctx, t, plan.LimitCustomers); err != nil {
		return nil, err
	}

	c, err := dealership.NewCustomer(cmd.TenantID, cmd.Name, cmd.Email, cmd.Phone)
	if err != nil {
		return nil, err
	}
	if cmd.Notes != "" {
		c.SetNotes(cmd.Notes)
	}

	if err := uc.customerRepo.Create(ctx, cmd.TenantID, c); err != nil {
		return nil, err
	}

	uc.logger.Infow("customer created", "tenant_id", cmd.TenantID, "sid", c.SID())
	return c, nil
}

type GetCustomerUseCase struct {
	customerRepo dealership.CustomerRepository
}

func NewGetCustomerUseCase(customerRepo dealership.CustomerRepository) *GetCustomerUseCase {
	return &GetCustomerUseCase{customerRepo: customerRepo}
}

func (uc *GetCustomerUseCase) Execute(ctx context.Context, tenantID uint, sid string) (*dealership.Customer, error) {
	return uc.customerRepo.GetBySID(ctx, tenantID, sid)
}

type ListCustomersUseCase struct {
	customerRepo dealership.CustomerRepository
}

func NewListCustomersUseCase(customerRepo dealership.CustomerRepository) *ListCustomersUseCase {
	return &ListCustomersUseCase{customerRepo: customerRepo}
}

func (uc *ListCustomersUseCase) Execute(ctx context.Context, tenantID uint, page, pageSize int) ([]*dealership.Customer, int64, error) {
	return uc.customerRepo.List(ctx, tenantID, page, pageSize)
}

type UpdateCustomerCommand struct {
	TenantID uint
	SID      string
	Name     *string
	Email    *string
	Phone    *string
	Notes    *string
}

type UpdateCustomerUseCase struct {
	customerRepo dealership.CustomerRepository
	logger       logger.Interface
}

func NewUpdateCustomerUseCase(customerRepo dealership.CustomerRepository, logger logger.Interface) *UpdateCustomerUseCase {
	return &UpdateCustomerUseCase{customerRepo: customerRepo, logger: logger}
}

func (uc *UpdateCustomerUseCase) Execute(ctx context.Context, cmd UpdateCustomerCommand) (*dealership.Customer, error) {
	c, err := uc.customerRepo.GetBySID(ctx, cmd.TenantID, cmd.SID)
	if err != nil {
		return nil, err
	}

	name, email, phone := c.Name(), c.Email(), c.Phone()
	if cmd.Name != nil {
		name = *cmd.Name
	}
	if cmd.Email != nil {
		email = *cmd.Email
	}
	if cmd.Phone != nil {
		phone = *cmd.Phone
	}
	if err := c.UpdateContact(name, email, phone); err != nil {
		return nil, err
	}
	if cmd.Notes != nil {
		c.SetNotes(*cmd.Notes)
	}

	if err := uc.customerRepo.Update(ctx, cmd.TenantID, c); err != nil {
		return nil, err
	}
	return c, nil
}

type DeleteCustomerUseCase struct {
	customerRepo dealership.CustomerRepository
	logger       logger.Interface
}

func NewDeleteCustomerUseCase(customerRepo dealership.CustomerRepository, logger logger.Interface) *DeleteCustomerUseCase {
	return &DeleteCustomerUseCase{customerRepo: customerRepo, logger: logger}
}

func (uc *DeleteCustomerUseCase) Execute(ctx context.Context, tenantID uint, sid string) error {
	if _, err := uc.customerRepo.GetBySID(ctx, tenantID, sid); err != nil {
		return err
	}
	if err := uc.customerRepo.Delete(ctx, tenantID, sid); err != nil {
		return err
	}
	uc.logger.Infow("customer deleted", "tenant_id", tenantID, "sid", sid)
	return nil
}
