package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// Default pagination
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// HTTP Headers
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"
	HeaderXTenantID     = "X-Tenant-ID"

	// Context keys
	ContextKeyPrincipal = "principal"
	ContextKeyTenantID  = "effective_tenant_id"
	ContextKeyRequestID = "request_id"

	// Database table names
	TableTenants             = "tenants"
	TableTenantStatusHistory = "tenant_status_history"
	TablePlans               = "plans"
	TableUsers               = "users"
	TableBranches            = "branches"
	TableVehicles            = "vehicles"
	TableCustomers           = "customers"
	TableStockTransfers      = "stock_transfers"
)
