package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"motordesk/internal/application/limits"
	tenantusecases "motordesk/internal/application/tenant/usecases"
	"motordesk/internal/domain/plan"
	"motordesk/internal/interfaces/http/middleware"
	"motordesk/internal/shared/biztime"
	"motordesk/internal/shared/logger"
	"motordesk/internal/shared/utils"
)

// BillingHandler is the surface that stays reachable under BILLING_ONLY: a
// suspended tenant renews here to get back in.
type BillingHandler struct {
	renew  *tenantusecases.RenewSubscriptionUseCase
	cancel *tenantusecases.CancelTenantUseCase
	limits *limits.Evaluator
	logger logger.Interface
}

func NewBillingHandler(
	renew *tenantusecases.RenewSubscriptionUseCase,
	cancel *tenantusecases.CancelTenantUseCase,
	limits *limits.Evaluator,
	logger logger.Interface,
) *BillingHandler {
	return &BillingHandler{
		renew:  renew,
		cancel: cancel,
		limits: limits,
		logger: logger,
	}
}

// GetSubscription shows the tenant's current subscription and plan.
func (h *BillingHandler) GetSubscription(c *gin.Context) {
	t, ok := middleware.GetTenant(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusForbidden, "no tenant context")
		return
	}

	resp := gin.H{"tenant": tenantResponseFrom(t)}

	if p, err := h.limits.ResolvePlan(c.Request.Context(), t); err == nil && p != nil {
		resp["plan"] = planResponseFrom(p)
	}

	utils.SuccessResponse(c, http.StatusOK, "", resp)
}

type renewRequest struct {
	Months      int    `json:"months" binding:"required,min=1,max=36"`
	ReferenceID string `json:"reference_id" binding:"required,max=100"`
}

// Renew settles a payment reference and extends the subscription. Payment
// capture itself happens upstream; this endpoint records the outcome.
func (h *BillingHandler) Renew(c *gin.Context) {
	t, ok := middleware.GetTenant(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusForbidden, "no tenant context")
		return
	}

	var req renewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, utils.BindingErrorMessage(err))
		return
	}

	// Extend from the current paid-through date when still in the future,
	// from now otherwise.
	base := biztime.NowUTC()
	if exp := t.SubscriptionEndsAt(); exp != nil && exp.After(base) {
		base = *exp
	}
	endsAt := base.AddDate(0, req.Months, 0)

	renewed, err := h.renew.Execute(c.Request.Context(), tenantusecases.RenewSubscriptionCommand{
		TenantID:    t.ID(),
		EndsAt:      endsAt,
		ReferenceID: req.ReferenceID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "subscription renewed", tenantResponseFrom(renewed))
}

type cancelRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=500"`
}

// Cancel moves the tenant to the terminal cancelled state.
func (h *BillingHandler) Cancel(c *gin.Context) {
	t, ok := middleware.GetTenant(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusForbidden, "no tenant context")
		return
	}
	p, _ := middleware.GetPrincipal(c)

	var req cancelRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, utils.BindingErrorMessage(err))
		return
	}

	cancelled, err := h.cancel.Execute(c.Request.Context(), tenantusecases.CancelTenantCommand{
		TenantID:    t.ID(),
		Reason:      req.Reason,
		TriggeredBy: p.SubjectSID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "subscription cancelled", tenantResponseFrom(cancelled))
}

type planResponse struct {
	Slug           string                 `json:"slug"`
	Name           string                 `json:"name"`
	MaxVehicles    int64                  `json:"max_vehicles"`
	MaxUsers       int64                  `json:"max_users"`
	MaxBranches    int64                  `json:"max_branches"`
	MaxCustomers   int64                  `json:"max_customers"`
	CanCreateGroup bool                   `json:"can_create_group"`
	Features       map[string]interface{} `json:"features,omitempty"`
	Active         bool                   `json:"active"`
	CreatedAt      time.Time              `json:"created_at"`
}

func planResponseFrom(p *plan.Plan) planResponse {
	limitOrZero := func(kind plan.LimitKind) int64 {
		limit, err := p.LimitFor(kind)
		if err != nil {
			return 0
		}
		return limit
	}
	return planResponse{
		Slug:           p.Slug(),
		Name:           p.Name(),
		MaxVehicles:    limitOrZero(plan.LimitVehicles),
		MaxUsers:       limitOrZero(plan.LimitUsers),
		MaxBranches:    limitOrZero(plan.LimitBranches),
		MaxCustomers:   limitOrZero(plan.LimitCustomers),
		CanCreateGroup: p.CanCreateGroup(),
		Features:       p.Features(),
		Active:         p.Active(),
		CreatedAt:      p.CreatedAt(),
	}
}
