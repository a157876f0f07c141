package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	tenantusecases "motordesk/internal/application/tenant/usecases"
	"motordesk/internal/domain/tenant"
	vo "motordesk/internal/domain/tenant/valueobjects"
	"motordesk/internal/interfaces/http/middleware"
	"motordesk/internal/shared/logger"
	"motordesk/internal/shared/utils"
)

// AdminTenantHandler is the platform surface for tenant administration. It is
// mounted behind RequirePlatform and never carries a tenant context.
type AdminTenantHandler struct {
	list        *tenantusecases.ListTenantsUseCase
	get         *tenantusecases.GetTenantUseCase
	provision   *tenantusecases.ProvisionTenantUseCase
	transition  *tenantusecases.TransitionTenantStatusUseCase
	changePlan  *tenantusecases.ChangeTenantPlanUseCase
	listHistory *tenantusecases.ListStatusHistoryUseCase
	hardDelete  *tenantusecases.HardDeleteTenantUseCase
	logger      logger.Interface
}

func NewAdminTenantHandler(
	list *tenantusecases.ListTenantsUseCase,
	get *tenantusecases.GetTenantUseCase,
	provision *tenantusecases.ProvisionTenantUseCase,
	transition *tenantusecases.TransitionTenantStatusUseCase,
	changePlan *tenantusecases.ChangeTenantPlanUseCase,
	listHistory *tenantusecases.ListStatusHistoryUseCase,
	hardDelete *tenantusecases.HardDeleteTenantUseCase,
	logger logger.Interface,
) *AdminTenantHandler {
	return &AdminTenantHandler{
		list:        list,
		get:         get,
		provision:   provision,
		transition:  transition,
		changePlan:  changePlan,
		listHistory: listHistory,
		hardDelete:  hardDelete,
		logger:      logger,
	}
}

func (h *AdminTenantHandler) List(c *gin.Context) {
	page, pageSize := paginationParams(c)
	tenants, total, err := h.list.Execute(c.Request.Context(), page, pageSize)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	items := make([]tenantResponse, 0, len(tenants))
	for _, t := range tenants {
		items = append(items, tenantResponseFrom(t))
	}
	utils.ListSuccessResponse(c, items, total, page, pageSize)
}

func (h *AdminTenantHandler) Get(c *gin.Context) {
	t, err := h.get.Execute(c.Request.Context(), c.Param("sid"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", tenantResponseFrom(t))
}

type provisionTenantRequest struct {
	Name               string    `json:"name" binding:"required,min=2,max=100"`
	PlanID             uint      `json:"plan_id" binding:"required"`
	SubscriptionEndsAt time.Time `json:"subscription_ends_at" binding:"required"`
}

func (h *AdminTenantHandler) Provision(c *gin.Context) {
	var req provisionTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, utils.BindingErrorMessage(err))
		return
	}

	t, err := h.provision.Execute(c.Request.Context(), tenantusecases.ProvisionTenantCommand{
		Name:               req.Name,
		PlanID:             req.PlanID,
		SubscriptionEndsAt: req.SubscriptionEndsAt,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, tenantResponseFrom(t))
}

type transitionRequest struct {
	Status         string `json:"status" binding:"required,oneof=trial active grace suspended cancelled"`
	SuspensionType string `json:"suspension_type" binding:"omitempty,oneof=soft hard"`
	Reason         string `json:"reason" binding:"required,max=500"`
	ReferenceID    string `json:"reference_id" binding:"omitempty,max=100"`
}

// Transition is the manual override for support: suspend for abuse (hard),
// reinstate, or correct a state. Every call leaves an audit row.
func (h *AdminTenantHandler) Transition(c *gin.Context) {
	t, err := h.get.Execute(c.Request.Context(), c.Param("sid"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, utils.BindingErrorMessage(err))
		return
	}

	p, _ := middleware.GetPrincipal(c)

	updated, err := h.transition.Execute(c.Request.Context(), tenantusecases.TransitionTenantStatusCommand{
		TenantID:    t.ID(),
		To:          vo.SubscriptionStatus(req.Status),
		Suspension:  vo.SuspensionType(req.SuspensionType),
		Reason:      req.Reason,
		TriggeredBy: tenant.TriggeredByAdmin + ":" + p.SubjectSID,
		ReferenceID: req.ReferenceID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "tenant status changed", tenantResponseFrom(updated))
}

type changePlanRequest struct {
	PlanID uint `json:"plan_id" binding:"required"`
}

func (h *AdminTenantHandler) ChangePlan(c *gin.Context) {
	t, err := h.get.Execute(c.Request.Context(), c.Param("sid"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req changePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, utils.BindingErrorMessage(err))
		return
	}

	updated, err := h.changePlan.Execute(c.Request.Context(), tenantusecases.ChangeTenantPlanCommand{
		TenantID: t.ID(),
		PlanID:   req.PlanID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "tenant plan changed", tenantResponseFrom(updated))
}

func (h *AdminTenantHandler) History(c *gin.Context) {
	page, pageSize := paginationParams(c)
	entries, total, err := h.listHistory.Execute(c.Request.Context(), c.Param("sid"), page, pageSize)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	items := make([]historyResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, historyResponseFrom(e))
	}
	utils.ListSuccessResponse(c, items, total, page, pageSize)
}

// HardDelete permanently removes a tenant and all owned data. Superadmin
// only; irreversible.
func (h *AdminTenantHandler) HardDelete(c *gin.Context) {
	if err := h.hardDelete.Execute(c.Request.Context(), tenantusecases.HardDeleteTenantCommand{
		TenantSID: c.Param("sid"),
	}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

type historyResponse struct {
	OldStatus   string                 `json:"old_status"`
	NewStatus   string                 `json:"new_status"`
	Reason      string                 `json:"reason"`
	TriggeredBy string                 `json:"triggered_by"`
	ReferenceID string                 `json:"reference_id,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

func historyResponseFrom(e *tenant.StatusHistory) historyResponse {
	return historyResponse{
		OldStatus:   string(e.OldStatus()),
		NewStatus:   string(e.NewStatus()),
		Reason:      e.Reason(),
		TriggeredBy: e.TriggeredBy(),
		ReferenceID: e.ReferenceID(),
		Metadata:    e.Metadata(),
		CreatedAt:   e.CreatedAt(),
	}
}
