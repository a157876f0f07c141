package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	dealershipusecases "motordesk/internal/application/dealership/usecases"
	"motordesk/internal/domain/dealership"
	"motordesk/internal/interfaces/http/middleware"
	"motordesk/internal/shared/biztime"
	"motordesk/internal/shared/logger"
	"motordesk/internal/shared/utils"
)

type TransferHandler struct {
	initiate *dealershipusecases.InitiateStockTransferUseCase
	resolve  *dealershipusecases.ResolveStockTransferUseCase
	list     *dealershipusecases.ListStockTransfersUseCase
	logger   logger.Interface
}

func NewTransferHandler(
	initiate *dealershipusecases.InitiateStockTransferUseCase,
	resolve *dealershipusecases.ResolveStockTransferUseCase,
	list *dealershipusecases.ListStockTransfersUseCase,
	logger logger.Interface,
) *TransferHandler {
	return &TransferHandler{
		initiate: initiate,
		resolve:  resolve,
		list:     list,
		logger:   logger,
	}
}

type initiateTransferRequest struct {
	ToTenantSID string `json:"to_tenant_sid" binding:"required"`
	VehicleSID  string `json:"vehicle_sid" binding:"required"`
	Reason      string `json:"reason" binding:"omitempty,max=500"`
}

func (h *TransferHandler) Initiate(c *gin.Context) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusForbidden, "no tenant context")
		return
	}
	p, _ := middleware.GetPrincipal(c)

	var req initiateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, utils.BindingErrorMessage(err))
		return
	}

	xfer, err := h.initiate.Execute(c.Request.Context(), dealershipusecases.InitiateStockTransferCommand{
		FromTenantID: tenantID,
		ToTenantSID:  req.ToTenantSID,
		VehicleSID:   req.VehicleSID,
		InitiatedBy:  p.SubjectSID,
		Reason:       req.Reason,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, transferResponseFrom(xfer))
}

func (h *TransferHandler) Resolve(c *gin.Context) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusForbidden, "no tenant context")
		return
	}
	p, _ := middleware.GetPrincipal(c)

	var req struct {
		Action string `json:"action" binding:"required,oneof=accept reject cancel"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, utils.BindingErrorMessage(err))
		return
	}

	xfer, err := h.resolve.Execute(c.Request.Context(), dealershipusecases.ResolveStockTransferCommand{
		TransferSID: c.Param("sid"),
		TenantID:    tenantID,
		ResolvedBy:  p.SubjectSID,
		Action:      req.Action,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "transfer resolved", transferResponseFrom(xfer))
}

func (h *TransferHandler) List(c *gin.Context) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusForbidden, "no tenant context")
		return
	}

	sinceDays, err := strconv.Atoi(c.DefaultQuery("since_days", "90"))
	if err != nil || sinceDays < 1 {
		sinceDays = 90
	}
	since := biztime.NowUTC().AddDate(0, 0, -sinceDays)

	transfers, err := h.list.Execute(c.Request.Context(), tenantID, since)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	items := make([]transferResponse, 0, len(transfers))
	for _, xfer := range transfers {
		items = append(items, transferResponseFrom(xfer))
	}
	utils.SuccessResponse(c, http.StatusOK, "", items)
}

type transferResponse struct {
	SID          string     `json:"sid"`
	VehicleID    uint       `json:"vehicle_id"`
	FromTenantID uint       `json:"from_tenant_id"`
	ToTenantID   uint       `json:"to_tenant_id"`
	InitiatedBy  string     `json:"initiated_by"`
	ResolvedBy   string     `json:"resolved_by,omitempty"`
	Status       string     `json:"status"`
	Reason       string     `json:"reason,omitempty"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func transferResponseFrom(t *dealership.StockTransfer) transferResponse {
	return transferResponse{
		SID:          t.SID(),
		VehicleID:    t.VehicleID(),
		FromTenantID: t.FromTenantID(),
		ToTenantID:   t.ToTenantID(),
		InitiatedBy:  t.InitiatedBy(),
		ResolvedBy:   t.ResolvedBy(),
		Status:       string(t.Status()),
		Reason:       t.Reason(),
		ResolvedAt:   t.ResolvedAt(),
		CreatedAt:    t.CreatedAt(),
	}
}
