package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	dealershipusecases "motordesk/internal/application/dealership/usecases"
	"motordesk/internal/domain/dealership"
	"motordesk/internal/interfaces/http/middleware"
	"motordesk/internal/shared/logger"
	"motordesk/internal/shared/utils"
)

type BranchHandler struct {
	create *dealershipusecases.CreateBranchUseCase
	list   *dealershipusecases.ListBranchesUseCase
	update *dealershipusecases.UpdateBranchUseCase
	delete *dealershipusecases.DeleteBranchUseCase
	logger logger.Interface
}

func NewBranchHandler(
	create *dealershipusecases.CreateBranchUseCase,
	list *dealershipusecases.ListBranchesUseCase,
	update *dealershipusecases.UpdateBranchUseCase,
	delete_ *dealershipusecases.DeleteBranchUseCase,
	logger logger.Interface,
) *BranchHandler {
	return &BranchHandler{
		create: create,
		list:   list,
		update: update,
		delete: delete_,
		logger: logger,
	}
}

type createBranchRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=100"`
	Address string `json:"address" binding:"omitempty,max=255"`
	Phone   string `json:"phone" binding:"omitempty,max=32"`
}

func (h *BranchHandler) Create(c *gin.Context) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusForbidden, "no tenant context")
		return
	}

	var req createBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, utils.BindingErrorMessage(err))
		return
	}

	b, err := h.create.Execute(c.Request.Context(), dealershipusecases.CreateBranchCommand{
		TenantID: tenantID,
		Name:     req.Name,
		Address:  req.Address,
		Phone:    req.Phone,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, branchResponseFrom(b))
}

func (h *BranchHandler) List(c *gin.Context) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusForbidden, "no tenant context")
		return
	}

	branches, err := h.list.Execute(c.Request.Context(), tenantID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	items := make([]branchResponse, 0, len(branches))
	for _, b := range branches {
		items = append(items, branchResponseFrom(b))
	}
	utils.SuccessResponse(c, http.StatusOK, "", items)
}

type updateBranchRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
}

func (h *BranchHandler) Update(c *gin.Context) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusForbidden, "no tenant context")
		return
	}

	var req updateBranchRequest
	if err := utils.BindSanitizedJSON(c, &req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, utils.BindingErrorMessage(err))
		return
	}

	b, err := h.update.Execute(c.Request.Context(), dealershipusecases.UpdateBranchCommand{
		TenantID: tenantID,
		SID:      c.Param("sid"),
		Name:     req.Name,
		Address:  req.Address,
		Phone:    req.Phone,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "branch updated", branchResponseFrom(b))
}

func (h *BranchHandler) Delete(c *gin.Context) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusForbidden, "no tenant context")
		return
	}

	if err := h.delete.Execute(c.Request.Context(), tenantID, c.Param("sid")); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

type branchResponse struct {
	SID       string    `json:"sid"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

func branchResponseFrom(b *dealership.Branch) branchResponse {
	return branchResponse{
		SID:       b.SID(),
		Name:      b.Name(),
		Address:   b.Address(),
		Phone:     b.Phone(),
		Active:    b.Active(),
		CreatedAt: b.CreatedAt(),
	}
}
