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

type CustomerHandler struct {
	create *dealershipusecases.CreateCustomerUseCase
	get    *dealershipusecases.GetCustomerUseCase
	list   *dealershipusecases.ListCustomersUseCase
	update *dealershipusecases.UpdateCustomerUseCase
	delete *dealershipusecases.DeleteCustomerUseCase
	logger logger.Interface
}

func NewCustomerHandler(
	create *dealershipusecases.CreateCustomerUseCase,
	get *dealershipusecases.GetCustomerUseCase,
	list *dealershipusecases.ListCustomersUseCase,
	update *dealershipusecases.UpdateCustomerUseCase,
	delete_ *dealershipusecases.DeleteCustomerUseCase,
	logger logger.Interface,
) *CustomerHandler {
	return &CustomerHandler{
		create: create,
		get:    get,
		list:   list,
		update: update,
		delete: delete_,
		logger: logger,
	}
}

type createCustomerRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=100"`
	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone" binding:"omitempty,max=32"`
	Notes string `json:"notes" binding:"omitempty,max=2000"`
}

func (h *CustomerHandler) Create(c *gin.Context) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusForbidden, "no tenant context")
		return
	}

	var req createCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, utils.BindingErrorMessage(err))
		return
	}

	customer, err := h.create.Execute(c.Request.Context(), dealershipusecases.CreateCustomerCommand{
		TenantID: tenantID,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Notes:    req.Notes,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, customerResponseFrom(customer))
}

func (h *CustomerHandler) Get(c *gin.Context) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusForbidden, "no tenant context")
		return
	}

	customer, err := h.get.Execute(c.Request.Context(), tenantID, c.Param("sid"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", customerResponseFrom(customer))
}

func (h *CustomerHandler) List(c *gin.Context) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusForbidden, "no tenant context")
		return
	}

	page, pageSize := paginationParams(c)
	customers, total, err := h.list.Execute(c.Request.Context(), tenantID, page, pageSize)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	items := make([]customerResponse, 0, len(customers))
	for _, customer := range customers {
		items = append(items, customerResponseFrom(customer))
	}
	utils.ListSuccessResponse(c, items, total, page, pageSize)
}

type updateCustomerRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
	Notes *string `json:"notes"`
}

func (h *CustomerHandler) Update(c *gin.Context) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusForbidden, "no tenant context")
		return
	}

	var req updateCustomerRequest
	if err := utils.BindSanitizedJSON(c, &req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, utils.BindingErrorMessage(err))
		return
	}

	customer, err := h.update.Execute(c.Request.Context(), dealershipusecases.UpdateCustomerCommand{
		TenantID: tenantID,
		SID:      c.Param("sid"),
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Notes:    req.Notes,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "customer updated", customerResponseFrom(customer))
}

func (h *CustomerHandler) Delete(c *gin.Context) {
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

type customerResponse struct {
	SID       string    `json:"sid"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func customerResponseFrom(c *dealership.Customer) customerResponse {
	return customerResponse{
		SID:       c.SID(),
		Name:      c.Name(),
		Email:     c.Email(),
		Phone:     c.Phone(),
		Notes:     c.Notes(),
		CreatedAt: c.CreatedAt(),
		UpdatedAt: c.UpdatedAt(),
	}
}
