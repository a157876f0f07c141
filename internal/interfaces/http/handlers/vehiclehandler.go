package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	dealershipusecases "motordesk/internal/application/dealership/usecases"
	"motordesk/internal/domain/dealership"
	"motordesk/internal/interfaces/http/middleware"
	"motordesk/internal/shared/constants"
	"motordesk/internal/shared/logger"
	"motordesk/internal/shared/utils"
)

type VehicleHandler struct {
	create       *dealershipusecases.CreateVehicleUseCase
	get          *dealershipusecases.GetVehicleUseCase
	list         *dealershipusecases.ListVehiclesUseCase
	update       *dealershipusecases.UpdateVehicleUseCase
	changeStatus *dealershipusecases.ChangeVehicleStatusUseCase
	delete       *dealershipusecases.DeleteVehicleUseCase
	logger       logger.Interface
}

func NewVehicleHandler(
	create *dealershipusecases.CreateVehicleUseCase,
	get *dealershipusecases.GetVehicleUseCase,
	list *dealershipusecases.ListVehiclesUseCase,
	update *dealershipusecases.UpdateVehicleUseCase,
	changeStatus *dealershipusecases.ChangeVehicleStatusUseCase,
	delete_ *dealershipusecases.DeleteVehicleUseCase,
	logger logger.Interface,
) *VehicleHandler {
	return &VehicleHandler{
		create:       create,
		get:          get,
		list:         list,
		update:       update,
		changeStatus: changeStatus,
		delete:       delete_,
		logger:       logger,
	}
}

type createVehicleRequest struct {
	VIN        string `json:"vin" binding:"required,min=11,max=17"`
	Make       string `json:"make" binding:"required"`
	Model      string `json:"model" binding:"required"`
	Year       int    `json:"year" binding:"required"`
	PriceCents int64  `json:"price_cents" binding:"required,min=0"`
	Mileage    int    `json:"mileage" binding:"min=0"`
	BranchSID  string `json:"branch_sid"`
}

func (h *VehicleHandler) Create(c *gin.Context) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusForbidden, "no tenant context")
		return
	}

	var req createVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, utils.BindingErrorMessage(err))
		return
	}

	v, err := h.create.Execute(c.Request.Context(), dealershipusecases.CreateVehicleCommand{
		TenantID:   tenantID,
		VIN:        req.VIN,
		Make:       req.Make,
		Model:      req.Model,
		Year:       req.Year,
		PriceCents: req.PriceCents,
		Mileage:    req.Mileage,
		BranchSID:  req.BranchSID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, vehicleResponseFrom(v))
}

func (h *VehicleHandler) Get(c *gin.Context) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusForbidden, "no tenant context")
		return
	}

	v, err := h.get.Execute(c.Request.Context(), tenantID, c.Param("sid"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", vehicleResponseFrom(v))
}

func (h *VehicleHandler) List(c *gin.Context) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusForbidden, "no tenant context")
		return
	}

	page, pageSize := paginationParams(c)
	filter := dealership.VehicleFilter{
		Status:   dealership.VehicleStatus(c.Query("status")),
		Make:     c.Query("make"),
		Page:     page,
		PageSize: pageSize,
	}

	vehicles, total, err := h.list.Execute(c.Request.Context(), tenantID, filter)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	items := make([]vehicleResponse, 0, len(vehicles))
	for _, v := range vehicles {
		items = append(items, vehicleResponseFrom(v))
	}
	utils.ListSuccessResponse(c, items, total, page, pageSize)
}

type updateVehicleRequest struct {
	PriceCents *int64  `json:"price_cents"`
	BranchSID  *string `json:"branch_sid"`
}

func (h *VehicleHandler) Update(c *gin.Context) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusForbidden, "no tenant context")
		return
	}

	var req updateVehicleRequest
	if err := utils.BindSanitizedJSON(c, &req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, utils.BindingErrorMessage(err))
		return
	}

	v, err := h.update.Execute(c.Request.Context(), dealershipusecases.UpdateVehicleCommand{
		TenantID:   tenantID,
		SID:        c.Param("sid"),
		PriceCents: req.PriceCents,
		BranchSID:  req.BranchSID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "vehicle updated", vehicleResponseFrom(v))
}

func (h *VehicleHandler) ChangeStatus(c *gin.Context) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusForbidden, "no tenant context")
		return
	}

	var req struct {
		Action string `json:"action" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, utils.BindingErrorMessage(err))
		return
	}

	v, err := h.changeStatus.Execute(c.Request.Context(), dealershipusecases.ChangeVehicleStatusCommand{
		TenantID: tenantID,
		SID:      c.Param("sid"),
		Action:   req.Action,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "vehicle status changed", vehicleResponseFrom(v))
}

func (h *VehicleHandler) Delete(c *gin.Context) {
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

type vehicleResponse struct {
	SID        string    `json:"sid"`
	VIN        string    `json:"vin"`
	Make       string    `json:"make"`
	Model      string    `json:"model"`
	Year       int       `json:"year"`
	PriceCents int64     `json:"price_cents"`
	Mileage    int       `json:"mileage"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func vehicleResponseFrom(v *dealership.Vehicle) vehicleResponse {
	return vehicleResponse{
		SID:        v.SID(),
		VIN:        v.VIN(),
		Make:       v.Make(),
		Model:      v.Model(),
		Year:       v.Year(),
		PriceCents: v.PriceCents(),
		Mileage:    v.Mileage(),
		Status:     string(v.Status()),
		CreatedAt:  v.CreatedAt(),
		UpdatedAt:  v.UpdatedAt(),
	}
}

// paginationParams parses page/page_size query params with bounds.
func paginationParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(constants.DefaultPage)))
	if err != nil || page < 1 {
		page = constants.DefaultPage
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(constants.DefaultPageSize)))
	if err != nil || pageSize < 1 {
		pageSize = constants.DefaultPageSize
	}
	if pageSize > constants.MaxPageSize {
		pageSize = constants.MaxPageSize
	}
	return page, pageSize
}
