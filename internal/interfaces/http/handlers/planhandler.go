package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	planusecases "motordesk/internal/application/plan/usecases"
	"motordesk/internal/domain/plan"
	"motordesk/internal/shared/logger"
	"motordesk/internal/shared/utils"
)

type PlanHandler struct {
	create *planusecases.CreatePlanUseCase
	list   *planusecases.ListPlansUseCase
	get    *planusecases.GetPlanUseCase
	retire *planusecases.RetirePlanUseCase
	logger logger.Interface
}

func NewPlanHandler(
	create *planusecases.CreatePlanUseCase,
	list *planusecases.ListPlansUseCase,
	get *planusecases.GetPlanUseCase,
	retire *planusecases.RetirePlanUseCase,
	logger logger.Interface,
) *PlanHandler {
	return &PlanHandler{
		create: create,
		list:   list,
		get:    get,
		retire: retire,
		logger: logger,
	}
}

// ListPublic lists active plans for the signup page. No auth required.
func (h *PlanHandler) ListPublic(c *gin.Context) {
	plans, err := h.list.Execute(c.Request.Context(), true)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	items := make([]planResponse, 0, len(plans))
	for _, p := range plans {
		items = append(items, planResponseFrom(p))
	}
	utils.SuccessResponse(c, http.StatusOK, "", items)
}

// ListAll lists every plan including retired ones (platform surface).
func (h *PlanHandler) ListAll(c *gin.Context) {
	plans, err := h.list.Execute(c.Request.Context(), false)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	items := make([]planResponse, 0, len(plans))
	for _, p := range plans {
		items = append(items, planResponseFrom(p))
	}
	utils.SuccessResponse(c, http.StatusOK, "", items)
}

func (h *PlanHandler) Get(c *gin.Context) {
	p, err := h.get.Execute(c.Request.Context(), c.Param("slug"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", planResponseFrom(p))
}

type createPlanRequest struct {
	Slug           string                 `json:"slug" binding:"required,min=2,max=50"`
	Name           string                 `json:"name" binding:"required,min=1,max=100"`
	MaxVehicles    int64                  `json:"max_vehicles" binding:"required,min=-1"`
	MaxUsers       int64                  `json:"max_users" binding:"required,min=-1"`
	MaxBranches    int64                  `json:"max_branches" binding:"required,min=-1"`
	MaxCustomers   int64                  `json:"max_customers" binding:"required,min=-1"`
	CanCreateGroup bool                   `json:"can_create_group"`
	Features       map[string]interface{} `json:"features"`
}

func (h *PlanHandler) Create(c *gin.Context) {
	var req createPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, utils.BindingErrorMessage(err))
		return
	}

	p, err := h.create.Execute(c.Request.Context(), planusecases.CreatePlanCommand{
		Slug: req.Slug,
		Name: req.Name,
		Limits: plan.Limits{
			MaxVehicles:  req.MaxVehicles,
			MaxUsers:     req.MaxUsers,
			MaxBranches:  req.MaxBranches,
			MaxCustomers: req.MaxCustomers,
		},
		CanCreateGroup: req.CanCreateGroup,
		Features:       req.Features,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, planResponseFrom(p))
}

func (h *PlanHandler) Retire(c *gin.Context) {
	p, err := h.retire.Execute(c.Request.Context(), c.Param("slug"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "plan retired", planResponseFrom(p))
}
