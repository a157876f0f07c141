package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	userusecases "motordesk/internal/application/user/usecases"
	"motordesk/internal/interfaces/http/middleware"
	"motordesk/internal/shared/authorization"
	"motordesk/internal/shared/logger"
	"motordesk/internal/shared/utils"
)

// UserHandler manages the tenant's staff accounts.
type UserHandler struct {
	list       *userusecases.ListUsersUseCase
	invite     *userusecases.InviteUserUseCase
	changeRole *userusecases.ChangeUserRoleUseCase
	deactivate *userusecases.DeactivateUserUseCase
	logger     logger.Interface
}

func NewUserHandler(
	list *userusecases.ListUsersUseCase,
	invite *userusecases.InviteUserUseCase,
	changeRole *userusecases.ChangeUserRoleUseCase,
	deactivate *userusecases.DeactivateUserUseCase,
	logger logger.Interface,
) *UserHandler {
	return &UserHandler{
		list:       list,
		invite:     invite,
		changeRole: changeRole,
		deactivate: deactivate,
		logger:     logger,
	}
}

func (h *UserHandler) List(c *gin.Context) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusForbidden, "no tenant context")
		return
	}

	page, pageSize := paginationParams(c)
	users, total, err := h.list.Execute(c.Request.Context(), tenantID, page, pageSize)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	items := make([]userResponse, 0, len(users))
	for _, u := range users {
		items = append(items, userResponseFrom(u))
	}
	utils.ListSuccessResponse(c, items, total, page, pageSize)
}

type inviteUserRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Role     string `json:"role" binding:"required,oneof=staff manager owner"`
}

func (h *UserHandler) Invite(c *gin.Context) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusForbidden, "no tenant context")
		return
	}
	p, _ := middleware.GetPrincipal(c)

	var req inviteUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, utils.BindingErrorMessage(err))
		return
	}

	u, err := h.invite.Execute(c.Request.Context(), userusecases.InviteUserCommand{
		TenantID:    tenantID,
		InviterRole: p.Role,
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Role:        authorization.ParseUserRole(req.Role),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, userResponseFrom(u))
}

type changeRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=staff manager owner"`
}

func (h *UserHandler) ChangeRole(c *gin.Context) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusForbidden, "no tenant context")
		return
	}
	p, _ := middleware.GetPrincipal(c)

	var req changeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, utils.BindingErrorMessage(err))
		return
	}

	u, err := h.changeRole.Execute(c.Request.Context(), userusecases.ChangeUserRoleCommand{
		TenantID:    tenantID,
		UserSID:     c.Param("sid"),
		InviterRole: p.Role,
		NewRole:     authorization.ParseUserRole(req.Role),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "role changed", userResponseFrom(u))
}

type setActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

func (h *UserHandler) SetActive(c *gin.Context) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusForbidden, "no tenant context")
		return
	}
	p, _ := middleware.GetPrincipal(c)

	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, utils.BindingErrorMessage(err))
		return
	}

	u, err := h.deactivate.Execute(c.Request.Context(), userusecases.DeactivateUserCommand{
		TenantID:   tenantID,
		UserSID:    c.Param("sid"),
		CallerSID:  p.SubjectSID,
		Deactivate: !*req.Active,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "user updated", userResponseFrom(u))
}
