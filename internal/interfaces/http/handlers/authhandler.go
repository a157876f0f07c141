package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	userusecases "motordesk/internal/application/user/usecases"
	"motordesk/internal/domain/user"
	"motordesk/internal/infrastructure/auth"
	"motordesk/internal/interfaces/http/middleware"
	sharedConfig "motordesk/internal/shared/config"
	"motordesk/internal/shared/logger"
	"motordesk/internal/shared/utils"
)

type AuthHandler struct {
	register           *userusecases.RegisterDealershipUseCase
	login              *userusecases.LoginUseCase
	refresh            *userusecases.RefreshTokenUseCase
	verifyEmail        *userusecases.VerifyEmailUseCase
	resendVerification *userusecases.ResendVerificationUseCase
	completeOnboarding *userusecases.CompleteOnboardingUseCase
	userRepo           user.Repository
	cookieCfg          *sharedConfig.CookieConfig
	accessExpMinutes   int
	refreshExpDays     int
	logger             logger.Interface
}

func NewAuthHandler(
	register *userusecases.RegisterDealershipUseCase,
	login *userusecases.LoginUseCase,
	refresh *userusecases.RefreshTokenUseCase,
	verifyEmail *userusecases.VerifyEmailUseCase,
	resendVerification *userusecases.ResendVerificationUseCase,
	completeOnboarding *userusecases.CompleteOnboardingUseCase,
	userRepo user.Repository,
	authCfg *sharedConfig.AuthConfig,
	logger logger.Interface,
) *AuthHandler {
	return &AuthHandler{
		register:           register,
		login:              login,
		refresh:            refresh,
		verifyEmail:        verifyEmail,
		resendVerification: resendVerification,
		completeOnboarding: completeOnboarding,
		userRepo:           userRepo,
		cookieCfg:          &authCfg.Cookie,
		accessExpMinutes:   authCfg.JWT.AccessExpMinutes,
		refreshExpDays:     authCfg.JWT.RefreshExpDays,
		logger:             logger,
	}
}

type registerRequest struct {
	DealershipName string `json:"dealership_name" binding:"required,min=2,max=100"`
	PlanTier       string `json:"plan_tier" binding:"required"`
	OwnerName      string `json:"owner_name" binding:"required,min=1,max=100"`
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,min=8,max=72"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, utils.BindingErrorMessage(err))
		return
	}

	result, err := h.register.Execute(c.Request.Context(), userusecases.RegisterDealershipCommand{
		DealershipName: req.DealershipName,
		PlanTier:       req.PlanTier,
		OwnerName:      req.OwnerName,
		Email:          req.Email,
		Password:       req.Password,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"tenant": tenantResponseFrom(result.Tenant),
		"user":   userResponseFrom(result.Owner),
	}, "registration successful, please verify your email")
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, utils.BindingErrorMessage(err))
		return
	}

	result, err := h.login.Execute(c.Request.Context(), userusecases.LoginCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.setAuthCookies(c, result.Tokens)

	utils.SuccessResponse(c, http.StatusOK, "login successful", gin.H{
		"user":       userResponseFrom(result.User),
		"expires_in": result.Tokens.ExpiresIn,
	})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken := utils.GetTokenFromCookie(c, utils.RefreshTokenCookie)
	if refreshToken == "" {
		var req struct {
			RefreshToken string `json:"refresh_token" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.ErrorResponse(c, http.StatusUnauthorized, "missing refresh token")
			return
		}
		refreshToken = req.RefreshToken
	}

	tokens, err := h.refresh.Execute(c.Request.Context(), refreshToken)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.setAuthCookies(c, tokens)

	utils.SuccessResponse(c, http.StatusOK, "token refreshed", gin.H{
		"expires_in": tokens.ExpiresIn,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	utils.ClearAuthCookies(c, h.cookieCfg)
	utils.SuccessResponse(c, http.StatusOK, "logged out", nil)
}

func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, utils.BindingErrorMessage(err))
		return
	}

	u, err := h.verifyEmail.Execute(c.Request.Context(), req.Token)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "email verified", userResponseFrom(u))
}

func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, utils.BindingErrorMessage(err))
		return
	}

	if err := h.resendVerification.Execute(c.Request.Context(), req.Email); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "if the address is registered, a verification email was sent", nil)
}

func (h *AuthHandler) CompleteOnboarding(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "missing authorization token")
		return
	}

	u, err := h.completeOnboarding.Execute(c.Request.Context(), p.SubjectSID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "onboarding completed", userResponseFrom(u))
}

func (h *AuthHandler) Me(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "missing authorization token")
		return
	}

	u, err := h.userRepo.GetBySID(c.Request.Context(), p.SubjectSID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", userResponseFrom(u))
}

func (h *AuthHandler) setAuthCookies(c *gin.Context, tokens *auth.TokenPair) {
	accessMaxAge := h.accessExpMinutes * 60
	refreshMaxAge := h.refreshExpDays * 24 * 3600
	utils.SetAuthCookies(c, h.cookieCfg, tokens.AccessToken, accessMaxAge, tokens.RefreshToken, refreshMaxAge)
}

type userResponse struct {
	SID                 string     `json:"sid"`
	Email               string     `json:"email"`
	Name                string     `json:"name"`
	Role                string     `json:"role"`
	EmailVerified       bool       `json:"email_verified"`
	OnboardingCompleted bool       `json:"onboarding_completed"`
	Active              bool       `json:"active"`
	LastLoginAt         *time.Time `json:"last_login_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

func userResponseFrom(u *user.User) userResponse {
	return userResponse{
		SID:                 u.SID(),
		Email:               u.Email(),
		Name:                u.Name(),
		Role:                string(u.Role()),
		EmailVerified:       u.EmailVerified(),
		OnboardingCompleted: u.OnboardingCompleted(),
		Active:              u.Active(),
		LastLoginAt:         u.LastLoginAt(),
		CreatedAt:           u.CreatedAt(),
	}
}
