package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mertdogan/internhub/internal/app/models"
	"github.com/mertdogan/internhub/internal/app/models/dto"
	"github.com/mertdogan/internhub/internal/app/services"
	"github.com/mertdogan/internhub/internal/db"
	"github.com/mertdogan/internhub/internal/middleware"
	"github.com/mertdogan/internhub/internal/pkg/apperrors"
	"github.com/mertdogan/internhub/internal/pkg/auth"
	"github.com/mertdogan/internhub/internal/pkg/email"
	"github.com/mertdogan/internhub/internal/pkg/logger"
)

// AuthController handles registration, login and token refresh
type AuthController struct {
	db           *db.Postgres
	jwtService   *auth.JWTService
	emailService email.EmailService
}

// NewAuthController creates a new AuthController
func NewAuthController(database *db.Postgres, jwtService *auth.JWTService, emailService email.EmailService) *AuthController {
	return &AuthController{
		db:           database,
		jwtService:   jwtService,
		emailService: emailService,
	}
}

// Register handles student registration
// @Summary Register a student account
// @Description Creates a new student account and signs it in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration information"
// @Success 201 {object} dto.APIResponse{data=dto.AuthResponse} "Account created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Username already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindingError(ctx, err)
		return
	}

	unit, err := c.db.NewUnit(ctx, false)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer unit.Rollback(ctx)

	authService := services.NewAuthService(unit, c.jwtService)
	person, tokens, err := authService.RegisterStudent(ctx, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := unit.Commit(ctx); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, dto.AuthResponse{Token: *tokens, User: person})
}

// Login handles student/admin login
// @Summary Log in with username and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.APIResponse{data=dto.AuthResponse} "Authenticated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindingError(ctx, err)
		return
	}

	unit, err := c.db.NewUnit(ctx, false)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer unit.Rollback(ctx)

	authService := services.NewAuthService(unit, c.jwtService)
	person, tokens, err := authService.Login(ctx, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := unit.Commit(ctx); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, dto.AuthResponse{Token: *tokens, User: person})
}

// RegisterCompany handles company registration
// @Summary Register a company account
// @Description Creates a company account and sends an email verification link
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.CompanyRegisterRequest true "Company information"
// @Success 201 {object} dto.APIResponse{data=models.Company} "Account created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Company already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/company/register [post]
func (c *AuthController) RegisterCompany(ctx *gin.Context) {
	var req dto.CompanyRegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindingError(ctx, err)
		return
	}

	unit, err := c.db.NewUnit(ctx, false)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer unit.Rollback(ctx)

	authService := services.NewAuthService(unit, c.jwtService)
	company, verifyToken, err := authService.RegisterCompany(ctx, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := unit.Commit(ctx); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	// The account exists either way; a failed mail only costs the link.
	if err := c.emailService.SendCompanyVerificationEmail(company.Email, company.Name, verifyToken); err != nil {
		logger.Error().Err(err).Str("email", company.Email).Msg("Failed to send verification email")
	}

	respond(ctx, http.StatusCreated, company)
}

// LoginCompany handles company login
// @Summary Log in as a company
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.CompanyLoginRequest true "Credentials"
// @Success 200 {object} dto.APIResponse{data=dto.AuthResponse} "Authenticated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/company/login [post]
func (c *AuthController) LoginCompany(ctx *gin.Context) {
	var req dto.CompanyLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindingError(ctx, err)
		return
	}

	unit, err := c.db.NewUnit(ctx, false)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer unit.Rollback(ctx)

	authService := services.NewAuthService(unit, c.jwtService)
	company, tokens, err := authService.LoginCompany(ctx, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := unit.Commit(ctx); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, dto.AuthResponse{Token: *tokens, User: company})
}

// VerifyCompanyEmail redeems an email verification token
// @Summary Verify a company email address
// @Tags auth
// @Produce json
// @Param token query string true "Verification token"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Email verified"
// @Failure 400 {object} dto.ErrorResponse "Invalid or expired token"
// @Failure 409 {object} dto.ErrorResponse "Email already verified"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/company/verify-email [get]
func (c *AuthController) VerifyCompanyEmail(ctx *gin.Context) {
	token := ctx.Query("token")
	if token == "" {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Missing token parameter").
			WithField("token")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	unit, err := c.db.NewUnit(ctx, false)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer unit.Rollback(ctx)

	authService := services.NewAuthService(unit, c.jwtService)
	if err := authService.VerifyCompanyEmail(ctx, token); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := unit.Commit(ctx); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, dto.SuccessResponse{Message: "Email verified successfully"})
}

// RefreshToken rotates a refresh token
// @Summary Refresh an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.APIResponse{data=dto.TokenResponse} "New token pair"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Invalid or expired refresh token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/refresh [post]
func (c *AuthController) RefreshToken(ctx *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindingError(ctx, err)
		return
	}

	unit, err := c.db.NewUnit(ctx, false)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer unit.Rollback(ctx)

	authService := services.NewAuthService(unit, c.jwtService)
	tokens, err := authService.Refresh(ctx, req.RefreshToken)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := unit.Commit(ctx); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, tokens)
}

// Logout revokes every refresh token of the authenticated account
// @Summary Log out
// @Description Revokes all refresh tokens of the authenticated account; the current access token stays valid until it expires
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Logged out"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	subjectID, ok := middleware.SubjectID(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrTokenInvalid)
		return
	}
	subjectType := models.SubjectType(ctx.GetString(middleware.ContextSubjectType))

	unit, err := c.db.NewUnit(ctx, false)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer unit.Rollback(ctx)

	authService := services.NewAuthService(unit, c.jwtService)
	if err := authService.Logout(ctx, subjectType, subjectID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := unit.Commit(ctx); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, dto.SuccessResponse{Message: "Logged out"})
}
