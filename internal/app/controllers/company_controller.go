package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mertdogan/internhub/internal/app/models/dto"
	"github.com/mertdogan/internhub/internal/app/services"
	"github.com/mertdogan/internhub/internal/db"
	"github.com/mertdogan/internhub/internal/middleware"
	"github.com/mertdogan/internhub/internal/pkg/apperrors"
	"github.com/mertdogan/internhub/internal/pkg/email"
	"github.com/mertdogan/internhub/internal/pkg/filestorage"
	"github.com/mertdogan/internhub/internal/pkg/helpers"
	"github.com/mertdogan/internhub/internal/pkg/logger"
)

// CompanyController handles company profiles and admin verification.
type CompanyController struct {
	db           *db.Postgres
	storage      filestorage.FileStorage
	emailService email.EmailService
}

// NewCompanyController creates a new CompanyController
func NewCompanyController(database *db.Postgres, storage filestorage.FileStorage, emailService email.EmailService) *CompanyController {
	return &CompanyController{
		db:           database,
		storage:      storage,
		emailService: emailService,
	}
}

// GetAllCompanies lists companies page by page
// @Summary List all companies
// @Tags companies
// @Produce json
// @Param page query int false "Page number" default(1) minimum(1)
// @Param size query int false "Page size" default(10) maximum(100)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Companies retrieved"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /companies [get]
func (c *CompanyController) GetAllCompanies(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	unit, err := c.db.NewUnit(ctx, true)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer unit.Rollback(ctx)

	companyService := services.NewCompanyService(unit)

	total, err := companyService.Count(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	companies, err := companyService.GetAll(ctx, offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, dto.PaginatedResponse{
		Items:      companies,
		Pagination: helpers.NewPaginationInfo(total, page, limit),
	})
}

// GetCompanyByID fetches one company
// @Summary Get company details
// @Tags companies
// @Produce json
// @Param id path int true "Company ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=models.Company} "Company retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid ID"
// @Failure 404 {object} dto.ErrorResponse "Company not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /companies/{id} [get]
func (c *CompanyController) GetCompanyByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	unit, err := c.db.NewUnit(ctx, true)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer unit.Rollback(ctx)

	company, err := services.NewCompanyService(unit).GetByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, company)
}

// UpdateCompany updates a company profile. A company may only update itself.
// @Summary Update a company
// @Tags companies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Company ID" Format(int64) minimum(1)
// @Param request body dto.UpdateCompanyRequest true "Updated company information"
// @Success 200 {object} dto.APIResponse{data=models.Company} "Company updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Company not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /companies/{id} [put]
func (c *CompanyController) UpdateCompany(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if subjectID, ok := middleware.SubjectID(ctx); !ok || subjectID != id {
		middleware.HandleAPIError(ctx, apperrors.ErrPermissionDenied)
		return
	}

	var req dto.UpdateCompanyRequest
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

	companyService := services.NewCompanyService(unit)
	company, err := companyService.GetByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	company.Name = req.Name
	company.Email = req.Email
	company.Phone = req.Phone
	if err := companyService.Update(ctx, company); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := unit.Commit(ctx); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, company)
}

// UploadLogo stores a company logo image
// @Summary Upload a company logo
// @Tags companies
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Company ID" Format(int64) minimum(1)
// @Param logo formData file true "Logo image"
// @Success 200 {object} dto.APIResponse{data=models.Company} "Logo stored"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Company not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /companies/{id}/logo [post]
func (c *CompanyController) UploadLogo(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if subjectID, ok := middleware.SubjectID(ctx); !ok || subjectID != id {
		middleware.HandleAPIError(ctx, apperrors.ErrPermissionDenied)
		return
	}

	fileHeader, err := ctx.FormFile("logo")
	if err != nil {
		bindingError(ctx, err)
		return
	}

	path, err := c.storage.SaveFileWithPath(fileHeader, "logos")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	unit, err := c.db.NewUnit(ctx, false)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer unit.Rollback(ctx)

	companyService := services.NewCompanyService(unit)
	if err := companyService.SetLogoPath(ctx, id, path); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	company, err := companyService.GetByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := unit.Commit(ctx); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, company)
}

// VerifyCompany marks a company as admin-verified. Fails when the company has
// not verified its email address yet.
// @Summary Approve a company
// @Tags companies
// @Produce json
// @Security BearerAuth
// @Param id path int true "Company ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Company approved"
// @Failure 400 {object} dto.ErrorResponse "Invalid ID"
// @Failure 404 {object} dto.ErrorResponse "Company not found"
// @Failure 409 {object} dto.ErrorResponse "Email not verified"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /companies/{id}/verify [post]
func (c *CompanyController) VerifyCompany(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	unit, err := c.db.NewUnit(ctx, false)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer unit.Rollback(ctx)

	companyService := services.NewCompanyService(unit)
	if err := companyService.SetAdminVerified(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	company, err := companyService.GetByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := unit.Commit(ctx); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.emailService.SendCompanyApprovedEmail(company.Email, company.Name); err != nil {
		logger.Error().Err(err).Str("email", company.Email).Msg("Failed to send approval email")
	}

	respond(ctx, http.StatusOK, dto.SuccessResponse{Message: "Company approved"})
}

// DeleteCompany removes a company account
// @Summary Delete a company
// @Tags companies
// @Produce json
// @Security BearerAuth
// @Param id path int true "Company ID" Format(int64) minimum(1)
// @Success 204 "Company deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid ID"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Company not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /companies/{id} [delete]
func (c *CompanyController) DeleteCompany(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	unit, err := c.db.NewUnit(ctx, false)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer unit.Rollback(ctx)

	companyService := services.NewCompanyService(unit)
	company, err := companyService.GetByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := companyService.Delete(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := unit.Commit(ctx); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if company.LogoPath != nil {
		if err := c.storage.DeleteFile(*company.LogoPath); err != nil {
			logger.Warn().Err(err).Str("path", *company.LogoPath).Msg("Failed to delete company logo file")
		}
	}

	ctx.Status(http.StatusNoContent)
}
