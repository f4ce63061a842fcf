package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mertdogan/internhub/internal/app/models"
	"github.com/mertdogan/internhub/internal/app/models/dto"
	"github.com/mertdogan/internhub/internal/app/services"
	"github.com/mertdogan/internhub/internal/db"
	"github.com/mertdogan/internhub/internal/middleware"
	"github.com/mertdogan/internhub/internal/pkg/apperrors"
	"github.com/mertdogan/internhub/internal/pkg/filestorage"
	"github.com/mertdogan/internhub/internal/pkg/helpers"
)

// Default window for the clicked-apply count endpoint.
const defaultClickedDays = 90

// InternshipController handles internship listings.
type InternshipController struct {
	db      *db.Postgres
	storage filestorage.FileStorage
}

// NewInternshipController creates a new InternshipController
func NewInternshipController(database *db.Postgres, storage filestorage.FileStorage) *InternshipController {
	return &InternshipController{
		db:      database,
		storage: storage,
	}
}

// GetAllInternships lists internships with their aggregated details
// @Summary List internships
// @Description Lists internships joined with company, site, worktype, duration, department names and view counts. Pass current=true to keep only listings whose application window is still open.
// @Tags internships
// @Produce json
// @Param current query bool false "Only listings accepting applications"
// @Param page query int false "Page number" default(1) minimum(1)
// @Param size query int false "Page size" default(10) maximum(100)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Internships retrieved"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /internships [get]
func (c *InternshipController) GetAllInternships(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	currentOnly := ctx.Query("current") == "true"

	unit, err := c.db.NewUnit(ctx, true)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer unit.Rollback(ctx)

	internshipService := services.NewInternshipService(unit)

	total, err := internshipService.Count(ctx, currentOnly)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var listings []*models.InternshipListing
	if currentOnly {
		listings, err = internshipService.GetAllCurrent(ctx, offset, limit)
	} else {
		listings, err = internshipService.GetAll(ctx, offset, limit)
	}
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, dto.PaginatedResponse{
		Items:      listings,
		Pagination: helpers.NewPaginationInfo(total, page, limit),
	})
}

// GetInternshipByID fetches one internship with its aggregated details
// @Summary Get internship details
// @Tags internships
// @Produce json
// @Param id path int true "Internship ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=models.InternshipListing} "Internship retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid ID"
// @Failure 404 {object} dto.ErrorResponse "Internship not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /internships/{id} [get]
func (c *InternshipController) GetInternshipByID(ctx *gin.Context) {
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

	listing, err := services.NewInternshipService(unit).GetByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, listing)
}

// CreateInternship publishes a new listing for the authenticated company
// @Summary Create an internship
// @Description Publishes a new internship. The company must be admin-verified and must own the referenced site.
// @Tags internships
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateInternshipRequest true "Internship information"
// @Success 201 {object} dto.APIResponse{data=models.Internship} "Internship created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or unknown reference"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /internships [post]
func (c *InternshipController) CreateInternship(ctx *gin.Context) {
	companyID, ok := middleware.SubjectID(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrPermissionDenied)
		return
	}

	var req dto.CreateInternshipRequest
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

	// Publishing requires an approved company and a site it owns.
	company, err := services.NewCompanyService(unit).GetByID(ctx, companyID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if !company.AdminVerified {
		middleware.HandleAPIError(ctx, apperrors.ErrPermissionDenied)
		return
	}

	site, err := services.NewSiteService(unit).GetByID(ctx, req.SiteID)
	if err != nil {
		if err == apperrors.ErrSiteNotFound {
			err = apperrors.ErrInvalidReference
		}
		middleware.HandleAPIError(ctx, err)
		return
	}
	if site.CompanyID != companyID {
		middleware.HandleAPIError(ctx, apperrors.ErrPermissionDenied)
		return
	}

	internship := &models.Internship{
		Title:          req.Title,
		Description:    req.Description,
		Salary:         req.Salary,
		ApplicationEnd: req.ApplicationEnd,
		MinimumYear:    req.MinimumYear,
		SiteID:         req.SiteID,
		WorktypeID:     req.WorktypeID,
		DurationID:     req.DurationID,
	}
	id, err := services.NewInternshipService(unit).Create(ctx, internship, req.DepartmentIDs)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	internship.ID = id

	if err := unit.Commit(ctx); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, internship)
}

// UpdateInternship rewrites a listing and its department links
// @Summary Update an internship
// @Tags internships
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Internship ID" Format(int64) minimum(1)
// @Param request body dto.UpdateInternshipRequest true "Updated internship information"
// @Success 200 {object} dto.APIResponse{data=models.Internship} "Internship updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or unknown reference"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Internship not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /internships/{id} [put]
func (c *InternshipController) UpdateInternship(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	companyID, ok := middleware.SubjectID(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrPermissionDenied)
		return
	}

	var req dto.UpdateInternshipRequest
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

	internshipService := services.NewInternshipService(unit)
	owned, err := internshipService.OwnedByCompany(ctx, id, companyID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if !owned {
		middleware.HandleAPIError(ctx, apperrors.ErrPermissionDenied)
		return
	}

	internship := &models.Internship{
		ID:             id,
		Title:          req.Title,
		Description:    req.Description,
		Salary:         req.Salary,
		ApplicationEnd: req.ApplicationEnd,
		MinimumYear:    req.MinimumYear,
		SiteID:         req.SiteID,
		WorktypeID:     req.WorktypeID,
		DurationID:     req.DurationID,
	}
	if err := internshipService.Update(ctx, internship, req.DepartmentIDs); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := unit.Commit(ctx); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, internship)
}

// UploadDocument attaches a document to a listing
// @Summary Upload an internship document
// @Tags internships
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Internship ID" Format(int64) minimum(1)
// @Param document formData file true "Document file"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Document stored"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Internship not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /internships/{id}/document [post]
func (c *InternshipController) UploadDocument(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	companyID, ok := middleware.SubjectID(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrPermissionDenied)
		return
	}

	fileHeader, err := ctx.FormFile("document")
	if err != nil {
		bindingError(ctx, err)
		return
	}

	unit, err := c.db.NewUnit(ctx, false)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer unit.Rollback(ctx)

	internshipService := services.NewInternshipService(unit)
	owned, err := internshipService.OwnedByCompany(ctx, id, companyID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if !owned {
		middleware.HandleAPIError(ctx, apperrors.ErrPermissionDenied)
		return
	}

	path, err := c.storage.SaveFileWithPath(fileHeader, "documents")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := internshipService.SetDocumentPath(ctx, id, path); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := unit.Commit(ctx); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, dto.SuccessResponse{Message: "Document stored"})
}

// GetClickedCount returns the trailing-window clicked-apply count
// @Summary Count clicked-apply events for an internship
// @Tags internships
// @Produce json
// @Security BearerAuth
// @Param id path int true "Internship ID" Format(int64) minimum(1)
// @Param days query int false "Trailing window in days" default(90)
// @Success 200 {object} dto.APIResponse{data=dto.ClickedCountResponse} "Count retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid parameters"
// @Failure 404 {object} dto.ErrorResponse "Internship not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /internships/{id}/clicked-count [get]
func (c *InternshipController) GetClickedCount(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	days := defaultClickedDays
	if daysStr := ctx.Query("days"); daysStr != "" {
		parsed, err := strconv.Atoi(daysStr)
		if err != nil || parsed < 1 {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid days parameter").
				WithField("days").
				WithDetails("days must be a positive number")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		days = parsed
	}

	unit, err := c.db.NewUnit(ctx, true)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer unit.Rollback(ctx)

	exists, err := services.NewInternshipService(unit).Exists(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if !exists {
		middleware.HandleAPIError(ctx, apperrors.ErrInternshipNotFound)
		return
	}

	count, err := services.NewTrackingService(unit).ClickedCountSince(ctx, id, days)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, dto.ClickedCountResponse{
		InternshipID: id,
		Days:         days,
		Count:        count,
	})
}

// DeleteInternship removes a listing
// @Summary Delete an internship
// @Tags internships
// @Produce json
// @Security BearerAuth
// @Param id path int true "Internship ID" Format(int64) minimum(1)
// @Success 204 "Internship deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid ID"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Internship not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /internships/{id} [delete]
func (c *InternshipController) DeleteInternship(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	companyID, ok := middleware.SubjectID(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrPermissionDenied)
		return
	}

	unit, err := c.db.NewUnit(ctx, false)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer unit.Rollback(ctx)

	internshipService := services.NewInternshipService(unit)
	owned, err := internshipService.OwnedByCompany(ctx, id, companyID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if !owned {
		middleware.HandleAPIError(ctx, apperrors.ErrPermissionDenied)
		return
	}

	if err := internshipService.Delete(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := unit.Commit(ctx); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
