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
)

// SiteController handles company locations.
type SiteController struct {
	db *db.Postgres
}

// NewSiteController creates a new SiteController
func NewSiteController(database *db.Postgres) *SiteController {
	return &SiteController{db: database}
}

// CreateSite adds a location to the authenticated company
// @Summary Create a company site
// @Tags sites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSiteRequest true "Site information"
// @Success 201 {object} dto.APIResponse{data=models.Site} "Site created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or unknown city"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /sites [post]
func (c *SiteController) CreateSite(ctx *gin.Context) {
	var req dto.CreateSiteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindingError(ctx, err)
		return
	}

	// A company can only add sites to itself.
	if subjectID, ok := middleware.SubjectID(ctx); !ok || subjectID != req.CompanyID {
		middleware.HandleAPIError(ctx, apperrors.ErrPermissionDenied)
		return
	}

	unit, err := c.db.NewUnit(ctx, false)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer unit.Rollback(ctx)

	site := &models.Site{
		Address:    req.Address,
		PostalCode: req.PostalCode,
		CityID:     req.CityID,
		CompanyID:  req.CompanyID,
	}
	id, err := services.NewSiteService(unit).Create(ctx, site)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	site.ID = id

	if err := unit.Commit(ctx); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, site)
}

// GetSiteByID fetches one site
// @Summary Get site details
// @Tags sites
// @Produce json
// @Param id path int true "Site ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=models.Site} "Site retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid ID"
// @Failure 404 {object} dto.ErrorResponse "Site not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /sites/{id} [get]
func (c *SiteController) GetSiteByID(ctx *gin.Context) {
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

	site, err := services.NewSiteService(unit).GetByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, site)
}

// GetCompanySites lists a company's locations
// @Summary List a company's sites
// @Tags sites
// @Produce json
// @Param id path int true "Company ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=[]models.Site} "Sites retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid ID"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /companies/{id}/sites [get]
func (c *SiteController) GetCompanySites(ctx *gin.Context) {
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

	sites, err := services.NewSiteService(unit).GetByCompany(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, sites)
}

// UpdateSite updates a company location
// @Summary Update a site
// @Tags sites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Site ID" Format(int64) minimum(1)
// @Param request body dto.UpdateSiteRequest true "Updated site information"
// @Success 200 {object} dto.APIResponse{data=models.Site} "Site updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Site not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /sites/{id} [put]
func (c *SiteController) UpdateSite(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateSiteRequest
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

	siteService := services.NewSiteService(unit)
	site, err := siteService.GetByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if subjectID, ok := middleware.SubjectID(ctx); !ok || subjectID != site.CompanyID {
		middleware.HandleAPIError(ctx, apperrors.ErrPermissionDenied)
		return
	}

	site.Address = req.Address
	site.PostalCode = req.PostalCode
	site.CityID = req.CityID
	if err := siteService.Update(ctx, site); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := unit.Commit(ctx); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, site)
}

// DeleteSite removes a company location
// @Summary Delete a site
// @Tags sites
// @Produce json
// @Security BearerAuth
// @Param id path int true "Site ID" Format(int64) minimum(1)
// @Success 204 "Site deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid ID"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Site not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /sites/{id} [delete]
func (c *SiteController) DeleteSite(ctx *gin.Context) {
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

	siteService := services.NewSiteService(unit)
	site, err := siteService.GetByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if subjectID, ok := middleware.SubjectID(ctx); !ok || subjectID != site.CompanyID {
		middleware.HandleAPIError(ctx, apperrors.ErrPermissionDenied)
		return
	}

	if err := siteService.Delete(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := unit.Commit(ctx); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
