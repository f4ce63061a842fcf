package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mertdogan/internhub/internal/app/models/dto"
	"github.com/mertdogan/internhub/internal/app/services"
	"github.com/mertdogan/internhub/internal/db"
	"github.com/mertdogan/internhub/internal/middleware"
)

// LookupController serves the small id/name lookup tables.
type LookupController struct {
	db *db.Postgres
}

// NewLookupController creates a new LookupController
func NewLookupController(database *db.Postgres) *LookupController {
	return &LookupController{db: database}
}

func (c *LookupController) list(ctx *gin.Context, fetch func(*services.LookupService) ([]services.LookupRow, error)) {
	unit, err := c.db.NewUnit(ctx, true)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer unit.Rollback(ctx)

	rows, err := fetch(services.NewLookupService(unit))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, rows)
}

// GetWorktypes lists the worktype lookup table
// @Summary List worktypes
// @Tags lookups
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]services.LookupRow} "Worktypes retrieved"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /worktypes [get]
func (c *LookupController) GetWorktypes(ctx *gin.Context) {
	c.list(ctx, func(s *services.LookupService) ([]services.LookupRow, error) {
		return s.Worktypes(ctx)
	})
}

// GetDurations lists the internship duration lookup table
// @Summary List internship durations
// @Tags lookups
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]services.LookupRow} "Durations retrieved"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /durations [get]
func (c *LookupController) GetDurations(ctx *gin.Context) {
	c.list(ctx, func(s *services.LookupService) ([]services.LookupRow, error) {
		return s.Durations(ctx)
	})
}

// GetDepartments lists the department lookup table
// @Summary List departments
// @Tags lookups
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]services.LookupRow} "Departments retrieved"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /departments [get]
func (c *LookupController) GetDepartments(ctx *gin.Context) {
	c.list(ctx, func(s *services.LookupService) ([]services.LookupRow, error) {
		return s.Departments(ctx)
	})
}

// GetCities lists the city lookup table
// @Summary List cities
// @Tags lookups
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]services.LookupRow} "Cities retrieved"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /cities [get]
func (c *LookupController) GetCities(ctx *gin.Context) {
	c.list(ctx, func(s *services.LookupService) ([]services.LookupRow, error) {
		return s.Cities(ctx)
	})
}

// CreateDepartment adds a department lookup row
// @Summary Create a department
// @Tags lookups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateDepartmentRequest true "Department name"
// @Success 201 {object} dto.APIResponse{data=services.LookupRow} "Department created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Department already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /departments [post]
func (c *LookupController) CreateDepartment(ctx *gin.Context) {
	var req dto.CreateDepartmentRequest
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

	id, err := services.NewLookupService(unit).CreateDepartment(ctx, req.Name)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := unit.Commit(ctx); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, services.LookupRow{ID: id, Name: req.Name})
}
