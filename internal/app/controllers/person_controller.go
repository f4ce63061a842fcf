package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mertdogan/internhub/internal/app/models/dto"
	"github.com/mertdogan/internhub/internal/app/services"
	"github.com/mertdogan/internhub/internal/db"
	"github.com/mertdogan/internhub/internal/middleware"
	"github.com/mertdogan/internhub/internal/pkg/helpers"
)

// PersonController handles person administration. All endpoints are
// admin-only; students interact through auth and the tracking endpoints.
type PersonController struct {
	db *db.Postgres
}

// NewPersonController creates a new PersonController
func NewPersonController(database *db.Postgres) *PersonController {
	return &PersonController{db: database}
}

// GetAllPersons lists person accounts page by page
// @Summary List all persons
// @Tags persons
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1) minimum(1)
// @Param size query int false "Page size" default(10) maximum(100)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Persons retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /persons [get]
func (c *PersonController) GetAllPersons(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	unit, err := c.db.NewUnit(ctx, true)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer unit.Rollback(ctx)

	personService := services.NewPersonService(unit)

	total, err := personService.Count(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	persons, err := personService.GetAll(ctx, offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, dto.PaginatedResponse{
		Items:      persons,
		Pagination: helpers.NewPaginationInfo(total, page, limit),
	})
}

// GetPersonByID fetches one person
// @Summary Get person details
// @Tags persons
// @Produce json
// @Security BearerAuth
// @Param id path int true "Person ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=models.Person} "Person retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid ID"
// @Failure 404 {object} dto.ErrorResponse "Person not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /persons/{id} [get]
func (c *PersonController) GetPersonByID(ctx *gin.Context) {
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

	person, err := services.NewPersonService(unit).GetByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, person)
}

// DeletePerson removes a person account
// @Summary Delete a person
// @Tags persons
// @Produce json
// @Security BearerAuth
// @Param id path int true "Person ID" Format(int64) minimum(1)
// @Success 204 "Person deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid ID"
// @Failure 404 {object} dto.ErrorResponse "Person not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /persons/{id} [delete]
func (c *PersonController) DeletePerson(ctx *gin.Context) {
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

	if err := services.NewPersonService(unit).Delete(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := unit.Commit(ctx); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
