package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mertdogan/internhub/internal/app/models/dto"
	"github.com/mertdogan/internhub/internal/app/services"
	"github.com/mertdogan/internhub/internal/db"
	"github.com/mertdogan/internhub/internal/middleware"
	"github.com/mertdogan/internhub/internal/pkg/apperrors"
)

// FavouriteController handles saved internships.
type FavouriteController struct {
	db *db.Postgres
}

// NewFavouriteController creates a new FavouriteController
func NewFavouriteController(database *db.Postgres) *FavouriteController {
	return &FavouriteController{db: database}
}

// requireSelf rejects requests where the authenticated student is not the
// student named in the body.
func (c *FavouriteController) requireSelf(ctx *gin.Context, studentID int64) bool {
	subjectID, ok := middleware.SubjectID(ctx)
	if !ok || subjectID != studentID {
		middleware.HandleAPIError(ctx, apperrors.ErrPermissionDenied)
		return false
	}
	return true
}

// CreateFavourite saves an internship for a student
// @Summary Favourite an internship
// @Description Saves the internship for the student. Both ids must name existing rows. Saving an already saved internship succeeds without a duplicate.
// @Tags favourites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.TrackingRequest true "Student and internship"
// @Success 201 {object} dto.APIResponse{data=dto.FavouriteResult} "Favourite saved"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or unknown reference"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /favourites [put]
func (c *FavouriteController) CreateFavourite(ctx *gin.Context) {
	var req dto.TrackingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindingError(ctx, err)
		return
	}

	if !c.requireSelf(ctx, req.StudentID) {
		return
	}

	unit, err := c.db.NewUnit(ctx, false)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer unit.Rollback(ctx)

	// Both sides of the pair must exist before the write.
	studentExists, err := services.NewPersonService(unit).StudentExists(ctx, req.StudentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	internshipExists, err := services.NewInternshipService(unit).Exists(ctx, req.InternshipID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if !studentExists || !internshipExists {
		middleware.HandleAPIError(ctx, apperrors.ErrInvalidReference)
		return
	}

	internshipID, err := services.NewFavouriteService(unit).Create(ctx, req.StudentID, req.InternshipID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := unit.Commit(ctx); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, dto.FavouriteResult{InternshipID: internshipID})
}

// DeleteFavourite removes a saved internship
// @Summary Unfavourite an internship
// @Tags favourites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.TrackingRequest true "Student and internship"
// @Success 200 {object} dto.APIResponse{data=dto.FavouriteResult} "Favourite removed"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Favourite not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /favourites [delete]
func (c *FavouriteController) DeleteFavourite(ctx *gin.Context) {
	var req dto.TrackingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindingError(ctx, err)
		return
	}

	if !c.requireSelf(ctx, req.StudentID) {
		return
	}

	unit, err := c.db.NewUnit(ctx, false)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer unit.Rollback(ctx)

	internshipID, err := services.NewFavouriteService(unit).Delete(ctx, req.StudentID, req.InternshipID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := unit.Commit(ctx); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if internshipID == services.FavouriteNotFound {
		middleware.HandleAPIError(ctx, apperrors.ErrResourceNotFound)
		return
	}

	respond(ctx, http.StatusOK, dto.FavouriteResult{InternshipID: internshipID})
}

// GetStudentFavourites lists a student's saved internships
// @Summary List a student's favourites
// @Tags favourites
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=[]models.Favourite} "Favourites retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid ID"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id}/favourites [get]
func (c *FavouriteController) GetStudentFavourites(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if !c.requireSelf(ctx, id) {
		return
	}

	unit, err := c.db.NewUnit(ctx, true)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer unit.Rollback(ctx)

	favourites, err := services.NewFavouriteService(unit).GetByStudent(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, favourites)
}
