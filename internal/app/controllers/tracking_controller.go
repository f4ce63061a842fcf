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

// TrackingController handles the viewed and clicked-apply events. Both are
// idempotent PUTs: the first event for a pair answers 201, repeats answer 204
// after refreshing the stored timestamp.
type TrackingController struct {
	db *db.Postgres
}

// NewTrackingController creates a new TrackingController
func NewTrackingController(database *db.Postgres) *TrackingController {
	return &TrackingController{db: database}
}

// TrackViewed records a student viewing an internship
// @Summary Record a view event
// @Tags tracking
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.TrackingRequest true "Student and internship"
// @Success 201 "First view recorded"
// @Success 204 "Repeat view, timestamp refreshed"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or unknown reference"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /tracking/viewed [put]
func (c *TrackingController) TrackViewed(ctx *gin.Context) {
	c.track(ctx, false)
}

// TrackClicked records a student clicking apply on an internship. The first
// click per pair also bumps the listing's click counter.
// @Summary Record a clicked-apply event
// @Tags tracking
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.TrackingRequest true "Student and internship"
// @Success 201 "First click recorded"
// @Success 204 "Repeat click, timestamp refreshed"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or unknown reference"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /tracking/clicked [put]
func (c *TrackingController) TrackClicked(ctx *gin.Context) {
	c.track(ctx, true)
}

func (c *TrackingController) track(ctx *gin.Context, clicked bool) {
	var req dto.TrackingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindingError(ctx, err)
		return
	}

	if subjectID, ok := middleware.SubjectID(ctx); !ok || subjectID != req.StudentID {
		middleware.HandleAPIError(ctx, apperrors.ErrPermissionDenied)
		return
	}

	unit, err := c.db.NewUnit(ctx, false)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer unit.Rollback(ctx)

	trackingService := services.NewTrackingService(unit)

	var inserted bool
	if clicked {
		inserted, err = trackingService.UpsertClicked(ctx, req.StudentID, req.InternshipID)
	} else {
		inserted, err = trackingService.UpsertViewed(ctx, req.StudentID, req.InternshipID)
	}
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if clicked && inserted {
		if err := services.NewInternshipService(unit).IncrementClickCounter(ctx, req.InternshipID); err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
	}

	if err := unit.Commit(ctx); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if inserted {
		ctx.Status(http.StatusCreated)
	} else {
		ctx.Status(http.StatusNoContent)
	}
}

// GetStudentViewed lists the internships a student viewed
// @Summary List a student's viewed internships
// @Tags tracking
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=[]models.ViewedInternship} "Views retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid ID"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id}/viewed [get]
func (c *TrackingController) GetStudentViewed(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if subjectID, ok := middleware.SubjectID(ctx); !ok || subjectID != id {
		middleware.HandleAPIError(ctx, apperrors.ErrPermissionDenied)
		return
	}

	unit, err := c.db.NewUnit(ctx, true)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer unit.Rollback(ctx)

	views, err := services.NewTrackingService(unit).GetViewedByStudent(ctx, id, 0)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, views)
}
