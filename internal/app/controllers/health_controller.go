package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mertdogan/internhub/internal/app/models/dto"
	"github.com/mertdogan/internhub/internal/db"
)

// HealthController answers liveness and readiness probes.
type HealthController struct {
	db *db.Postgres
}

// NewHealthController creates a new HealthController
func NewHealthController(database *db.Postgres) *HealthController {
	return &HealthController{db: database}
}

// Health reports service and database health
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Service healthy"
// @Failure 503 {object} dto.ErrorResponse "Database unreachable"
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	if err := c.db.Pool.Ping(ctx); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeServiceUnavailable, "Database unreachable")
		ctx.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(errorDetail))
		return
	}

	respond(ctx, http.StatusOK, dto.SuccessResponse{Message: "ok"})
}
