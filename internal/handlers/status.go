package handlers

import (
	"net/http"

	"task_tracker/internal/models"

	"github.com/gin-gonic/gin"
)

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  models.Status
// @Router       /api/v1/status [get]
func (h *Handler) status(c *gin.Context) {
	c.JSON(http.StatusOK, models.Status{
		Success: true,
		Version: h.opts.Version,
		Message: h.opts.Title,
	})
}
