package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/editorialstats/backend/internal/models"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Root GET /api/
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(200, gin.H{
		"message": "Editorial Decision Statistics Platform API",
		"status":  "running",
	})
}

// CheckHealth reports the service and database status
// GET /api/health
func (h *HealthHandler) CheckHealth(c *gin.Context) {
	status := "healthy"
	dbStatus := "ok"

	sqlDB, err := models.GetDB().DB()
	if err != nil {
		dbStatus = "error: " + err.Error()
		status = "unhealthy"
	} else if err := sqlDB.Ping(); err != nil {
		dbStatus = "error: " + err.Error()
		status = "unhealthy"
	}

	c.JSON(200, gin.H{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"components": gin.H{
			"database": dbStatus,
		},
	})
}
