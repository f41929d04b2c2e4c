package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/editorialstats/backend/internal/services"
	"github.com/editorialstats/backend/pkg/response"
)

type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
	settingsService  *services.SettingsService
}

func NewAnalyticsHandler(db *gorm.DB) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: services.NewAnalyticsService(db),
		settingsService:  services.NewSettingsService(db),
	}
}

// VisibilityStatus reports the platform visibility state
// GET /api/analytics/visibility-status
func (h *AnalyticsHandler) VisibilityStatus(c *gin.Context) {
	status, err := h.settingsService.Status()
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, status)
}

// Overview returns platform-wide statistics
// GET /api/analytics/overview
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	overview, err := h.analyticsService.Overview()
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, overview)
}

// Publishers returns per-publisher score cards
// GET /api/analytics/publishers
func (h *AnalyticsHandler) Publishers(c *gin.Context) {
	analytics, err := h.analyticsService.Publishers()
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, analytics)
}

// Journals returns per-journal score cards
// GET /api/analytics/journals
func (h *AnalyticsHandler) Journals(c *gin.Context) {
	analytics, err := h.analyticsService.Journals(c.Query("publisher_id"))
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, analytics)
}

// Areas returns decision pattern rates per scientific area
// GET /api/analytics/areas
func (h *AnalyticsHandler) Areas(c *gin.Context) {
	analytics, err := h.analyticsService.Areas()
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, analytics)
}
