package handlers

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/editorialstats/backend/internal/middleware"
	"github.com/editorialstats/backend/internal/models"
	"github.com/editorialstats/backend/internal/services"
	"github.com/editorialstats/backend/pkg/response"
)

type AdminHandler struct {
	adminService      *services.AdminService
	settingsService   *services.SettingsService
	moderationService *services.ModerationService
	visibilityService *services.VisibilityService
	evidenceService   *services.EvidenceService
}

func NewAdminHandler(db *gorm.DB, evidence *services.EvidenceService) *AdminHandler {
	return &AdminHandler{
		adminService:      services.NewAdminService(db),
		settingsService:   services.NewSettingsService(db),
		moderationService: services.NewModerationService(db),
		visibilityService: services.NewVisibilityService(db),
		evidenceService:   evidence,
	}
}

// GetSettings GET /api/admin/settings
func (h *AdminHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsService.Get()
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, settings)
}

// UpdateSettings PUT /api/admin/settings
func (h *AdminHandler) UpdateSettings(c *gin.Context) {
	var req services.SettingsUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	settings, err := h.settingsService.Update(&req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidVisibilityMode) {
			response.BadRequest(c, "invalid visibility mode")
			return
		}
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, settings)
}

// SetOverride pins the visibility of one entity
// PUT /api/admin/visibility/override
func (h *AdminHandler) SetOverride(c *gin.Context) {
	var req services.OverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	settings, err := h.settingsService.SetOverride(&req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidEntityType) {
			response.BadRequest(c, "invalid entity type")
			return
		}
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, settings)
}

// RemoveOverride DELETE /api/admin/visibility/override/:type/:id
func (h *AdminHandler) RemoveOverride(c *gin.Context) {
	settings, err := h.settingsService.RemoveOverride(c.Param("type"), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrInvalidEntityType) {
			response.BadRequest(c, "invalid entity type")
			return
		}
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, settings)
}

// CheckVisibility reports why one entity's stats are shown or hidden,
// so an admin can see the effect of an override before setting one.
// GET /api/admin/visibility/check/:type/:id
func (h *AdminHandler) CheckVisibility(c *gin.Context) {
	entityType := c.Param("type")
	if !models.ValidEntityType(entityType) {
		response.BadRequest(c, "invalid entity type")
		return
	}

	settings, err := h.settingsService.Get()
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	decision := h.visibilityService.Check(settings, entityType, c.Param("id"))
	response.Success(c, decision)
}

// DataStats GET /api/admin/data/stats
func (h *AdminHandler) DataStats(c *gin.Context) {
	stats, err := h.adminService.DataStats()
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, stats)
}

// PurgeSample POST /api/admin/data/purge-sample
func (h *AdminHandler) PurgeSample(c *gin.Context) {
	result, err := h.adminService.PurgeSample()
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, gin.H{
		"message": "sample data purged successfully",
		"deleted": result,
	})
}

// Stats GET /api/admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.adminService.Stats()
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, stats)
}

func intQuery(c *gin.Context, key string, fallback int) int {
	v, err := strconv.Atoi(c.DefaultQuery(key, strconv.Itoa(fallback)))
	if err != nil {
		return fallback
	}
	return v
}

// ListSubmissions GET /api/admin/submissions
func (h *AdminHandler) ListSubmissions(c *gin.Context) {
	list, err := h.adminService.ListSubmissions(
		c.Query("status"),
		intQuery(c, "skip", 0),
		intQuery(c, "limit", 50),
	)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, list)
}

// GetSubmission GET /api/admin/submissions/:id
func (h *AdminHandler) GetSubmission(c *gin.Context) {
	detail, err := h.adminService.GetSubmission(c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrSubmissionNotFound) {
			response.NotFound(c, "submission not found")
			return
		}
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, detail)
}

type moderateRequest struct {
	Status     string  `json:"status" binding:"required"`
	AdminNotes *string `json:"admin_notes"`
}

// Moderate PUT /api/admin/submissions/:id/moderate
func (h *AdminHandler) Moderate(c *gin.Context) {
	var req moderateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	admin := middleware.GetUser(c)
	err := h.moderationService.Moderate(admin, c.Param("id"), req.Status, req.AdminNotes)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidStatus):
			response.BadRequest(c, "invalid status")
		case errors.Is(err, services.ErrSubmissionNotFound):
			response.NotFound(c, "submission not found")
		default:
			response.ServerError(c, err.Error())
		}
		return
	}
	response.Success(c, gin.H{
		"message": "submission moderated successfully",
		"status":  req.Status,
	})
}

// ListUsers GET /api/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	list, err := h.adminService.ListUsers(intQuery(c, "skip", 0), intQuery(c, "limit", 50))
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, list)
}

// ToggleAdmin PUT /api/admin/users/:id/toggle-admin
func (h *AdminHandler) ToggleAdmin(c *gin.Context) {
	actor := middleware.GetUser(c)
	result, err := h.adminService.ToggleAdmin(actor, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSelfAdminToggle):
			response.BadRequest(c, "cannot modify your own admin status")
		case errors.Is(err, services.ErrUserNotFound):
			response.NotFound(c, "user not found")
		default:
			response.ServerError(c, err.Error())
		}
		return
	}
	response.Success(c, result)
}

// GetEvidence streams a decrypted evidence file for review
// GET /api/admin/evidence/:id
func (h *AdminHandler) GetEvidence(c *gin.Context) {
	evidence, content, err := h.evidenceService.Fetch(c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEvidenceNotFound):
			response.NotFound(c, "evidence file not found")
		case errors.Is(err, services.ErrFileMissing):
			response.NotFound(c, "file not found on disk")
		default:
			response.ServerError(c, "error retrieving evidence file")
		}
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", evidence.OriginalFilename))
	c.Data(200, evidence.MimeType, content)
}
