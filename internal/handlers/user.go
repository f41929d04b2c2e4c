package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/editorialstats/backend/internal/config"
	"github.com/editorialstats/backend/internal/middleware"
	"github.com/editorialstats/backend/internal/services"
	"github.com/editorialstats/backend/pkg/response"
)

type UserHandler struct {
	authService       *services.AuthService
	submissionService *services.SubmissionService
}

func NewUserHandler(db *gorm.DB, cfg *config.Config) *UserHandler {
	return &UserHandler{
		authService:       services.NewAuthService(db, cfg),
		submissionService: services.NewSubmissionService(db),
	}
}

type updateProfileRequest struct {
	ORCID *string `json:"orcid"`
}

// UpdateProfile applies user-editable profile fields
// PUT /api/users/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user := middleware.GetUser(c)
	updated, err := h.authService.UpdateProfile(user, req.ORCID)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, services.Profile(updated))
}

// MyInsights returns the caller's personal aggregated metrics
// GET /api/users/my-insights
func (h *UserHandler) MyInsights(c *gin.Context) {
	user := middleware.GetUser(c)
	insights, err := h.submissionService.Insights(user)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, insights)
}
