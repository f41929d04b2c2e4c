package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/editorialstats/backend/internal/config"
	"github.com/editorialstats/backend/internal/middleware"
	"github.com/editorialstats/backend/internal/services"
	"github.com/editorialstats/backend/pkg/response"
)

const sessionCookieMaxAge = 7 * 24 * 60 * 60

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: services.NewAuthService(db, cfg),
	}
}

// setSessionCookie installs the session cookie the way the frontend
// expects: cross-site, https only, out of script reach.
func setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(middleware.SessionCookie, token, sessionCookieMaxAge, "/", "", true, true)
}

func clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", true, true)
}

// CreateSession exchanges a post-OAuth session id for a platform session
// POST /api/auth/session
func (h *AuthHandler) CreateSession(c *gin.Context) {
	sessionID := c.GetHeader("X-Session-ID")
	if sessionID == "" {
		var body struct {
			SessionID string `json:"session_id"`
		}
		if err := c.ShouldBindJSON(&body); err == nil {
			sessionID = body.SessionID
		}
	}

	user, token, err := h.authService.ExchangeSession(sessionID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSessionIDRequired):
			response.BadRequest(c, "session id required")
		case errors.Is(err, services.ErrInvalidSession), errors.Is(err, services.ErrAuthFailed):
			response.Unauthorized(c, "authentication failed")
		default:
			response.ServerError(c, err.Error())
		}
		return
	}

	setSessionCookie(c, token)
	response.Success(c, services.Profile(user))
}

// Me returns the authenticated user's profile
// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user := middleware.GetUser(c)
	response.Success(c, services.Profile(user))
}

// ORCIDAuthorize starts the ORCID login flow
// GET /api/auth/orcid/authorize
func (h *AuthHandler) ORCIDAuthorize(c *gin.Context) {
	auth, err := h.authService.ORCIDAuthorizeURL(c.Query("redirect"))
	if err != nil {
		if errors.Is(err, services.ErrORCIDNotConfigured) {
			response.ServerError(c, "orcid oauth not configured")
			return
		}
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, auth)
}

type orcidCallbackRequest struct {
	Code  string `json:"code"`
	State string `json:"state"`
}

type orcidCallbackResponse struct {
	services.UserProfile
	Redirect string `json:"redirect"`
}

// ORCIDCallback finishes the ORCID login flow
// POST /api/auth/orcid/callback
func (h *AuthHandler) ORCIDCallback(c *gin.Context) {
	var req orcidCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, token, redirect, err := h.authService.ORCIDCallback(req.Code, req.State)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCodeRequired), errors.Is(err, services.ErrNoORCIDID):
			response.BadRequest(c, err.Error())
		case errors.Is(err, services.ErrORCIDNotConfigured):
			response.ServerError(c, "orcid oauth not configured")
		case errors.Is(err, services.ErrAuthFailed):
			response.Unauthorized(c, "failed to authenticate with orcid")
		default:
			response.ServerError(c, err.Error())
		}
		return
	}

	setSessionCookie(c, token)
	response.Success(c, orcidCallbackResponse{
		UserProfile: services.Profile(user),
		Redirect:    redirect,
	})
}

// ORCIDStatus reports whether ORCID login is configured
// GET /api/auth/orcid/status
func (h *AuthHandler) ORCIDStatus(c *gin.Context) {
	response.Success(c, h.authService.ORCIDStatus())
}

// Logout ends the current session
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if token := middleware.ExtractSessionToken(c); token != "" {
		if err := h.authService.Logout(token); err != nil {
			response.ServerError(c, err.Error())
			return
		}
	}
	clearSessionCookie(c)
	response.Success(c, gin.H{"message": "logged out successfully"})
}
