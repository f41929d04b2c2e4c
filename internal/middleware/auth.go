package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/editorialstats/backend/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	// SessionCookie is the cookie carrying the session token.
	SessionCookie = "session_token"

	ContextUser = "current_user"
)

// ExtractSessionToken pulls the session token from the session cookie or,
// failing that, a bearer Authorization header.
func ExtractSessionToken(c *gin.Context) string {
	if token, err := c.Cookie(SessionCookie); err == nil && token != "" {
		return token
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// resolveUser loads the user for a valid, unexpired session token.
func resolveUser(db *gorm.DB, token string) (*models.User, error) {
	var session models.Session
	if err := db.Where("token = ?", token).First(&session).Error; err != nil {
		return nil, err
	}
	if session.Expired() {
		return nil, gorm.ErrRecordNotFound
	}

	var user models.User
	if err := db.Where("user_id = ?", session.UserID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// AuthRequired resolves the session token to a user and aborts with 401
// when there is no valid session.
func AuthRequired(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractSessionToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			c.Abort()
			return
		}

		user, err := resolveUser(db, token)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "session lookup failed"})
				c.Abort()
				return
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			c.Abort()
			return
		}

		c.Set(ContextUser, user)
		c.Next()
	}
}

// AdminRequired aborts with 403 unless the authenticated user is an admin.
// Must run after AuthRequired.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := GetUser(c)
		if user == nil || !user.IsAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUser returns the authenticated user from context, or nil.
func GetUser(c *gin.Context) *models.User {
	if v, exists := c.Get(ContextUser); exists {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}
