package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gymfeetrack/gymfeetrack/internal/config"
	"github.com/gymfeetrack/gymfeetrack/internal/http/api/handlers"
	"github.com/gymfeetrack/gymfeetrack/internal/models"
	"github.com/gymfeetrack/gymfeetrack/internal/security"
	"gorm.io/gorm"
)

// authMiddleware validates bearer tokens and loads the caller's account and
// profile into the request context. A user without a profile row is still
// authenticated; only admin checks care about the profile.
func authMiddleware(db *gorm.DB, jwtCfg config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}
		token = strings.TrimSpace(token)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "empty token"})
			return
		}

		claims, errJWT := security.ParseUserToken(jwtCfg.Secret, token)
		if errJWT != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		var user models.User
		if errFind := db.WithContext(c.Request.Context()).
			First(&user, claims.UserID).Error; errFind != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}

		var profile models.UserProfile
		errProfile := db.WithContext(c.Request.Context()).
			Where("user_id = ?", user.ID).
			First(&profile).Error
		c.Set(handlers.CtxUserKey, &user)
		switch {
		case errProfile == nil:
			profile.User = user
			c.Set(handlers.CtxProfileKey, &profile)
		case errors.Is(errProfile, gorm.ErrRecordNotFound):
			c.Set(handlers.CtxProfileKey, (*models.UserProfile)(nil))
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "load profile failed"})
			return
		}
		c.Next()
	}
}

// adminOnly rejects callers whose profile does not carry the gym admin flag.
// A missing profile reads as not-admin, never as an error.
func adminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, _ := c.Get(handlers.CtxProfileKey)
		profile, _ := v.(*models.UserProfile)
		if profile == nil || !profile.IsGymAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "permission denied"})
			return
		}
		c.Next()
	}
}
