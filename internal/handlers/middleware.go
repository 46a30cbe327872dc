package handlers

import (
	"net/http"
	"strings"

	"gscore/internal/models"
	"gscore/internal/redis"
	"gscore/internal/services"

	"github.com/gin-gonic/gin"
)

const contextUserKey = "current_user"

// AdminRequired authenticates the request — a bearer token from the login
// endpoint or basic credentials — and requires the order-management
// capability.
func AdminRequired(userService services.UserService, cache *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := resolveUser(c, userService, cache)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		if !user.CanManageOrders() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}

		c.Set(contextUserKey, user)
		c.Next()
	}
}

func resolveUser(c *gin.Context, userService services.UserService, cache *redis.Client) *models.User {
	if token := bearerToken(c); token != "" && cache != nil {
		userID, ok, err := cache.SessionUserID(token)
		if err != nil || !ok {
			return nil
		}
		user, err := userService.GetUserByID(userID)
		if err != nil {
			return nil
		}
		return user
	}

	username, password, ok := c.Request.BasicAuth()
	if !ok {
		return nil
	}
	user, err := userService.Authenticate(username, password)
	if err != nil {
		return nil
	}
	return user
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}
