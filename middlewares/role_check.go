package middlewares

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/quickserve/utils"
)

// RequireRole lets through only the listed roles. It must run after AuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		userRole, exists := c.Get(ContextRole)
		if !exists {
			utils.RespondError(c, http.StatusUnauthorized, fmt.Errorf("unauthorized"))
			c.Abort()
			return
		}

		role, _ := userRole.(string)
		if _, ok := allowed[role]; !ok {
			utils.RespondError(c, http.StatusForbidden, fmt.Errorf("role %q may not access this resource", role))
			c.Abort()
			return
		}

		c.Next()
	}
}

// Actor names the authenticated staff member for the status history.
func Actor(c *gin.Context) string {
	role, _ := c.Get(ContextRole)
	userID, _ := c.Get(ContextUserID)
	if role == nil || userID == nil {
		return ""
	}
	return fmt.Sprintf("%v:%v", role, userID)
}
