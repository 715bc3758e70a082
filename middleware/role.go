package middleware

import (
	"net/http"

	"maato/models"

	"github.com/gin-gonic/gin"
)

// RequireRole rejects requests whose authenticated actor does not hold one
// of the given roles.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := ActorRole(c)
		for _, r := range roles {
			if actor == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": "your role is not permitted to perform this action",
		})
	}
}
