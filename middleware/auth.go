package middleware

import (
	"net/http"
	"strings"

	"maato/models"
	"maato/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware.
const (
	CtxActorID = "actorID"
	CtxRole    = "actorRole"
)

// AuthMiddleware validates the bearer token and stores the acting identity
// on the context. Account registration and login live outside this service;
// the token is the contract with that system.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or malformed Authorization header"})
			return
		}

		subject, role, err := utils.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(CtxActorID, subject)
		c.Set(CtxRole, role)
		c.Next()
	}
}

// ActorID returns the authenticated actor id from the context.
func ActorID(c *gin.Context) string {
	return c.GetString(CtxActorID)
}

// ActorRole returns the authenticated actor role from the context.
func ActorRole(c *gin.Context) models.Role {
	return models.Role(c.GetString(CtxRole))
}
