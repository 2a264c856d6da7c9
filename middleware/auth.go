package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"quickstaff-server/config"
	"quickstaff-server/models"
	"quickstaff-server/types"
	"quickstaff-server/utils"
)

// Claims represents the JWT claims (using shared types)
type Claims = types.Claims

// extractToken pulls the credential from the Authorization header or, failing
// that, the auth cookie.
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString != authHeader {
			return tokenString
		}
	}

	if cookie, err := c.Cookie(config.AppConfig.JWT.CookieName); err == nil {
		return cookie
	}

	return ""
}

// AuthMiddleware validates the JWT and sets the verified principal on the
// context. Handlers downstream trust user_id/user_role without re-checking.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Authorization credential required",
			})
			c.Abort()
			return
		}

		claims, err := utils.VerifyToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Token is invalid or expired",
			})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_role", claims.Role)
		c.Set("user_email", claims.Email)

		c.Next()
	}
}

// RequireRoles rejects principals whose role is not in the allowed set.
// It must run after AuthMiddleware.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[string(r)] = true
	}

	return func(c *gin.Context) {
		role := c.GetString("user_role")
		if !allowed[role] {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": "Your role is not permitted to perform this operation",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// ActorRole returns the authenticated caller's role.
func ActorRole(c *gin.Context) models.UserRole {
	return models.UserRole(c.GetString("user_role"))
}
