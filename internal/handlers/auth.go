package handlers

import (
	"net/http"
	"strings"

	"github.com/SAP-F-2025/form-service/internal/services"
	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"
)

// UserIDKey is the gin context key holding the authenticated user's id.
const UserIDKey = "user_id"

// TokenParser verifies a bearer token and returns its claims.
// casdoorsdk.ParseJwtToken satisfies it once casdoorsdk.InitConfig has run.
type TokenParser func(token string) (*casdoorsdk.Claims, error)

// AuthMiddleware requires a valid Casdoor bearer token. The user id is stored in the gin
// context and scopes the request context to that owner.
func AuthMiddleware(parse TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Missing or malformed token",
			})
			return
		}

		claims, err := parse(strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Invalid or expired token",
			})
			return
		}

		userID := claims.User.Id
		if userID == "" {
			userID = claims.User.Owner + "/" + claims.User.Name
		}
		c.Set(UserIDKey, userID)
		c.Request = c.Request.WithContext(services.WithOwner(c.Request.Context(), userID))
		c.Next()
	}
}

// userID returns the authenticated user, or "" when auth is disabled.
func userID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
