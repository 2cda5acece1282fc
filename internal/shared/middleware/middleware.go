package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"spendly/internal/shared/utils/response"
	"spendly/internal/tokens"
)

// Context keys populated by JWTAuth.
const (
	ContextUserGuid = "user_guid"
	ContextUserRole = "user_role"
	ContextUserType = "user_type"
	ContextClientIP = "client_ip"
)

var errMissingBearer = errors.New("authorization header format must be Bearer {token}")

// ExtractBearerToken pulls the raw token string out of the
// Authorization header without validating it.
func ExtractBearerToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", errMissingBearer
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", errMissingBearer
	}
	return parts[1], nil
}

// JWTAuth validates the bearer token through the shared token manager
// and stores the decoded claims on the request context.
func JWTAuth(manager *tokens.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := ExtractBearerToken(c)
		if err != nil {
			response.RespondJSON(c, "error", http.StatusUnauthorized, err.Error(), nil, nil)
			c.Abort()
			return
		}

		claims, err := manager.Decode(tokenString)
		if err != nil {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "invalid or expired token", nil, nil)
			c.Abort()
			return
		}

		c.Set(ContextUserGuid, claims.Subject)
		c.Set(ContextUserRole, claims.Role)
		c.Set(ContextUserType, claims.UserType)
		c.Set(ContextClientIP, claims.ClientIP)

		c.Next()
	}
}

// RequireUserType checks that the decoded claim set carries the fixed
// user-type marker required for protected endpoints.
func RequireUserType(requiredUserType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userType, exists := c.Get(ContextUserType)
		if !exists {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "user type not found in context", nil, nil)
			c.Abort()
			return
		}

		if userType.(string) != requiredUserType {
			response.RespondJSON(c, "error", http.StatusForbidden, "Insufficient permissions", nil, nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireRole checks if user has the required role claim
func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get(ContextUserRole)
		if !exists {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "user role not found in context", nil, nil)
			c.Abort()
			return
		}

		if userRole.(string) != requiredRole {
			response.RespondJSON(c, "error", http.StatusForbidden, "Insufficient permissions", nil, nil)
			c.Abort()
			return
		}

		c.Next()
	}
}
