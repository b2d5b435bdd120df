package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/healthvault/ops-api/pkg/auth"
)

const ContextPrincipal = "principal"

// PrincipalResolver turns a bearer token into the caller identity.
type PrincipalResolver interface {
	Resolve(ctx context.Context, token string) (auth.Principal, error)
}

type AuthMiddleware struct {
	resolver PrincipalResolver
}

func NewAuthMiddleware(resolver PrincipalResolver) *AuthMiddleware {
	return &AuthMiddleware{resolver: resolver}
}

// Authenticate verifies the bearer token and stores the resolved
// principal in the request context. Identity is resolved fresh on
// every request; nothing is cached across calls.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Code:    http.StatusUnauthorized,
				Message: "missing authorization header",
			})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Code:    http.StatusUnauthorized,
				Message: "invalid authorization format",
			})
			return
		}

		principal, err := m.resolver.Resolve(c.Request.Context(), parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Code:    http.StatusUnauthorized,
				Message: "invalid token",
			})
			return
		}

		c.Set(ContextPrincipal, principal)
		c.Next()
	}
}

// RequireRole gates a route group to the listed roles.
func (m *AuthMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := PrincipalFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Code:    http.StatusUnauthorized,
				Message: "authentication required",
			})
			return
		}

		for _, role := range roles {
			if principal.Role == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
			Code:    http.StatusForbidden,
			Message: "insufficient role",
		})
	}
}

// PrincipalFrom returns the authenticated principal, if any.
func PrincipalFrom(c *gin.Context) (auth.Principal, bool) {
	v, exists := c.Get(ContextPrincipal)
	if !exists {
		return auth.Principal{}, false
	}
	principal, ok := v.(auth.Principal)
	return principal, ok
}
