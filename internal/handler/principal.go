package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/healthvault/ops-api/internal/middleware"
	"github.com/healthvault/ops-api/internal/model"
	"github.com/healthvault/ops-api/pkg/auth"
	apperrors "github.com/healthvault/ops-api/pkg/errors"
)

// Principal returns the authenticated caller or writes a 401.
func Principal(c *gin.Context) (auth.Principal, bool) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		Error(c, apperrors.Unauthorized(nil))
		return auth.Principal{}, false
	}
	return principal, true
}

// RequireStaff returns the caller if it holds the staff role,
// otherwise writes 401/403 and reports false.
func RequireStaff(c *gin.Context) (auth.Principal, bool) {
	principal, ok := Principal(c)
	if !ok {
		return auth.Principal{}, false
	}
	if principal.Role != string(model.RoleStaff) {
		Error(c, apperrors.Forbidden("staff role required", nil))
		return auth.Principal{}, false
	}
	return principal, true
}
