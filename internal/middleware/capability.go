package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/civicconnect-api/internal/authz"
	apierrors "github.com/yukikurage/civicconnect-api/internal/errors"
)

// RequireCapability aborts with 403 unless the caller's role grants action.
// It must run after RequireAuth.
func RequireCapability(action authz.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetUserRole(c)
		if !ok {
			apierrors.AbortWithError(c, http.StatusUnauthorized, apierrors.ErrUnauthorized)
			return
		}
		if !authz.Can(role, action) {
			apierrors.AbortWithError(c, http.StatusForbidden, apierrors.NewAPIError(apierrors.ErrCodeInsufficientPermissions, "Your role cannot perform this action"))
			return
		}
		c.Next()
	}
}
