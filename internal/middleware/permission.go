package middleware

import (
	"github.com/gin-gonic/gin"
	apierrors "github.com/kanbanhq/tracker-api/internal/errors"
	"github.com/kanbanhq/tracker-api/internal/models"
	"github.com/kanbanhq/tracker-api/internal/services"
)

// RequirePermission checks that the authenticated user currently holds the
// given permission. The lookup always goes to storage, so a role edit takes
// effect on the user's next request.
func RequirePermission(rbac *services.RBACService, name models.PermissionName) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		ok, err := rbac.HasPermission(userID, name)
		if err != nil {
			apierrors.InternalError(c, "Failed to resolve permissions")
			c.Abort()
			return
		}
		if !ok {
			apierrors.Forbidden(c, "")
			c.Abort()
			return
		}

		c.Next()
	}
}
