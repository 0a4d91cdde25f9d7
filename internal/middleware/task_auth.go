package middleware

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kanbanhq/tracker-api/internal/authz"
	"github.com/kanbanhq/tracker-api/internal/constants"
	apierrors "github.com/kanbanhq/tracker-api/internal/errors"
	"github.com/kanbanhq/tracker-api/internal/models"
)

// RequireTaskAccess checks that the caller may reach the task through its
// parent project, then stashes the task for the handler.
func RequireTaskAccess(authorizer *authz.ProjectAuthorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid task ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		level, task, err := authorizer.TaskAccess(userID, taskID)
		if err != nil {
			if errors.Is(err, authz.ErrTaskNotFound) || errors.Is(err, authz.ErrProjectNotFound) {
				apierrors.NotFound(c, "Task not found")
			} else {
				apierrors.InternalError(c, "Failed to resolve task access")
			}
			c.Abort()
			return
		}

		if level == authz.AccessDenied {
			apierrors.Forbidden(c, "")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyTask, *task)
		c.Set(constants.ContextKeyAccessLevel, level)
		c.Next()
	}
}

// GetTask retrieves the task loaded by RequireTaskAccess
func GetTask(c *gin.Context) (models.Task, bool) {
	value, exists := c.Get(constants.ContextKeyTask)
	if !exists {
		return models.Task{}, false
	}

	task, ok := value.(models.Task)
	return task, ok
}
