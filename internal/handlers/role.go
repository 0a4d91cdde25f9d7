package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/kanbanhq/tracker-api/internal/errors"
	"github.com/kanbanhq/tracker-api/internal/models"
	"github.com/kanbanhq/tracker-api/internal/services"
)

// RoleHandler coordinates role and permission admin handlers.
type RoleHandler struct {
	rbac *services.RBACService
}

// NewRoleHandler creates a new RoleHandler.
func NewRoleHandler(rbac *services.RBACService) *RoleHandler {
	return &RoleHandler{
		rbac: rbac,
	}
}

// ListRoles returns all roles with their permissions.
func (h *RoleHandler) ListRoles(c *gin.Context) {
	roles, err := h.rbac.ListRoles()
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch roles")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"roles": roles,
	})
}

// ListPermissions returns the permission catalog.
func (h *RoleHandler) ListPermissions(c *gin.Context) {
	permissions, err := h.rbac.ListPermissions()
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch permissions")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"permissions": permissions,
	})
}

// UpdateRolePermissions replaces a role's permission set. System roles are
// rejected no matter who asks.
func (h *RoleHandler) UpdateRolePermissions(c *gin.Context) {
	roleID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid role ID")
		return
	}

	type UpdatePermissionsRequest struct {
		Permissions []models.PermissionName `json:"permissions" binding:"required"`
	}

	var req UpdatePermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	role, err := h.rbac.UpdateRolePermissions(roleID, req.Permissions)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRoleNotFound):
			apierrors.NotFound(c, err.Error())
		case errors.Is(err, services.ErrProtectedRole):
			apierrors.ProtectedRole(c, "")
		case errors.Is(err, services.ErrUnknownPermission):
			apierrors.BadRequest(c, err.Error())
		default:
			apierrors.InternalError(c, "Failed to update role permissions")
		}
		return
	}

	c.JSON(http.StatusOK, role)
}
