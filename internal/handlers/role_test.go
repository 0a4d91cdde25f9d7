package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	apierrors "github.com/kanbanhq/tracker-api/internal/errors"
	"github.com/kanbanhq/tracker-api/internal/models"
	"github.com/stretchr/testify/require"
)

func TestRoleHandler_ListRoles(t *testing.T) {
	env := setupAPITestEnv(t)
	_, adminToken := env.registerUser(t, "admin", "Admin")

	w := env.request(t, http.MethodGet, "/api/roles", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var response map[string][]models.Role
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response["roles"], 3)
}

func TestRoleHandler_ListRoles_DeniedWithoutPermission(t *testing.T) {
	env := setupAPITestEnv(t)
	_, devToken := env.registerUser(t, "dev", "")

	w := env.request(t, http.MethodGet, "/api/roles", devToken, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestRoleHandler_ListPermissions(t *testing.T) {
	env := setupAPITestEnv(t)
	_, adminToken := env.registerUser(t, "admin", "Admin")

	w := env.request(t, http.MethodGet, "/api/permissions", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var response map[string][]models.Permission
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response["permissions"], len(models.AllPermissionNames()))
}

func TestRoleHandler_UpdateRolePermissions(t *testing.T) {
	env := setupAPITestEnv(t)
	_, adminToken := env.registerUser(t, "admin", "Admin")

	devRole, err := env.roleRepo.FindByName("Dev")
	require.NoError(t, err)

	w := env.request(t, http.MethodPut, fmt.Sprintf("/api/roles/%d/permissions", devRole.ID), adminToken, map[string][]models.PermissionName{
		"permissions": {models.PermViewReports, models.PermDeleteTask},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var role models.Role
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &role))
	require.Len(t, role.Permissions, 2)

	// The edit is live for every Dev user on their next permission check.
	dev, _ := env.registerUser(t, "dev", "")
	has, err := env.rbac.HasPermission(dev.ID, models.PermDeleteTask)
	require.NoError(t, err)
	require.True(t, has)
}

func TestRoleHandler_UpdateRolePermissions_ProtectedRole(t *testing.T) {
	env := setupAPITestEnv(t)
	_, adminToken := env.registerUser(t, "admin", "Admin")

	adminRole, err := env.roleRepo.FindByName("Admin")
	require.NoError(t, err)

	// Even a caller holding every permission cannot touch a system role.
	w := env.request(t, http.MethodPut, fmt.Sprintf("/api/roles/%d/permissions", adminRole.ID), adminToken, map[string][]models.PermissionName{
		"permissions": {models.PermViewReports},
	})
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, apierrors.ErrCodeProtectedRole, decodeAPIError(t, w).Code)
}

func TestRoleHandler_UpdateRolePermissions_UnknownPermission(t *testing.T) {
	env := setupAPITestEnv(t)
	_, adminToken := env.registerUser(t, "admin", "Admin")

	devRole, err := env.roleRepo.FindByName("Dev")
	require.NoError(t, err)

	w := env.request(t, http.MethodPut, fmt.Sprintf("/api/roles/%d/permissions", devRole.ID), adminToken, map[string][]string{
		"permissions": {"launch_missiles"},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRoleHandler_UpdateRolePermissions_DeniedWithoutManageRoles(t *testing.T) {
	env := setupAPITestEnv(t)
	_, devToken := env.registerUser(t, "dev", "")

	devRole, err := env.roleRepo.FindByName("Dev")
	require.NoError(t, err)

	w := env.request(t, http.MethodPut, fmt.Sprintf("/api/roles/%d/permissions", devRole.ID), devToken, map[string][]models.PermissionName{
		"permissions": {models.PermManageRoles},
	})
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestRoleHandler_UpdateRolePermissions_UnknownRole(t *testing.T) {
	env := setupAPITestEnv(t)
	_, adminToken := env.registerUser(t, "admin", "Admin")

	w := env.request(t, http.MethodPut, "/api/roles/99999/permissions", adminToken, map[string][]models.PermissionName{
		"permissions": {models.PermViewReports},
	})
	require.Equal(t, http.StatusNotFound, w.Code)
}
