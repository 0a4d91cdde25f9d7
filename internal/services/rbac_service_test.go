package services

import (
	"testing"

	"github.com/kanbanhq/tracker-api/internal/database"
	"github.com/kanbanhq/tracker-api/internal/models"
	"github.com/kanbanhq/tracker-api/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type rbacTestEnv struct {
	db       *gorm.DB
	roleRepo repository.RoleRepository
	rbac     *RBACService
}

func setupRBACTestEnv(t *testing.T) rbacTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Permission{},
		&models.Role{},
		&models.User{},
	)
	require.NoError(t, err)

	require.NoError(t, database.Seed(db))

	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	rbac := NewRBACService(userRepo, roleRepo)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return rbacTestEnv{
		db:       db,
		roleRepo: roleRepo,
		rbac:     rbac,
	}
}

func createUserWithRole(t *testing.T, env rbacTestEnv, username, roleName string) *models.User {
	t.Helper()

	role, err := env.roleRepo.FindByName(roleName)
	require.NoError(t, err)

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hashed",
		RoleID:       role.ID,
	}
	require.NoError(t, env.db.Create(user).Error)
	return user
}

func TestRBACService_EffectivePermissions_SeededDevRole(t *testing.T) {
	env := setupRBACTestEnv(t)

	dev := createUserWithRole(t, env, "dev", "Dev")

	permissions, err := env.rbac.EffectivePermissions(dev.ID)
	require.NoError(t, err)

	require.Contains(t, permissions, models.PermCreateTask)
	require.Contains(t, permissions, models.PermCreateProject)
	require.NotContains(t, permissions, models.PermDeleteTask)
	require.NotContains(t, permissions, models.PermManageRoles)
}

func TestRBACService_EffectivePermissions_AdminHasEverything(t *testing.T) {
	env := setupRBACTestEnv(t)

	admin := createUserWithRole(t, env, "admin", "Admin")

	permissions, err := env.rbac.EffectivePermissions(admin.ID)
	require.NoError(t, err)
	require.Len(t, permissions, len(models.AllPermissionNames()))
}

func TestRBACService_EffectivePermissions_UnknownUserIsEmpty(t *testing.T) {
	env := setupRBACTestEnv(t)

	permissions, err := env.rbac.EffectivePermissions(99999)
	require.NoError(t, err)
	require.Empty(t, permissions)
}

func TestRBACService_RoleEditTakesEffectOnNextCheck(t *testing.T) {
	env := setupRBACTestEnv(t)

	dev := createUserWithRole(t, env, "dev", "Dev")
	devRole, err := env.roleRepo.FindByName("Dev")
	require.NoError(t, err)

	has, err := env.rbac.HasPermission(dev.ID, models.PermDeleteTask)
	require.NoError(t, err)
	require.False(t, has)

	_, err = env.rbac.UpdateRolePermissions(devRole.ID, []models.PermissionName{
		models.PermCreateTask,
		models.PermDeleteTask,
	})
	require.NoError(t, err)

	has, err = env.rbac.HasPermission(dev.ID, models.PermDeleteTask)
	require.NoError(t, err)
	require.True(t, has)

	has, err = env.rbac.HasPermission(dev.ID, models.PermCreateProject)
	require.NoError(t, err)
	require.False(t, has, "permission removed from role should be gone immediately")
}

func TestRBACService_UpdateRolePermissions_ProtectedRole(t *testing.T) {
	env := setupRBACTestEnv(t)

	adminRole, err := env.roleRepo.FindByName("Admin")
	require.NoError(t, err)

	_, err = env.rbac.UpdateRolePermissions(adminRole.ID, []models.PermissionName{
		models.PermViewReports,
	})
	require.ErrorIs(t, err, ErrProtectedRole)

	// The role keeps its full permission set.
	reloaded, err := env.roleRepo.FindByID(adminRole.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Permissions, len(models.AllPermissionNames()))
}

func TestRBACService_UpdateRolePermissions_UnknownName(t *testing.T) {
	env := setupRBACTestEnv(t)

	devRole, err := env.roleRepo.FindByName("Dev")
	require.NoError(t, err)

	_, err = env.rbac.UpdateRolePermissions(devRole.ID, []models.PermissionName{
		"launch_missiles",
	})
	require.ErrorIs(t, err, ErrUnknownPermission)
}

func TestRBACService_UpdateRolePermissions_RoleNotFound(t *testing.T) {
	env := setupRBACTestEnv(t)

	_, err := env.rbac.UpdateRolePermissions(99999, []models.PermissionName{
		models.PermViewReports,
	})
	require.ErrorIs(t, err, ErrRoleNotFound)
}

func TestRBACService_UpdateRolePermissions_DeduplicatesNames(t *testing.T) {
	env := setupRBACTestEnv(t)

	devRole, err := env.roleRepo.FindByName("Dev")
	require.NoError(t, err)

	role, err := env.rbac.UpdateRolePermissions(devRole.ID, []models.PermissionName{
		models.PermViewReports,
		models.PermViewReports,
	})
	require.NoError(t, err)
	require.Len(t, role.Permissions, 1)
	require.Equal(t, models.PermViewReports, role.Permissions[0].Name)
}

func TestRBACService_UpdateRolePermissions_EmptySetAllowed(t *testing.T) {
	env := setupRBACTestEnv(t)

	devRole, err := env.roleRepo.FindByName("Dev")
	require.NoError(t, err)

	role, err := env.rbac.UpdateRolePermissions(devRole.ID, []models.PermissionName{})
	require.NoError(t, err)
	require.Empty(t, role.Permissions)
}
