package authz

import (
	"testing"
	"time"

	"github.com/kanbanhq/tracker-api/internal/models"
	"github.com/kanbanhq/tracker-api/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type authzTestEnv struct {
	db         *gorm.DB
	authorizer *ProjectAuthorizer
}

func setupAuthzTestEnv(t *testing.T) authzTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Permission{},
		&models.Role{},
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Task{},
	)
	require.NoError(t, err)

	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	authorizer := NewProjectAuthorizer(projectRepo, taskRepo)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return authzTestEnv{
		db:         db,
		authorizer: authorizer,
	}
}

func createAuthzUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	role := &models.Role{Name: "role-" + username}
	require.NoError(t, db.Create(role).Error)

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hashed",
		RoleID:       role.ID,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createAuthzProject(t *testing.T, db *gorm.DB, ownerID uint64) *models.Project {
	t.Helper()

	project := &models.Project{
		Name:     "Test Project",
		Priority: models.ProjectPriorityMedium,
		OwnerID:  ownerID,
	}
	require.NoError(t, db.Create(project).Error)
	return project
}

func TestProjectAccess_Owner(t *testing.T) {
	env := setupAuthzTestEnv(t)

	owner := createAuthzUser(t, env.db, "owner")
	project := createAuthzProject(t, env.db, owner.ID)

	level, got, err := env.authorizer.ProjectAccess(owner.ID, project.ID)
	require.NoError(t, err)
	require.Equal(t, AccessOwner, level)
	require.Equal(t, project.ID, got.ID)
	require.True(t, level.CanModifyProject())
}

func TestProjectAccess_Member(t *testing.T) {
	env := setupAuthzTestEnv(t)

	owner := createAuthzUser(t, env.db, "owner")
	member := createAuthzUser(t, env.db, "member")
	project := createAuthzProject(t, env.db, owner.ID)

	require.NoError(t, env.db.Create(&models.ProjectMember{
		ProjectID: project.ID,
		UserID:    member.ID,
		AddedAt:   time.Now(),
	}).Error)

	level, _, err := env.authorizer.ProjectAccess(member.ID, project.ID)
	require.NoError(t, err)
	require.Equal(t, AccessMember, level)
	require.False(t, level.CanModifyProject())
}

func TestProjectAccess_AssigneeCountsAsMember(t *testing.T) {
	env := setupAuthzTestEnv(t)

	owner := createAuthzUser(t, env.db, "owner")
	assignee := createAuthzUser(t, env.db, "assignee")
	project := createAuthzProject(t, env.db, owner.ID)

	require.NoError(t, env.db.Create(&models.Task{
		Title:      "Assigned task",
		Status:     models.TaskStatusTodo,
		Priority:   models.TaskPriorityMedium,
		ProjectID:  project.ID,
		AssigneeID: &assignee.ID,
	}).Error)

	level, _, err := env.authorizer.ProjectAccess(assignee.ID, project.ID)
	require.NoError(t, err)
	require.Equal(t, AccessMember, level)
}

func TestProjectAccess_Denied(t *testing.T) {
	env := setupAuthzTestEnv(t)

	owner := createAuthzUser(t, env.db, "owner")
	stranger := createAuthzUser(t, env.db, "stranger")
	project := createAuthzProject(t, env.db, owner.ID)

	level, _, err := env.authorizer.ProjectAccess(stranger.ID, project.ID)
	require.NoError(t, err)
	require.Equal(t, AccessDenied, level)
}

func TestProjectAccess_MissingProject(t *testing.T) {
	env := setupAuthzTestEnv(t)

	user := createAuthzUser(t, env.db, "user")

	_, _, err := env.authorizer.ProjectAccess(user.ID, 99999)
	require.ErrorIs(t, err, ErrProjectNotFound)
}

func TestTaskAccess_ThroughProject(t *testing.T) {
	env := setupAuthzTestEnv(t)

	owner := createAuthzUser(t, env.db, "owner")
	member := createAuthzUser(t, env.db, "member")
	stranger := createAuthzUser(t, env.db, "stranger")
	project := createAuthzProject(t, env.db, owner.ID)

	require.NoError(t, env.db.Create(&models.ProjectMember{
		ProjectID: project.ID,
		UserID:    member.ID,
		AddedAt:   time.Now(),
	}).Error)

	task := &models.Task{
		Title:     "Shared task",
		Status:    models.TaskStatusTodo,
		Priority:  models.TaskPriorityMedium,
		ProjectID: project.ID,
	}
	require.NoError(t, env.db.Create(task).Error)

	level, got, err := env.authorizer.TaskAccess(owner.ID, task.ID)
	require.NoError(t, err)
	require.Equal(t, AccessOwner, level)
	require.Equal(t, task.ID, got.ID)

	level, _, err = env.authorizer.TaskAccess(member.ID, task.ID)
	require.NoError(t, err)
	require.Equal(t, AccessMember, level)

	level, _, err = env.authorizer.TaskAccess(stranger.ID, task.ID)
	require.NoError(t, err)
	require.Equal(t, AccessDenied, level)
}

func TestTaskAccess_MissingTask(t *testing.T) {
	env := setupAuthzTestEnv(t)

	user := createAuthzUser(t, env.db, "user")

	_, _, err := env.authorizer.TaskAccess(user.ID, 99999)
	require.ErrorIs(t, err, ErrTaskNotFound)
}

func TestAccessLevel_String(t *testing.T) {
	require.Equal(t, "owner", AccessOwner.String())
	require.Equal(t, "member", AccessMember.String())
	require.Equal(t, "denied", AccessDenied.String())
}
