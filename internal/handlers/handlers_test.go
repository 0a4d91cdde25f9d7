package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kanbanhq/tracker-api/internal/authz"
	"github.com/kanbanhq/tracker-api/internal/database"
	apierrors "github.com/kanbanhq/tracker-api/internal/errors"
	"github.com/kanbanhq/tracker-api/internal/models"
	"github.com/kanbanhq/tracker-api/internal/repository"
	"github.com/kanbanhq/tracker-api/internal/services"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// apiTestEnv wires the full route table against an in-memory database so
// handler tests exercise the same middleware chain as production.
type apiTestEnv struct {
	db             *gorm.DB
	router         *gin.Engine
	roleRepo       repository.RoleRepository
	tokens         *services.TokenService
	rbac           *services.RBACService
	authService    *services.AuthService
	projectService *services.ProjectService
	taskService    *services.TaskService
}

func setupAPITestEnv(t *testing.T) *apiTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

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

	database.SetDB(db)
	require.NoError(t, database.Seed(db))

	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	tokens := services.NewTokenService(userRepo, "test-secret", 15*time.Minute, time.Hour)
	rbac := services.NewRBACService(userRepo, roleRepo)
	authService := services.NewAuthService(userRepo, roleRepo, tokens, rbac)
	authorizer := authz.NewProjectAuthorizer(projectRepo, taskRepo)
	projectService := services.NewProjectService(projectRepo, userRepo)
	taskService := services.NewTaskService(taskRepo, authorizer, nil)

	router := gin.New()
	RegisterRoutes(router, RouterConfig{
		Tokens:     tokens,
		RBAC:       rbac,
		Authorizer: authorizer,
		Auth:       NewAuthHandler(authService),
		Projects:   NewProjectHandler(projectService),
		Tasks:      NewTaskHandler(taskService),
		Roles:      NewRoleHandler(rbac),
	})

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return &apiTestEnv{
		db:             db,
		router:         router,
		roleRepo:       roleRepo,
		tokens:         tokens,
		rbac:           rbac,
		authService:    authService,
		projectService: projectService,
		taskService:    taskService,
	}
}

// registerUser creates a user through the auth service and returns it with a
// valid access token. An empty position lands on the default Dev role.
func (env *apiTestEnv) registerUser(t *testing.T, username, position string) (*models.User, string) {
	t.Helper()

	user, err := env.authService.Register(services.RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "supersecret",
		Position: position,
	})
	require.NoError(t, err)

	pair, err := env.tokens.IssuePair(user.ID)
	require.NoError(t, err)

	return user, pair.AccessToken
}

func (env *apiTestEnv) request(t *testing.T, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decodeAPIError(t *testing.T, w *httptest.ResponseRecorder) apierrors.APIError {
	t.Helper()

	var apiErr apierrors.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	return apiErr
}
