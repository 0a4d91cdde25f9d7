package repository

import (
	"github.com/kanbanhq/tracker-api/internal/models"
	"github.com/kanbanhq/tracker-api/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByIDWithRole finds a user by ID with the role preloaded
	FindByIDWithRole(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// FindByIdentifier finds a user by username or email
	FindByIdentifier(identifier string) (*models.User, error)

	// SetRefreshToken unconditionally stores (or clears, when nil) the
	// user's single refresh token slot
	SetRefreshToken(userID uint64, token *string) error

	// SwapRefreshToken replaces the stored refresh token only if it still
	// equals oldToken. Returns false when the stored value did not match.
	SwapRefreshToken(userID uint64, oldToken, newToken string) (bool, error)
}

// RoleRepository defines the interface for role and permission data access
type RoleRepository interface {
	// FindByID finds a role by ID with its permissions preloaded
	FindByID(id uint64) (*models.Role, error)

	// FindByName finds a role by name with its permissions preloaded
	FindByName(name string) (*models.Role, error)

	// List returns all roles with their permissions
	List() ([]models.Role, error)

	// ListPermissions returns the full permission catalog
	ListPermissions() ([]models.Permission, error)

	// FindPermissionsByNames returns the permission rows for the given names
	FindPermissionsByNames(names []models.PermissionName) ([]models.Permission, error)

	// ReplacePermissions replaces a role's permission set
	ReplacePermissions(role *models.Role, permissions []models.Permission) error
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// FindByID finds a project by ID
	FindByID(id uint64) (*models.Project, error)

	// ListForUser lists projects the user owns, is a member of, or has an
	// assigned task in
	ListForUser(userID uint64) ([]models.Project, error)

	// Update updates a project
	Update(project *models.Project) error

	// Delete deletes a project together with its tasks and memberships
	Delete(id uint64) error

	// AddMember adds a member to a project
	AddMember(member *models.ProjectMember) error

	// RemoveMember removes a member from a project; removing a user that is
	// not a member is a no-op
	RemoveMember(projectID, userID uint64) error

	// FindMember finds a specific project member
	FindMember(projectID, userID uint64) (*models.ProjectMember, error)

	// ListMembers lists all members of a project with users preloaded
	ListMembers(projectID uint64) ([]models.ProjectMember, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// ListByProject retrieves a project's tasks with filtering and pagination
	ListByProject(projectID uint64, filter TaskFilter) ([]models.Task, int64, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete soft deletes a task
	Delete(id uint64) error

	// HasAssignedTask reports whether the user is the assignee of any live
	// task in the project
	HasAssignedTask(projectID, userID uint64) (bool, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	Status     *models.TaskStatus
	AssigneeID *uint64
	Pagination *utils.PaginationParams
}
