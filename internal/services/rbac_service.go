package services

import (
	"errors"
	"fmt"

	"github.com/kanbanhq/tracker-api/internal/models"
	"github.com/kanbanhq/tracker-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrRoleNotFound      = errors.New("role not found")
	ErrProtectedRole     = errors.New("system roles cannot be modified")
	ErrUnknownPermission = errors.New("unknown permission name")
)

// RBACService resolves a user's effective permissions and manages the
// role-permission assignment. Permission state is read from storage on every
// call; nothing is cached between requests, so role edits take effect on the
// next request a user makes.
type RBACService struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
}

// NewRBACService creates a new RBACService.
func NewRBACService(userRepo repository.UserRepository, roleRepo repository.RoleRepository) *RBACService {
	return &RBACService{
		userRepo: userRepo,
		roleRepo: roleRepo,
	}
}

// EffectivePermissions returns the set of permission names granted to the
// user through their role. A missing user or unresolvable role yields an
// empty set rather than an error.
func (s *RBACService) EffectivePermissions(userID uint64) (map[models.PermissionName]struct{}, error) {
	permissions := make(map[models.PermissionName]struct{})

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return permissions, nil
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	role, err := s.roleRepo.FindByID(user.RoleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return permissions, nil
		}
		return nil, fmt.Errorf("failed to find role: %w", err)
	}

	for _, perm := range role.Permissions {
		permissions[perm.Name] = struct{}{}
	}

	return permissions, nil
}

// HasPermission reports whether the user currently holds the permission.
func (s *RBACService) HasPermission(userID uint64, name models.PermissionName) (bool, error) {
	permissions, err := s.EffectivePermissions(userID)
	if err != nil {
		return false, err
	}
	_, ok := permissions[name]
	return ok, nil
}

// ListRoles returns all roles with their permissions.
func (s *RBACService) ListRoles() ([]models.Role, error) {
	roles, err := s.roleRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	return roles, nil
}

// ListPermissions returns the permission catalog.
func (s *RBACService) ListPermissions() ([]models.Permission, error) {
	permissions, err := s.roleRepo.ListPermissions()
	if err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}
	return permissions, nil
}

// UpdateRolePermissions replaces a role's permission set. Roles flagged as
// system are rejected for every caller, including ones that hold every
// permission themselves.
func (s *RBACService) UpdateRolePermissions(roleID uint64, names []models.PermissionName) (*models.Role, error) {
	seen := make(map[models.PermissionName]struct{}, len(names))
	unique := make([]models.PermissionName, 0, len(names))
	for _, name := range names {
		if !models.IsKnownPermission(name) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPermission, name)
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		unique = append(unique, name)
	}

	role, err := s.roleRepo.FindByID(roleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("failed to find role: %w", err)
	}

	if role.IsSystem {
		return nil, ErrProtectedRole
	}

	permissions, err := s.roleRepo.FindPermissionsByNames(unique)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve permissions: %w", err)
	}
	if len(permissions) != len(unique) {
		return nil, ErrUnknownPermission
	}

	if err := s.roleRepo.ReplacePermissions(role, permissions); err != nil {
		return nil, fmt.Errorf("failed to replace permissions: %w", err)
	}

	return s.roleRepo.FindByID(roleID)
}
