package repository

import (
	"github.com/kanbanhq/tracker-api/internal/models"
	"gorm.io/gorm"
)

// GormRoleRepository is a GORM implementation of RoleRepository
type GormRoleRepository struct {
	db *gorm.DB
}

// NewRoleRepository creates a new RoleRepository
func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &GormRoleRepository{db: db}
}

// FindByID finds a role by ID with its permissions preloaded
func (r *GormRoleRepository) FindByID(id uint64) (*models.Role, error) {
	var role models.Role
	if err := r.db.Preload("Permissions").First(&role, id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// FindByName finds a role by name with its permissions preloaded
func (r *GormRoleRepository) FindByName(name string) (*models.Role, error) {
	var role models.Role
	if err := r.db.Preload("Permissions").Where("name = ?", name).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// List returns all roles with their permissions
func (r *GormRoleRepository) List() ([]models.Role, error) {
	var roles []models.Role
	if err := r.db.Preload("Permissions").Order("id").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

// ListPermissions returns the full permission catalog
func (r *GormRoleRepository) ListPermissions() ([]models.Permission, error) {
	var permissions []models.Permission
	if err := r.db.Order("id").Find(&permissions).Error; err != nil {
		return nil, err
	}
	return permissions, nil
}

// FindPermissionsByNames returns the permission rows for the given names
func (r *GormRoleRepository) FindPermissionsByNames(names []models.PermissionName) ([]models.Permission, error) {
	var permissions []models.Permission
	if len(names) == 0 {
		return permissions, nil
	}
	if err := r.db.Where("name IN ?", names).Find(&permissions).Error; err != nil {
		return nil, err
	}
	return permissions, nil
}

// ReplacePermissions replaces a role's permission set
func (r *GormRoleRepository) ReplacePermissions(role *models.Role, permissions []models.Permission) error {
	return r.db.Model(role).Association("Permissions").Replace(permissions)
}
