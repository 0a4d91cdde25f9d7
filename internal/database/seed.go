package database

import (
	"fmt"
	"log"

	"github.com/kanbanhq/tracker-api/internal/models"
	"gorm.io/gorm"
)

// roleSeed describes a default role and the permissions it starts with.
type roleSeed struct {
	name        string
	isSystem    bool
	permissions []models.PermissionName
}

func defaultRoles() []roleSeed {
	return []roleSeed{
		{
			name:        "Admin",
			isSystem:    true,
			permissions: models.AllPermissionNames(),
		},
		{
			name: "Manager",
			permissions: []models.PermissionName{
				models.PermCreateProject,
				models.PermEditProject,
				models.PermDeleteProject,
				models.PermCreateTask,
				models.PermEditTask,
				models.PermDeleteTask,
				models.PermViewReports,
			},
		},
		{
			name: "Dev",
			permissions: []models.PermissionName{
				models.PermCreateProject,
				models.PermCreateTask,
				models.PermEditTask,
				models.PermViewReports,
			},
		},
	}
}

// Seed inserts the permission catalog and default roles. Safe to run on every
// boot: existing permissions are left alone, and a role's permission set is
// only populated when the role is first created, so later admin edits to
// non-system roles survive restarts.
func Seed(db *gorm.DB) error {
	byName := make(map[models.PermissionName]models.Permission)
	for _, name := range models.AllPermissionNames() {
		perm := models.Permission{Name: name}
		if err := db.Where(models.Permission{Name: name}).FirstOrCreate(&perm).Error; err != nil {
			return fmt.Errorf("failed to seed permission %q: %w", name, err)
		}
		byName[name] = perm
	}

	for _, seed := range defaultRoles() {
		role := models.Role{Name: seed.name, IsSystem: seed.isSystem}
		result := db.Where(models.Role{Name: seed.name}).FirstOrCreate(&role)
		if result.Error != nil {
			return fmt.Errorf("failed to seed role %q: %w", seed.name, result.Error)
		}
		if result.RowsAffected == 0 {
			continue
		}

		perms := make([]models.Permission, 0, len(seed.permissions))
		for _, name := range seed.permissions {
			perms = append(perms, byName[name])
		}
		if err := db.Model(&role).Association("Permissions").Replace(perms); err != nil {
			return fmt.Errorf("failed to attach permissions to role %q: %w", seed.name, err)
		}
		log.Printf("Seeded role %q with %d permissions", seed.name, len(perms))
	}

	return nil
}
