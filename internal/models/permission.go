package models

import "time"

// PermissionName is a capability identifier. The set of valid names is the
// closed catalog below; route declarations, the RBAC resolver, and the seeder
// all share these constants so a mistyped name cannot compile.
type PermissionName string

const (
	PermCreateProject  PermissionName = "create_project"
	PermEditProject    PermissionName = "edit_project"
	PermDeleteProject  PermissionName = "delete_project"
	PermCreateTask     PermissionName = "create_task"
	PermEditTask       PermissionName = "edit_task"
	PermDeleteTask     PermissionName = "delete_task"
	PermViewReports    PermissionName = "view_reports"
	PermViewAdminPanel PermissionName = "view_admin_panel"
	PermManageRoles    PermissionName = "manage_roles"
	PermManageUsers    PermissionName = "manage_users"
)

// AllPermissionNames returns the full permission catalog.
func AllPermissionNames() []PermissionName {
	return []PermissionName{
		PermCreateProject,
		PermEditProject,
		PermDeleteProject,
		PermCreateTask,
		PermEditTask,
		PermDeleteTask,
		PermViewReports,
		PermViewAdminPanel,
		PermManageRoles,
		PermManageUsers,
	}
}

// IsKnownPermission reports whether name belongs to the catalog.
func IsKnownPermission(name PermissionName) bool {
	for _, known := range AllPermissionNames() {
		if name == known {
			return true
		}
	}
	return false
}

type Permission struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	Name      PermissionName `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time      `json:"created_at"`

	// Relations
	Roles []Role `gorm:"many2many:role_permissions" json:"-"`
}
