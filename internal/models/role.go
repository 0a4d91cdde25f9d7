package models

import "time"

// Role groups permissions and is assigned to users one-to-many.
// Roles flagged IsSystem (e.g. Admin) cannot have their permission
// set modified through the admin API.
type Role struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	IsSystem  bool      `gorm:"not null;default:false" json:"is_system"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Permissions []Permission `gorm:"many2many:role_permissions" json:"permissions,omitempty"`
	Users       []User       `gorm:"foreignKey:RoleID" json:"-"`
}
