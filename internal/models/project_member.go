package models

import "time"

// ProjectMember is an invited member of a project. The owner is not stored
// here; ownership lives on Project.OwnerID. The composite primary key makes
// duplicate invitations a storage-level conflict rather than a best-effort
// application check.
type ProjectMember struct {
	ProjectID uint64    `gorm:"primarykey" json:"project_id"`
	UserID    uint64    `gorm:"primarykey" json:"user_id"`
	AddedAt   time.Time `json:"added_at"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
