package dto

import (
	"time"

	"github.com/kanbanhq/tracker-api/internal/authz"
	"github.com/kanbanhq/tracker-api/internal/models"
)

// UserDTO represents a user in resource responses
type UserDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// ProjectMemberDTO represents a member in a project
type ProjectMemberDTO struct {
	User    UserDTO   `json:"user"`
	AddedAt time.Time `json:"added_at"`
}

// ProjectDetailDTO represents a project with members and the caller's relation
type ProjectDetailDTO struct {
	Project    models.Project     `json:"project"`
	Members    []ProjectMemberDTO `json:"members"`
	YourAccess string             `json:"your_access"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}
}

// ToProjectMemberDTO converts a member to DTO
func ToProjectMemberDTO(member models.ProjectMember) ProjectMemberDTO {
	return ProjectMemberDTO{
		User:    ToUserDTO(member.User),
		AddedAt: member.AddedAt,
	}
}

// ToProjectDetailDTO converts a project with members to a detailed DTO
func ToProjectDetailDTO(project models.Project, members []models.ProjectMember, level authz.AccessLevel) ProjectDetailDTO {
	memberDTOs := make([]ProjectMemberDTO, len(members))
	for i, member := range members {
		memberDTOs[i] = ToProjectMemberDTO(member)
	}

	return ProjectDetailDTO{
		Project:    project,
		Members:    memberDTOs,
		YourAccess: level.String(),
	}
}
