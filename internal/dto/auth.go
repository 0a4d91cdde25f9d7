package dto

import "github.com/kanbanhq/tracker-api/internal/models"

// Auth payloads use the camelCase field names the SPA frontend contract
// expects; resource endpoints keep the snake_case model tags.

// RegisteredUserDTO is the user summary returned after registration
type RegisteredUserDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// RegisterResponse is the body returned by POST /auth/register
type RegisterResponse struct {
	Message string            `json:"message"`
	User    RegisteredUserDTO `json:"user"`
}

// AuthUserDTO is the user payload returned on login and /auth/me
type AuthUserDTO struct {
	ID          uint64                  `json:"id"`
	Username    string                  `json:"username"`
	Email       string                  `json:"email"`
	Role        string                  `json:"role"`
	Permissions []models.PermissionName `json:"permissions"`
}

// LoginResponse is the body returned by POST /auth/login
type LoginResponse struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	User         AuthUserDTO `json:"user"`
}

// ToRegisterResponse builds the registration response body
func ToRegisterResponse(user models.User) RegisterResponse {
	return RegisterResponse{
		Message: "User registered successfully",
		User: RegisteredUserDTO{
			ID:       user.ID,
			Username: user.Username,
			Role:     user.Role.Name,
		},
	}
}

// ToAuthUserDTO builds the authenticated user payload
func ToAuthUserDTO(user models.User, permissions []models.PermissionName) AuthUserDTO {
	if permissions == nil {
		permissions = []models.PermissionName{}
	}
	return AuthUserDTO{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		Role:        user.Role.Name,
		Permissions: permissions,
	}
}
