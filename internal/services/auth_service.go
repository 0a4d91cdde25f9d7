package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kanbanhq/tracker-api/internal/constants"
	"github.com/kanbanhq/tracker-api/internal/models"
	"github.com/kanbanhq/tracker-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUsernameTaken        = errors.New("username already exists")
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrUserNotFound         = errors.New("user not found")
	ErrRoleLookupFailed     = errors.New("failed to resolve role for position")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles registration, credential verification, and session
// lifecycle on top of the token service.
type AuthService struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
	tokens   *TokenService
	rbac     *RBACService
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, roleRepo repository.RoleRepository, tokens *TokenService, rbac *RBACService) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		roleRepo: roleRepo,
		tokens:   tokens,
		rbac:     rbac,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
	Position  string
}

// Register creates a new user with a role derived from their position, or
// the default role when no position is given.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	email := strings.TrimSpace(strings.ToLower(input.Email))
	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	roleName := strings.TrimSpace(input.Position)
	if roleName == "" {
		roleName = constants.DefaultRoleName
	}
	role, err := s.roleRepo.FindByName(roleName)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrRoleLookupFailed, roleName)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Phone:        input.Phone,
		Position:     input.Position,
		RoleID:       role.ID,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	user.Role = *role
	return user, nil
}

// LoginInput holds the credentials for authentication. Identifier matches
// either username or email.
type LoginInput struct {
	Identifier string
	Password   string
}

// LoginResult bundles everything the client needs after authenticating.
type LoginResult struct {
	User        *models.User
	Tokens      *TokenPair
	Permissions []models.PermissionName
}

// Login verifies credentials, issues a token pair, and resolves the user's
// current permission set.
func (s *AuthService) Login(input LoginInput) (*LoginResult, error) {
	user, err := s.userRepo.FindByIdentifier(input.Identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	tokens, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}

	permissions, err := s.rbac.EffectivePermissions(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve permissions: %w", err)
	}

	names := make([]models.PermissionName, 0, len(permissions))
	for name := range permissions {
		names = append(names, name)
	}

	if role, err := s.roleRepo.FindByID(user.RoleID); err == nil {
		user.Role = *role
	}

	return &LoginResult{User: user, Tokens: tokens, Permissions: names}, nil
}

// Refresh rotates a refresh token into a new pair.
func (s *AuthService) Refresh(refreshToken string) (*TokenPair, error) {
	return s.tokens.Rotate(refreshToken)
}

// Logout revokes the user's refresh token.
func (s *AuthService) Logout(userID uint64) error {
	return s.tokens.Revoke(userID)
}

// GetUser retrieves a user by ID with their role preloaded.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByIDWithRole(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}
