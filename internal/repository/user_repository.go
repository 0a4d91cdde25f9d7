package repository

import (
	"github.com/kanbanhq/tracker-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIDWithRole finds a user by ID with the role and its permissions preloaded
func (r *GormUserRepository) FindByIDWithRole(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.Preload("Role.Permissions").First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername finds a user by username
func (r *GormUserRepository) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIdentifier finds a user by username or email
func (r *GormUserRepository) FindByIdentifier(identifier string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ? OR email = ?", identifier, identifier).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// SetRefreshToken stores or clears the user's refresh token slot
func (r *GormUserRepository) SetRefreshToken(userID uint64, token *string) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("refresh_token", token).Error
}

// SwapRefreshToken replaces the stored refresh token only when it still equals
// oldToken. Concurrent rotations race on this condition; the loser observes
// zero affected rows and must re-authenticate.
func (r *GormUserRepository) SwapRefreshToken(userID uint64, oldToken, newToken string) (bool, error) {
	result := r.db.Model(&models.User{}).
		Where("id = ? AND refresh_token = ?", userID, oldToken).
		Update("refresh_token", newToken)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
