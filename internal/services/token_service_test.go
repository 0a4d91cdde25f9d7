package services

import (
	"testing"
	"time"

	"github.com/kanbanhq/tracker-api/internal/models"
	"github.com/kanbanhq/tracker-api/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type tokenTestEnv struct {
	db       *gorm.DB
	userRepo repository.UserRepository
	tokens   *TokenService
	user     *models.User
}

func setupTokenTestEnv(t *testing.T) tokenTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Permission{},
		&models.Role{},
		&models.User{},
	)
	require.NoError(t, err)

	role := &models.Role{Name: "Dev"}
	require.NoError(t, db.Create(role).Error)

	user := &models.User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hashed",
		RoleID:       role.ID,
	}
	require.NoError(t, db.Create(user).Error)

	userRepo := repository.NewUserRepository(db)
	tokens := NewTokenService(userRepo, "test-secret", time.Minute, time.Hour)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return tokenTestEnv{
		db:       db,
		userRepo: userRepo,
		tokens:   tokens,
		user:     user,
	}
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	env := setupTokenTestEnv(t)

	pair, err := env.tokens.IssuePair(env.user.ID)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	userID, err := env.tokens.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, env.user.ID, userID)
}

func TestTokenService_RefreshTokenRejectedAsAccess(t *testing.T) {
	env := setupTokenTestEnv(t)

	pair, err := env.tokens.IssuePair(env.user.ID)
	require.NoError(t, err)

	_, err = env.tokens.VerifyAccess(pair.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_VerifyAccessRejectsGarbage(t *testing.T) {
	env := setupTokenTestEnv(t)

	_, err := env.tokens.VerifyAccess("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_VerifyAccessRejectsForeignSignature(t *testing.T) {
	env := setupTokenTestEnv(t)

	other := NewTokenService(env.userRepo, "other-secret", time.Minute, time.Hour)
	pair, err := other.IssuePair(env.user.ID)
	require.NoError(t, err)

	_, err = env.tokens.VerifyAccess(pair.AccessToken)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_VerifyAccessRejectsExpired(t *testing.T) {
	env := setupTokenTestEnv(t)

	expired := NewTokenService(env.userRepo, "test-secret", -time.Minute, time.Hour)
	pair, err := expired.IssuePair(env.user.ID)
	require.NoError(t, err)

	_, err = env.tokens.VerifyAccess(pair.AccessToken)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RotateIsSingleUse(t *testing.T) {
	env := setupTokenTestEnv(t)

	pair, err := env.tokens.IssuePair(env.user.ID)
	require.NoError(t, err)

	rotated, err := env.tokens.Rotate(pair.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// The consumed token no longer occupies the slot.
	_, err = env.tokens.Rotate(pair.RefreshToken)
	require.ErrorIs(t, err, ErrSessionInvalid)

	// The replacement still works.
	_, err = env.tokens.Rotate(rotated.RefreshToken)
	require.NoError(t, err)
}

func TestTokenService_NewLoginInvalidatesOldRefreshToken(t *testing.T) {
	env := setupTokenTestEnv(t)

	first, err := env.tokens.IssuePair(env.user.ID)
	require.NoError(t, err)

	second, err := env.tokens.IssuePair(env.user.ID)
	require.NoError(t, err)

	_, err = env.tokens.Rotate(first.RefreshToken)
	require.ErrorIs(t, err, ErrSessionInvalid)

	_, err = env.tokens.Rotate(second.RefreshToken)
	require.NoError(t, err)
}

func TestTokenService_RevokeBlocksRotation(t *testing.T) {
	env := setupTokenTestEnv(t)

	pair, err := env.tokens.IssuePair(env.user.ID)
	require.NoError(t, err)

	require.NoError(t, env.tokens.Revoke(env.user.ID))

	_, err = env.tokens.Rotate(pair.RefreshToken)
	require.ErrorIs(t, err, ErrSessionInvalid)

	// Access tokens are unaffected until they expire.
	userID, err := env.tokens.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, env.user.ID, userID)
}

func TestTokenService_RotateRejectsAccessToken(t *testing.T) {
	env := setupTokenTestEnv(t)

	pair, err := env.tokens.IssuePair(env.user.ID)
	require.NoError(t, err)

	_, err = env.tokens.Rotate(pair.AccessToken)
	require.ErrorIs(t, err, ErrSessionInvalid)
}
