package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/kanbanhq/tracker-api/internal/repository"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrSessionInvalid = errors.New("session is no longer valid")
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// TokenPair holds a freshly issued access/refresh token pair.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Claims are the signed claims carried by both token types.
type Claims struct {
	UserID    uint64 `json:"user_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed tokens and maintains the single
// refresh token slot stored on the user row. Rotation swaps the slot with a
// conditional update, so of two concurrent rotations only one token pair
// survives; the losing client must log in again.
type TokenService struct {
	userRepo   repository.UserRepository
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenService creates a new TokenService.
func NewTokenService(userRepo repository.UserRepository, secret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		userRepo:   userRepo,
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (s *TokenService) sign(userID uint64, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			// Unique ID so two tokens signed in the same second never collide;
			// rotation depends on old and new refresh tokens being distinct.
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *TokenService) parse(tokenString, wantType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != wantType {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// IssuePair signs a new access/refresh pair and stores the refresh token on
// the user row, replacing whatever was there. A login on a second device
// therefore invalidates the first device's refresh capability at its next
// rotation attempt.
func (s *TokenService) IssuePair(userID uint64) (*TokenPair, error) {
	accessToken, err := s.sign(userID, tokenTypeAccess, s.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshToken, err := s.sign(userID, tokenTypeRefresh, s.refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	if err := s.userRepo.SetRefreshToken(userID, &refreshToken); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// VerifyAccess verifies an access token and returns the user ID it carries.
func (s *TokenService) VerifyAccess(tokenString string) (uint64, error) {
	claims, err := s.parse(tokenString, tokenTypeAccess)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}

// Rotate exchanges a refresh token for a new pair. The presented token must
// both verify and still occupy the user's slot; the swap is conditional, so
// a token that has already been rotated (or revoked) fails permanently.
func (s *TokenService) Rotate(refreshToken string) (*TokenPair, error) {
	claims, err := s.parse(refreshToken, tokenTypeRefresh)
	if err != nil {
		return nil, ErrSessionInvalid
	}

	accessToken, err := s.sign(claims.UserID, tokenTypeAccess, s.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	newRefreshToken, err := s.sign(claims.UserID, tokenTypeRefresh, s.refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	swapped, err := s.userRepo.SwapRefreshToken(claims.UserID, refreshToken, newRefreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}
	if !swapped {
		return nil, ErrSessionInvalid
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: newRefreshToken}, nil
}

// Revoke clears the user's refresh token slot. Outstanding access tokens
// stay valid until expiry; rotation attempts fail immediately.
func (s *TokenService) Revoke(userID uint64) error {
	return s.userRepo.SetRefreshToken(userID, nil)
}
