package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"chirper/internal/config"
	"chirper/internal/model"
)

// TokenService issues and verifies the signed session tokens carried in the
// jwt cookie. Tokens are self-contained; nothing is stored server-side.
type TokenService struct {
	config *config.Config
}

func NewTokenService(cfg *config.Config) *TokenService {
	return &TokenService{config: cfg}
}

// Generate signs a session token for the user, valid for the configured
// session lifetime.
func (s *TokenService) Generate(userID int64) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     now.Add(time.Duration(s.config.SessionMaxAge) * time.Second).Unix(),
		"iat":     now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// Verify parses and validates a session token, returning the user ID it
// was issued for.
func (s *TokenService) Verify(tokenStr string) (int64, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, model.ErrInvalidCredentials
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, model.ErrInvalidCredentials
	}

	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return 0, model.ErrInvalidCredentials
	}

	return int64(userIDFloat), nil
}
