package auth

import (
	"github.com/J-tt/ytsm/internal/domain/models"
)

// JWTVerifier validates bearer tokens and extracts the claims this service
// scopes ownership by.
type JWTVerifier interface {
	VerifyToken(tokenString string) (*models.UserClaims, error)
	Close() error
}
