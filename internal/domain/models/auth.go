package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// UserClaims are the JWT claims this service cares about. Subject carries
// the owner id every folder/subscription read and mutation is scoped by.
type UserClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}
