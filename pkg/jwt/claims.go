package jwt

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Roles carried in the role claim
const (
	RoleAuthenticated = "authenticated"
	RoleAdmin         = "admin"
	RoleService       = "service_role"
)

// Claims represents the access token claims issued by the auth provider.
// The user id travels in the standard sub claim.
type Claims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// UserID parses the subject as a user UUID
func (c *Claims) UserID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid user ID in token: %w", err)
	}
	return id, nil
}
