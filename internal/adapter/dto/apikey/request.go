package apikey

import "time"

// CreateAPIKeyRequest represents the request to create an API key
type CreateAPIKeyRequest struct {
	Name        string          `json:"name" validate:"required,min=1,max=255"`
	Permissions map[string]bool `json:"permissions,omitempty"`
	ExpiresAt   *time.Time      `json:"expires_at,omitempty"`
}
