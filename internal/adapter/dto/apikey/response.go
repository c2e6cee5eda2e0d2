package apikey

import "time"

// APIKeyResponse describes a key without its secret
type APIKeyResponse struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	KeyPrefix   string                 `json:"key_prefix"`
	Permissions map[string]interface{} `json:"permissions"`
	IsActive    bool                   `json:"is_active"`
	ExpiresAt   *time.Time             `json:"expires_at,omitempty"`
	LastUsedAt  *time.Time             `json:"last_used_at,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

// CreateAPIKeyResponse carries the raw key. It is shown once.
type CreateAPIKeyResponse struct {
	APIKey string          `json:"api_key"`
	Key    *APIKeyResponse `json:"key"`
}
