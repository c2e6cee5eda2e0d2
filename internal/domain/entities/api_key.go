package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Known API key permissions
const (
	PermissionDashboard   = "dashboard"
	PermissionTranscripts = "transcripts"
	PermissionTeamStats   = "team_stats"
)

// DefaultPermissions are granted when a key is created without explicit permissions
func DefaultPermissions() map[string]bool {
	return map[string]bool{
		PermissionDashboard:   true,
		PermissionTranscripts: true,
		PermissionTeamStats:   true,
	}
}

// APIKey grants machine access to the external API. Only the sha256 hash is stored.
type APIKey struct {
	ID          uuid.UUID         `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name        string            `json:"name" gorm:"type:varchar(255);not null"`
	KeyHash     string            `json:"-" gorm:"type:varchar(64);not null;uniqueIndex"`
	KeyPrefix   string            `json:"key_prefix" gorm:"type:varchar(16);not null"`
	Permissions datatypes.JSONMap `json:"permissions" gorm:"type:jsonb;default:'{}'"`
	IsActive    bool              `json:"is_active" gorm:"not null;default:true"`
	ExpiresAt   *time.Time        `json:"expires_at,omitempty"`
	LastUsedAt  *time.Time        `json:"last_used_at,omitempty"`
	CreatedBy   *uuid.UUID        `json:"created_by,omitempty" gorm:"type:uuid"`
	CreatedAt   time.Time         `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (APIKey) TableName() string {
	return "api_keys"
}

// IsExpired checks the optional expiry against now
func (k *APIKey) IsExpired(now time.Time) bool {
	return k.ExpiresAt != nil && now.After(*k.ExpiresAt)
}

// HasPermission reports whether the permission map grants perm
func (k *APIKey) HasPermission(perm string) bool {
	if k.Permissions == nil {
		return false
	}
	v, ok := k.Permissions[perm]
	if !ok {
		return false
	}
	granted, ok := v.(bool)
	return ok && granted
}

// Usable combines the activity, expiry and permission checks
func (k *APIKey) Usable(perm string, now time.Time) bool {
	return k.IsActive && !k.IsExpired(now) && k.HasPermission(perm)
}
