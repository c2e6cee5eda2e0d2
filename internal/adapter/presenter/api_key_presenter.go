package presenter

import (
	"github.com/johnquangdev/meeting-notetaker/internal/adapter/dto/apikey"
	"github.com/johnquangdev/meeting-notetaker/internal/domain/entities"
)

// ToAPIKeyResponse converts an APIKey entity to a DTO without the hash
func ToAPIKeyResponse(k *entities.APIKey) *apikey.APIKeyResponse {
	if k == nil {
		return nil
	}
	perms := map[string]interface{}(k.Permissions)
	if perms == nil {
		perms = map[string]interface{}{}
	}
	return &apikey.APIKeyResponse{
		ID:          k.ID.String(),
		Name:        k.Name,
		KeyPrefix:   k.KeyPrefix,
		Permissions: perms,
		IsActive:    k.IsActive,
		ExpiresAt:   k.ExpiresAt,
		LastUsedAt:  k.LastUsedAt,
		CreatedAt:   k.CreatedAt,
	}
}

// ToAPIKeyListResponse converts a list of keys
func ToAPIKeyListResponse(keys []entities.APIKey) []*apikey.APIKeyResponse {
	out := make([]*apikey.APIKeyResponse, len(keys))
	for i := range keys {
		out[i] = ToAPIKeyResponse(&keys[i])
	}
	return out
}
