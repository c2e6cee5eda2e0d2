package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/johnquangdev/meeting-notetaker/internal/domain/entities"
)

// APIKeyRepository defines the interface for API key data access
type APIKeyRepository interface {
	Create(ctx context.Context, key *entities.APIKey) error
	FindByHash(ctx context.Context, keyHash string) (*entities.APIKey, error)
	List(ctx context.Context) ([]entities.APIKey, error)
	TouchLastUsed(ctx context.Context, id uuid.UUID, at time.Time) error
}
