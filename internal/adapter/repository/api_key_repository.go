package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-notetaker/internal/domain/entities"
	"github.com/johnquangdev/meeting-notetaker/internal/domain/repositories"
)

// APIKeyRepository handles API key data operations
type APIKeyRepository struct {
	db *gorm.DB
}

var _ repositories.APIKeyRepository = (*APIKeyRepository)(nil)

// NewAPIKeyRepository creates a new API key repository
func NewAPIKeyRepository(db *gorm.DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

// Create stores a new key
func (r *APIKeyRepository) Create(ctx context.Context, key *entities.APIKey) error {
	if key == nil {
		return errors.New("api key cannot be nil")
	}
	return r.db.WithContext(ctx).Create(key).Error
}

// FindByHash looks a key up by its sha256 hex digest
func (r *APIKeyRepository) FindByHash(ctx context.Context, keyHash string) (*entities.APIKey, error) {
	var key entities.APIKey
	if err := r.db.WithContext(ctx).Where("key_hash = ?", keyHash).First(&key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &key, nil
}

// List returns all keys, newest first
func (r *APIKeyRepository) List(ctx context.Context) ([]entities.APIKey, error) {
	var keys []entities.APIKey
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&keys).Error; err != nil {
		return nil, err
	}
	return keys, nil
}

// TouchLastUsed records the last successful authentication
func (r *APIKeyRepository) TouchLastUsed(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&entities.APIKey{}).
		Where("id = ?", id).
		Update("last_used_at", at).Error
}
