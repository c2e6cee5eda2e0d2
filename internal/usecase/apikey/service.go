package apikey

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/johnquangdev/meeting-notetaker/internal/domain/entities"
	"github.com/johnquangdev/meeting-notetaker/internal/domain/repositories"
	usecaseErrors "github.com/johnquangdev/meeting-notetaker/internal/usecase/errors"
	"github.com/johnquangdev/meeting-notetaker/pkg/jwt"
)

const (
	// KeyPrefix starts every generated key
	KeyPrefix = "ntr_"

	keyLength     = 32
	displayLength = 12
	alphabet      = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// Service defines the API key use case
type Service interface {
	// Create generates a key, stores its hash and returns the raw key once
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// List returns every key without hashes
	List(ctx context.Context) ([]entities.APIKey, error)
}

// CreateInput represents input for creating a key
type CreateInput struct {
	Name        string
	Permissions map[string]bool
	ExpiresAt   *time.Time
	CreatedBy   uuid.UUID
}

// CreateOutput carries the raw key. It is never stored.
type CreateOutput struct {
	RawKey string
	Key    *entities.APIKey
}

// APIKeyService implements Service
type APIKeyService struct {
	repo   repositories.APIKeyRepository
	logger *zap.Logger
}

var _ Service = (*APIKeyService)(nil)

// NewAPIKeyService creates a new API key service
func NewAPIKeyService(repo repositories.APIKeyRepository, logger *zap.Logger) *APIKeyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &APIKeyService{repo: repo, logger: logger}
}

// Create generates and stores a key
func (s *APIKeyService) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", usecaseErrors.ErrInvalidInput)
	}

	perms := input.Permissions
	if len(perms) == 0 {
		perms = entities.DefaultPermissions()
	}
	permMap := make(datatypes.JSONMap, len(perms))
	for k, v := range perms {
		permMap[k] = v
	}

	raw, err := GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate api key: %w", err)
	}

	key := &entities.APIKey{
		Name:        name,
		KeyHash:     jwt.HashToken(raw),
		KeyPrefix:   raw[:displayLength] + "...",
		Permissions: permMap,
		IsActive:    true,
		ExpiresAt:   input.ExpiresAt,
	}
	if input.CreatedBy != uuid.Nil {
		createdBy := input.CreatedBy
		key.CreatedBy = &createdBy
	}

	if err := s.repo.Create(ctx, key); err != nil {
		return nil, fmt.Errorf("failed to store api key: %w", err)
	}

	s.logger.Info("🔑 API key created",
		zap.String("api_key_id", key.ID.String()),
		zap.String("name", key.Name),
		zap.String("prefix", key.KeyPrefix),
	)
	return &CreateOutput{RawKey: raw, Key: key}, nil
}

// List returns all keys
func (s *APIKeyService) List(ctx context.Context) ([]entities.APIKey, error) {
	keys, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list api keys: %w", err)
	}
	return keys, nil
}

// GenerateKey returns KeyPrefix followed by 32 random alphanumerics
func GenerateKey() (string, error) {
	var b strings.Builder
	b.Grow(len(KeyPrefix) + keyLength)
	b.WriteString(KeyPrefix)

	max := big.NewInt(int64(len(alphabet)))
	for i := 0; i < keyLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(alphabet[n.Int64()])
	}
	return b.String(), nil
}
