package apikey

import (
	"context"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-notetaker/internal/adapter/repository/memrepo"
	"github.com/johnquangdev/meeting-notetaker/internal/domain/entities"
	usecaseErrors "github.com/johnquangdev/meeting-notetaker/internal/usecase/errors"
	"github.com/johnquangdev/meeting-notetaker/pkg/jwt"
)

var keyFormat = regexp.MustCompile(`^ntr_[A-Za-z0-9]{32}$`)

func TestGenerateKey(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		k, err := GenerateKey()
		require.NoError(t, err)
		assert.Regexp(t, keyFormat, k)
		assert.False(t, seen[k])
		seen[k] = true
	}
}

func TestCreate_StoresOnlyHash(t *testing.T) {
	repo := memrepo.NewAPIKeys()
	svc := NewAPIKeyService(repo, zap.NewNop())
	admin := uuid.New()

	out, err := svc.Create(context.Background(), CreateInput{Name: " CRM sync ", CreatedBy: admin})
	require.NoError(t, err)
	assert.Regexp(t, keyFormat, out.RawKey)

	stored, err := repo.FindByHash(context.Background(), jwt.HashToken(out.RawKey))
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "CRM sync", stored.Name)
	assert.NotContains(t, stored.KeyHash, out.RawKey)
	assert.Equal(t, out.RawKey[:12]+"...", stored.KeyPrefix)
	assert.True(t, stored.IsActive)
	assert.Equal(t, admin, *stored.CreatedBy)
	assert.True(t, stored.HasPermission(entities.PermissionTranscripts))
	assert.True(t, stored.HasPermission(entities.PermissionTeamStats))
}

func TestCreate_ExplicitPermissions(t *testing.T) {
	repo := memrepo.NewAPIKeys()
	svc := NewAPIKeyService(repo, zap.NewNop())

	out, err := svc.Create(context.Background(), CreateInput{
		Name:        "dashboard only",
		Permissions: map[string]bool{entities.PermissionDashboard: true},
	})
	require.NoError(t, err)
	assert.True(t, out.Key.HasPermission(entities.PermissionDashboard))
	assert.False(t, out.Key.HasPermission(entities.PermissionTranscripts))
	assert.Nil(t, out.Key.CreatedBy)

	keys, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, keys, 1)
}

func TestCreate_RequiresName(t *testing.T) {
	svc := NewAPIKeyService(memrepo.NewAPIKeys(), zap.NewNop())
	_, err := svc.Create(context.Background(), CreateInput{Name: "   "})
	assert.ErrorIs(t, err, usecaseErrors.ErrInvalidInput)
}
