package middleware

import (
	stdErrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/johnquangdev/meeting-notetaker/errors"
	"github.com/johnquangdev/meeting-notetaker/internal/adapter/repository/memrepo"
	"github.com/johnquangdev/meeting-notetaker/internal/domain/entities"
	"github.com/johnquangdev/meeting-notetaker/pkg/jwt"
)

func run(t *testing.T, req *http.Request, mws ...echo.MiddlewareFunc) (echo.Context, error) {
	t.Helper()
	e := echo.New()
	c := e.NewContext(req, httptest.NewRecorder())

	h := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return c, h(c)
}

func appCode(t *testing.T, err error) errors.ErrorCode {
	t.Helper()
	var appErr errors.AppError
	require.True(t, stdErrors.As(err, &appErr), "expected AppError, got %v", err)
	return appErr.Code
}

func TestEchoAuth(t *testing.T) {
	manager := jwt.NewManager("secret", "", time.Hour)
	userID := uuid.New()
	token, err := manager.GenerateAccessToken(userID, "anna@example.com", jwt.RoleAuthenticated)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	c, err := run(t, req, EchoAuth(manager))
	require.NoError(t, err)

	got, ok := GetUserID(c)
	require.True(t, ok)
	assert.Equal(t, userID, got)

	_, err = run(t, httptest.NewRequest(http.MethodGet, "/", nil), EchoAuth(manager))
	assert.Equal(t, errors.ErrorCode_UNAUTHENTICATED, appCode(t, err))

	bad := httptest.NewRequest(http.MethodGet, "/", nil)
	bad.Header.Set("Authorization", "Bearer nope")
	_, err = run(t, bad, EchoAuth(manager))
	assert.Equal(t, errors.ErrorCode_AUTH_INVALID_TOKEN, appCode(t, err))
}

func TestEchoAuth_Expired(t *testing.T) {
	expired, err := jwt.NewManager("secret", "", -time.Minute).GenerateAccessToken(uuid.New(), "", jwt.RoleAuthenticated)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	_, err = run(t, req, EchoAuth(jwt.NewManager("secret", "", time.Hour)))
	assert.Equal(t, errors.ErrorCode_AUTH_TOKEN_EXPIRED, appCode(t, err))
}

func TestRequireRole(t *testing.T) {
	manager := jwt.NewManager("secret", "", time.Hour)
	token, err := manager.GenerateAccessToken(uuid.New(), "", jwt.RoleAuthenticated)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	_, err = run(t, req, EchoAuth(manager), RequireRole(jwt.RoleAdmin))
	assert.Equal(t, errors.ErrorCode_FORBIDDEN, appCode(t, err))

	admin, err := manager.GenerateAccessToken(uuid.New(), "", jwt.RoleAdmin)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+admin)
	_, err = run(t, req, EchoAuth(manager), RequireRole(jwt.RoleAdmin, jwt.RoleService))
	assert.NoError(t, err)
}

func TestAPIKeyAuth(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	keys := memrepo.NewAPIKeys(
		entities.APIKey{ID: uuid.New(), KeyHash: jwt.HashToken("ntr_good"), IsActive: true,
			Permissions: datatypes.JSONMap{entities.PermissionTranscripts: true}},
		entities.APIKey{ID: uuid.New(), KeyHash: jwt.HashToken("ntr_inactive"), IsActive: false,
			Permissions: datatypes.JSONMap{entities.PermissionTranscripts: true}},
		entities.APIKey{ID: uuid.New(), KeyHash: jwt.HashToken("ntr_expired"), IsActive: true, ExpiresAt: &past,
			Permissions: datatypes.JSONMap{entities.PermissionTranscripts: true}},
		entities.APIKey{ID: uuid.New(), KeyHash: jwt.HashToken("ntr_noperm"), IsActive: true,
			Permissions: datatypes.JSONMap{entities.PermissionTranscripts: "yes"}},
	)
	mw := APIKeyAuth(keys, entities.PermissionTranscripts, zap.NewNop())

	withKey := func(k string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if k != "" {
			req.Header.Set(HeaderAPIKey, k)
		}
		return req
	}

	c, err := run(t, withKey("ntr_good"), mw)
	require.NoError(t, err)
	key, ok := GetAPIKey(c)
	require.True(t, ok)
	stored, _ := keys.List(c.Request().Context())
	assert.NotNil(t, stored[0].LastUsedAt)
	assert.Equal(t, stored[0].ID, key.ID)

	for _, k := range []string{"", "ntr_unknown", "ntr_inactive", "ntr_expired"} {
		_, err := run(t, withKey(k), mw)
		assert.Equal(t, errors.ErrorCode_AUTH_INVALID_API_KEY, appCode(t, err), k)
	}

	_, err = run(t, withKey("ntr_noperm"), mw)
	assert.Equal(t, errors.ErrorCode_PERMISSION_DENIED, appCode(t, err))
}

func TestExportSecret(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set(HeaderExportSecret, "s3cret")
	_, err := run(t, req, ExportSecret("s3cret"))
	assert.NoError(t, err)

	req = httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set(HeaderExportSecret, "wrong")
	_, err = run(t, req, ExportSecret("s3cret"))
	assert.Equal(t, errors.ErrorCode_AUTH_INVALID_SECRET, appCode(t, err))

	_, err = run(t, httptest.NewRequest(http.MethodPost, "/", nil), ExportSecret(""))
	assert.Error(t, err)
}
