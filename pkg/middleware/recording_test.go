package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-notetaker/internal/adapter/repository/memrepo"
	"github.com/johnquangdev/meeting-notetaker/internal/domain/entities"
)

func TestRequireRecordingOwner(t *testing.T) {
	owner := uuid.New()
	rec := entities.Recording{ID: uuid.New(), UserID: &owner, Status: entities.RecordingStatusDone}
	repo := memrepo.NewRecordings(rec)

	call := func(id string, user *uuid.UUID) (*httptest.ResponseRecorder, *entities.Recording) {
		e := echo.New()
		rr := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rr)
		c.SetParamNames("id")
		c.SetParamValues(id)
		if user != nil {
			c.Set("user_id", *user)
		}
		var loaded *entities.Recording
		h := RequireRecordingOwner(repo)(func(c echo.Context) error {
			loaded, _ = GetRecording(c)
			return c.NoContent(http.StatusOK)
		})
		require.NoError(t, h(c))
		return rr, loaded
	}

	rr, loaded := call(rec.ID.String(), &owner)
	assert.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, loaded)
	assert.Equal(t, rec.ID, loaded.ID)

	stranger := uuid.New()
	rr, _ = call(rec.ID.String(), &stranger)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr, _ = call("not-a-uuid", &owner)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr, _ = call(rec.ID.String(), nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
