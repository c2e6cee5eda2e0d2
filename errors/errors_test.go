package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_ErrorIncludesCodeAndRaw(t *testing.T) {
	err := ErrBotAPIFailed("get bot", fmt.Errorf("status 503"))
	assert.Equal(t, "[INTEGRATION_BOT_API_FAILED] Bot API call failed: get bot: status 503", err.Error())
	assert.Equal(t, http.StatusBadGateway, err.HTTPCode)
}

func TestAppError_WithDetailDoesNotMutateOriginal(t *testing.T) {
	base := ErrInvalidPayload()
	withDetail := base.WithDetail("field", "title")

	assert.Nil(t, base.Details)
	assert.Equal(t, "title", withDetail.Details["field"])
}

func TestAppError_AsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", ErrRecordingNotFound("rec-1"))

	var appErr AppError
	assert.True(t, stdErrors.As(wrapped, &appErr))
	assert.Equal(t, ErrorCode_RECORDING_NOT_FOUND, appErr.Code)
	assert.Equal(t, "rec-1", appErr.Details["recording_id"])
}

func TestMissingRequiredFields(t *testing.T) {
	err := ErrMissingRequiredFields("meeting_id", "start_time")
	assert.Equal(t, http.StatusBadRequest, err.HTTPCode)
	assert.Len(t, err.Details, 2)
}

func TestErrorCode_String(t *testing.T) {
	assert.Equal(t, "HTTP_OK", ErrorCode_HTTP_OK.String())
	assert.Equal(t, "UNKNOWN", ErrorCode(42).String())
}
