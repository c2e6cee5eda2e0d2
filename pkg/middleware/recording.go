package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/meeting-notetaker/errors"
	"github.com/johnquangdev/meeting-notetaker/internal/domain/entities"
	"github.com/johnquangdev/meeting-notetaker/internal/domain/repositories"
)

// RecordingKey is the Echo context key holding the loaded *entities.Recording
const RecordingKey = "recording"

type errBody struct {
	Code    errors.ErrorCode `json:"code"`
	Message string           `json:"message"`
}

// RequireRecordingOwner loads the recording named by :id and only lets its owner through
func RequireRecordingOwner(repo repositories.RecordingRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			recordingID, err := uuid.Parse(c.Param("id"))
			if err != nil {
				return c.JSON(http.StatusBadRequest, errBody{
					Code:    errors.ErrorCode_INVALID_ARGUMENT,
					Message: "recording ID must be a valid UUID",
				})
			}
			userID, ok := c.Get("user_id").(uuid.UUID)
			if !ok {
				return c.JSON(http.StatusUnauthorized, errBody{
					Code:    errors.ErrorCode_UNAUTHENTICATED,
					Message: "user not authenticated",
				})
			}
			recording, err := repo.FindByID(c.Request().Context(), recordingID)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, errBody{
					Code:    errors.ErrorCode_DB_QUERY_FAILED,
					Message: "failed to load recording",
				})
			}
			// Foreign recordings look missing rather than forbidden.
			if recording == nil || recording.UserID == nil || *recording.UserID != userID {
				return c.JSON(http.StatusNotFound, errBody{
					Code:    errors.ErrorCode_RECORDING_NOT_FOUND,
					Message: "recording not found",
				})
			}
			c.Set(RecordingKey, recording)
			return next(c)
		}
	}
}

// GetRecording returns the recording loaded by RequireRecordingOwner
func GetRecording(c echo.Context) (*entities.Recording, bool) {
	recording, ok := c.Get(RecordingKey).(*entities.Recording)
	return recording, ok
}
