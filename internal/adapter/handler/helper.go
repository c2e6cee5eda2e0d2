package handler

import (
	stdErrors "errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-notetaker/errors"
	usecaseErrors "github.com/johnquangdev/meeting-notetaker/internal/usecase/errors"
)

// Response shapes
type success struct {
	Code    interface{} `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type errs struct {
	Code    interface{}       `json:"code,omitempty"`
	Message string            `json:"message,omitempty"`
	Info    string            `json:"info,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// getRequestID tries to read X-Request-ID from the request
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}

// HandleSuccess writes a standardized success response using provided logger
func HandleSuccess(logger *zap.Logger, c echo.Context, data interface{}) error {
	resp := success{
		Code:    int(errors.ErrorCode_HTTP_OK),
		Message: "success",
		Data:    data,
	}

	if logger != nil {
		logger.Debug("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
		)
	}

	return c.JSON(http.StatusOK, resp)
}

// HandleError centralizes error handling and logging using provided logger
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	reqID := getRequestID(c)
	appErr, ok := toAppError(err)

	if logger != nil {
		fields := []zap.Field{
			zap.String("request_id", reqID),
			zap.String("path", c.Path()),
			zap.Error(err),
		}
		if ok {
			fields = append(fields, zap.String("app_code", appErr.Code.String()))
		}
		if appErr.HTTPCode >= http.StatusInternalServerError {
			logger.Error("http.response.error", fields...)
		} else {
			logger.Warn("http.response.error", fields...)
		}
	}

	info := ""
	if appErr.Raw != nil {
		info = appErr.Raw.Error()
	}

	return c.JSON(appErr.HTTPCode, errs{
		Code:    appErr.Code,
		Message: appErr.Message,
		Info:    info,
		Details: appErr.Details,
	})
}

// HTTPErrorHandler renders errors returned from middlewares and handlers that
// did not write a response themselves
func HTTPErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		if herr := HandleError(logger, c, err); herr != nil && logger != nil {
			logger.Error("failed to write error response", zap.Error(herr))
		}
	}
}

// toAppError maps any error to an AppError. The bool is false for errors that
// fell through to the internal error.
func toAppError(err error) (errors.AppError, bool) {
	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		return appErr, true
	}

	var httpErr *echo.HTTPError
	if stdErrors.As(err, &httpErr) {
		return errors.AppError{
			Raw:      httpErr.Internal,
			HTTPCode: httpErr.Code,
			Code:     codeForStatus(httpErr.Code),
			Message:  fmt.Sprint(httpErr.Message),
		}, true
	}

	mapped, ok := fromUsecase(err)
	if !ok {
		return errors.ErrInternal(err), false
	}
	mapped.Raw = err
	return mapped, true
}

func fromUsecase(err error) (errors.AppError, bool) {
	switch {
	case stdErrors.Is(err, usecaseErrors.ErrRecordingNotFound):
		return errors.ErrRecordingNotFound(""), true
	case stdErrors.Is(err, usecaseErrors.ErrNoBotID):
		return errors.ErrRecordingNoBot(""), true
	case stdErrors.Is(err, usecaseErrors.ErrTranscriptMissing):
		return errors.ErrTranscriptMissing(""), true
	case stdErrors.Is(err, usecaseErrors.ErrBotAPI):
		return errors.ErrBotAPIFailed("bot", nil), true
	case stdErrors.Is(err, usecaseErrors.ErrExportNotConfigured):
		return errors.ErrExportFailed(nil), true
	case stdErrors.Is(err, usecaseErrors.ErrMissingRecordingID):
		return errors.ErrMissingRequiredFields("recording_id"), true
	case stdErrors.Is(err, usecaseErrors.ErrInvalidSignature):
		return errors.ErrInvalidSignature(), true
	case stdErrors.Is(err, usecaseErrors.ErrMissingFields):
		return errors.ErrMissingRequiredFields(), true
	case stdErrors.Is(err, usecaseErrors.ErrNoMeetingURL):
		return errors.ErrNoMeetingURL(""), true
	case stdErrors.Is(err, usecaseErrors.ErrUnknownTranscription):
		return errors.ErrNotFound("Transcription job"), true
	case stdErrors.Is(err, usecaseErrors.ErrWebhookState):
		return errors.ErrCacheFailed("webhook dedupe", nil), true
	case stdErrors.Is(err, usecaseErrors.ErrTranscriptionFailed):
		return errors.ErrAITranscriptionFailed(nil), true
	case stdErrors.Is(err, usecaseErrors.ErrInvalidInput):
		return errors.ErrInvalidArgument("Invalid input"), true
	case stdErrors.Is(err, usecaseErrors.ErrUnauthorized):
		return errors.ErrUnauthenticated(), true
	case stdErrors.Is(err, usecaseErrors.ErrNotFound):
		return errors.ErrNotFound("Resource"), true
	}
	return errors.AppError{}, false
}

func codeForStatus(status int) errors.ErrorCode {
	switch status {
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge, http.StatusUnsupportedMediaType:
		return errors.ErrorCode_INVALID_ARGUMENT
	case http.StatusUnauthorized:
		return errors.ErrorCode_UNAUTHENTICATED
	case http.StatusForbidden:
		return errors.ErrorCode_FORBIDDEN
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return errors.ErrorCode_NOT_FOUND
	}
	return errors.ErrorCode_INTERNAL
}

// bindAndValidate binds the request into req and runs the struct validator
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		appErr := errors.ErrInvalidPayload()
		appErr.Raw = err
		return appErr
	}
	if err := c.Validate(req); err != nil {
		appErr := errors.ErrInvalidArgument("Validation failed")
		appErr.Raw = err
		return appErr
	}
	return nil
}
