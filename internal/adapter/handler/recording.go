package handler

import (
	"context"
	stdErrors "errors"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-notetaker/errors"
	dto "github.com/johnquangdev/meeting-notetaker/internal/adapter/dto/recording"
	"github.com/johnquangdev/meeting-notetaker/internal/adapter/presenter"
	"github.com/johnquangdev/meeting-notetaker/internal/domain/entities"
	"github.com/johnquangdev/meeting-notetaker/internal/infrastructure/http/middleware"
	usecaseErrors "github.com/johnquangdev/meeting-notetaker/internal/usecase/errors"
	recordingUsecase "github.com/johnquangdev/meeting-notetaker/internal/usecase/recording"
	pkgMiddleware "github.com/johnquangdev/meeting-notetaker/pkg/middleware"
)

// Submitter hands a finished recording to the transcription provider
type Submitter interface {
	Submit(ctx context.Context, rec *entities.Recording) (*entities.Recording, error)
}

// Recording handles the caller's recordings
type Recording struct {
	recordingService recordingUsecase.Service
	transcriber      Submitter
	logger           *zap.Logger
}

// NewRecordingHandler creates a new recording handler. A nil transcriber
// disables the transcribe endpoint.
func NewRecordingHandler(recordingService recordingUsecase.Service, transcriber Submitter, logger *zap.Logger) *Recording {
	return &Recording{
		recordingService: recordingService,
		transcriber:      transcriber,
		logger:           logger,
	}
}

// List handles GET /recordings
// @Summary      List recordings
// @Description  Lists the caller's recordings, newest first
// @Tags         Recordings
// @Produce      json
// @Security     BearerAuth
// @Param        status     query     string  false  "Status filter"
// @Param        page       query     int     false  "Page (default 1)"
// @Param        page_size  query     int     false  "Page size (default 20, max 100)"
// @Success      200        {object}  recording.RecordingListResponse
// @Failure      400        {object}  common.ErrorResponse
// @Failure      401        {object}  common.ErrorResponse
// @Router       /recordings [get]
func (h *Recording) List(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	var req dto.ListRecordingsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	input := recordingUsecase.ListInput{Page: req.Page, PageSize: req.PageSize}
	if req.Status != "" {
		status := entities.RecordingStatus(req.Status)
		input.Status = &status
	}

	recordings, total, err := h.recordingService.List(c.Request().Context(), userID, input)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	page, pageSize := input.Page, input.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	return HandleSuccess(h.logger, c, presenter.ToRecordingListResponse(recordings, total, page, pageSize))
}

// Segments handles GET /recordings/:id/segments
// @Summary      Recording segments
// @Description  Stored segments, or the transcript parsed on the fly when none are stored
// @Tags         Recordings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Recording ID (UUID)"
// @Success      200  {object}  recording.SegmentsResponse
// @Failure      404  {object}  common.ErrorResponse
// @Router       /recordings/{id}/segments [get]
func (h *Recording) Segments(c echo.Context) error {
	rec, ok := pkgMiddleware.GetRecording(c)
	if !ok {
		return HandleError(h.logger, c, errors.ErrRecordingNotFound(c.Param("id")))
	}

	segments, err := h.recordingService.Segments(c.Request().Context(), rec)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToSegmentsResponse(rec, segments))
}

// Participants handles GET /recordings/:id/participants
// @Summary      Recording participants
// @Description  Resolves participants from stored records, calendar attendees or the transcript
// @Tags         Recordings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Recording ID (UUID)"
// @Success      200  {object}  entities.ParticipantResolution
// @Failure      404  {object}  common.ErrorResponse
// @Router       /recordings/{id}/participants [get]
func (h *Recording) Participants(c echo.Context) error {
	rec, ok := pkgMiddleware.GetRecording(c)
	if !ok {
		return HandleError(h.logger, c, errors.ErrRecordingNotFound(c.Param("id")))
	}
	return HandleSuccess(h.logger, c, h.recordingService.Participants(c.Request().Context(), rec))
}

// Analysis handles GET /recordings/:id/analysis
// @Summary      Meeting deep dive
// @Description  Speaker shares, content breakdown, open questions and customer needs
// @Tags         Recordings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Recording ID (UUID)"
// @Success      200  {object}  entities.DeepDive
// @Failure      404  {object}  common.ErrorResponse
// @Router       /recordings/{id}/analysis [get]
func (h *Recording) Analysis(c echo.Context) error {
	rec, ok := pkgMiddleware.GetRecording(c)
	if !ok {
		return HandleError(h.logger, c, errors.ErrRecordingNotFound(c.Param("id")))
	}

	dive, err := h.recordingService.Analysis(c.Request().Context(), rec, ownerEmail(c))
	if err != nil {
		if stdErrors.Is(err, usecaseErrors.ErrTranscriptMissing) {
			return HandleError(h.logger, c, errors.ErrTranscriptMissing(rec.ID.String()))
		}
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, dive)
}

// Sync handles POST /recordings/:id/sync
// @Summary      Sync a recording with its bot
// @Description  Polls the bot provider; stores video and transcript once the bot is done
// @Tags         Recordings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Recording ID (UUID)"
// @Success      200  {object}  recording.SyncResponse
// @Failure      400  {object}  common.ErrorResponse
// @Failure      404  {object}  common.ErrorResponse
// @Router       /recordings/{id}/sync [post]
func (h *Recording) Sync(c echo.Context) error {
	rec, ok := pkgMiddleware.GetRecording(c)
	if !ok {
		return HandleError(h.logger, c, errors.ErrRecordingNotFound(c.Param("id")))
	}

	res, err := h.recordingService.Sync(c.Request().Context(), rec.ID)
	if err != nil {
		switch {
		case stdErrors.Is(err, usecaseErrors.ErrNoBotID):
			return HandleError(h.logger, c, errors.ErrRecordingNoBot(rec.ID.String()))
		case stdErrors.Is(err, usecaseErrors.ErrRecordingNotFound):
			return HandleError(h.logger, c, errors.ErrRecordingNotFound(rec.ID.String()))
		}
		return HandleError(h.logger, c, errors.ErrRecordingSyncFailed(rec.ID.String(), err))
	}

	return HandleSuccess(h.logger, c, &dto.SyncResponse{
		Status:    string(res.Status),
		BotStatus: res.BotStatus,
		Recording: presenter.ToRecordingResponse(res.Recording),
	})
}

// Transcribe handles POST /recordings/:id/transcribe
// @Summary      Submit a recording for transcription
// @Description  Sends the recording's video to the transcription provider
// @Tags         Recordings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Recording ID (UUID)"
// @Success      200  {object}  recording.RecordingResponse
// @Failure      400  {object}  common.ErrorResponse
// @Failure      404  {object}  common.ErrorResponse
// @Router       /recordings/{id}/transcribe [post]
func (h *Recording) Transcribe(c echo.Context) error {
	rec, ok := pkgMiddleware.GetRecording(c)
	if !ok {
		return HandleError(h.logger, c, errors.ErrRecordingNotFound(c.Param("id")))
	}
	if h.transcriber == nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("Transcription is not configured"))
	}

	updated, err := h.transcriber.Submit(c.Request().Context(), rec)
	if err != nil {
		if stdErrors.Is(err, usecaseErrors.ErrInvalidInput) {
			return HandleError(h.logger, c, err)
		}
		return HandleError(h.logger, c, errors.ErrAITranscriptionFailed(err))
	}
	return HandleSuccess(h.logger, c, presenter.ToRecordingResponse(updated))
}

// AccountAnalytics handles GET /analytics/account
// @Summary      Account analytics
// @Description  Aggregates the caller's 50 most recent finished meetings
// @Tags         Analytics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  entities.AccountAnalytics
// @Failure      401  {object}  common.ErrorResponse
// @Router       /analytics/account [get]
func (h *Recording) AccountAnalytics(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	out, err := h.recordingService.AccountAnalytics(c.Request().Context(), userID, ownerEmail(c))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, out)
}

func ownerEmail(c echo.Context) string {
	if claims, ok := middleware.GetClaims(c); ok {
		return claims.Email
	}
	return ""
}
