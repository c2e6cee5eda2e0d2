package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-notetaker/errors"
	dto "github.com/johnquangdev/meeting-notetaker/internal/adapter/dto/recording"
	"github.com/johnquangdev/meeting-notetaker/internal/adapter/presenter"
	"github.com/johnquangdev/meeting-notetaker/internal/domain/entities"
	recordingUsecase "github.com/johnquangdev/meeting-notetaker/internal/usecase/recording"
)

// External serves machine clients authenticated by API key
type External struct {
	recordingService recordingUsecase.Service
	logger           *zap.Logger
	now              func() time.Time
}

// NewExternalHandler creates a new external API handler
func NewExternalHandler(recordingService recordingUsecase.Service, logger *zap.Logger) *External {
	return &External{
		recordingService: recordingService,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// Transcripts handles GET /api/transcripts
// @Summary      List transcripts
// @Description  Recordings with transcript text, newest first. Summary, key points and action items are only included with include_analysis=true.
// @Tags         External
// @Produce      json
// @Security     ApiKeyAuth
// @Param        since             query     string  false  "RFC 3339 lower bound on created_at"
// @Param        user_id           query     string  false  "Owner UUID"
// @Param        status            query     string  false  "Status (default done)"
// @Param        limit             query     int     false  "Limit (default 100, max 500)"
// @Param        include_analysis  query     bool    false  "Include AI outputs"
// @Success      200               {object}  recording.ExternalTranscriptsResponse
// @Failure      400               {object}  common.ErrorResponse
// @Failure      401               {object}  common.ErrorResponse
// @Failure      403               {object}  common.ErrorResponse
// @Router       /api/transcripts [get]
func (h *External) Transcripts(c echo.Context) error {
	var req dto.ExternalTranscriptsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	query := recordingUsecase.TranscriptQuery{
		Status: entities.RecordingStatus(req.Status),
		Limit:  req.Limit,
	}
	if req.Since != "" {
		since, err := time.Parse(time.RFC3339, req.Since)
		if err != nil {
			return HandleError(h.logger, c, errors.ErrInvalidArgument("since must be an RFC 3339 timestamp"))
		}
		query.Since = &since
	}
	if req.UserID != "" {
		userID, err := uuid.Parse(req.UserID)
		if err != nil {
			return HandleError(h.logger, c, errors.ErrInvalidArgument("user_id must be a valid UUID"))
		}
		query.UserID = &userID
	}

	recordings, err := h.recordingService.Transcripts(c.Request().Context(), query)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToExternalTranscriptsResponse(recordings, req.IncludeAnalysis, h.now()))
}
