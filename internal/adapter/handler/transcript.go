package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-notetaker/errors"
	dto "github.com/johnquangdev/meeting-notetaker/internal/adapter/dto/transcript"
	"github.com/johnquangdev/meeting-notetaker/internal/infrastructure/observability/metrics"
	"github.com/johnquangdev/meeting-notetaker/internal/usecase/export"
	"github.com/johnquangdev/meeting-notetaker/internal/usecase/transcript"
)

// Transcript handles transcript parsing and the export endpoints
type Transcript struct {
	exportService export.Service
	logger        *zap.Logger
	metrics       *metrics.Metrics
}

// NewTranscriptHandler creates a new transcript handler
func NewTranscriptHandler(exportService export.Service, logger *zap.Logger, m *metrics.Metrics) *Transcript {
	return &Transcript{
		exportService: exportService,
		logger:        logger,
		metrics:       m,
	}
}

// Parse handles POST /transcripts/parse
// @Summary      Segment a transcript
// @Description  Splits raw transcript text into speaker segments
// @Tags         Transcripts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      transcript.ParseRequest  true  "Transcript text"
// @Success      200      {object}  transcript.ParseResponse
// @Failure      400      {object}  common.ErrorResponse
// @Router       /transcripts/parse [post]
func (h *Transcript) Parse(c echo.Context) error {
	var req dto.ParseRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	res := transcript.Parse(req.TranscriptText)
	if h.metrics != nil {
		h.metrics.TranscriptsParsed.WithLabelValues(string(res.Format)).Inc()
	}

	return HandleSuccess(h.logger, c, &dto.ParseResponse{
		Segments: res.Segments,
		Speakers: transcript.Speakers(res.Segments),
		Format:   string(res.Format),
	})
}

// Receive handles POST /transcripts/receive
// @Summary      Receive an exported recording
// @Description  Upserts a recording by recording_id and replaces its segments
// @Tags         Transcripts
// @Accept       json
// @Produce      json
// @Param        X-Export-Secret  header    string           true  "Shared export secret"
// @Param        request          body      export.Document  true  "Exported recording"
// @Success      200              {object}  export.ReceiveResult
// @Failure      400              {object}  common.ErrorResponse
// @Failure      401              {object}  common.ErrorResponse
// @Router       /transcripts/receive [post]
func (h *Transcript) Receive(c echo.Context) error {
	var doc export.Document
	if err := c.Bind(&doc); err != nil {
		appErr := errors.ErrInvalidPayload()
		appErr.Raw = err
		return HandleError(h.logger, c, appErr)
	}
	if doc.RecordingID == "" {
		return HandleError(h.logger, c, errors.ErrMissingRequiredFields("recording_id"))
	}
	if err := c.Validate(&doc); err != nil {
		appErr := errors.ErrInvalidArgument("Validation failed")
		appErr.Raw = err
		return HandleError(h.logger, c, appErr)
	}

	res, err := h.exportService.Receive(c.Request().Context(), doc)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, res)
}

// Export handles POST /transcripts/export
// @Summary      Bulk export finished recordings
// @Description  Posts done recordings to the configured export URL, oldest first
// @Tags         Transcripts
// @Accept       json
// @Produce      json
// @Param        X-Export-Secret  header    string                    true   "Shared export secret"
// @Param        request          body      transcript.ExportRequest  false  "Selection"
// @Success      200              {object}  export.BulkResult
// @Failure      401              {object}  common.ErrorResponse
// @Failure      500              {object}  common.ErrorResponse
// @Router       /transcripts/export [post]
func (h *Transcript) Export(c echo.Context) error {
	var req dto.ExportRequest
	if c.Request().ContentLength != 0 {
		if err := bindAndValidate(c, &req); err != nil {
			return HandleError(h.logger, c, err)
		}
	}

	input := export.BulkInput{Limit: req.Limit, Since: req.Since}
	if req.UserID != nil && *req.UserID != "" {
		userID, err := uuid.Parse(*req.UserID)
		if err != nil {
			return HandleError(h.logger, c, errors.ErrInvalidArgument("user_id must be a valid UUID"))
		}
		input.UserID = &userID
	}

	res, err := h.exportService.BulkExport(c.Request().Context(), input)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, res)
}
