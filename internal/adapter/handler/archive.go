package handler

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-notetaker/errors"
	"github.com/johnquangdev/meeting-notetaker/internal/infrastructure/storage"
	pkgMiddleware "github.com/johnquangdev/meeting-notetaker/pkg/middleware"
)

const archiveLinkExpiry = time.Hour

// ArchiveStore looks up archived export documents. *storage.MinIOClient satisfies it.
type ArchiveStore interface {
	Exists(ctx context.Context, objectName string) (bool, error)
	GetFileURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
}

// ArchiveLinkResponse is a time-limited download link for an export archive
type ArchiveLinkResponse struct {
	ObjectName string    `json:"object_name"`
	URL        string    `json:"url"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Archive serves links to archived export documents
type Archive struct {
	store  ArchiveStore
	logger *zap.Logger
	now    func() time.Time
}

// NewArchiveHandler creates a new archive handler
func NewArchiveHandler(store ArchiveStore, logger *zap.Logger) *Archive {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Archive{
		store:  store,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Link handles GET /recordings/:id/archive
// @Summary      Download link for the export archive
// @Description  Presigned URL of the JSON document archived when the recording was exported. Valid for one hour.
// @Tags         Recordings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Recording ID"
// @Success      200  {object}  handler.ArchiveLinkResponse
// @Failure      404  {object}  common.ErrorResponse
// @Router       /recordings/{id}/archive [get]
func (h *Archive) Link(c echo.Context) error {
	rec, ok := pkgMiddleware.GetRecording(c)
	if !ok {
		return HandleError(h.logger, c, errors.ErrRecordingNotFound(c.Param("id")))
	}

	ctx := c.Request().Context()
	objectName := storage.ExportObjectName(rec.ID.String())

	exists, err := h.store.Exists(ctx, objectName)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrStorageFailed("stat", err))
	}
	if !exists {
		return HandleError(h.logger, c, errors.ErrNotFound("Export archive"))
	}

	url, err := h.store.GetFileURL(ctx, objectName, archiveLinkExpiry)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrStorageFailed("presign", err))
	}

	h.logger.Debug("🔗 Archive link issued",
		zap.String("recording_id", rec.ID.String()),
		zap.String("object_name", objectName),
	)
	return HandleSuccess(h.logger, c, &ArchiveLinkResponse{
		ObjectName: objectName,
		URL:        url,
		ExpiresAt:  h.now().Add(archiveLinkExpiry),
	})
}
