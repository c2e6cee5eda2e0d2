package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-notetaker/internal/usecase/maintenance"
)

// Maintenance exposes the background jobs for manual runs
type Maintenance struct {
	jobs   maintenance.Jobs
	logger *zap.Logger
}

// NewMaintenanceHandler creates a new maintenance handler
func NewMaintenanceHandler(jobs maintenance.Jobs, logger *zap.Logger) *Maintenance {
	return &Maintenance{jobs: jobs, logger: logger}
}

// CleanupStaleResponse reports how many recordings were timed out
type CleanupStaleResponse struct {
	Success bool  `json:"success"`
	Updated int64 `json:"updated"`
}

// CleanupStale handles POST /maintenance/cleanup-stale
// @Summary      Time out stale recordings
// @Description  Moves pending, joining and recording rows older than 4 hours to timeout
// @Tags         Maintenance
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  handler.CleanupStaleResponse
// @Failure      403  {object}  common.ErrorResponse
// @Router       /maintenance/cleanup-stale [post]
func (h *Maintenance) CleanupStale(c echo.Context) error {
	n, err := h.jobs.CleanupStale(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, &CleanupStaleResponse{Success: true, Updated: n})
}

// AutoSync handles POST /maintenance/auto-sync
// @Summary      Sync in-flight recordings
// @Description  Syncs up to 20 active recordings between 5 minutes and 4 hours old, oldest first
// @Tags         Maintenance
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  recording.AutoSyncResult
// @Failure      403  {object}  common.ErrorResponse
// @Router       /maintenance/auto-sync [post]
func (h *Maintenance) AutoSync(c echo.Context) error {
	res, err := h.jobs.AutoSync(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, res)
}
