// Package export ships finished recordings to an external transcript store
// and receives them on the other side.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-notetaker/internal/domain/entities"
	"github.com/johnquangdev/meeting-notetaker/internal/domain/repositories"
	"github.com/johnquangdev/meeting-notetaker/internal/infrastructure/observability/metrics"
	"github.com/johnquangdev/meeting-notetaker/internal/infrastructure/storage"
	usecaseErrors "github.com/johnquangdev/meeting-notetaker/internal/usecase/errors"
	"github.com/johnquangdev/meeting-notetaker/internal/usecase/transcript"
	"github.com/johnquangdev/meeting-notetaker/pkg/config"
)

const (
	headerExportSecret = "X-Export-Secret"
	maxErrorBody       = 2048
	untitled           = "Untitled"
)

// Service defines the export and receive flows
type Service interface {
	// BulkExport posts finished recordings to the export URL one by one
	BulkExport(ctx context.Context, input BulkInput) (*BulkResult, error)

	// Receive upserts an exported recording and replaces its segments
	Receive(ctx context.Context, doc Document) (*ReceiveResult, error)
}

// Archiver keeps a copy of every exported document
type Archiver interface {
	PutJSON(ctx context.Context, objectName string, body []byte) error
}

// BulkInput selects the recordings to export
type BulkInput struct {
	Limit  int
	Since  *time.Time
	UserID *uuid.UUID
}

// Detail is the outcome of one export POST. Status is 0 when no response arrived.
type Detail struct {
	ID     uuid.UUID `json:"id"`
	Title  string    `json:"title"`
	OK     bool      `json:"ok"`
	Status int       `json:"status"`
	Error  string    `json:"error,omitempty"`
}

// BulkResult summarises a bulk export
type BulkResult struct {
	Exported  int      `json:"exported"`
	Attempted int      `json:"attempted"`
	Details   []Detail `json:"details"`
}

// ReceiveResult is returned to the exporting side
type ReceiveResult struct {
	Success         bool      `json:"success"`
	RecordingID     uuid.UUID `json:"recording_id"`
	SegmentsCreated int       `json:"segments_created"`
}

// ExportService implements Service
type ExportService struct {
	recordingRepo repositories.RecordingRepository
	segmentRepo   repositories.TranscriptSegmentRepository
	archive       Archiver
	http          *http.Client
	cfg           config.ExportConfig
	logger        *zap.Logger
	metrics       *metrics.Metrics
	sleep         func(ctx context.Context, d time.Duration) error
}

var _ Service = (*ExportService)(nil)

// NewExportService creates the export service. archive may be nil when object
// storage is disabled.
func NewExportService(
	recordingRepo repositories.RecordingRepository,
	segmentRepo repositories.TranscriptSegmentRepository,
	archive Archiver,
	cfg config.ExportConfig,
	logger *zap.Logger,
	m *metrics.Metrics,
) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		recordingRepo: recordingRepo,
		segmentRepo:   segmentRepo,
		archive:       archive,
		http:          &http.Client{Timeout: 30 * time.Second},
		cfg:           cfg,
		logger:        logger,
		metrics:       m,
		sleep:         sleepCtx,
	}
}

// BulkExport exports done recordings oldest first. A failed POST is recorded
// in the details and does not stop the run.
func (s *ExportService) BulkExport(ctx context.Context, input BulkInput) (*BulkResult, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}
	if limit <= 0 {
		limit = 50
	}

	recordings, _, err := s.recordingRepo.List(ctx, repositories.RecordingFilters{
		UserID:       input.UserID,
		Statuses:     []entities.RecordingStatus{entities.RecordingStatusDone},
		CreatedAfter: input.Since,
		Limit:        limit,
		OldestFirst:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load recordings: %w", err)
	}

	result := &BulkResult{Attempted: len(recordings), Details: make([]Detail, 0, len(recordings))}
	if len(recordings) == 0 {
		return result, nil
	}
	if s.cfg.URL == "" {
		return nil, usecaseErrors.ErrExportNotConfigured
	}

	s.logger.Info("📦 Bulk export started", zap.Int("recordings", len(recordings)))

	for i := range recordings {
		rec := &recordings[i]
		detail := s.exportOne(ctx, rec)
		if detail.OK {
			result.Exported++
		}
		result.Details = append(result.Details, detail)

		if i < len(recordings)-1 {
			if err := s.sleep(ctx, s.cfg.Delay); err != nil {
				return result, err
			}
		}
	}

	s.logger.Info("✅ Bulk export finished",
		zap.Int("exported", result.Exported),
		zap.Int("attempted", result.Attempted),
	)
	return result, nil
}

func (s *ExportService) exportOne(ctx context.Context, rec *entities.Recording) Detail {
	detail := Detail{ID: rec.ID, Title: untitled}
	if rec.Title != nil && *rec.Title != "" {
		detail.Title = *rec.Title
	}

	body, err := json.Marshal(NewDocument(rec))
	if err != nil {
		detail.Error = err.Error()
		return detail
	}

	if s.archive != nil {
		if err := s.archive.PutJSON(ctx, storage.ExportObjectName(rec.ID.String()), body); err != nil {
			s.logger.Warn("⚠️ Failed to archive export document",
				zap.String("recording_id", rec.ID.String()),
				zap.Error(err),
			)
		}
	}

	detail.Status, err = s.post(ctx, body)
	detail.OK = err == nil
	if err != nil {
		detail.Error = err.Error()
		s.logger.Warn("❌ Export failed",
			zap.String("recording_id", rec.ID.String()),
			zap.Int("status", detail.Status),
			zap.Error(err),
		)
	}
	if s.metrics != nil {
		s.metrics.ExportsDelivered.WithLabelValues(metrics.Outcome(err)).Inc()
	}
	return detail
}

// post sends one document. Non-2xx responses return the status and the body as error.
func (s *ExportService) post(ctx context.Context, body []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerExportSecret, s.cfg.Secret)

	resp, err := s.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return resp.StatusCode, errors.New(strings.TrimSpace(string(msg)))
	}
	return resp.StatusCode, nil
}

// Receive stores an exported document under its recording id. Segment
// storage failures are logged and reported as zero segments created.
func (s *ExportService) Receive(ctx context.Context, doc Document) (*ReceiveResult, error) {
	recordingID, err := uuid.Parse(doc.RecordingID)
	if err != nil {
		return nil, usecaseErrors.ErrMissingRecordingID
	}

	rec, err := s.recordingRepo.FindByID(ctx, recordingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get recording: %w", err)
	}

	isNew := rec == nil
	if isNew {
		rec = &entities.Recording{ID: recordingID, CreatedAt: doc.CreatedAt}
	}
	if err := applyDocument(rec, doc); err != nil {
		return nil, err
	}

	if isNew {
		err = s.recordingRepo.Create(ctx, rec)
	} else {
		err = s.recordingRepo.Update(ctx, rec)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save recording: %w", err)
	}

	result := &ReceiveResult{Success: true, RecordingID: rec.ID}
	if strings.TrimSpace(doc.TranscriptText) == "" {
		return result, nil
	}

	parsed := transcript.Parse(doc.TranscriptText)
	if s.metrics != nil {
		s.metrics.TranscriptsParsed.WithLabelValues(string(parsed.Format)).Inc()
	}
	rows := entities.NewTranscriptSegments(rec.ID, parsed.Segments)
	if err := s.segmentRepo.ReplaceForRecording(ctx, rec.ID, rows); err != nil {
		s.logger.Error("❌ Failed to store transcript segments",
			zap.String("recording_id", rec.ID.String()),
			zap.Error(err),
		)
		return result, nil
	}

	result.SegmentsCreated = len(rows)
	if s.metrics != nil {
		s.metrics.SegmentsStored.Add(float64(len(rows)))
	}
	s.logger.Info("📥 Transcript received",
		zap.String("recording_id", rec.ID.String()),
		zap.Int("segments", len(rows)),
		zap.Bool("created", isNew),
	)
	return result, nil
}

func applyDocument(rec *entities.Recording, doc Document) error {
	if doc.UserID != "" {
		userID, err := uuid.Parse(doc.UserID)
		if err != nil {
			return fmt.Errorf("%w: user_id", usecaseErrors.ErrInvalidInput)
		}
		rec.UserID = &userID
	}

	rec.Status = entities.RecordingStatusDone
	if doc.Status.IsValid() {
		rec.Status = doc.Status
	}

	rec.Title = optional(doc.Title)
	rec.Summary = optional(doc.Summary)
	rec.KeyPoints = doc.KeyPoints
	rec.ActionItems = doc.ActionItems
	rec.TranscriptText = optional(doc.TranscriptText)
	rec.Participants = doc.Participants
	rec.CalendarAttendees = doc.CalendarAttendees
	rec.Duration = doc.Duration
	rec.WordCount = doc.WordCount
	if rec.WordCount == nil && doc.TranscriptText != "" {
		rec.WordCount = entities.IntPtr(transcript.WordCount(doc.TranscriptText))
	}
	rec.MeetingURL = doc.MeetingURL
	rec.VideoURL = optional(doc.VideoURL)
	rec.TranscriptURL = optional(doc.TranscriptURL)
	rec.BotID = doc.BotID
	rec.Source = entities.StrPtr("export")
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
