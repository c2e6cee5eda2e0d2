package recording

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-notetaker/internal/domain/entities"
	"github.com/johnquangdev/meeting-notetaker/internal/domain/repositories"
	"github.com/johnquangdev/meeting-notetaker/internal/infrastructure/external/recall"
	"github.com/johnquangdev/meeting-notetaker/internal/infrastructure/observability/metrics"
	"github.com/johnquangdev/meeting-notetaker/internal/usecase/analytics"
	usecaseErrors "github.com/johnquangdev/meeting-notetaker/internal/usecase/errors"
	"github.com/johnquangdev/meeting-notetaker/internal/usecase/participant"
	"github.com/johnquangdev/meeting-notetaker/internal/usecase/transcript"
	"github.com/johnquangdev/meeting-notetaker/pkg/config"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100

	defaultTranscriptLimit = 100
	maxTranscriptLimit     = 500
)

// RecordingService handles recording business logic
type RecordingService struct {
	recordingRepo repositories.RecordingRepository
	segmentRepo   repositories.TranscriptSegmentRepository
	bots          recall.Client
	cfg           config.MaintenanceConfig
	logger        *zap.Logger
	metrics       *metrics.Metrics
	now           func() time.Time
}

// NewRecordingService creates a new recording service
func NewRecordingService(
	recordingRepo repositories.RecordingRepository,
	segmentRepo repositories.TranscriptSegmentRepository,
	bots recall.Client,
	cfg config.MaintenanceConfig,
	logger *zap.Logger,
	m *metrics.Metrics,
) *RecordingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordingService{
		recordingRepo: recordingRepo,
		segmentRepo:   segmentRepo,
		bots:          bots,
		cfg:           cfg,
		logger:        logger,
		metrics:       m,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// ListInput represents the list filters a user may set
type ListInput struct {
	Status   *entities.RecordingStatus
	Page     int
	PageSize int
}

// TranscriptQuery filters the external transcript listing
type TranscriptQuery struct {
	Since  *time.Time
	UserID *uuid.UUID
	Status entities.RecordingStatus
	Limit  int
}

// SyncResult is the outcome of one bot poll
type SyncResult struct {
	Status    entities.RecordingStatus `json:"status"`
	BotStatus string                   `json:"bot_status"`
	Recording *entities.Recording      `json:"data"`
}

// AutoSyncItem is the per-recording outcome of an auto sync run
type AutoSyncItem struct {
	ID     uuid.UUID                `json:"id"`
	Status entities.RecordingStatus `json:"status"`
	Result string                   `json:"result"`
}

// AutoSyncResult summarises an auto sync run
type AutoSyncResult struct {
	Synced     int            `json:"synced"`
	Successful int            `json:"successful"`
	Results    []AutoSyncItem `json:"results"`
}

// List retrieves the caller's recordings
func (s *RecordingService) List(ctx context.Context, userID uuid.UUID, input ListInput) ([]entities.Recording, int64, error) {
	if input.Page < 1 {
		input.Page = 1
	}
	if input.PageSize < 1 {
		input.PageSize = defaultListLimit
	}
	if input.PageSize > maxListLimit {
		input.PageSize = maxListLimit
	}

	filters := repositories.RecordingFilters{
		UserID: &userID,
		Limit:  input.PageSize,
		Offset: (input.Page - 1) * input.PageSize,
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, 0, fmt.Errorf("%w: unknown status %q", usecaseErrors.ErrInvalidInput, *input.Status)
		}
		filters.Statuses = []entities.RecordingStatus{*input.Status}
	}

	recordings, total, err := s.recordingRepo.List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list recordings: %w", err)
	}
	return recordings, total, nil
}

// Sync polls the bot provider for the recording's bot. When the bot is done the
// video URL and the formatted transcript are stored alongside the new status.
func (s *RecordingService) Sync(ctx context.Context, recordingID uuid.UUID) (*SyncResult, error) {
	rec, err := s.recordingRepo.FindByID(ctx, recordingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get recording: %w", err)
	}
	if rec == nil {
		return nil, usecaseErrors.ErrRecordingNotFound
	}
	if rec.BotID == nil || *rec.BotID == "" {
		return nil, usecaseErrors.ErrNoBotID
	}

	bot, err := s.bots.GetBot(ctx, *rec.BotID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", usecaseErrors.ErrBotAPI, err)
	}

	botStatus := bot.LatestStatus()
	if status := recall.MapStatus(botStatus); status != "" {
		rec.Status = status
	}

	if rec.IsDone() {
		if bot.VideoURL != "" {
			rec.VideoURL = entities.StrPtr(bot.VideoURL)
		}
		s.storeBotTranscript(ctx, rec)
	}

	if err := s.recordingRepo.Update(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to update recording: %w", err)
	}
	if s.metrics != nil {
		s.metrics.RecordingsSync.WithLabelValues(string(rec.Status)).Inc()
	}

	s.logger.Info("🔄 Recording synced",
		zap.String("recording_id", rec.ID.String()),
		zap.String("bot_status", botStatus),
		zap.String("status", string(rec.Status)),
	)

	return &SyncResult{Status: rec.Status, BotStatus: botStatus, Recording: rec}, nil
}

// storeBotTranscript fetches the finished transcript. A failed fetch keeps the
// status update and is retried by the next sync.
func (s *RecordingService) storeBotTranscript(ctx context.Context, rec *entities.Recording) {
	entries, err := s.bots.GetTranscript(ctx, *rec.BotID)
	if err != nil {
		s.logger.Warn("⚠️ Failed to fetch bot transcript",
			zap.String("recording_id", rec.ID.String()),
			zap.Error(err),
		)
		return
	}
	if len(entries) == 0 {
		return
	}

	text := transcript.FormatBotTranscript(entries)
	segments := transcript.SegmentsFromBotTranscript(entries)

	rec.TranscriptText = entities.StrPtr(text)
	rec.WordCount = entities.IntPtr(transcript.WordCount(text))
	if len(rec.Participants) == 0 {
		rec.Participants = participant.ToParticipants(participant.FromTranscript(text))
	}
	if rec.Duration == nil {
		if end := segments[len(segments)-1].EndTime; end > 0 {
			rec.Duration = entities.IntPtr(int(math.Round(end)))
		}
	}

	rows := entities.NewTranscriptSegments(rec.ID, segments)
	if err := s.segmentRepo.ReplaceForRecording(ctx, rec.ID, rows); err != nil {
		s.logger.Warn("⚠️ Failed to store transcript segments",
			zap.String("recording_id", rec.ID.String()),
			zap.Error(err),
		)
		return
	}
	if s.metrics != nil {
		s.metrics.SegmentsStored.Add(float64(len(rows)))
	}
}

// Segments returns stored segments, falling back to parsing the transcript text
func (s *RecordingService) Segments(ctx context.Context, rec *entities.Recording) ([]entities.Segment, error) {
	rows, err := s.segmentRepo.ListByRecording(ctx, rec.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list segments: %w", err)
	}
	if len(rows) > 0 {
		segments := make([]entities.Segment, 0, len(rows))
		for _, row := range rows {
			segments = append(segments, row.ToSegment())
		}
		return segments, nil
	}

	parsed := transcript.Parse(rec.Transcript())
	if s.metrics != nil {
		s.metrics.TranscriptsParsed.WithLabelValues(string(parsed.Format)).Inc()
	}
	return parsed.Segments, nil
}

// Participants resolves the attendee list from the recording's stored sources
func (s *RecordingService) Participants(_ context.Context, rec *entities.Recording) entities.ParticipantResolution {
	res := participant.Resolve(participant.InputFromRecording(rec))
	if s.metrics != nil {
		s.metrics.ParticipantSource.WithLabelValues(string(res.Source)).Inc()
	}
	return res
}

// Analysis runs the deep dive for one meeting
func (s *RecordingService) Analysis(_ context.Context, rec *entities.Recording, ownerEmail string) (*entities.DeepDive, error) {
	if rec.Transcript() == "" {
		return nil, usecaseErrors.ErrTranscriptMissing
	}
	dive := analytics.Analyze(rec.Transcript(), ownerEmail)
	return &dive, nil
}

// Transcripts returns recordings that carry transcript text. Status defaults to
// done and the limit to 100, capped at 500.
func (s *RecordingService) Transcripts(ctx context.Context, query TranscriptQuery) ([]entities.Recording, error) {
	status := query.Status
	if status == "" {
		status = entities.RecordingStatusDone
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", usecaseErrors.ErrInvalidInput, status)
	}

	limit := query.Limit
	if limit < 1 {
		limit = defaultTranscriptLimit
	}
	if limit > maxTranscriptLimit {
		limit = maxTranscriptLimit
	}

	recordings, _, err := s.recordingRepo.List(ctx, repositories.RecordingFilters{
		UserID:         query.UserID,
		Statuses:       []entities.RecordingStatus{status},
		CreatedAfter:   query.Since,
		WithTranscript: true,
		Limit:          limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list transcripts: %w", err)
	}
	return recordings, nil
}

// AccountAnalytics loads the user's finished recordings and aggregates them
func (s *RecordingService) AccountAnalytics(ctx context.Context, userID uuid.UUID, ownerEmail string) (*entities.AccountAnalytics, error) {
	recordings, _, err := s.recordingRepo.List(ctx, repositories.RecordingFilters{
		UserID:   &userID,
		Statuses: []entities.RecordingStatus{entities.RecordingStatusDone},
		Limit:    analytics.MaxAnalyzedMeetings,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list recordings: %w", err)
	}

	out := analytics.CalculateAccountAnalytics(recordings, ownerEmail)
	return &out, nil
}

// CleanupStale marks pending, joining and recording rows older than the
// stale window as timed out
func (s *RecordingService) CleanupStale(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.staleAfter())
	n, err := s.recordingRepo.MarkTimedOut(ctx, entities.StaleStatuses, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to mark stale recordings: %w", err)
	}
	if s.metrics != nil {
		s.metrics.RecordingsTimedOut.Add(float64(n))
	}
	if n > 0 {
		s.logger.Info("🧹 Stale recordings timed out",
			zap.Int64("count", n),
			zap.Time("cutoff", cutoff),
		)
	}
	return n, nil
}

// AutoSync syncs in-flight recordings that are old enough for the bot to have
// progressed but younger than the stale window. Failures are reported per item.
func (s *RecordingService) AutoSync(ctx context.Context) (*AutoSyncResult, error) {
	now := s.now()
	after := now.Add(-s.staleAfter())
	before := now.Add(-s.syncMinAge())

	recordings, _, err := s.recordingRepo.List(ctx, repositories.RecordingFilters{
		Statuses:      entities.ActiveStatuses,
		CreatedAfter:  &after,
		CreatedBefore: &before,
		WithBotOnly:   true,
		Limit:         s.syncLimit(),
		OldestFirst:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list recordings to sync: %w", err)
	}

	out := &AutoSyncResult{Results: make([]AutoSyncItem, 0, len(recordings))}
	for _, rec := range recordings {
		if ctx.Err() != nil {
			return out, ctx.Err()
		}

		item := AutoSyncItem{ID: rec.ID, Status: rec.Status}
		res, err := s.Sync(ctx, rec.ID)
		if err != nil {
			item.Result = err.Error()
			s.logger.Warn("⚠️ Auto sync failed",
				zap.String("recording_id", rec.ID.String()),
				zap.Error(err),
			)
		} else {
			item.Status = res.Status
			item.Result = "synced"
			out.Successful++
		}
		out.Synced++
		out.Results = append(out.Results, item)
	}
	return out, nil
}

func (s *RecordingService) staleAfter() time.Duration {
	if s.cfg.StaleAfter > 0 {
		return s.cfg.StaleAfter
	}
	return 4 * time.Hour
}

func (s *RecordingService) syncMinAge() time.Duration {
	if s.cfg.SyncMinAge > 0 {
		return s.cfg.SyncMinAge
	}
	return 5 * time.Minute
}

func (s *RecordingService) syncLimit() int {
	if s.cfg.SyncLimit > 0 {
		return s.cfg.SyncLimit
	}
	return 20
}
