package recording

import (
	"context"

	"github.com/google/uuid"

	"github.com/johnquangdev/meeting-notetaker/internal/domain/entities"
)

// Service defines the interface for the recording use case
type Service interface {
	// List retrieves the caller's recordings, newest first
	List(ctx context.Context, userID uuid.UUID, input ListInput) ([]entities.Recording, int64, error)

	// Sync polls the bot provider and stores status, video and transcript
	Sync(ctx context.Context, recordingID uuid.UUID) (*SyncResult, error)

	// Segments returns the stored segments, or parses the transcript text when none are stored
	Segments(ctx context.Context, rec *entities.Recording) ([]entities.Segment, error)

	// Participants resolves who attended the meeting
	Participants(ctx context.Context, rec *entities.Recording) entities.ParticipantResolution

	// Analysis runs the per-meeting deep dive
	Analysis(ctx context.Context, rec *entities.Recording, ownerEmail string) (*entities.DeepDive, error)

	// Transcripts lists recordings with a transcript for machine clients, newest first
	Transcripts(ctx context.Context, query TranscriptQuery) ([]entities.Recording, error)

	// AccountAnalytics folds the user's finished meetings into one snapshot
	AccountAnalytics(ctx context.Context, userID uuid.UUID, ownerEmail string) (*entities.AccountAnalytics, error)

	// CleanupStale moves bots stuck before producing anything to timeout
	CleanupStale(ctx context.Context) (int64, error)

	// AutoSync syncs a batch of in-flight recordings one by one
	AutoSync(ctx context.Context) (*AutoSyncResult, error)
}

// Ensure RecordingService implements Service interface
var _ Service = (*RecordingService)(nil)
