package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/johnquangdev/meeting-notetaker/internal/domain/entities"
)

// RecordingRepository defines the interface for recording data access
type RecordingRepository interface {
	// Create inserts a new recording
	Create(ctx context.Context, recording *entities.Recording) error

	// Update saves all fields of an existing recording
	Update(ctx context.Context, recording *entities.Recording) error

	// FindByID retrieves a recording by its ID (nil when missing)
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Recording, error)

	// FindByMeetingID retrieves the newest recording for a calendar meeting
	FindByMeetingID(ctx context.Context, meetingID string) (*entities.Recording, error)

	// FindByTranscriptID retrieves the recording a transcription job belongs to
	FindByTranscriptID(ctx context.Context, transcriptID string) (*entities.Recording, error)

	// List retrieves recordings with filters and pagination
	List(ctx context.Context, filters RecordingFilters) ([]entities.Recording, int64, error)

	// MarkTimedOut moves recordings in the given states created before cutoff to timeout
	MarkTimedOut(ctx context.Context, statuses []entities.RecordingStatus, cutoff time.Time) (int64, error)
}

// RecordingFilters represents filter options for listing recordings
type RecordingFilters struct {
	UserID         *uuid.UUID
	Statuses       []entities.RecordingStatus
	CreatedAfter   *time.Time
	CreatedBefore  *time.Time
	WithBotOnly    bool
	WithTranscript bool
	Limit          int
	Offset         int
	OldestFirst    bool
}
