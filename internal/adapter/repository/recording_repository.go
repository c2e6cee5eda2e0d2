package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-notetaker/internal/domain/entities"
	"github.com/johnquangdev/meeting-notetaker/internal/domain/repositories"
)

// RecordingRepository handles recording data operations
type RecordingRepository struct {
	db *gorm.DB
}

var _ repositories.RecordingRepository = (*RecordingRepository)(nil)

// NewRecordingRepository creates a new recording repository
func NewRecordingRepository(db *gorm.DB) *RecordingRepository {
	return &RecordingRepository{db: db}
}

// Create creates a new recording
func (r *RecordingRepository) Create(ctx context.Context, recording *entities.Recording) error {
	if recording == nil {
		return errors.New("recording cannot be nil")
	}
	return r.db.WithContext(ctx).Create(recording).Error
}

// Update updates a recording
func (r *RecordingRepository) Update(ctx context.Context, recording *entities.Recording) error {
	if recording == nil {
		return errors.New("recording cannot be nil")
	}
	return r.db.WithContext(ctx).Save(recording).Error
}

// FindByID retrieves a recording by ID
func (r *RecordingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Recording, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

// FindByMeetingID retrieves the newest recording of a calendar meeting
func (r *RecordingRepository) FindByMeetingID(ctx context.Context, meetingID string) (*entities.Recording, error) {
	return r.first(r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order("created_at DESC"))
}

// FindByTranscriptID retrieves a recording by transcription provider job ID
func (r *RecordingRepository) FindByTranscriptID(ctx context.Context, transcriptID string) (*entities.Recording, error) {
	return r.first(r.db.WithContext(ctx).Where("transcript_id = ?", transcriptID))
}

func (r *RecordingRepository) first(query *gorm.DB) (*entities.Recording, error) {
	var recording entities.Recording
	if err := query.First(&recording).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &recording, nil
}

// List retrieves recordings with filters and pagination
func (r *RecordingRepository) List(ctx context.Context, filters repositories.RecordingFilters) ([]entities.Recording, int64, error) {
	var recordings []entities.Recording
	var total int64

	query := r.db.WithContext(ctx).Model(&entities.Recording{})

	// Apply filters
	if filters.UserID != nil {
		query = query.Where("user_id = ?", *filters.UserID)
	}
	if len(filters.Statuses) > 0 {
		query = query.Where("status IN ?", filters.Statuses)
	}
	if filters.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filters.CreatedAfter)
	}
	if filters.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filters.CreatedBefore)
	}
	if filters.WithBotOnly {
		query = query.Where("bot_id IS NOT NULL AND bot_id <> ''")
	}
	if filters.WithTranscript {
		query = query.Where("transcript_text IS NOT NULL")
	}

	// Count total
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filters.OldestFirst {
		query = query.Order("created_at ASC")
	} else {
		query = query.Order("created_at DESC")
	}

	// Apply pagination
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	if err := query.Find(&recordings).Error; err != nil {
		return nil, 0, err
	}
	return recordings, total, nil
}

// MarkTimedOut moves stuck recordings to the timeout status
func (r *RecordingRepository) MarkTimedOut(ctx context.Context, statuses []entities.RecordingStatus, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.Recording{}).
		Where("status IN ?", statuses).
		Where("created_at < ?", cutoff).
		Update("status", entities.RecordingStatusTimeout)
	return result.RowsAffected, result.Error
}
