package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-notetaker/internal/domain/entities"
	"github.com/johnquangdev/meeting-notetaker/internal/domain/repositories"
)

const segmentBatchSize = 200

// TranscriptRepository handles stored transcript segments
type TranscriptRepository struct {
	db *gorm.DB
}

var _ repositories.TranscriptSegmentRepository = (*TranscriptRepository)(nil)

// NewTranscriptRepository creates a new transcript repository
func NewTranscriptRepository(db *gorm.DB) *TranscriptRepository {
	return &TranscriptRepository{db: db}
}

// ReplaceForRecording swaps a recording's segments in one transaction
func (r *TranscriptRepository) ReplaceForRecording(ctx context.Context, recordingID uuid.UUID, segments []entities.TranscriptSegment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recording_id = ?", recordingID).Delete(&entities.TranscriptSegment{}).Error; err != nil {
			return err
		}
		if len(segments) == 0 {
			return nil
		}
		return tx.CreateInBatches(segments, segmentBatchSize).Error
	})
}

// ListByRecording returns segments in transcript order
func (r *TranscriptRepository) ListByRecording(ctx context.Context, recordingID uuid.UUID) ([]entities.TranscriptSegment, error) {
	var segments []entities.TranscriptSegment
	if err := r.db.WithContext(ctx).
		Where("recording_id = ?", recordingID).
		Order("position ASC").
		Find(&segments).Error; err != nil {
		return nil, err
	}
	return segments, nil
}
