package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/johnquangdev/meeting-notetaker/internal/domain/entities"
)

// TranscriptSegmentRepository defines the interface for stored transcript segments
type TranscriptSegmentRepository interface {
	// ReplaceForRecording deletes the recording's segments and inserts the given rows
	ReplaceForRecording(ctx context.Context, recordingID uuid.UUID, segments []entities.TranscriptSegment) error

	// ListByRecording returns a recording's segments ordered by position
	ListByRecording(ctx context.Context, recordingID uuid.UUID) ([]entities.TranscriptSegment, error)
}
