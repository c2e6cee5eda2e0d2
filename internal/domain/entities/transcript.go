package entities

import (
	"time"

	"github.com/google/uuid"
)

// Segment is one speaker turn extracted from a transcript
type Segment struct {
	Speaker   string  `json:"speaker"`
	Text      string  `json:"text"`
	StartTime float64 `json:"start_time"` // seconds, 0 when unknown
	EndTime   float64 `json:"end_time"`   // seconds, 0 when unknown
}

// BotTranscriptWord is a single word as returned by the bot provider
type BotTranscriptWord struct {
	Text           string            `json:"text"`
	StartTimestamp *BotWordTimestamp `json:"start_timestamp,omitempty"`
	EndTimestamp   *BotWordTimestamp `json:"end_timestamp,omitempty"`
}

// BotWordTimestamp holds the relative offset of a word in seconds
type BotWordTimestamp struct {
	Relative float64 `json:"relative"`
}

// BotTranscriptEntry is one speaker block as returned by the bot provider
type BotTranscriptEntry struct {
	Speaker string              `json:"speaker"`
	Words   []BotTranscriptWord `json:"words"`
}

// TranscriptSegment is the stored form of a Segment
type TranscriptSegment struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	RecordingID uuid.UUID `json:"recording_id" gorm:"type:uuid;not null;index"`
	Position    int       `json:"position" gorm:"not null"`
	Speaker     string    `json:"speaker" gorm:"type:varchar(255);not null"`
	Text        string    `json:"text" gorm:"type:text;not null"`
	StartTime   float64   `json:"start_time" gorm:"not null;default:0"`
	EndTime     float64   `json:"end_time" gorm:"not null;default:0"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (TranscriptSegment) TableName() string {
	return "transcript_segments"
}

// NewTranscriptSegments converts parsed segments into rows for a recording
func NewTranscriptSegments(recordingID uuid.UUID, segments []Segment) []TranscriptSegment {
	rows := make([]TranscriptSegment, 0, len(segments))
	for i, s := range segments {
		rows = append(rows, TranscriptSegment{
			ID:          uuid.New(),
			RecordingID: recordingID,
			Position:    i,
			Speaker:     s.Speaker,
			Text:        s.Text,
			StartTime:   s.StartTime,
			EndTime:     s.EndTime,
		})
	}
	return rows
}

// ToSegment drops the storage fields
func (t TranscriptSegment) ToSegment() Segment {
	return Segment{
		Speaker:   t.Speaker,
		Text:      t.Text,
		StartTime: t.StartTime,
		EndTime:   t.EndTime,
	}
}
