package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RecordingStatus represents the lifecycle state of a bot recording
type RecordingStatus string

const (
	RecordingStatusPending      RecordingStatus = "pending"
	RecordingStatusJoining      RecordingStatus = "joining"
	RecordingStatusRecording    RecordingStatus = "recording"
	RecordingStatusProcessing   RecordingStatus = "processing"
	RecordingStatusTranscribing RecordingStatus = "transcribing"
	RecordingStatusDone         RecordingStatus = "done"
	RecordingStatusError        RecordingStatus = "error"
	RecordingStatusTimeout      RecordingStatus = "timeout"
)

// StaleStatuses are the states a bot can get stuck in before it produces anything
var StaleStatuses = []RecordingStatus{
	RecordingStatusPending,
	RecordingStatusJoining,
	RecordingStatusRecording,
}

// ActiveStatuses are the states worth polling the bot provider for
var ActiveStatuses = []RecordingStatus{
	RecordingStatusPending,
	RecordingStatusJoining,
	RecordingStatusRecording,
	RecordingStatusProcessing,
	RecordingStatusTranscribing,
}

// IsValid reports whether s is a known status
func (s RecordingStatus) IsValid() bool {
	switch s {
	case RecordingStatusPending, RecordingStatusJoining, RecordingStatusRecording,
		RecordingStatusProcessing, RecordingStatusTranscribing, RecordingStatusDone,
		RecordingStatusError, RecordingStatusTimeout:
		return true
	}
	return false
}

// Recording is one bot session in a meeting, with its transcript and AI outputs
type Recording struct {
	ID                uuid.UUID          `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID            *uuid.UUID         `json:"user_id,omitempty" gorm:"type:uuid;index"`
	MeetingID         *string            `json:"meeting_id,omitempty" gorm:"type:varchar(255);index"`
	MeetingURL        *string            `json:"meeting_url,omitempty" gorm:"type:text"`
	BotID             *string            `json:"bot_id,omitempty" gorm:"type:varchar(255);index"`
	Status            RecordingStatus    `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	Title             *string            `json:"title,omitempty" gorm:"type:text"`
	Duration          *int               `json:"duration,omitempty"` // seconds
	TranscriptText    *string            `json:"transcript_text,omitempty" gorm:"type:text"`
	TranscriptURL     *string            `json:"transcript_url,omitempty" gorm:"type:text"`
	TranscriptID      *string            `json:"transcript_id,omitempty" gorm:"type:varchar(255);index"`
	VideoURL          *string            `json:"video_url,omitempty" gorm:"type:text"`
	Summary           *string            `json:"summary,omitempty" gorm:"type:text"`
	KeyPoints         []string           `json:"key_points,omitempty" gorm:"type:jsonb;serializer:json"`
	ActionItems       []string           `json:"action_items,omitempty" gorm:"type:jsonb;serializer:json"`
	Participants      []Participant      `json:"participants,omitempty" gorm:"type:jsonb;serializer:json"`
	CalendarAttendees []CalendarAttendee `json:"calendar_attendees,omitempty" gorm:"type:jsonb;serializer:json"`
	WordCount         *int               `json:"word_count,omitempty"`
	Source            *string            `json:"source,omitempty" gorm:"type:varchar(50)"`
	Metadata          datatypes.JSON     `json:"metadata,omitempty" gorm:"type:jsonb;default:'{}'"`
	CreatedAt         time.Time          `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt         time.Time          `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt         gorm.DeletedAt     `json:"deleted_at,omitempty" gorm:"index"`
}

// TableName specifies the table name for GORM
func (Recording) TableName() string {
	return "recordings"
}

// IsDone checks if the bot finished and the transcript is final
func (r *Recording) IsDone() bool {
	return r.Status == RecordingStatusDone
}

// Transcript returns the stored transcript text or an empty string
func (r *Recording) Transcript() string {
	if r.TranscriptText == nil {
		return ""
	}
	return *r.TranscriptText
}

// DisplayTitle returns the title or a fallback
func (r *Recording) DisplayTitle() string {
	if r.Title == nil || *r.Title == "" {
		return "Untitled meeting"
	}
	return *r.Title
}

// DurationSeconds returns the duration or 0 when unknown
func (r *Recording) DurationSeconds() int {
	if r.Duration == nil {
		return 0
	}
	return *r.Duration
}

// MarkAsTimedOut marks a stuck recording as timed out
func (r *Recording) MarkAsTimedOut() {
	r.Status = RecordingStatusTimeout
}

// StrPtr is a small helper for optional string columns
func StrPtr(s string) *string {
	return &s
}

// IntPtr is a small helper for optional int columns
func IntPtr(i int) *int {
	return &i
}
