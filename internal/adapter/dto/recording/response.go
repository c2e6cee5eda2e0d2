package recording

import (
	"time"

	"github.com/johnquangdev/meeting-notetaker/internal/adapter/dto/common"
	"github.com/johnquangdev/meeting-notetaker/internal/domain/entities"
)

// RecordingResponse represents a recording in responses
type RecordingResponse struct {
	ID                string                      `json:"id"`
	UserID            *string                     `json:"user_id,omitempty"`
	MeetingID         *string                     `json:"meeting_id,omitempty"`
	MeetingURL        *string                     `json:"meeting_url,omitempty"`
	BotID             *string                     `json:"bot_id,omitempty"`
	Status            string                      `json:"status"`
	Title             string                      `json:"title"`
	Duration          *int                        `json:"duration,omitempty"`
	WordCount         *int                        `json:"word_count,omitempty"`
	VideoURL          *string                     `json:"video_url,omitempty"`
	TranscriptURL     *string                     `json:"transcript_url,omitempty"`
	HasTranscript     bool                        `json:"has_transcript"`
	Summary           *string                     `json:"summary,omitempty"`
	KeyPoints         []string                    `json:"key_points,omitempty"`
	ActionItems       []string                    `json:"action_items,omitempty"`
	Participants      []entities.Participant      `json:"participants"`
	CalendarAttendees []entities.CalendarAttendee `json:"calendar_attendees"`
	Source            *string                     `json:"source,omitempty"`
	CreatedAt         time.Time                   `json:"created_at"`
	UpdatedAt         time.Time                   `json:"updated_at"`
}

// RecordingListResponse is a page of recordings
type RecordingListResponse struct {
	Recordings []*RecordingResponse       `json:"recordings"`
	Pagination *common.PaginationResponse `json:"pagination"`
}

// SegmentResponse represents one speaker turn
type SegmentResponse struct {
	Speaker   string  `json:"speaker"`
	Text      string  `json:"text"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
}

// SegmentsResponse lists a recording's segments
type SegmentsResponse struct {
	RecordingID string             `json:"recording_id"`
	Segments    []*SegmentResponse `json:"segments"`
	Speakers    []string           `json:"speakers"`
}

// SyncResponse is the outcome of a bot poll
type SyncResponse struct {
	Status    string             `json:"status"`
	BotStatus string             `json:"bot_status,omitempty"`
	Recording *RecordingResponse `json:"data"`
}

// ExternalTranscript is one recording as served to machine clients. Analysis
// fields are only filled when requested.
type ExternalTranscript struct {
	ID                string                      `json:"id"`
	UserID            *string                     `json:"user_id"`
	Title             *string                     `json:"title"`
	Summary           *string                     `json:"summary,omitempty"`
	KeyPoints         []string                    `json:"key_points,omitempty"`
	ActionItems       []string                    `json:"action_items,omitempty"`
	TranscriptText    *string                     `json:"transcript_text"`
	TranscriptURL     *string                     `json:"transcript_url"`
	Participants      []entities.Participant      `json:"participants"`
	CalendarAttendees []entities.CalendarAttendee `json:"calendar_attendees"`
	Duration          *int                        `json:"duration"`
	WordCount         *int                        `json:"word_count"`
	Status            string                      `json:"status"`
	MeetingURL        *string                     `json:"meeting_url"`
	VideoURL          *string                     `json:"video_url"`
	CreatedAt         time.Time                   `json:"created_at"`
	UpdatedAt         time.Time                   `json:"updated_at"`
}

// ExternalTranscriptsResponse is the machine API listing
type ExternalTranscriptsResponse struct {
	Success     bool                  `json:"success"`
	Count       int                   `json:"count"`
	Transcripts []*ExternalTranscript `json:"transcripts"`
	ExportedAt  time.Time             `json:"exported_at"`
}
