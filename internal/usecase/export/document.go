package export

import (
	"time"

	"github.com/johnquangdev/meeting-notetaker/internal/domain/entities"
)

// Document is the wire form of a recording shipped to the export endpoint.
// The receive endpoint accepts the same shape.
type Document struct {
	RecordingID       string                      `json:"recording_id" validate:"required,uuid"`
	UserID            string                      `json:"user_id,omitempty" validate:"omitempty,uuid"`
	Title             string                      `json:"title"`
	Summary           string                      `json:"summary"`
	KeyPoints         []string                    `json:"key_points"`
	ActionItems       []string                    `json:"action_items"`
	TranscriptText    string                      `json:"transcript_text"`
	Participants      []entities.Participant      `json:"participants"`
	CalendarAttendees []entities.CalendarAttendee `json:"calendar_attendees"`
	Duration          *int                        `json:"duration"`
	WordCount         *int                        `json:"word_count"`
	Status            entities.RecordingStatus    `json:"status"`
	MeetingURL        *string                     `json:"meeting_url"`
	VideoURL          string                      `json:"video_url"`
	TranscriptURL     string                      `json:"transcript_url"`
	BotID             *string                     `json:"bot_id"`
	CreatedAt         time.Time                   `json:"created_at"`
	UpdatedAt         time.Time                   `json:"updated_at"`
}

// NewDocument flattens a recording. Missing text fields become "" and missing
// lists become empty arrays.
func NewDocument(rec *entities.Recording) Document {
	doc := Document{
		RecordingID:       rec.ID.String(),
		Title:             deref(rec.Title),
		Summary:           deref(rec.Summary),
		KeyPoints:         orEmpty(rec.KeyPoints),
		ActionItems:       orEmpty(rec.ActionItems),
		TranscriptText:    rec.Transcript(),
		Participants:      rec.Participants,
		CalendarAttendees: rec.CalendarAttendees,
		Duration:          rec.Duration,
		WordCount:         rec.WordCount,
		Status:            rec.Status,
		MeetingURL:        rec.MeetingURL,
		VideoURL:          deref(rec.VideoURL),
		TranscriptURL:     deref(rec.TranscriptURL),
		BotID:             rec.BotID,
		CreatedAt:         rec.CreatedAt,
		UpdatedAt:         rec.UpdatedAt,
	}
	if rec.UserID != nil {
		doc.UserID = rec.UserID.String()
	}
	if doc.Participants == nil {
		doc.Participants = []entities.Participant{}
	}
	if doc.CalendarAttendees == nil {
		doc.CalendarAttendees = []entities.CalendarAttendee{}
	}
	return doc
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func orEmpty(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
