// Package webhook handles inbound calendar and transcription callbacks and
// the client side that fires the calendar callback.
package webhook

import (
	"regexp"
	"strings"

	"github.com/johnquangdev/meeting-notetaker/internal/domain/entities"
)

// MeetingPayload is the body of the meeting-bot webhook
type MeetingPayload struct {
	MeetingID   string                      `json:"meeting_id"`
	MeetingURL  *string                     `json:"meeting_url"`
	Title       string                      `json:"title"`
	StartTime   string                      `json:"start_time"`
	EndTime     string                      `json:"end_time"`
	Attendees   []entities.CalendarAttendee `json:"attendees"`
	TriggeredAt string                      `json:"triggered_at"`
	UserID      string                      `json:"user_id,omitempty"`
}

// MissingFields lists the required fields that are empty
func (p *MeetingPayload) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(p.MeetingID) == "" {
		missing = append(missing, "meeting_id")
	}
	if strings.TrimSpace(p.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(p.StartTime) == "" {
		missing = append(missing, "start_time")
	}
	return missing
}

// CalendarEvent is the calendar entry a bot is triggered for
type CalendarEvent struct {
	ID          string                      `json:"id" yaml:"id"`
	Summary     string                      `json:"summary" yaml:"summary"`
	Start       string                      `json:"start" yaml:"start"`
	End         string                      `json:"end" yaml:"end"`
	MeetingURL  string                      `json:"meetingUrl,omitempty" yaml:"meetingUrl,omitempty"`
	HangoutLink string                      `json:"hangoutLink,omitempty" yaml:"hangoutLink,omitempty"`
	Location    string                      `json:"location,omitempty" yaml:"location,omitempty"`
	Description string                      `json:"description,omitempty" yaml:"description,omitempty"`
	Attendees   []entities.CalendarAttendee `json:"attendees,omitempty" yaml:"attendees,omitempty"`
}

var urlPattern = regexp.MustCompile(`https?://[^\s]+`)

// ExtractURL returns the first http(s) URL in text, or ""
func ExtractURL(text string) string {
	return urlPattern.FindString(text)
}

// ResolveMeetingURL picks the join link by priority: explicit meeting URL,
// hangout link, first URL in the location, first URL in the description.
func ResolveMeetingURL(e CalendarEvent) string {
	for _, candidate := range []string{
		e.MeetingURL,
		e.HangoutLink,
		ExtractURL(e.Location),
		ExtractURL(e.Description),
	} {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

// NewMeetingPayload builds the webhook body for an event
func NewMeetingPayload(e CalendarEvent, triggeredAt string) MeetingPayload {
	p := MeetingPayload{
		MeetingID:   e.ID,
		Title:       e.Summary,
		StartTime:   e.Start,
		EndTime:     e.End,
		Attendees:   e.Attendees,
		TriggeredAt: triggeredAt,
	}
	if u := ResolveMeetingURL(e); u != "" {
		p.MeetingURL = &u
	}
	if p.Attendees == nil {
		p.Attendees = []entities.CalendarAttendee{}
	}
	return p
}
