package entities

// Participant is a named meeting attendee. ID is only stable within one response.
type Participant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CalendarAttendee is an invitee taken from the calendar event
type CalendarAttendee struct {
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	Name        string `json:"name,omitempty"`
}

// ParticipantSource names the tier that produced a participant list
type ParticipantSource string

const (
	ParticipantSourceDatabase   ParticipantSource = "database"
	ParticipantSourceCalendar   ParticipantSource = "calendar"
	ParticipantSourceTranscript ParticipantSource = "transcript"
	ParticipantSourceFallback   ParticipantSource = "fallback"
)

// ParticipantResolution is the outcome of resolving who attended a meeting
type ParticipantResolution struct {
	Count  int               `json:"count"`
	Names  []string          `json:"names"`
	Source ParticipantSource `json:"source"`
}
