package participant

import (
	"strconv"
	"strings"

	"github.com/johnquangdev/meeting-notetaker/internal/domain/entities"
	"github.com/johnquangdev/meeting-notetaker/internal/usecase/transcript"
)

// Input holds the three possible participant sources of a meeting
type Input struct {
	Participants      []entities.Participant
	CalendarAttendees []entities.CalendarAttendee
	TranscriptText    string
}

// InputFromRecording collects the sources stored on a recording
func InputFromRecording(r *entities.Recording) Input {
	if r == nil {
		return Input{}
	}
	return Input{
		Participants:      r.Participants,
		CalendarAttendees: r.CalendarAttendees,
		TranscriptText:    r.Transcript(),
	}
}

// Resolve picks the first source that yields a usable name:
// database, then calendar, then transcript. Sources are never merged.
func Resolve(in Input) entities.ParticipantResolution {
	if names := fromRecords(in.Participants); len(names) > 0 {
		return result(names, entities.ParticipantSourceDatabase)
	}
	if names := fromCalendar(in.CalendarAttendees); len(names) > 0 {
		return result(names, entities.ParticipantSourceCalendar)
	}
	if names := FromTranscript(in.TranscriptText); len(names) > 0 {
		return result(names, entities.ParticipantSourceTranscript)
	}
	return result([]string{}, entities.ParticipantSourceFallback)
}

// FromTranscript extracts the human speakers of a transcript. Placeholders
// such as "Speaker 1" are dropped when at least one named speaker exists.
func FromTranscript(text string) []string {
	segments := transcript.ParseSegments(StripMetadataHeader(text))
	names := newNameSet()
	for _, s := range transcript.Speakers(segments) {
		if IsMetadataField(s) {
			continue
		}
		names.add(s)
	}

	named := make([]string, 0, len(names.list))
	for _, n := range names.list {
		if !IsGenericSpeaker(n) {
			named = append(named, n)
		}
	}
	if len(named) > 0 {
		return named
	}
	return names.list
}

func fromRecords(records []entities.Participant) []string {
	names := newNameSet()
	for _, p := range records {
		names.add(p.Name)
	}
	return names.list
}

func fromCalendar(attendees []entities.CalendarAttendee) []string {
	names := newNameSet()
	for _, a := range attendees {
		names.add(attendeeName(a))
	}
	return names.list
}

func attendeeName(a entities.CalendarAttendee) string {
	if strings.TrimSpace(a.DisplayName) != "" {
		return a.DisplayName
	}
	if strings.TrimSpace(a.Name) != "" {
		return a.Name
	}
	if at := strings.IndexByte(a.Email, '@'); at > 0 {
		return a.Email[:at]
	}
	return a.Email
}

func result(names []string, source entities.ParticipantSource) entities.ParticipantResolution {
	return entities.ParticipantResolution{Count: len(names), Names: names, Source: source}
}

// nameSet keeps normalized, non-bot names in insertion order, deduplicated
// case-insensitively.
type nameSet struct {
	seen map[string]struct{}
	list []string
}

func newNameSet() *nameSet {
	return &nameSet{seen: make(map[string]struct{}), list: make([]string, 0)}
}

func (s *nameSet) add(raw string) {
	if strings.TrimSpace(raw) == "" || IsBot(raw) {
		return
	}
	name := NormalizeName(raw)
	if name == "" || IsBot(name) {
		return
	}
	key := strings.ToLower(name)
	if _, ok := s.seen[key]; ok {
		return
	}
	s.seen[key] = struct{}{}
	s.list = append(s.list, name)
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
