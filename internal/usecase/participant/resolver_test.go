package participant

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/johnquangdev/meeting-notetaker/internal/domain/entities"
)

func TestResolve_DatabaseWins(t *testing.T) {
	in := Input{
		Participants: []entities.Participant{
			{ID: "a", Name: "Mueller, Anna"},
			{ID: "b", Name: "Notetaker Bot"},
			{ID: "c", Name: "Tom Becker"},
		},
		CalendarAttendees: []entities.CalendarAttendee{{DisplayName: "Someone Else"}},
		TranscriptText:    "[Third Person]: Hi",
	}

	got := Resolve(in)
	assert.Equal(t, entities.ParticipantSourceDatabase, got.Source)
	assert.Equal(t, 2, got.Count)
	assert.Equal(t, []string{"Anna Müller", "Tom Becker"}, got.Names)
}

func TestResolve_StructuredNamesAreNotMetadata(t *testing.T) {
	in := Input{
		Participants: []entities.Participant{
			{ID: "a", Name: "Claudia Updater"},
			{ID: "b", Name: "Renate Titlestad"},
			{ID: "c", Name: "Jan Datema"},
			{ID: "d", Name: "Recording Bot"},
		},
	}

	got := Resolve(in)
	assert.Equal(t, entities.ParticipantSourceDatabase, got.Source)
	assert.Equal(t, 3, got.Count)
	assert.Equal(t, []string{"Claudia Updater", "Renate Titlestad", "Jan Datema"}, got.Names)

	got = Resolve(Input{CalendarAttendees: []entities.CalendarAttendee{{DisplayName: "Title"}, {Email: "date@example.com"}}})
	assert.Equal(t, entities.ParticipantSourceCalendar, got.Source)
	assert.Equal(t, []string{"Title", "date"}, got.Names)
}

func TestResolve_TranscriptDropsMetadataLabels(t *testing.T) {
	text := "[Title]: Weekly\n[User-ID]: 42\n[Renate Titlestad]: Hallo\n[Anna]: Wir vergleichen Q1 --- Q2 heute.\n[Tom]: ok"

	got := Resolve(Input{TranscriptText: text})
	assert.Equal(t, entities.ParticipantSourceTranscript, got.Source)
	assert.Equal(t, []string{"Renate Titlestad", "Anna", "Tom"}, got.Names)
}

func TestResolve_DatabaseOnlyBotsFallsThroughToCalendar(t *testing.T) {
	in := Input{
		Participants: []entities.Participant{{ID: "a", Name: "Meeting Assistant"}},
		CalendarAttendees: []entities.CalendarAttendee{
			{Email: "anna.schmidt@example.com", DisplayName: "Anna Schmidt"},
			{Email: "tom@example.com"},
			{Email: "notetaker@example.com"},
			{Name: "Ben Weber", Email: "ben@example.com"},
		},
	}

	got := Resolve(in)
	assert.Equal(t, entities.ParticipantSourceCalendar, got.Source)
	assert.Equal(t, []string{"Anna Schmidt", "tom", "Ben Weber"}, got.Names)
	assert.Equal(t, 3, got.Count)
}

func TestResolve_Transcript(t *testing.T) {
	text := "[Meeting-Info]\nUser-ID: 42\n---\n" +
		"[Anna] (00:00:00 - 00:00:05): Hallo\n" +
		"[Speaker 2] (00:00:05 - 00:00:09): Hi\n" +
		"[anna] (00:00:09 - 00:00:12): Weiter\n" +
		"[Recording Bot] (00:00:12 - 00:00:13): beep\n" +
		"[Tom] (00:00:13 - 00:00:20): Gut"

	got := Resolve(Input{TranscriptText: text})
	assert.Equal(t, entities.ParticipantSourceTranscript, got.Source)
	assert.Equal(t, []string{"Anna", "Tom"}, got.Names)
}

func TestResolve_TranscriptOnlyPlaceholders(t *testing.T) {
	text := "[Speaker A]: Hello\n[Speaker B]: Hi"

	got := Resolve(Input{TranscriptText: text})
	assert.Equal(t, entities.ParticipantSourceTranscript, got.Source)
	assert.Equal(t, []string{"Speaker A", "Speaker B"}, got.Names)
}

func TestResolve_PlainTranscriptKeepsUnknown(t *testing.T) {
	got := Resolve(Input{TranscriptText: "just prose"})
	assert.Equal(t, entities.ParticipantSourceTranscript, got.Source)
	assert.Equal(t, []string{"Unknown"}, got.Names)
}

func TestResolve_Fallback(t *testing.T) {
	got := Resolve(Input{})
	assert.Equal(t, entities.ParticipantSourceFallback, got.Source)
	assert.Equal(t, 0, got.Count)
	assert.NotNil(t, got.Names)
	assert.Empty(t, got.Names)
}

func TestInputFromRecording(t *testing.T) {
	rec := &entities.Recording{
		Participants:   []entities.Participant{{ID: "1", Name: "Anna"}},
		TranscriptText: entities.StrPtr("[Tom]: Hi"),
	}

	in := InputFromRecording(rec)
	assert.Len(t, in.Participants, 1)
	assert.Equal(t, "[Tom]: Hi", in.TranscriptText)
	assert.Equal(t, Input{}, InputFromRecording(nil))
}
