package participant

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-notetaker/internal/domain/entities"
)

func TestIsBot(t *testing.T) {
	bots := []string{"Notetaker", "Fireflies Bot", "Recording Service", "AI Assistant", "MeetingBot", "abbot"}
	for _, name := range bots {
		assert.True(t, IsBot(name), name)
	}
	for _, name := range []string{"Anna Müller", "Tom Becker", "Robert"} {
		assert.False(t, IsBot(name), name)
	}
}

func TestIsMetadataField(t *testing.T) {
	for _, name := range []string{"User-ID", "recording_id", "Created", "Meeting-Info", "[Meeting-Info]", "Duration (min)", "Title:", "meeting_id 42"} {
		assert.True(t, IsMetadataField(name), name)
	}
	for _, name := range []string{"Anna", "Ben Tom", "Renate Titlestad", "Jan Datema", "Claudia Updater", "Platformer"} {
		assert.False(t, IsMetadataField(name), name)
	}
}

func TestStripMetadataHeader(t *testing.T) {
	text := "[Meeting-Info]\nUser-ID: 42\nCreated: 2024-05-01\n---\n[Anna]: Hallo"
	assert.Equal(t, "[Anna]: Hallo", StripMetadataHeader(text))

	fieldsOnly := "Title: Q1 Review\nDuration (min): 30\n-----\n[Anna]: Hallo"
	assert.Equal(t, "[Anna]: Hallo", StripMetadataHeader(fieldsOnly))

	late := strings.Repeat("x", 600) + "\n---\n[Anna]: Hallo"
	assert.Equal(t, late, StripMetadataHeader(late))

	assert.Equal(t, "[Anna]: Hallo", StripMetadataHeader("[Anna]: Hallo"))
}

func TestStripMetadataHeader_KeepsDashesInSpeech(t *testing.T) {
	inline := "[Anna]: Wir vergleichen Q1 --- Q2 heute.\n[Tom]: ok"
	assert.Equal(t, inline, StripMetadataHeader(inline))

	ownLine := "[Anna]: Erst Q1\n---\n[Tom]: dann Q2"
	assert.Equal(t, ownLine, StripMetadataHeader(ownLine))

	bare := "---\n[Anna]: Hallo"
	assert.Equal(t, bare, StripMetadataHeader(bare))
}

func TestNormalizeName_LastFirst(t *testing.T) {
	cases := map[string]string{
		"Müller, Anna":       "Anna Müller",
		"Becker, Tom (TB)":   "Tom Becker",
		"Tom, Ben (B.)":      "Ben Tom",
		"  Anna   Schmidt  ": "Anna Schmidt",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeName(in), in)
	}
}

func TestNormalizeName_NFC(t *testing.T) {
	decomposed := "Mu\u0308ller, Anna"
	assert.Equal(t, "Anna Müller", NormalizeName(decomposed))
}

func TestNormalizeName_Idempotent(t *testing.T) {
	for _, name := range []string{"Anna Müller", "Tom Becker", "Jürgen Klopp", "Ben Tom"} {
		once := NormalizeName(name)
		assert.Equal(t, once, NormalizeName(once), name)
	}
}

func TestRepairUmlauts(t *testing.T) {
	cases := map[string]string{
		"Mueller":      "Müller",
		"Goerge":       "Görge",
		"Boeing":       "Böing",
		"Schroeder":    "Schröder",
		"Oelschlaeger": "Ölschläger",
		"Ueberall":     "Überall",
		"Straesser":    "Strässer",
		// Known false positive of the heuristic.
		"Samuel": "Samül",
		// Vowel before the digraph is left alone.
		"Raoul": "Raoul",
	}
	for in, want := range cases {
		assert.Equal(t, want, RepairUmlauts(in), in)
	}
}

func TestFilterRealParticipants(t *testing.T) {
	in := []entities.Participant{
		{ID: "1", Name: "Anna"},
		{ID: "2", Name: "Notetaker"},
		{ID: "3", Name: ""},
		{ID: "4", Name: "Tom"},
	}

	got := FilterRealParticipants(in)
	require.Len(t, got, 2)
	assert.Equal(t, "Anna", got[0].Name)
	assert.Equal(t, "Tom", got[1].Name)
	assert.Equal(t, 2, CountRealParticipants(in))
	assert.Equal(t, 0, CountRealParticipants(nil))
}

func TestToParticipants(t *testing.T) {
	got := ToParticipants([]string{"Anna", "Tom"})
	assert.Equal(t, []entities.Participant{{ID: "0", Name: "Anna"}, {ID: "1", Name: "Tom"}}, got)
}
