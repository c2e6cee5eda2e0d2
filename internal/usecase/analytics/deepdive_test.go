package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const salesCall = `[Anna Schmidt] (00:00:00 - 00:00:10): Hallo Tom, wie geht es dir? Schönes Wetter heute.
[Tom Becker] (00:00:10 - 00:00:30): Gut, danke. Wir brauchen eine bessere Lösung für unsere Buchhaltung. Können Sie uns bis Freitag ein Angebot schicken?
[Notetaker] (00:00:30 - 00:00:31): Recording started.
[Anna Schmidt] (00:00:31 - 00:00:40): Ja, das machen wir.`

func TestAnalyze_SpeakersAndOwner(t *testing.T) {
	dive := Analyze(salesCall, "anna.schmidt@example.com")

	require.Len(t, dive.SpeakerShares, 2)
	tom, anna := dive.SpeakerShares[0], dive.SpeakerShares[1]

	assert.Equal(t, "Tom Becker", tom.Name)
	assert.True(t, tom.IsCustomer)
	assert.Equal(t, SpeakerColors[2], tom.Color)

	assert.Equal(t, "Anna Schmidt", anna.Name)
	assert.False(t, anna.IsCustomer)
	assert.Equal(t, SpeakerColors[0], anna.Color)

	assert.Equal(t, 100, tom.Percentage+anna.Percentage)
}

func TestAnalyze_DashesInSpeechKeepSpeakers(t *testing.T) {
	dive := Analyze("[Anna]: Wir vergleichen Q1 --- Q2 heute.\n[Tom]: ok", "")

	names := make([]string, 0, len(dive.SpeakerShares))
	for _, s := range dive.SpeakerShares {
		names = append(names, s.Name)
	}
	assert.ElementsMatch(t, []string{"Anna", "Tom"}, names)
}

func TestAnalyze_QuestionsAndNeeds(t *testing.T) {
	dive := Analyze(salesCall, "anna.schmidt@example.com")

	assert.Equal(t, []string{
		"Hallo Tom, wie geht es dir?",
		"Können Sie uns bis Freitag ein Angebot schicken?",
	}, dive.OpenQuestions)
	assert.Equal(t, []string{"Wir brauchen eine bessere Lösung für unsere Buchhaltung."}, dive.CustomerNeeds)
}

func TestAnalyze_ContentBreakdownSumsTo100(t *testing.T) {
	dive := Analyze(salesCall, "")

	b := dive.ContentBreakdown
	assert.Positive(t, b.SmallTalkWords)
	assert.Positive(t, b.BusinessWords)
	assert.Equal(t, 100, b.SmallTalk+b.Business)
}

func TestAnalyze_WithoutOwnerEveryoneIsCustomer(t *testing.T) {
	dive := Analyze(salesCall, "")
	for _, s := range dive.SpeakerShares {
		assert.True(t, s.IsCustomer, s.Name)
	}
}

func TestAnalyze_Empty(t *testing.T) {
	dive := Analyze("", "anna@example.com")
	assert.Empty(t, dive.SpeakerShares)
	assert.Empty(t, dive.OpenQuestions)
	assert.Equal(t, 0, dive.ContentBreakdown.SmallTalk)
	assert.Equal(t, 0, dive.ContentBreakdown.Business)
}

func TestSplitSentences(t *testing.T) {
	got := splitSentences("Version 2.5 ist da. Wirklich? Ja!  Und dann")
	assert.Equal(t, []string{"Version 2.5 ist da.", "Wirklich?", "Ja!", "Und dann"}, got)
}

func TestSpeakerColor(t *testing.T) {
	assert.Equal(t, SpeakerColors[0], speakerColor(3, false))
	assert.Equal(t, SpeakerColors[1], speakerColor(0, true))
	assert.Equal(t, SpeakerColors[7], speakerColor(6, true))
	assert.Equal(t, SpeakerColors[1], speakerColor(7, true))
}
