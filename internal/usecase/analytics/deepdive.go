// Package analytics computes per-meeting and account-level meeting statistics.
package analytics

import (
	"sort"
	"strings"
	"unicode"

	"github.com/johnquangdev/meeting-notetaker/internal/domain/entities"
	"github.com/johnquangdev/meeting-notetaker/internal/usecase/participant"
	"github.com/johnquangdev/meeting-notetaker/internal/usecase/transcript"
)

// SpeakerColors is the chart palette. Index 0 is reserved for the account owner.
var SpeakerColors = []string{
	"hsl(210, 80%, 55%)",
	"hsl(150, 70%, 50%)",
	"hsl(30, 80%, 55%)",
	"hsl(280, 60%, 55%)",
	"hsl(350, 70%, 55%)",
	"hsl(180, 60%, 45%)",
	"hsl(60, 70%, 45%)",
	"hsl(320, 60%, 55%)",
}

// minQuestionWords filters out tag questions such as "Okay?"
const minQuestionWords = 3

var smallTalkKeywords = []string{
	"wetter", "weather", "wochenende", "weekend", "urlaub", "vacation", "holiday",
	"wie geht", "how are you", "how's it going", "familie", "family", "kinder", "kids",
	"kaffee", "coffee", "hobby", "fußball", "football", "geburtstag", "birthday",
	"schönen tag", "nice day", "gut geschlafen", "lunch", "mittagessen",
}

var needKeywords = []string{
	"brauchen", "brauche", "benötigen", "benötige", "wünschen", "wünsche", "möchten", "hätten gern",
	"suchen", "problem", "herausforderung", "schwierig",
	"need", "want", "would like", "looking for", "require", "challenge", "struggle", "issue",
}

// Analyze produces the per-meeting deep dive of a transcript. Speakers whose
// name matches the owner's e-mail local part count as the owner; everyone
// else is a customer. Bot speakers are ignored.
func Analyze(transcriptText, ownerEmail string) entities.DeepDive {
	dive := entities.DeepDive{
		SpeakerShares: []entities.SpeakerShare{},
		OpenQuestions: []string{},
		CustomerNeeds: []string{},
	}

	segments := transcript.ParseSegments(participant.StripMetadataHeader(transcriptText))
	owner := ownerTokens(ownerEmail)

	type tally struct {
		words      int
		isCustomer bool
	}
	order := make([]string, 0)
	tallies := make(map[string]*tally)
	seenQuestions := make(map[string]struct{})
	seenNeeds := make(map[string]struct{})
	smallTalkWords, businessWords := 0, 0

	for _, seg := range segments {
		if participant.IsBot(seg.Speaker) {
			continue
		}
		isCustomer := !isOwner(seg.Speaker, owner)

		t, ok := tallies[seg.Speaker]
		if !ok {
			t = &tally{isCustomer: isCustomer}
			tallies[seg.Speaker] = t
			order = append(order, seg.Speaker)
		}

		for _, sentence := range splitSentences(seg.Text) {
			words := transcript.WordCount(sentence)
			t.words += words
			lower := strings.ToLower(sentence)

			if containsAny(lower, smallTalkKeywords) {
				smallTalkWords += words
			} else {
				businessWords += words
			}

			if strings.HasSuffix(sentence, "?") && words >= minQuestionWords {
				if _, dup := seenQuestions[lower]; !dup {
					seenQuestions[lower] = struct{}{}
					dive.OpenQuestions = append(dive.OpenQuestions, sentence)
				}
			}

			if isCustomer && containsAny(lower, needKeywords) {
				if _, dup := seenNeeds[lower]; !dup {
					seenNeeds[lower] = struct{}{}
					dive.CustomerNeeds = append(dive.CustomerNeeds, sentence)
				}
			}
		}
	}

	total := 0
	for _, t := range tallies {
		total += t.words
	}
	for i, name := range order {
		t := tallies[name]
		dive.SpeakerShares = append(dive.SpeakerShares, entities.SpeakerShare{
			Name:       name,
			Words:      t.words,
			Percentage: percent(t.words, total),
			IsCustomer: t.isCustomer,
			Color:      speakerColor(i, t.isCustomer),
		})
	}
	sort.SliceStable(dive.SpeakerShares, func(a, b int) bool {
		return dive.SpeakerShares[a].Words > dive.SpeakerShares[b].Words
	})

	dive.ContentBreakdown = breakdown(smallTalkWords, businessWords)
	return dive
}

// speakerColor gives the owner the reserved color and cycles customers
// through the rest of the palette by index.
func speakerColor(index int, isCustomer bool) string {
	if !isCustomer {
		return SpeakerColors[0]
	}
	return SpeakerColors[(index%(len(SpeakerColors)-1))+1]
}

// breakdown computes percentages that add up to 100 whenever any word was counted
func breakdown(smallTalkWords, businessWords int) entities.ContentBreakdown {
	b := entities.ContentBreakdown{SmallTalkWords: smallTalkWords, BusinessWords: businessWords}
	if total := smallTalkWords + businessWords; total > 0 {
		b.SmallTalk = percent(smallTalkWords, total)
		b.Business = 100 - b.SmallTalk
	}
	return b
}

func ownerTokens(email string) []string {
	at := strings.IndexByte(email, '@')
	if at <= 0 {
		return nil
	}
	parts := strings.FieldsFunc(strings.ToLower(email[:at]), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if len([]rune(p)) >= 2 {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

func isOwner(speaker string, owner []string) bool {
	if len(owner) == 0 {
		return false
	}
	for _, word := range strings.Fields(strings.ToLower(participant.NormalizeName(speaker))) {
		for _, tok := range owner {
			if word == tok || participant.RepairUmlauts(tok) == word {
				return true
			}
		}
	}
	return false
}

// splitSentences cuts after '.', '!' or '?' when followed by whitespace or the end.
func splitSentences(text string) []string {
	var sentences []string
	runes := []rune(text)
	start := 0
	for i, r := range runes {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}
		if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
			sentences = append(sentences, s)
		}
		start = i + 1
	}
	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
