// Package participant derives clean, bot-free participant lists for a meeting.
package participant

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/johnquangdev/meeting-notetaker/internal/domain/entities"
)

// headerScanLimit is how far into a transcript the metadata terminator may start
const headerScanLimit = 500

var botPatterns = []string{"notetaker", "bot", "recording", "assistant", "meetingbot"}

// metadataIDs are matched anywhere in a name; metadataWords only as the whole name
var (
	metadataIDs = []string{
		"user-id", "user_id", "userid",
		"recording-id", "recording_id",
		"bot-id", "bot_id",
		"meeting-id", "meeting_id",
		"meeting-info", "meeting info",
		"created_at", "created-at", "updated_at",
	}
	metadataWords = map[string]struct{}{
		"created": {}, "updated": {}, "title": {}, "date": {}, "duration": {}, "platform": {},
	}
)

var (
	// lastFirstPattern matches "Last, First" with an optional trailing "(...)".
	lastFirstPattern = regexp.MustCompile(`^([^,]+),\s*([^(]+?)\s*(?:\(.*\))?\s*$`)

	// umlautAfterConsonant matches a lowercase digraph preceded by a consonant.
	umlautAfterConsonant = regexp.MustCompile(`([bcdfghjklmnpqrstvwxzßBCDFGHJKLMNPQRSTVWXZ])(oe|ae|ue)`)

	// umlautLeadingCapital matches a capitalised digraph at the start of a word.
	umlautLeadingCapital = regexp.MustCompile(`\b(Oe|Ae|Ue)`)

	genericSpeaker = regexp.MustCompile(`(?i)^(unknown|unbekannt|speaker|sprecher|participant|teilnehmer)(\s*\d+|\s+[a-z])?$`)

	// headerField matches a "Key: value" line of a generated header block.
	headerField = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9 _()\-]{0,39}:(\s|$)`)

	// trailingQualifier matches a "(min)" style suffix on a field name.
	trailingQualifier = regexp.MustCompile(`\s*\([^)]*\)$`)
)

var umlauts = map[string]string{
	"oe": "ö", "ae": "ä", "ue": "ü",
	"Oe": "Ö", "Ae": "Ä", "Ue": "Ü",
}

// IsBot reports whether name looks like a recording bot
func IsBot(name string) bool {
	lower := strings.ToLower(name)
	for _, p := range botPatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// IsMetadataField reports whether a transcript speaker label is really a
// header field of a generated transcript.
func IsMetadataField(name string) bool {
	trimmed := strings.TrimSpace(name)
	if strings.HasPrefix(trimmed, "[") {
		return true
	}
	lower := strings.ToLower(trimmed)
	for _, id := range metadataIDs {
		if strings.Contains(lower, id) {
			return true
		}
	}
	word := trailingQualifier.ReplaceAllString(strings.TrimSuffix(lower, ":"), "")
	_, ok := metadataWords[strings.TrimSpace(word)]
	return ok
}

// IsGenericSpeaker reports whether name is a placeholder such as "Unknown" or "Speaker 2"
func IsGenericSpeaker(name string) bool {
	return genericSpeaker.MatchString(strings.TrimSpace(name))
}

// StripMetadataHeader drops a generated header block: an optional
// "[Meeting-Info]" line and "Key: value" lines, closed by a line of dashes
// that starts within the first 500 characters. Text without such a block is
// returned unchanged.
func StripMetadataHeader(text string) string {
	offset := 0
	fields := 0
	for i, line := range strings.SplitAfter(text, "\n") {
		if offset >= headerScanLimit {
			return text
		}
		trimmed := strings.TrimSpace(line)
		switch {
		case isHeaderTerminator(trimmed):
			if fields == 0 {
				return text
			}
			return text[offset+len(line):]
		case trimmed == "":
		case i == 0 && strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") && IsMetadataField(strings.Trim(trimmed, "[]")):
			fields++
		case headerField.MatchString(trimmed):
			fields++
		default:
			return text
		}
		offset += len(line)
	}
	return text
}

func isHeaderTerminator(line string) bool {
	return len(line) >= 3 && strings.Trim(line, "-") == ""
}

// NormalizeName applies NFC, reorders "Last, First (x)" to "First Last" and
// repairs transliterated umlauts.
func NormalizeName(name string) string {
	n := strings.Join(strings.Fields(norm.NFC.String(name)), " ")
	if m := lastFirstPattern.FindStringSubmatch(n); m != nil {
		last := strings.TrimSpace(m[1])
		first := strings.TrimSpace(m[2])
		if first != "" && last != "" {
			n = first + " " + last
		}
	}
	return RepairUmlauts(n)
}

// RepairUmlauts turns oe/ae/ue after a consonant, and Oe/Ae/Ue at the start of
// a word, into umlauts. It is a heuristic: "Samuel" becomes "Samül".
func RepairUmlauts(name string) string {
	out := umlautAfterConsonant.ReplaceAllStringFunc(name, func(m string) string {
		return m[:len(m)-2] + umlauts[m[len(m)-2:]]
	})
	return umlautLeadingCapital.ReplaceAllStringFunc(out, func(m string) string {
		return umlauts[m]
	})
}

// FilterRealParticipants drops unnamed entries and bots
func FilterRealParticipants(participants []entities.Participant) []entities.Participant {
	kept := make([]entities.Participant, 0, len(participants))
	for _, p := range participants {
		if strings.TrimSpace(p.Name) == "" || IsBot(p.Name) {
			continue
		}
		kept = append(kept, p)
	}
	return kept
}

// CountRealParticipants counts the entries FilterRealParticipants keeps
func CountRealParticipants(participants []entities.Participant) int {
	return len(FilterRealParticipants(participants))
}

// ToParticipants assigns positional ids to names
func ToParticipants(names []string) []entities.Participant {
	out := make([]entities.Participant, 0, len(names))
	for i, n := range names {
		out = append(out, entities.Participant{ID: itoa(i), Name: n})
	}
	return out
}
