// Package transcript turns raw meeting transcripts into ordered speaker segments.
package transcript

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/johnquangdev/meeting-notetaker/internal/domain/entities"
)

// UnknownSpeaker is used whenever a turn cannot be attributed
const UnknownSpeaker = "Unknown"

// taggedTurnSeconds is the synthetic length of a turn without timestamps
const taggedTurnSeconds = 30

// Format identifies which grammar produced a segment list
type Format string

const (
	FormatEmpty       Format = "empty"
	FormatTimestamped Format = "timestamped" // [Speaker] (T1 - T2): text
	FormatTagged      Format = "tagged"      // [Speaker]: text
	FormatPlain       Format = "plain"       // whole text, one segment
)

var (
	// timestampedHeader matches "[Speaker] (0:00 - 0:05):" plus trailing whitespace.
	timestampedHeader = regexp.MustCompile(`\[([^\]]+)\]\s*\((\d{1,2}:\d{2}(?::\d{2})?)\s*-\s*(\d{1,2}:\d{2}(?::\d{2})?)\):\s*`)

	// taggedHeader matches "[Speaker]:" plus trailing whitespace.
	taggedHeader = regexp.MustCompile(`\[([^\]]+)\]:\s*`)
)

// Result is the output of Parse
type Result struct {
	Segments []entities.Segment
	Format   Format
}

// Parse splits text into segments. The timestamped grammar is tried first; the
// tagged grammar only runs when the timestamped one matched nowhere, so
// untimestamped turns in a mixed transcript are dropped. Unrecognised non-empty
// text becomes a single segment attributed to UnknownSpeaker.
func Parse(text string) Result {
	if strings.TrimSpace(text) == "" {
		return Result{Segments: []entities.Segment{}, Format: FormatEmpty}
	}

	segments := make([]entities.Segment, 0)
	for _, turn := range scanTurns(text, timestampedHeader) {
		segments = append(segments, entities.Segment{
			Speaker:   strings.TrimSpace(turn.groups[0]),
			Text:      strings.TrimSpace(turn.body),
			StartTime: float64(ParseTimestamp(turn.groups[1])),
			EndTime:   float64(ParseTimestamp(turn.groups[2])),
		})
	}
	if len(segments) > 0 {
		return Result{Segments: segments, Format: FormatTimestamped}
	}

	for i, turn := range scanTurns(text, taggedHeader) {
		segments = append(segments, entities.Segment{
			Speaker:   strings.TrimSpace(turn.groups[0]),
			Text:      strings.TrimSpace(turn.body),
			StartTime: float64(i * taggedTurnSeconds),
			EndTime:   float64((i + 1) * taggedTurnSeconds),
		})
	}
	if len(segments) > 0 {
		return Result{Segments: segments, Format: FormatTagged}
	}

	return Result{
		Segments: []entities.Segment{{
			Speaker: UnknownSpeaker,
			Text:    strings.TrimSpace(text),
		}},
		Format: FormatPlain,
	}
}

// ParseSegments is Parse without the format tag
func ParseSegments(text string) []entities.Segment {
	return Parse(text).Segments
}

// ParseTimestamp converts "H:MM:SS" or "M:SS" to seconds. Anything else is 0.
func ParseTimestamp(ts string) int {
	parts := strings.Split(strings.TrimSpace(ts), ":")
	nums := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0
		}
		nums = append(nums, n)
	}
	switch len(nums) {
	case 3:
		return nums[0]*3600 + nums[1]*60 + nums[2]
	case 2:
		return nums[0]*60 + nums[1]
	}
	return 0
}

type turn struct {
	groups []string
	body   string
}

// scanTurns finds every header match and pairs it with its utterance. An
// utterance is at least one character long and runs up to the next '[' or the
// end of the text. Scanning resumes where the utterance ends.
func scanTurns(text string, header *regexp.Regexp) []turn {
	var turns []turn
	pos := 0
	for pos < len(text) {
		loc := header.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}
		start, headerEnd := pos+loc[0], pos+loc[1]

		bodyStart := headerEnd
		if bodyStart >= len(text) {
			// The trailing \s* may hand its last character back to the utterance.
			if !endsInSpace(text[start:headerEnd]) {
				pos = start + 1
				continue
			}
			bodyStart--
		}

		bodyEnd := len(text)
		if next := strings.IndexByte(text[bodyStart+1:], '['); next >= 0 {
			bodyEnd = bodyStart + 1 + next
		}

		groups := make([]string, 0, len(loc)/2-1)
		for g := 2; g+1 < len(loc); g += 2 {
			groups = append(groups, text[pos+loc[g]:pos+loc[g+1]])
		}
		turns = append(turns, turn{groups: groups, body: text[bodyStart:bodyEnd]})
		pos = bodyEnd
	}
	return turns
}

func endsInSpace(s string) bool {
	if s == "" {
		return false
	}
	switch s[len(s)-1] {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

// Speakers returns the distinct speakers of segments in first-seen order
func Speakers(segments []entities.Segment) []string {
	seen := make(map[string]struct{}, len(segments))
	speakers := make([]string, 0)
	for _, s := range segments {
		if _, ok := seen[s.Speaker]; ok {
			continue
		}
		seen[s.Speaker] = struct{}{}
		speakers = append(speakers, s.Speaker)
	}
	return speakers
}

// WordCount counts whitespace separated words
func WordCount(text string) int {
	return len(strings.Fields(text))
}
