package transcript

import (
	"fmt"
	"strings"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"

	"github.com/johnquangdev/meeting-notetaker/internal/domain/entities"
)

// SegmentsFromBotTranscript maps the bot provider's per-speaker entries to
// segments one to one. Times come from the first and last word when present.
func SegmentsFromBotTranscript(entries []entities.BotTranscriptEntry) []entities.Segment {
	segments := make([]entities.Segment, 0, len(entries))
	for _, e := range entries {
		seg := entities.Segment{
			Speaker: speakerOrUnknown(e.Speaker),
			Text:    joinWords(e.Words),
		}
		if n := len(e.Words); n > 0 {
			if ts := e.Words[0].StartTimestamp; ts != nil {
				seg.StartTime = ts.Relative
			}
			if ts := e.Words[n-1].EndTimestamp; ts != nil {
				seg.EndTime = ts.Relative
			}
		}
		segments = append(segments, seg)
	}
	return segments
}

// FormatBotTranscript renders bot entries as "[Speaker]: text" blocks so the
// stored text parses back through the tagged grammar.
func FormatBotTranscript(entries []entities.BotTranscriptEntry) string {
	blocks := make([]string, 0, len(entries))
	for _, e := range entries {
		blocks = append(blocks, fmt.Sprintf("[%s]: %s", speakerOrUnknown(e.Speaker), joinWords(e.Words)))
	}
	return strings.Join(blocks, "\n\n")
}

// SegmentsFromUtterances maps transcription utterances (millisecond offsets,
// single letter speaker labels) to segments.
func SegmentsFromUtterances(utterances []aai.TranscriptUtterance) []entities.Segment {
	segments := make([]entities.Segment, 0, len(utterances))
	for _, u := range utterances {
		seg := entities.Segment{Speaker: UnknownSpeaker}
		if u.Speaker != nil && *u.Speaker != "" {
			seg.Speaker = "Speaker " + *u.Speaker
		}
		if u.Text != nil {
			seg.Text = strings.TrimSpace(*u.Text)
		}
		if u.Start != nil {
			seg.StartTime = float64(*u.Start) / 1000.0
		}
		if u.End != nil {
			seg.EndTime = float64(*u.End) / 1000.0
		}
		segments = append(segments, seg)
	}
	return segments
}

// FormatSegments renders segments in the timestamped grammar
func FormatSegments(segments []entities.Segment) string {
	lines := make([]string, 0, len(segments))
	for _, s := range segments {
		lines = append(lines, fmt.Sprintf("[%s] (%s - %s): %s",
			s.Speaker, FormatTimestamp(int(s.StartTime)), FormatTimestamp(int(s.EndTime)), s.Text))
	}
	return strings.Join(lines, "\n")
}

// FormatTimestamp renders seconds as HH:MM:SS
func FormatTimestamp(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}

func speakerOrUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return UnknownSpeaker
	}
	return s
}

func joinWords(words []entities.BotTranscriptWord) string {
	parts := make([]string, 0, len(words))
	for _, w := range words {
		parts = append(parts, w.Text)
	}
	return strings.Join(parts, " ")
}
