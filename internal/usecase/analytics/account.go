package analytics

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/johnquangdev/meeting-notetaker/internal/domain/entities"
)

const (
	// MaxAnalyzedMeetings caps how many recent meetings feed the account snapshot
	MaxAnalyzedMeetings = 50
	maxSpeakers         = 10
	maxQuestions        = 10
	maxNeeds            = 10
	maxWeeks            = 8
	needDedupPrefix     = 40
	weekLabelLayout     = "2006-01-02"
)

// Analyzer produces the deep dive of one meeting transcript
type Analyzer func(transcriptText, ownerEmail string) entities.DeepDive

// Aggregator folds per-meeting deep dives into an account snapshot
type Aggregator struct {
	analyze Analyzer
}

// NewAggregator creates an Aggregator. A nil analyzer falls back to Analyze.
func NewAggregator(analyze Analyzer) *Aggregator {
	if analyze == nil {
		analyze = Analyze
	}
	return &Aggregator{analyze: analyze}
}

// CalculateAccountAnalytics aggregates with the default analyzer
func CalculateAccountAnalytics(recordings []entities.Recording, ownerEmail string) entities.AccountAnalytics {
	return NewAggregator(nil).Calculate(recordings, ownerEmail)
}

type speakerTally struct {
	name       string
	words      int
	isCustomer bool
}

// Calculate builds the snapshot from the 50 most recent finished recordings.
// Recordings without transcript still count toward the totals.
func (a *Aggregator) Calculate(recordings []entities.Recording, ownerEmail string) entities.AccountAnalytics {
	done := recentDone(recordings)

	out := entities.AccountAnalytics{
		TotalMeetings:           len(done),
		AggregatedSpeakerShares: []entities.SpeakerShare{},
		AggregatedOpenQuestions: []string{},
		AggregatedCustomerNeeds: []string{},
		WeeklyData:              []entities.WeeklyBucket{},
	}

	participants := make(map[string]struct{})
	speakerIndex := make(map[string]int)
	var speakers []*speakerTally
	var questions, needs []string
	smallTalkWords, businessWords := 0, 0

	for _, r := range done {
		out.TotalDurationMinutes += minutes(r)
		out.TotalActionItems += len(r.ActionItems)
		out.TotalKeyPoints += len(r.KeyPoints)
		for _, p := range r.Participants {
			if p.Name != "" {
				participants[p.Name] = struct{}{}
			}
		}

		text := r.Transcript()
		if text == "" {
			continue
		}
		dive := a.analyze(text, ownerEmail)

		for _, share := range dive.SpeakerShares {
			if i, ok := speakerIndex[share.Name]; ok {
				speakers[i].words += share.Words
				continue
			}
			speakerIndex[share.Name] = len(speakers)
			speakers = append(speakers, &speakerTally{name: share.Name, words: share.Words, isCustomer: share.IsCustomer})
		}
		smallTalkWords += dive.ContentBreakdown.SmallTalkWords
		businessWords += dive.ContentBreakdown.BusinessWords
		questions = append(questions, dive.OpenQuestions...)
		needs = append(needs, dive.CustomerNeeds...)
	}

	out.TotalParticipants = len(participants)
	if out.TotalMeetings > 0 {
		out.AverageDuration = roundDiv(out.TotalDurationMinutes, out.TotalMeetings)
	}
	out.AggregatedSpeakerShares = speakerShares(speakers)
	out.AggregatedContentBreakdown = breakdown(smallTalkWords, businessWords)
	out.AggregatedOpenQuestions = dedupe(questions, maxQuestions, strings.ToLower)
	out.AggregatedCustomerNeeds = dedupe(needs, maxNeeds, needKey)
	out.WeeklyData = weekly(done)
	return out
}

// recentDone keeps finished recordings, newest first, capped at MaxAnalyzedMeetings
func recentDone(recordings []entities.Recording) []entities.Recording {
	done := make([]entities.Recording, 0, len(recordings))
	for _, r := range recordings {
		if r.IsDone() {
			done = append(done, r)
		}
	}
	sort.SliceStable(done, func(i, j int) bool {
		return done[i].CreatedAt.After(done[j].CreatedAt)
	})
	if len(done) > MaxAnalyzedMeetings {
		done = done[:MaxAnalyzedMeetings]
	}
	return done
}

func speakerShares(speakers []*speakerTally) []entities.SpeakerShare {
	total := 0
	for _, s := range speakers {
		total += s.words
	}
	shares := make([]entities.SpeakerShare, 0, len(speakers))
	for i, s := range speakers {
		shares = append(shares, entities.SpeakerShare{
			Name:       s.name,
			Words:      s.words,
			Percentage: percent(s.words, total),
			IsCustomer: s.isCustomer,
			Color:      speakerColor(i, s.isCustomer),
		})
	}
	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Words > shares[j].Words
	})
	if len(shares) > maxSpeakers {
		shares = shares[:maxSpeakers]
	}
	return shares
}

// dedupe keeps the first item per key, in encounter order, up to limit items
func dedupe(items []string, limit int, key func(string) string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, limit)
	for _, item := range items {
		k := key(item)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, item)
		if len(out) == limit {
			break
		}
	}
	return out
}

func needKey(need string) string {
	runes := []rune(strings.ToLower(need))
	if len(runes) > needDedupPrefix {
		runes = runes[:needDedupPrefix]
	}
	return string(runes)
}

func weekly(recordings []entities.Recording) []entities.WeeklyBucket {
	buckets := make(map[string]*entities.WeeklyBucket)
	for _, r := range recordings {
		label := WeekStart(r.CreatedAt).Format(weekLabelLayout)
		b, ok := buckets[label]
		if !ok {
			b = &entities.WeeklyBucket{Week: label}
			buckets[label] = b
		}
		b.Count++
		b.Minutes += minutes(r)
	}

	out := make([]entities.WeeklyBucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Week < out[j].Week })
	if len(out) > maxWeeks {
		out = out[len(out)-maxWeeks:]
	}
	return out
}

// WeekStart returns midnight UTC of the Monday starting t's week
func WeekStart(t time.Time) time.Time {
	u := t.UTC()
	offset := (int(u.Weekday()) + 6) % 7
	day := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -offset)
}

func minutes(r entities.Recording) int {
	return int(math.Round(float64(r.DurationSeconds()) / 60))
}

func percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

func roundDiv(a, b int) int {
	return int(math.Round(float64(a) / float64(b)))
}

// FormatDuration renders minutes as "45min", "2h" or "1h 30min"
func FormatDuration(minutes int) string {
	hours, mins := minutes/60, minutes%60
	switch {
	case hours == 0:
		return fmt.Sprintf("%dmin", mins)
	case mins == 0:
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dmin", hours, mins)
}
