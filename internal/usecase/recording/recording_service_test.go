package recording

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-notetaker/internal/adapter/repository/memrepo"
	"github.com/johnquangdev/meeting-notetaker/internal/domain/entities"
	"github.com/johnquangdev/meeting-notetaker/internal/infrastructure/external/recall"
	"github.com/johnquangdev/meeting-notetaker/internal/infrastructure/observability/metrics"
	usecaseErrors "github.com/johnquangdev/meeting-notetaker/internal/usecase/errors"
	"github.com/johnquangdev/meeting-notetaker/pkg/config"
)

type fakeBots struct {
	bots        map[string]*recall.Bot
	transcripts map[string][]entities.BotTranscriptEntry
	err         error
	calls       []string
}

func (f *fakeBots) CreateBot(_ context.Context, req recall.CreateBotRequest) (*recall.Bot, error) {
	return &recall.Bot{ID: "bot-new"}, f.err
}

func (f *fakeBots) GetBot(_ context.Context, id string) (*recall.Bot, error) {
	f.calls = append(f.calls, id)
	if f.err != nil {
		return nil, f.err
	}
	return f.bots[id], nil
}

func (f *fakeBots) GetTranscript(_ context.Context, id string) ([]entities.BotTranscriptEntry, error) {
	return f.transcripts[id], nil
}

var fixedNow = time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC)

func newService(t *testing.T, recs *memrepo.Recordings, bots *fakeBots) (*RecordingService, *memrepo.Segments, *metrics.Metrics) {
	t.Helper()
	segs := memrepo.NewSegments()
	m := metrics.NewMetrics(prometheus.NewRegistry())
	svc := NewRecordingService(recs, segs, bots, config.MaintenanceConfig{}, zap.NewNop(), m)
	svc.now = func() time.Time { return fixedNow }
	return svc, segs, m
}

func word(text string, start, end float64) entities.BotTranscriptWord {
	return entities.BotTranscriptWord{
		Text:           text,
		StartTimestamp: &entities.BotWordTimestamp{Relative: start},
		EndTimestamp:   &entities.BotWordTimestamp{Relative: end},
	}
}

func TestSync_DoneStoresTranscript(t *testing.T) {
	id := uuid.New()
	recs := memrepo.NewRecordings(entities.Recording{
		ID:     id,
		BotID:  entities.StrPtr("bot-1"),
		Status: entities.RecordingStatusProcessing,
	})
	bots := &fakeBots{
		bots: map[string]*recall.Bot{"bot-1": {
			ID:            "bot-1",
			VideoURL:      "https://video.example.com/1.mp4",
			StatusChanges: []recall.StatusChange{{Code: "in_call_recording"}, {Code: "done"}},
		}},
		transcripts: map[string][]entities.BotTranscriptEntry{"bot-1": {
			{Speaker: "Anna Schmidt", Words: []entities.BotTranscriptWord{word("Hallo", 0, 1), word("zusammen", 1, 2)}},
			{Speaker: "Notetaker", Words: []entities.BotTranscriptWord{word("Recording", 2, 3)}},
			{Speaker: "Tom Becker", Words: []entities.BotTranscriptWord{word("Hi", 3, 61.6)}},
		}},
	}
	svc, segs, m := newService(t, recs, bots)

	res, err := svc.Sync(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, entities.RecordingStatusDone, res.Status)
	assert.Equal(t, "done", res.BotStatus)

	stored, _ := recs.Get(id)
	assert.Equal(t, "https://video.example.com/1.mp4", *stored.VideoURL)
	assert.Equal(t, "[Anna Schmidt]: Hallo zusammen\n\n[Notetaker]: Recording\n\n[Tom Becker]: Hi", stored.Transcript())
	assert.Equal(t, 62, stored.DurationSeconds())
	require.Len(t, stored.Participants, 2)
	assert.Equal(t, "Anna Schmidt", stored.Participants[0].Name)
	assert.Equal(t, "Tom Becker", stored.Participants[1].Name)

	rows, err := segs.ListByRecording(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	assert.Equal(t, float64(3), testutil.ToFloat64(m.SegmentsStored))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.RecordingsSync.WithLabelValues("done")))
}

func TestSync_InProgressOnlyUpdatesStatus(t *testing.T) {
	id := uuid.New()
	recs := memrepo.NewRecordings(entities.Recording{ID: id, BotID: entities.StrPtr("bot-1"), Status: entities.RecordingStatusPending})
	bots := &fakeBots{bots: map[string]*recall.Bot{"bot-1": {ID: "bot-1", Status: "in_waiting_room"}}}
	svc, _, _ := newService(t, recs, bots)

	res, err := svc.Sync(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, entities.RecordingStatusJoining, res.Status)

	stored, _ := recs.Get(id)
	assert.Nil(t, stored.TranscriptText)
	assert.Nil(t, stored.VideoURL)
}

func TestSync_UnknownStatusKeepsCurrent(t *testing.T) {
	id := uuid.New()
	recs := memrepo.NewRecordings(entities.Recording{ID: id, BotID: entities.StrPtr("bot-1"), Status: entities.RecordingStatusRecording})
	bots := &fakeBots{bots: map[string]*recall.Bot{"bot-1": {ID: "bot-1", Status: "something_new"}}}
	svc, _, _ := newService(t, recs, bots)

	res, err := svc.Sync(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, entities.RecordingStatusRecording, res.Status)
}

func TestSync_Errors(t *testing.T) {
	noBot := uuid.New()
	withBot := uuid.New()
	recs := memrepo.NewRecordings(
		entities.Recording{ID: noBot},
		entities.Recording{ID: withBot, BotID: entities.StrPtr("bot-1")},
	)
	bots := &fakeBots{err: errors.New("bot api returned status 404: not found")}
	svc, _, _ := newService(t, recs, bots)

	_, err := svc.Sync(context.Background(), uuid.New())
	assert.ErrorIs(t, err, usecaseErrors.ErrRecordingNotFound)

	_, err = svc.Sync(context.Background(), noBot)
	assert.ErrorIs(t, err, usecaseErrors.ErrNoBotID)

	_, err = svc.Sync(context.Background(), withBot)
	assert.ErrorIs(t, err, usecaseErrors.ErrBotAPI)
	assert.ErrorContains(t, err, "404")
}

func TestSegments_StoredThenParsed(t *testing.T) {
	svc, segs, m := newService(t, memrepo.NewRecordings(), &fakeBots{})
	rec := &entities.Recording{
		ID:             uuid.New(),
		TranscriptText: entities.StrPtr("[Anna] (0:00 - 0:05): Hallo\n[Tom] (0:05 - 0:09): Hi"),
	}

	parsed, err := svc.Segments(context.Background(), rec)
	require.NoError(t, err)
	require.Len(t, parsed, 2)
	assert.Equal(t, "Tom", parsed[1].Speaker)
	assert.Equal(t, float64(9), parsed[1].EndTime)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.TranscriptsParsed.WithLabelValues("timestamped")))

	stored := entities.NewTranscriptSegments(rec.ID, []entities.Segment{{Speaker: "Stored", Text: "row"}})
	require.NoError(t, segs.ReplaceForRecording(context.Background(), rec.ID, stored))

	got, err := svc.Segments(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, []entities.Segment{{Speaker: "Stored", Text: "row"}}, got)
}

func TestParticipants_CountsSource(t *testing.T) {
	svc, _, m := newService(t, memrepo.NewRecordings(), &fakeBots{})
	rec := &entities.Recording{
		CalendarAttendees: []entities.CalendarAttendee{{Email: "tom@example.com", DisplayName: "Becker, Tom"}},
	}

	res := svc.Participants(context.Background(), rec)
	assert.Equal(t, entities.ParticipantSourceCalendar, res.Source)
	assert.Equal(t, []string{"Tom Becker"}, res.Names)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ParticipantSource.WithLabelValues("calendar")))
}

func TestAnalysis_RequiresTranscript(t *testing.T) {
	svc, _, _ := newService(t, memrepo.NewRecordings(), &fakeBots{})

	_, err := svc.Analysis(context.Background(), &entities.Recording{}, "")
	assert.ErrorIs(t, err, usecaseErrors.ErrTranscriptMissing)

	dive, err := svc.Analysis(context.Background(), &entities.Recording{
		TranscriptText: entities.StrPtr("[Anna]: Wir brauchen ein Angebot."),
	}, "")
	require.NoError(t, err)
	require.Len(t, dive.SpeakerShares, 1)
	assert.Equal(t, "Anna", dive.SpeakerShares[0].Name)
}

func TestAccountAnalytics_OnlyOwnDoneRecordings(t *testing.T) {
	userID := uuid.New()
	other := uuid.New()
	recs := memrepo.NewRecordings(
		entities.Recording{UserID: &userID, Status: entities.RecordingStatusDone, Duration: entities.IntPtr(1800), CreatedAt: fixedNow},
		entities.Recording{UserID: &userID, Status: entities.RecordingStatusPending, CreatedAt: fixedNow},
		entities.Recording{UserID: &other, Status: entities.RecordingStatusDone, CreatedAt: fixedNow},
	)
	svc, _, _ := newService(t, recs, &fakeBots{})

	out, err := svc.AccountAnalytics(context.Background(), userID, "")
	require.NoError(t, err)
	assert.Equal(t, 1, out.TotalMeetings)
	assert.Equal(t, 30, out.TotalDurationMinutes)
}

func TestList_ScopesAndPaginates(t *testing.T) {
	userID := uuid.New()
	var seed []entities.Recording
	for i := 0; i < 5; i++ {
		seed = append(seed, entities.Recording{UserID: &userID, Status: entities.RecordingStatusDone, CreatedAt: fixedNow.Add(time.Duration(i) * time.Minute)})
	}
	seed = append(seed, entities.Recording{UserID: &userID, Status: entities.RecordingStatusError, CreatedAt: fixedNow})
	svc, _, _ := newService(t, memrepo.NewRecordings(seed...), &fakeBots{})

	done := entities.RecordingStatusDone
	page, total, err := svc.List(context.Background(), userID, ListInput{Status: &done, Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, page, 2)
	assert.Equal(t, fixedNow.Add(2*time.Minute), page[0].CreatedAt)

	bogus := entities.RecordingStatus("bogus")
	_, _, err = svc.List(context.Background(), userID, ListInput{Status: &bogus})
	assert.ErrorIs(t, err, usecaseErrors.ErrInvalidInput)
}

func TestCleanupStale(t *testing.T) {
	old := fixedNow.Add(-5 * time.Hour)
	recs := memrepo.NewRecordings(
		entities.Recording{ID: uuid.New(), Status: entities.RecordingStatusJoining, CreatedAt: old},
		entities.Recording{ID: uuid.New(), Status: entities.RecordingStatusProcessing, CreatedAt: old},
		entities.Recording{ID: uuid.New(), Status: entities.RecordingStatusPending, CreatedAt: fixedNow.Add(-time.Hour)},
	)
	svc, _, m := newService(t, recs, &fakeBots{})

	n, err := svc.CleanupStale(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.RecordingsTimedOut))

	statuses := map[entities.RecordingStatus]int{}
	for _, r := range recs.All() {
		statuses[r.Status]++
	}
	assert.Equal(t, 1, statuses[entities.RecordingStatusTimeout])
	assert.Equal(t, 1, statuses[entities.RecordingStatusProcessing])
	assert.Equal(t, 1, statuses[entities.RecordingStatusPending])
}

func TestAutoSync_SelectsWindowAndReportsPerItem(t *testing.T) {
	inWindow := uuid.New()
	failing := uuid.New()
	recs := memrepo.NewRecordings(
		entities.Recording{ID: inWindow, BotID: entities.StrPtr("bot-ok"), Status: entities.RecordingStatusRecording, CreatedAt: fixedNow.Add(-time.Hour)},
		entities.Recording{ID: failing, BotID: entities.StrPtr("bot-gone"), Status: entities.RecordingStatusJoining, CreatedAt: fixedNow.Add(-2 * time.Hour)},
		entities.Recording{ID: uuid.New(), BotID: entities.StrPtr("bot-young"), Status: entities.RecordingStatusPending, CreatedAt: fixedNow.Add(-time.Minute)},
		entities.Recording{ID: uuid.New(), BotID: entities.StrPtr("bot-old"), Status: entities.RecordingStatusPending, CreatedAt: fixedNow.Add(-5 * time.Hour)},
		entities.Recording{ID: uuid.New(), Status: entities.RecordingStatusPending, CreatedAt: fixedNow.Add(-time.Hour)},
		entities.Recording{ID: uuid.New(), BotID: entities.StrPtr("bot-done"), Status: entities.RecordingStatusDone, CreatedAt: fixedNow.Add(-time.Hour)},
	)
	bots := &fakeBots{bots: map[string]*recall.Bot{
		"bot-ok":   {ID: "bot-ok", Status: "call_ended"},
		"bot-gone": nil,
	}}
	svc, _, _ := newService(t, recs, bots)
	svc.bots = &missingBot{fakeBots: bots, missing: "bot-gone"}

	res, err := svc.AutoSync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Synced)
	assert.Equal(t, 1, res.Successful)
	require.Len(t, res.Results, 2)

	// oldest first
	assert.Equal(t, failing, res.Results[0].ID)
	assert.Equal(t, entities.RecordingStatusJoining, res.Results[0].Status)
	assert.Contains(t, res.Results[0].Result, "bot provider request failed")

	assert.Equal(t, inWindow, res.Results[1].ID)
	assert.Equal(t, entities.RecordingStatusProcessing, res.Results[1].Status)
	assert.Equal(t, "synced", res.Results[1].Result)
}

type missingBot struct {
	*fakeBots
	missing string
}

func (m *missingBot) GetBot(ctx context.Context, id string) (*recall.Bot, error) {
	if id == m.missing {
		return nil, &recall.APIError{StatusCode: 404, Body: "not found"}
	}
	return m.fakeBots.GetBot(ctx, id)
}

func TestTranscripts_FiltersAndCaps(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()
	text := entities.StrPtr("[Anna]: Hallo")
	recs := memrepo.NewRecordings(
		entities.Recording{ID: uuid.New(), UserID: &owner, Status: entities.RecordingStatusDone, TranscriptText: text, CreatedAt: fixedNow.Add(-time.Hour)},
		entities.Recording{ID: uuid.New(), UserID: &owner, Status: entities.RecordingStatusDone, CreatedAt: fixedNow.Add(-time.Hour)},
		entities.Recording{ID: uuid.New(), UserID: &owner, Status: entities.RecordingStatusError, TranscriptText: text, CreatedAt: fixedNow.Add(-time.Hour)},
		entities.Recording{ID: uuid.New(), UserID: &other, Status: entities.RecordingStatusDone, TranscriptText: text, CreatedAt: fixedNow.Add(-48 * time.Hour)},
	)
	svc, _, _ := newService(t, recs, &fakeBots{})
	ctx := context.Background()

	all, err := svc.Transcripts(ctx, TranscriptQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := svc.Transcripts(ctx, TranscriptQuery{UserID: &owner})
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	since := fixedNow.Add(-24 * time.Hour)
	recent, err := svc.Transcripts(ctx, TranscriptQuery{Since: &since})
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, owner, *recent[0].UserID)

	failed, err := svc.Transcripts(ctx, TranscriptQuery{Status: entities.RecordingStatusError, Limit: 9999})
	require.NoError(t, err)
	assert.Len(t, failed, 1)

	_, err = svc.Transcripts(ctx, TranscriptQuery{Status: "bogus"})
	assert.ErrorIs(t, err, usecaseErrors.ErrInvalidInput)
}
