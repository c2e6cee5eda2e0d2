package export

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
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
	"github.com/johnquangdev/meeting-notetaker/internal/infrastructure/observability/metrics"
	usecaseErrors "github.com/johnquangdev/meeting-notetaker/internal/usecase/errors"
	"github.com/johnquangdev/meeting-notetaker/pkg/config"
)

type memArchive struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (a *memArchive) PutJSON(_ context.Context, name string, body []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.objects[name] = body
	return nil
}

func newExporter(t *testing.T, recs *memrepo.Recordings, cfg config.ExportConfig) (*ExportService, *memrepo.Segments, *memArchive, *metrics.Metrics, *[]time.Duration) {
	t.Helper()
	segs := memrepo.NewSegments()
	archive := &memArchive{objects: map[string][]byte{}}
	m := metrics.NewMetrics(prometheus.NewRegistry())
	svc := NewExportService(recs, segs, archive, cfg, zap.NewNop(), m)

	var slept []time.Duration
	svc.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return svc, segs, archive, m, &slept
}

func TestBulkExport_PostsDoneRecordingsOldestFirst(t *testing.T) {
	base := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)
	first := entities.Recording{ID: uuid.New(), Status: entities.RecordingStatusDone, Title: entities.StrPtr("Kickoff"), CreatedAt: base}
	second := entities.Recording{ID: uuid.New(), Status: entities.RecordingStatusDone, CreatedAt: base.Add(time.Hour), TranscriptText: entities.StrPtr("[Anna]: Hallo")}
	pending := entities.Recording{ID: uuid.New(), Status: entities.RecordingStatusPending, CreatedAt: base}

	var (
		mu       sync.Mutex
		received []Document
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "s3cret", r.Header.Get("X-Export-Secret"))
		var doc Document
		require.NoError(t, json.NewDecoder(r.Body).Decode(&doc))

		mu.Lock()
		received = append(received, doc)
		n := len(received)
		mu.Unlock()

		if n == 2 {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = io.WriteString(w, "upstream down")
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := config.ExportConfig{URL: server.URL, Secret: "s3cret", Delay: 300 * time.Millisecond}
	svc, _, archive, m, slept := newExporter(t, memrepo.NewRecordings(first, second, pending), cfg)

	res, err := svc.BulkExport(context.Background(), BulkInput{})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Attempted)
	assert.Equal(t, 1, res.Exported)
	require.Len(t, res.Details, 2)
	assert.Equal(t, Detail{ID: first.ID, Title: "Kickoff", OK: true, Status: 200}, res.Details[0])
	assert.Equal(t, Detail{ID: second.ID, Title: "Untitled", OK: false, Status: 502, Error: "upstream down"}, res.Details[1])

	require.Len(t, received, 2)
	assert.Equal(t, first.ID.String(), received[0].RecordingID)
	assert.Equal(t, []string{}, received[0].KeyPoints)
	assert.Equal(t, "[Anna]: Hallo", received[1].TranscriptText)

	assert.Equal(t, []time.Duration{300 * time.Millisecond}, *slept)
	assert.Len(t, archive.objects, 2)
	assert.Contains(t, archive.objects, "exports/"+first.ID.String()+".json")
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ExportsDelivered.WithLabelValues("success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ExportsDelivered.WithLabelValues("error")))
}

func TestBulkExport_NothingToExport(t *testing.T) {
	svc, _, _, _, _ := newExporter(t, memrepo.NewRecordings(), config.ExportConfig{})

	res, err := svc.BulkExport(context.Background(), BulkInput{})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Attempted)
	assert.Empty(t, res.Details)
}

func TestBulkExport_RequiresURL(t *testing.T) {
	recs := memrepo.NewRecordings(entities.Recording{Status: entities.RecordingStatusDone})
	svc, _, _, _, _ := newExporter(t, recs, config.ExportConfig{})

	_, err := svc.BulkExport(context.Background(), BulkInput{})
	assert.ErrorIs(t, err, usecaseErrors.ErrExportNotConfigured)
}

func TestBulkExport_LimitAndUser(t *testing.T) {
	userID := uuid.New()
	base := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)
	var seed []entities.Recording
	for i := 0; i < 4; i++ {
		seed = append(seed, entities.Recording{UserID: &userID, Status: entities.RecordingStatusDone, CreatedAt: base.Add(time.Duration(i) * time.Hour)})
	}
	seed = append(seed, entities.Recording{Status: entities.RecordingStatusDone, CreatedAt: base})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	svc, _, _, _, _ := newExporter(t, memrepo.NewRecordings(seed...), config.ExportConfig{URL: server.URL})
	since := base.Add(time.Hour)
	res, err := svc.BulkExport(context.Background(), BulkInput{Limit: 2, Since: &since, UserID: &userID})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Attempted)
	assert.Equal(t, 2, res.Exported)
}

func TestReceive_CreatesRecordingAndSegments(t *testing.T) {
	recs := memrepo.NewRecordings()
	svc, segs, _, m, _ := newExporter(t, recs, config.ExportConfig{})
	id := uuid.New()
	userID := uuid.New()

	res, err := svc.Receive(context.Background(), Document{
		RecordingID:    id.String(),
		UserID:         userID.String(),
		Title:          "Weekly",
		TranscriptText: "[Anna] (0:00 - 0:05): Hallo [Tom] (0:05 - 0:10): Hi",
	})
	require.NoError(t, err)
	assert.Equal(t, &ReceiveResult{Success: true, RecordingID: id, SegmentsCreated: 2}, res)

	stored, ok := recs.Get(id)
	require.True(t, ok)
	assert.Equal(t, entities.RecordingStatusDone, stored.Status)
	assert.Equal(t, userID, *stored.UserID)
	assert.Equal(t, "Weekly", *stored.Title)

	rows, err := segs.ListByRecording(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Tom", rows[1].Speaker)
	assert.Equal(t, 1, rows[1].Position)
	assert.Equal(t, float64(2), testutil.ToFloat64(m.SegmentsStored))
}

func TestReceive_UpdatesExistingAndReplacesSegments(t *testing.T) {
	id := uuid.New()
	recs := memrepo.NewRecordings(entities.Recording{ID: id, Status: entities.RecordingStatusProcessing, Title: entities.StrPtr("Old")})
	svc, segs, _, _, _ := newExporter(t, recs, config.ExportConfig{})
	require.NoError(t, segs.ReplaceForRecording(context.Background(), id,
		entities.NewTranscriptSegments(id, []entities.Segment{{Speaker: "a"}, {Speaker: "b"}, {Speaker: "c"}})))

	res, err := svc.Receive(context.Background(), Document{RecordingID: id.String(), Title: "New", TranscriptText: "just text"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.SegmentsCreated)

	stored, _ := recs.Get(id)
	assert.Equal(t, "New", *stored.Title)
	rows, _ := segs.ListByRecording(context.Background(), id)
	require.Len(t, rows, 1)
	assert.Equal(t, "Unknown", rows[0].Speaker)
}

func TestReceive_SegmentFailureIsNotFatal(t *testing.T) {
	svc, segs, _, _, _ := newExporter(t, memrepo.NewRecordings(), config.ExportConfig{})
	segs.Err = errors.New("insert failed")

	res, err := svc.Receive(context.Background(), Document{RecordingID: uuid.NewString(), TranscriptText: "[A]: hi"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 0, res.SegmentsCreated)
}

func TestReceive_Validation(t *testing.T) {
	svc, _, _, _, _ := newExporter(t, memrepo.NewRecordings(), config.ExportConfig{})

	_, err := svc.Receive(context.Background(), Document{})
	assert.ErrorIs(t, err, usecaseErrors.ErrMissingRecordingID)

	_, err = svc.Receive(context.Background(), Document{RecordingID: uuid.NewString(), UserID: "nope"})
	assert.ErrorIs(t, err, usecaseErrors.ErrInvalidInput)
}

func TestNewDocument_Defaults(t *testing.T) {
	doc := NewDocument(&entities.Recording{ID: uuid.New(), Status: entities.RecordingStatusDone})
	assert.Equal(t, "", doc.Title)
	assert.Equal(t, "", doc.UserID)
	assert.Equal(t, []string{}, doc.ActionItems)
	assert.Equal(t, []entities.Participant{}, doc.Participants)
	assert.Equal(t, []entities.CalendarAttendee{}, doc.CalendarAttendees)
}
