// Package memrepo holds in-memory repository implementations for tests.
package memrepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/meeting-notetaker/internal/domain/entities"
	"github.com/johnquangdev/meeting-notetaker/internal/domain/repositories"
)

// Recordings is an in-memory RecordingRepository
type Recordings struct {
	mu   sync.Mutex
	rows map[uuid.UUID]entities.Recording
	Err  error // returned by every call when set
}

var _ repositories.RecordingRepository = (*Recordings)(nil)

// NewRecordings creates a store seeded with recs
func NewRecordings(recs ...entities.Recording) *Recordings {
	r := &Recordings{rows: make(map[uuid.UUID]entities.Recording)}
	for _, rec := range recs {
		if rec.ID == uuid.Nil {
			rec.ID = uuid.New()
		}
		r.rows[rec.ID] = rec
	}
	return r
}

func (r *Recordings) Create(_ context.Context, rec *entities.Recording) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	rec.UpdatedAt = rec.CreatedAt
	r.rows[rec.ID] = *rec
	return nil
}

func (r *Recordings) Update(_ context.Context, rec *entities.Recording) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	rec.UpdatedAt = time.Now().UTC()
	r.rows[rec.ID] = *rec
	return nil
}

func (r *Recordings) FindByID(_ context.Context, id uuid.UUID) (*entities.Recording, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	rec, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (r *Recordings) FindByMeetingID(_ context.Context, meetingID string) (*entities.Recording, error) {
	return r.findFirst(func(rec entities.Recording) bool {
		return rec.MeetingID != nil && *rec.MeetingID == meetingID
	})
}

func (r *Recordings) FindByTranscriptID(_ context.Context, transcriptID string) (*entities.Recording, error) {
	return r.findFirst(func(rec entities.Recording) bool {
		return rec.TranscriptID != nil && *rec.TranscriptID == transcriptID
	})
}

func (r *Recordings) findFirst(match func(entities.Recording) bool) (*entities.Recording, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for _, rec := range r.sortedLocked(false) {
		if match(rec) {
			out := rec
			return &out, nil
		}
	}
	return nil, nil
}

func (r *Recordings) List(_ context.Context, f repositories.RecordingFilters) ([]entities.Recording, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, 0, r.Err
	}

	var out []entities.Recording
	for _, rec := range r.sortedLocked(f.OldestFirst) {
		if f.UserID != nil && (rec.UserID == nil || *rec.UserID != *f.UserID) {
			continue
		}
		if len(f.Statuses) > 0 && !hasStatus(f.Statuses, rec.Status) {
			continue
		}
		if f.CreatedAfter != nil && rec.CreatedAt.Before(*f.CreatedAfter) {
			continue
		}
		if f.CreatedBefore != nil && rec.CreatedAt.After(*f.CreatedBefore) {
			continue
		}
		if f.WithBotOnly && (rec.BotID == nil || *rec.BotID == "") {
			continue
		}
		if f.WithTranscript && rec.TranscriptText == nil {
			continue
		}
		out = append(out, rec)
	}

	total := int64(len(out))
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			out = nil
		} else {
			out = out[f.Offset:]
		}
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, total, nil
}

func (r *Recordings) MarkTimedOut(_ context.Context, statuses []entities.RecordingStatus, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}
	var n int64
	for id, rec := range r.rows {
		if hasStatus(statuses, rec.Status) && rec.CreatedAt.Before(cutoff) {
			rec.MarkAsTimedOut()
			r.rows[id] = rec
			n++
		}
	}
	return n, nil
}

// Get returns a copy of a stored row for assertions
func (r *Recordings) Get(id uuid.UUID) (entities.Recording, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.rows[id]
	return rec, ok
}

// All returns every row, newest first
func (r *Recordings) All() []entities.Recording {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sortedLocked(false)
}

func (r *Recordings) sortedLocked(oldestFirst bool) []entities.Recording {
	out := make([]entities.Recording, 0, len(r.rows))
	for _, rec := range r.rows {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if oldestFirst {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func hasStatus(statuses []entities.RecordingStatus, s entities.RecordingStatus) bool {
	for _, candidate := range statuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// Segments is an in-memory TranscriptSegmentRepository
type Segments struct {
	mu   sync.Mutex
	rows map[uuid.UUID][]entities.TranscriptSegment
	Err  error
}

var _ repositories.TranscriptSegmentRepository = (*Segments)(nil)

// NewSegments creates an empty segment store
func NewSegments() *Segments {
	return &Segments{rows: make(map[uuid.UUID][]entities.TranscriptSegment)}
}

func (s *Segments) ReplaceForRecording(_ context.Context, recordingID uuid.UUID, segments []entities.TranscriptSegment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.rows[recordingID] = append([]entities.TranscriptSegment(nil), segments...)
	return nil
}

func (s *Segments) ListByRecording(_ context.Context, recordingID uuid.UUID) ([]entities.TranscriptSegment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return append([]entities.TranscriptSegment(nil), s.rows[recordingID]...), nil
}

// APIKeys is an in-memory APIKeyRepository
type APIKeys struct {
	mu   sync.Mutex
	rows []entities.APIKey
}

var _ repositories.APIKeyRepository = (*APIKeys)(nil)

// NewAPIKeys creates a store seeded with keys
func NewAPIKeys(keys ...entities.APIKey) *APIKeys {
	return &APIKeys{rows: keys}
}

func (a *APIKeys) Create(_ context.Context, key *entities.APIKey) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if key.ID == uuid.Nil {
		key.ID = uuid.New()
	}
	if key.CreatedAt.IsZero() {
		key.CreatedAt = time.Now().UTC()
	}
	a.rows = append(a.rows, *key)
	return nil
}

func (a *APIKeys) FindByHash(_ context.Context, keyHash string) (*entities.APIKey, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, k := range a.rows {
		if k.KeyHash == keyHash {
			out := k
			return &out, nil
		}
	}
	return nil, nil
}

func (a *APIKeys) List(_ context.Context) ([]entities.APIKey, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]entities.APIKey(nil), a.rows...), nil
}

func (a *APIKeys) TouchLastUsed(_ context.Context, id uuid.UUID, at time.Time) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.rows {
		if a.rows[i].ID == id {
			t := at
			a.rows[i].LastUsedAt = &t
		}
	}
	return nil
}
