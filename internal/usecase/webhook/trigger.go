package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/johnquangdev/meeting-notetaker/pkg/signature"
)

// ErrAlreadyTriggered is returned when the event id is already in the set
var ErrAlreadyTriggered = errors.New("webhook already triggered for meeting")

// TriggeredSet holds the event ids a caller already fired the webhook for.
// Each caller owns its own set.
type TriggeredSet struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

// NewTriggeredSet creates an empty set
func NewTriggeredSet() *TriggeredSet {
	return &TriggeredSet{ids: make(map[string]struct{})}
}

// add reports false when id was already present
func (s *TriggeredSet) add(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; ok {
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

func (s *TriggeredSet) remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.ids, id)
}

// Has reports whether id was triggered
func (s *TriggeredSet) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of tracked ids
func (s *TriggeredSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

// Cleanup drops ids of events that no longer exist
func (s *TriggeredSet) Cleanup(currentIDs []string) {
	keep := make(map[string]struct{}, len(currentIDs))
	for _, id := range currentIDs {
		keep[id] = struct{}{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.ids {
		if _, ok := keep[id]; !ok {
			delete(s.ids, id)
		}
	}
}

// Trigger posts meeting-bot webhooks for calendar events
type Trigger struct {
	endpoint string
	secret   string
	userID   string
	http     *http.Client
	set      *TriggeredSet
	now      func() time.Time
}

// NewTrigger creates a trigger posting to endpoint. Requests are signed when
// secret is set; userID is attached to every payload when not empty.
func NewTrigger(endpoint, secret, userID string, set *TriggeredSet) *Trigger {
	if set == nil {
		set = NewTriggeredSet()
	}
	return &Trigger{
		endpoint: endpoint,
		secret:   secret,
		userID:   userID,
		http:     &http.Client{Timeout: 15 * time.Second},
		set:      set,
		now:      time.Now,
	}
}

// Set returns the trigger's triggered-id set
func (t *Trigger) Set() *TriggeredSet {
	return t.set
}

// Fire sends the webhook for e once. On failure the id is released so a
// later call retries.
func (t *Trigger) Fire(ctx context.Context, e CalendarEvent) (*MeetingBotResult, error) {
	if !t.set.add(e.ID) {
		return nil, ErrAlreadyTriggered
	}

	res, err := t.post(ctx, e)
	if err != nil {
		t.set.remove(e.ID)
		return nil, err
	}
	return res, nil
}

func (t *Trigger) post(ctx context.Context, e CalendarEvent) (*MeetingBotResult, error) {
	now := t.now().UTC()
	payload := NewMeetingPayload(e, now.Format(time.RFC3339))
	payload.UserID = t.userID

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if t.secret != "" {
		ts, sig := signature.SignRequest(t.secret, body, now)
		req.Header.Set(signature.HeaderTimestamp, ts)
		req.Header.Set(signature.HeaderSignature, sig)
	}

	resp, err := t.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, bytes.TrimSpace(raw))
	}

	// Accept both the bare acknowledgement and the {code,message,data} envelope.
	var envelope struct {
		Data *MeetingBotResult `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Data != nil {
		return envelope.Data, nil
	}
	var res MeetingBotResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("decode webhook response: %w", err)
	}
	return &res, nil
}
