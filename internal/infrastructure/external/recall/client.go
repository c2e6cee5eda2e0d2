package recall

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-notetaker/internal/domain/entities"
	"github.com/johnquangdev/meeting-notetaker/internal/infrastructure/observability/metrics"
	"github.com/johnquangdev/meeting-notetaker/pkg/config"
)

// Client talks to the meeting bot provider
type Client interface {
	CreateBot(ctx context.Context, req CreateBotRequest) (*Bot, error)
	GetBot(ctx context.Context, botID string) (*Bot, error)
	GetTranscript(ctx context.Context, botID string) ([]entities.BotTranscriptEntry, error)
}

// CreateBotRequest asks the provider to send a bot into a meeting
type CreateBotRequest struct {
	MeetingURL string            `json:"meeting_url"`
	BotName    string            `json:"bot_name,omitempty"`
	JoinAt     *time.Time        `json:"join_at,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// Bot is the provider's view of a bot session
type Bot struct {
	ID            string         `json:"id"`
	Status        string         `json:"status,omitempty"`
	VideoURL      string         `json:"video_url,omitempty"`
	StatusChanges []StatusChange `json:"status_changes,omitempty"`
}

// StatusChange is one entry of the bot's status history
type StatusChange struct {
	Code      string    `json:"code"`
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// LatestStatus returns the explicit status or the newest status change code
func (b *Bot) LatestStatus() string {
	if b.Status != "" {
		return b.Status
	}
	if n := len(b.StatusChanges); n > 0 {
		return b.StatusChanges[n-1].Code
	}
	return ""
}

// APIError is a non-2xx response from the provider
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("bot api returned status %d: %s", e.StatusCode, e.Body)
}

// retryable reports whether the request may succeed when repeated
func (e *APIError) retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

type httpClient struct {
	baseURL    string
	apiKey     string
	http       *http.Client
	logger     *zap.Logger
	metrics    *metrics.Metrics
	newBackOff func() backoff.BackOff
}

// NewClient creates a bot provider client
func NewClient(cfg *config.BotConfig, logger *zap.Logger, m *metrics.Metrics) Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &httpClient{
		baseURL: strings.TrimRight(cfg.APIURL, "/"),
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
		metrics: m,
		newBackOff: func() backoff.BackOff {
			bo := backoff.NewExponentialBackOff()
			bo.InitialInterval = 1 * time.Second
			bo.MaxInterval = 8 * time.Second
			bo.MaxElapsedTime = 20 * time.Second
			return bo
		},
	}
}

// CreateBot dispatches a bot to a meeting URL
func (c *httpClient) CreateBot(ctx context.Context, req CreateBotRequest) (*Bot, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	var bot Bot
	if err := c.do(ctx, "create_bot", http.MethodPost, c.baseURL+"/", body, &bot); err != nil {
		return nil, err
	}
	return &bot, nil
}

// GetBot fetches the current state of a bot
func (c *httpClient) GetBot(ctx context.Context, botID string) (*Bot, error) {
	var bot Bot
	if err := c.do(ctx, "get_bot", http.MethodGet, c.baseURL+"/"+botID, nil, &bot); err != nil {
		return nil, err
	}
	return &bot, nil
}

// GetTranscript fetches the structured transcript of a finished bot
func (c *httpClient) GetTranscript(ctx context.Context, botID string) ([]entities.BotTranscriptEntry, error) {
	var entries []entities.BotTranscriptEntry
	if err := c.do(ctx, "get_transcript", http.MethodGet, c.baseURL+"/"+botID+"/transcript/", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// do performs one logical request. Reads retry transport errors, 429 and 5xx.
// Writes are sent once: a failed create may still have started a bot.
func (c *httpClient) do(ctx context.Context, op, method, url string, body []byte, out any) error {
	idempotent := method == http.MethodGet
	transient := func(err error) error {
		if idempotent {
			return err
		}
		return backoff.Permanent(err)
	}

	attempt := 0
	call := func() error {
		attempt++
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Authorization", "Token "+c.apiKey)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			if c.logger != nil {
				c.logger.Warn("bot api request failed",
					zap.String("operation", op),
					zap.Int("attempt", attempt),
					zap.Error(err),
				)
			}
			return transient(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 300 {
			raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
			apiErr := &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
			if apiErr.retryable() {
				return transient(apiErr)
			}
			return backoff.Permanent(apiErr)
		}

		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return backoff.Permanent(fmt.Errorf("decode %s response: %w", op, err))
		}
		return nil
	}

	err := backoff.Retry(call, backoff.WithContext(c.newBackOff(), ctx))
	if c.metrics != nil {
		c.metrics.BotAPIRequests.WithLabelValues(op, metrics.Outcome(err)).Inc()
	}
	return err
}

// MapStatus translates a provider status code into a recording status.
// Unknown codes map to "" so that callers keep the current status.
func MapStatus(code string) entities.RecordingStatus {
	if s := entities.RecordingStatus(code); s.IsValid() {
		return s
	}
	switch code {
	case "ready", "joining_call", "in_waiting_room":
		return entities.RecordingStatusJoining
	case "in_call_not_recording", "in_call_recording", "recording_permission_allowed":
		return entities.RecordingStatusRecording
	case "call_ended", "recording_done":
		return entities.RecordingStatusProcessing
	case "analysis_done":
		return entities.RecordingStatusDone
	case "fatal", "recording_permission_denied":
		return entities.RecordingStatusError
	}
	return ""
}
