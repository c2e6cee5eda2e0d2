package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/johnquangdev/meeting-notetaker/internal/domain/entities"
	"github.com/johnquangdev/meeting-notetaker/internal/domain/repositories"
	"github.com/johnquangdev/meeting-notetaker/internal/infrastructure/external/recall"
	"github.com/johnquangdev/meeting-notetaker/internal/infrastructure/observability/metrics"
	usecaseErrors "github.com/johnquangdev/meeting-notetaker/internal/usecase/errors"
	"github.com/johnquangdev/meeting-notetaker/pkg/config"
	"github.com/johnquangdev/meeting-notetaker/pkg/signature"
)

const kindMeetingBot = "meeting_bot"

// Tracker remembers which meetings already got a bot
type Tracker interface {
	MarkIfNew(ctx context.Context, key string) (bool, error)
	Forget(ctx context.Context, key string) error
}

// MeetingBotRequest is a raw webhook delivery
type MeetingBotRequest struct {
	Body      []byte
	Timestamp string
	Signature string
}

// MeetingBotResult is the webhook acknowledgement
type MeetingBotResult struct {
	Success     bool       `json:"success"`
	Message     string     `json:"message"`
	MeetingID   string     `json:"meeting_id"`
	ReceivedAt  time.Time  `json:"received_at"`
	Duplicate   bool       `json:"duplicate,omitempty"`
	RecordingID *uuid.UUID `json:"recording_id,omitempty"`
	BotID       string     `json:"bot_id,omitempty"`
}

// MeetingBotService dispatches recording bots for calendar meetings
type MeetingBotService struct {
	recordingRepo repositories.RecordingRepository
	bots          recall.Client
	tracker       Tracker
	webhookCfg    config.WebhookConfig
	botName       string
	logger        *zap.Logger
	metrics       *metrics.Metrics
	now           func() time.Time
}

// NewMeetingBotService creates the meeting-bot webhook service
func NewMeetingBotService(
	recordingRepo repositories.RecordingRepository,
	bots recall.Client,
	tracker Tracker,
	webhookCfg config.WebhookConfig,
	botName string,
	logger *zap.Logger,
	m *metrics.Metrics,
) *MeetingBotService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MeetingBotService{
		recordingRepo: recordingRepo,
		bots:          bots,
		tracker:       tracker,
		webhookCfg:    webhookCfg,
		botName:       botName,
		logger:        logger,
		metrics:       m,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Handle verifies and processes one meeting-bot delivery. A repeated
// meeting_id is acknowledged without dispatching a second bot.
func (s *MeetingBotService) Handle(ctx context.Context, req MeetingBotRequest) (res *MeetingBotResult, err error) {
	defer func() {
		if s.metrics == nil {
			return
		}
		outcome := metrics.Outcome(err)
		if res != nil && res.Duplicate {
			outcome = "duplicate"
		}
		s.metrics.WebhooksReceived.WithLabelValues(kindMeetingBot, outcome).Inc()
	}()

	now := s.now()
	if s.webhookCfg.Secret != "" {
		if err := signature.VerifyRequest(s.webhookCfg.Secret, req.Body, req.Timestamp, req.Signature, now, s.webhookCfg.MaxSkew); err != nil {
			return nil, fmt.Errorf("%w: %w", usecaseErrors.ErrInvalidSignature, err)
		}
	}

	var payload MeetingPayload
	if err := json.Unmarshal(req.Body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", usecaseErrors.ErrInvalidInput, err)
	}
	if missing := payload.MissingFields(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", usecaseErrors.ErrMissingFields, strings.Join(missing, ", "))
	}

	s.logger.Info("📅 Meeting bot webhook received",
		zap.String("meeting_id", payload.MeetingID),
		zap.String("title", payload.Title),
		zap.String("start_time", payload.StartTime),
		zap.Int("attendees", len(payload.Attendees)),
	)

	result := &MeetingBotResult{
		Success:    true,
		Message:    "Webhook received successfully",
		MeetingID:  payload.MeetingID,
		ReceivedAt: now,
	}

	isNew, err := s.tracker.MarkIfNew(ctx, payload.MeetingID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", usecaseErrors.ErrWebhookState, err)
	}
	if !isNew {
		s.logger.Info("🔁 Duplicate meeting webhook ignored", zap.String("meeting_id", payload.MeetingID))
		result.Duplicate = true
		result.Message = "Webhook already processed"
		return result, nil
	}

	rec, botID, err := s.dispatch(ctx, payload)
	if err != nil {
		if botID != "" {
			// The bot is already on its way; a redelivery must not send another.
			s.logger.Error("❌ Bot dispatched but recording not stored",
				zap.String("meeting_id", payload.MeetingID),
				zap.String("bot_id", botID),
				zap.Error(err),
			)
			return nil, err
		}
		if ferr := s.tracker.Forget(ctx, payload.MeetingID); ferr != nil {
			s.logger.Warn("⚠️ Failed to reset webhook state",
				zap.String("meeting_id", payload.MeetingID),
				zap.Error(ferr),
			)
		}
		return nil, err
	}

	result.RecordingID = &rec.ID
	result.BotID = *rec.BotID
	return result, nil
}

// dispatch sends the bot and stores the pending recording. The bot id is
// returned whenever the provider accepted the bot, even on error.
func (s *MeetingBotService) dispatch(ctx context.Context, payload MeetingPayload) (*entities.Recording, string, error) {
	if payload.MeetingURL == nil || strings.TrimSpace(*payload.MeetingURL) == "" {
		return nil, "", usecaseErrors.ErrNoMeetingURL
	}
	meetingURL := strings.TrimSpace(*payload.MeetingURL)

	var userID *uuid.UUID
	if payload.UserID != "" {
		id, err := uuid.Parse(payload.UserID)
		if err != nil {
			return nil, "", fmt.Errorf("%w: user_id", usecaseErrors.ErrInvalidInput)
		}
		userID = &id
	}

	req := recall.CreateBotRequest{
		MeetingURL: meetingURL,
		BotName:    s.botName,
		Metadata:   map[string]string{"meeting_id": payload.MeetingID},
	}
	if start, err := time.Parse(time.RFC3339, payload.StartTime); err == nil && start.After(s.now()) {
		req.JoinAt = &start
	}

	bot, err := s.bots.CreateBot(ctx, req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", usecaseErrors.ErrBotAPI, err)
	}
	if bot == nil || bot.ID == "" {
		return nil, "", fmt.Errorf("%w: %w", usecaseErrors.ErrBotAPI, errors.New("empty bot id"))
	}

	meta, _ := json.Marshal(map[string]string{
		"start_time":   payload.StartTime,
		"end_time":     payload.EndTime,
		"triggered_at": payload.TriggeredAt,
	})

	rec := &entities.Recording{
		UserID:            userID,
		MeetingID:         entities.StrPtr(payload.MeetingID),
		MeetingURL:        entities.StrPtr(meetingURL),
		BotID:             entities.StrPtr(bot.ID),
		Status:            entities.RecordingStatusPending,
		Title:             entities.StrPtr(payload.Title),
		CalendarAttendees: payload.Attendees,
		Source:            entities.StrPtr("calendar"),
		Metadata:          datatypes.JSON(meta),
	}
	if err := s.recordingRepo.Create(ctx, rec); err != nil {
		return nil, bot.ID, fmt.Errorf("failed to create recording: %w", err)
	}

	s.logger.Info("🤖 Bot dispatched",
		zap.String("meeting_id", payload.MeetingID),
		zap.String("bot_id", bot.ID),
		zap.String("recording_id", rec.ID.String()),
	)
	return rec, bot.ID, nil
}
