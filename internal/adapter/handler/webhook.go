package handler

import (
	"context"
	"crypto/subtle"
	"io"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-notetaker/errors"
	"github.com/johnquangdev/meeting-notetaker/internal/usecase/webhook"
	"github.com/johnquangdev/meeting-notetaker/pkg/signature"
)

// maxWebhookBody caps inbound webhook payloads at 1 MiB
const maxWebhookBody = 1 << 20

// MeetingBotHandler processes calendar meeting webhooks
type MeetingBotHandler interface {
	Handle(ctx context.Context, req webhook.MeetingBotRequest) (*webhook.MeetingBotResult, error)
}

// TranscriptionHandler processes transcription provider callbacks
type TranscriptionHandler interface {
	Handle(ctx context.Context, event webhook.TranscriptionEvent) (*webhook.TranscriptionResult, error)
}

// Webhook handles inbound webhooks
type Webhook struct {
	meetingBot          MeetingBotHandler
	transcription       TranscriptionHandler
	transcriptionSecret string
	logger              *zap.Logger
}

// NewWebhookHandler creates a new webhook handler. A nil transcription handler
// disables the provider callback route.
func NewWebhookHandler(meetingBot MeetingBotHandler, transcription TranscriptionHandler, transcriptionSecret string, logger *zap.Logger) *Webhook {
	return &Webhook{
		meetingBot:          meetingBot,
		transcription:       transcription,
		transcriptionSecret: transcriptionSecret,
		logger:              logger,
	}
}

// MeetingBot handles POST /webhooks/meeting-bot
// @Summary      Calendar meeting webhook
// @Description  Dispatches a recording bot for an upcoming meeting. Signed with HMAC-SHA256 over "timestamp.body" when a secret is configured.
// @Tags         Webhooks
// @Accept       json
// @Produce      json
// @Param        X-Webhook-Signature  header    string                  false  "hex HMAC-SHA256"
// @Param        X-Webhook-Timestamp  header    string                  false  "unix seconds"
// @Param        request              body      webhook.MeetingPayload  true   "Meeting"
// @Success      200                  {object}  webhook.MeetingBotResult
// @Failure      400                  {object}  common.ErrorResponse
// @Failure      401                  {object}  common.ErrorResponse
// @Failure      502                  {object}  common.ErrorResponse
// @Router       /webhooks/meeting-bot [post]
func (h *Webhook) MeetingBot(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody))
	if err != nil {
		appErr := errors.ErrInvalidPayload()
		appErr.Raw = err
		return HandleError(h.logger, c, appErr)
	}

	res, err := h.meetingBot.Handle(c.Request().Context(), webhook.MeetingBotRequest{
		Body:      body,
		Timestamp: c.Request().Header.Get(signature.HeaderTimestamp),
		Signature: c.Request().Header.Get(signature.HeaderSignature),
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, res)
}

// Transcription handles POST /webhooks/transcription
// @Summary      Transcription provider callback
// @Description  Stores the finished transcript and its segments for the matching recording
// @Tags         Webhooks
// @Accept       json
// @Produce      json
// @Param        X-Transcription-Secret  header    string                      false  "Shared secret"
// @Param        request                 body      webhook.TranscriptionEvent  true   "Callback"
// @Success      200                     {object}  webhook.TranscriptionResult
// @Failure      400                     {object}  common.ErrorResponse
// @Failure      401                     {object}  common.ErrorResponse
// @Failure      404                     {object}  common.ErrorResponse
// @Router       /webhooks/transcription [post]
func (h *Webhook) Transcription(c echo.Context) error {
	if h.transcription == nil {
		return HandleError(h.logger, c, errors.ErrNotFound("Route"))
	}
	if h.transcriptionSecret != "" {
		got := c.Request().Header.Get(webhook.HeaderTranscriptionSecret)
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.transcriptionSecret)) != 1 {
			return HandleError(h.logger, c, errors.ErrInvalidSignature())
		}
	}

	var event webhook.TranscriptionEvent
	if err := c.Bind(&event); err != nil {
		appErr := errors.ErrInvalidPayload()
		appErr.Raw = err
		return HandleError(h.logger, c, appErr)
	}

	res, err := h.transcription.Handle(c.Request().Context(), event)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, res)
}
