package errors

import "errors"

// Common errors
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrNotFound      = errors.New("resource not found")
	ErrInternalError = errors.New("internal server error")
)

// Recording errors
var (
	ErrRecordingNotFound = errors.New("recording not found")
	ErrNoBotID           = errors.New("recording has no bot id")
	ErrBotAPI            = errors.New("bot provider request failed")
	ErrTranscriptMissing = errors.New("recording has no transcript")
)

// Export errors
var (
	ErrExportNotConfigured = errors.New("transcript export URL is not configured")
	ErrMissingRecordingID  = errors.New("recording_id is required")
)

// Webhook errors
var (
	ErrInvalidSignature     = errors.New("invalid webhook signature")
	ErrMissingFields        = errors.New("missing required fields")
	ErrNoMeetingURL         = errors.New("no meeting URL found")
	ErrUnknownTranscription = errors.New("no recording for transcription job")
	ErrTranscriptionFailed  = errors.New("transcription failed")
	ErrWebhookState         = errors.New("webhook state unavailable")
)
