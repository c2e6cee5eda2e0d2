package webhook

import (
	"context"
	"fmt"
	"math"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-notetaker/internal/domain/entities"
	"github.com/johnquangdev/meeting-notetaker/internal/domain/repositories"
	"github.com/johnquangdev/meeting-notetaker/internal/infrastructure/observability/metrics"
	usecaseErrors "github.com/johnquangdev/meeting-notetaker/internal/usecase/errors"
	"github.com/johnquangdev/meeting-notetaker/internal/usecase/participant"
	"github.com/johnquangdev/meeting-notetaker/internal/usecase/transcript"
	"github.com/johnquangdev/meeting-notetaker/pkg/config"
)

const (
	kindTranscription = "transcription"

	// HeaderTranscriptionSecret carries the shared secret on provider callbacks
	HeaderTranscriptionSecret = "X-Transcription-Secret"
)

// Transcripts is the part of the AssemblyAI transcript API this package uses.
// *aai.TranscriptService satisfies it.
type Transcripts interface {
	SubmitFromURL(ctx context.Context, audioURL string, params *aai.TranscriptOptionalParams) (aai.Transcript, error)
	Get(ctx context.Context, transcriptID string) (aai.Transcript, error)
}

// TranscriptionEvent is the provider's completion callback
type TranscriptionEvent struct {
	TranscriptID string `json:"transcript_id"`
	Status       string `json:"status"`
}

// TranscriptionResult reports what a callback changed
type TranscriptionResult struct {
	RecordingID uuid.UUID                `json:"recording_id"`
	Status      entities.RecordingStatus `json:"status"`
	Segments    int                      `json:"segments"`
}

// TranscriptionService submits recordings for transcription and stores the results
type TranscriptionService struct {
	recordingRepo repositories.RecordingRepository
	segmentRepo   repositories.TranscriptSegmentRepository
	transcripts   Transcripts
	cfg           config.AssemblyAIConfig
	logger        *zap.Logger
	metrics       *metrics.Metrics
}

// NewTranscriptionService creates the transcription service
func NewTranscriptionService(
	recordingRepo repositories.RecordingRepository,
	segmentRepo repositories.TranscriptSegmentRepository,
	transcripts Transcripts,
	cfg config.AssemblyAIConfig,
	logger *zap.Logger,
	m *metrics.Metrics,
) *TranscriptionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TranscriptionService{
		recordingRepo: recordingRepo,
		segmentRepo:   segmentRepo,
		transcripts:   transcripts,
		cfg:           cfg,
		logger:        logger,
		metrics:       m,
	}
}

// Submit sends the recording's video to the provider with speaker labels and
// stores the provider job id on the recording
func (s *TranscriptionService) Submit(ctx context.Context, rec *entities.Recording) (*entities.Recording, error) {
	if rec.VideoURL == nil || *rec.VideoURL == "" {
		return nil, fmt.Errorf("%w: recording has no video", usecaseErrors.ErrInvalidInput)
	}

	params := &aai.TranscriptOptionalParams{
		SpeakerLabels: aai.Bool(true),
	}
	if s.cfg.LanguageCode != "" {
		params.LanguageCode = aai.TranscriptLanguageCode(s.cfg.LanguageCode)
	}
	if s.cfg.WebhookURL != "" {
		params.WebhookURL = aai.String(s.cfg.WebhookURL)
		if s.cfg.WebhookSecret != "" {
			params.WebhookAuthHeaderName = aai.String(HeaderTranscriptionSecret)
			params.WebhookAuthHeaderValue = aai.String(s.cfg.WebhookSecret)
		}
	}

	job, err := s.transcripts.SubmitFromURL(ctx, *rec.VideoURL, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", usecaseErrors.ErrTranscriptionFailed, err)
	}
	if job.ID == nil || *job.ID == "" {
		return nil, fmt.Errorf("%w: provider returned no job id", usecaseErrors.ErrTranscriptionFailed)
	}

	rec.TranscriptID = entities.StrPtr(*job.ID)
	rec.Status = entities.RecordingStatusTranscribing
	if err := s.recordingRepo.Update(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to update recording: %w", err)
	}

	s.logger.Info("🎙️ Transcription submitted",
		zap.String("recording_id", rec.ID.String()),
		zap.String("transcript_id", *job.ID),
	)
	return rec, nil
}

// Handle processes a completion callback. Unknown job ids are rejected so the
// provider surfaces them; non-terminal statuses are acknowledged untouched.
func (s *TranscriptionService) Handle(ctx context.Context, event TranscriptionEvent) (res *TranscriptionResult, err error) {
	defer func() {
		if s.metrics != nil {
			s.metrics.WebhooksReceived.WithLabelValues(kindTranscription, metrics.Outcome(err)).Inc()
		}
	}()

	if event.TranscriptID == "" {
		return nil, fmt.Errorf("%w: transcript_id", usecaseErrors.ErrMissingFields)
	}

	rec, err := s.recordingRepo.FindByTranscriptID(ctx, event.TranscriptID)
	if err != nil {
		return nil, fmt.Errorf("failed to get recording: %w", err)
	}
	if rec == nil {
		return nil, usecaseErrors.ErrUnknownTranscription
	}

	result := &TranscriptionResult{RecordingID: rec.ID, Status: rec.Status}

	switch aai.TranscriptStatus(event.Status) {
	case aai.TranscriptStatusCompleted:
		// fetched below
	case aai.TranscriptStatusError:
		rec.Status = entities.RecordingStatusError
		if err := s.recordingRepo.Update(ctx, rec); err != nil {
			return nil, fmt.Errorf("failed to update recording: %w", err)
		}
		s.logger.Error("❌ Transcription reported error",
			zap.String("recording_id", rec.ID.String()),
			zap.String("transcript_id", event.TranscriptID),
		)
		result.Status = rec.Status
		return result, nil
	default:
		return result, nil
	}

	t, err := s.transcripts.Get(ctx, event.TranscriptID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", usecaseErrors.ErrTranscriptionFailed, err)
	}
	if t.Status != aai.TranscriptStatusCompleted {
		msg := string(t.Status)
		if t.Error != nil {
			msg = *t.Error
		}
		return nil, fmt.Errorf("%w: %s", usecaseErrors.ErrTranscriptionFailed, msg)
	}

	segments := transcript.SegmentsFromUtterances(t.Utterances)
	text := transcript.FormatSegments(segments)
	if text == "" && t.Text != nil {
		text = *t.Text
	}

	rec.TranscriptText = entities.StrPtr(text)
	rec.WordCount = entities.IntPtr(transcript.WordCount(text))
	rec.Status = entities.RecordingStatusDone
	if rec.Duration == nil && t.AudioDuration != nil {
		rec.Duration = entities.IntPtr(int(math.Round(float64(*t.AudioDuration))))
	}
	if len(rec.Participants) == 0 {
		rec.Participants = participant.ToParticipants(participant.FromTranscript(text))
	}
	if err := s.recordingRepo.Update(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to update recording: %w", err)
	}

	rows := entities.NewTranscriptSegments(rec.ID, segments)
	if err := s.segmentRepo.ReplaceForRecording(ctx, rec.ID, rows); err != nil {
		s.logger.Error("❌ Failed to store transcript segments",
			zap.String("recording_id", rec.ID.String()),
			zap.Error(err),
		)
	} else {
		result.Segments = len(rows)
		if s.metrics != nil {
			s.metrics.SegmentsStored.Add(float64(len(rows)))
		}
	}

	result.Status = rec.Status
	s.logger.Info("✅ Transcription stored",
		zap.String("recording_id", rec.ID.String()),
		zap.String("transcript_id", event.TranscriptID),
		zap.Int("segments", result.Segments),
	)
	return result, nil
}
