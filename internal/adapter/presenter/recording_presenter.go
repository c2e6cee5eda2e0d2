package presenter

import (
	"time"

	"github.com/johnquangdev/meeting-notetaker/internal/adapter/dto/common"
	"github.com/johnquangdev/meeting-notetaker/internal/adapter/dto/recording"
	"github.com/johnquangdev/meeting-notetaker/internal/domain/entities"
	"github.com/johnquangdev/meeting-notetaker/internal/usecase/transcript"
)

// ToRecordingResponse converts a Recording entity to RecordingResponse DTO
func ToRecordingResponse(r *entities.Recording) *recording.RecordingResponse {
	if r == nil {
		return nil
	}

	response := &recording.RecordingResponse{
		ID:                r.ID.String(),
		MeetingID:         r.MeetingID,
		MeetingURL:        r.MeetingURL,
		BotID:             r.BotID,
		Status:            string(r.Status),
		Title:             r.DisplayTitle(),
		Duration:          r.Duration,
		WordCount:         r.WordCount,
		VideoURL:          r.VideoURL,
		TranscriptURL:     r.TranscriptURL,
		HasTranscript:     r.Transcript() != "",
		Summary:           r.Summary,
		KeyPoints:         r.KeyPoints,
		ActionItems:       r.ActionItems,
		Participants:      r.Participants,
		CalendarAttendees: r.CalendarAttendees,
		Source:            r.Source,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
	if r.UserID != nil {
		id := r.UserID.String()
		response.UserID = &id
	}
	if response.Participants == nil {
		response.Participants = []entities.Participant{}
	}
	if response.CalendarAttendees == nil {
		response.CalendarAttendees = []entities.CalendarAttendee{}
	}

	return response
}

// ToRecordingListResponse converts a page of recordings
func ToRecordingListResponse(recordings []entities.Recording, total int64, page, pageSize int) *recording.RecordingListResponse {
	items := make([]*recording.RecordingResponse, len(recordings))
	for i := range recordings {
		items[i] = ToRecordingResponse(&recordings[i])
	}
	return &recording.RecordingListResponse{
		Recordings: items,
		Pagination: common.NewPagination(total, page, pageSize),
	}
}

// ToSegmentsResponse converts segments and lists their speakers in order of appearance
func ToSegmentsResponse(r *entities.Recording, segments []entities.Segment) *recording.SegmentsResponse {
	items := make([]*recording.SegmentResponse, len(segments))
	for i, s := range segments {
		items[i] = &recording.SegmentResponse{
			Speaker:   s.Speaker,
			Text:      s.Text,
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
		}
	}
	return &recording.SegmentsResponse{
		RecordingID: r.ID.String(),
		Segments:    items,
		Speakers:    transcript.Speakers(segments),
	}
}

// ToExternalTranscript drops the analysis fields unless includeAnalysis is set
func ToExternalTranscript(r *entities.Recording, includeAnalysis bool) *recording.ExternalTranscript {
	out := &recording.ExternalTranscript{
		ID:                r.ID.String(),
		Title:             r.Title,
		TranscriptText:    r.TranscriptText,
		TranscriptURL:     r.TranscriptURL,
		Participants:      r.Participants,
		CalendarAttendees: r.CalendarAttendees,
		Duration:          r.Duration,
		WordCount:         r.WordCount,
		Status:            string(r.Status),
		MeetingURL:        r.MeetingURL,
		VideoURL:          r.VideoURL,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
	if r.UserID != nil {
		id := r.UserID.String()
		out.UserID = &id
	}
	if includeAnalysis {
		out.Summary = r.Summary
		out.KeyPoints = r.KeyPoints
		out.ActionItems = r.ActionItems
	}
	return out
}

// ToExternalTranscriptsResponse wraps the machine API listing
func ToExternalTranscriptsResponse(recordings []entities.Recording, includeAnalysis bool, exportedAt time.Time) *recording.ExternalTranscriptsResponse {
	items := make([]*recording.ExternalTranscript, len(recordings))
	for i := range recordings {
		items[i] = ToExternalTranscript(&recordings[i], includeAnalysis)
	}
	return &recording.ExternalTranscriptsResponse{
		Success:     true,
		Count:       len(items),
		Transcripts: items,
		ExportedAt:  exportedAt,
	}
}
