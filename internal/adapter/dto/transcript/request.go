package transcript

import "time"

// ParseRequest carries raw transcript text to segment
type ParseRequest struct {
	TranscriptText string `json:"transcript_text"`
}

// ExportRequest selects recordings for a bulk export
type ExportRequest struct {
	Limit  int        `json:"limit" validate:"omitempty,min=1,max=500"`
	Since  *time.Time `json:"since,omitempty"`
	UserID *string    `json:"user_id,omitempty" validate:"omitempty,uuid"`
}
