package recording

// ListRecordingsRequest represents query parameters for listing recordings
type ListRecordingsRequest struct {
	Status   string  `query:"status" validate:"omitempty,oneof=pending joining recording processing transcribing done error timeout"`
	Page     int     `query:"page" validate:"omitempty,min=1"`
	PageSize int     `query:"page_size" validate:"omitempty,min=1,max=100"`
}

// ExternalTranscriptsRequest represents query parameters of the machine API
type ExternalTranscriptsRequest struct {
	Since           string `query:"since"`
	UserID          string `query:"user_id" validate:"omitempty,uuid"`
	Status          string `query:"status" validate:"omitempty,oneof=pending joining recording processing transcribing done error timeout"`
	Limit           int    `query:"limit" validate:"omitempty,min=1"`
	IncludeAnalysis bool   `query:"include_analysis"`
}
