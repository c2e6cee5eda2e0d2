package transcript

import "github.com/johnquangdev/meeting-notetaker/internal/domain/entities"

// ParseResponse is the segmented transcript
type ParseResponse struct {
	Segments []entities.Segment `json:"segments"`
	Speakers []string           `json:"speakers"`
	Format   string             `json:"format"`
}
