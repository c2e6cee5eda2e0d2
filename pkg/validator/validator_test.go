package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type meetingRequest struct {
	MeetingID  string `validate:"required"`
	MeetingURL string `validate:"omitempty,meetingurl"`
}

func TestValidate_MeetingURL(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(meetingRequest{MeetingID: "m1", MeetingURL: "https://meet.google.com/abc-defg-hij"}))
	assert.NoError(t, v.Validate(meetingRequest{MeetingID: "m1"}))
	assert.Error(t, v.Validate(meetingRequest{MeetingID: "m1", MeetingURL: "meet.google.com/abc"}))
	assert.Error(t, v.Validate(meetingRequest{MeetingID: "m1", MeetingURL: "ftp://files.example.com"}))
	assert.Error(t, v.Validate(meetingRequest{MeetingURL: "https://zoom.us/j/1"}))
}
