package signature

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVerifyHMAC(t *testing.T) {
	sig := Sign("secret", []byte("payload"))
	assert.True(t, VerifyHMAC("secret", []byte("payload"), sig))
	assert.False(t, VerifyHMAC("secret", []byte("payload!"), sig))
	assert.False(t, VerifyHMAC("", []byte("payload"), sig))
	assert.False(t, VerifyHMAC("secret", []byte("payload"), ""))
}

func TestVerifyRequest(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	body := []byte(`{"meeting_id":"m1"}`)
	ts, sig := SignRequest("secret", body, now)
	assert.Equal(t, "1700000000", ts)

	assert.NoError(t, VerifyRequest("secret", body, ts, sig, now.Add(time.Minute), 5*time.Minute))
	assert.ErrorIs(t, VerifyRequest("secret", body, ts, sig, now.Add(10*time.Minute), 5*time.Minute), ErrStaleTimestamp)
	assert.ErrorIs(t, VerifyRequest("secret", []byte(`{}`), ts, sig, now, 5*time.Minute), ErrInvalidSignature)
	assert.ErrorIs(t, VerifyRequest("secret", body, "", sig, now, 5*time.Minute), ErrMissingSignature)
	assert.ErrorIs(t, VerifyRequest("secret", body, "abc", sig, now, 5*time.Minute), ErrInvalidSignature)
}
