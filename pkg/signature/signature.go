// Package signature signs and verifies webhook bodies with HMAC-SHA256.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"time"
)

// Header names used on signed webhook requests
const (
	HeaderSignature = "X-Webhook-Signature"
	HeaderTimestamp = "X-Webhook-Timestamp"
)

var (
	ErrMissingSignature = errors.New("missing signature")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrStaleTimestamp   = errors.New("timestamp outside tolerance")
)

// Sign returns the hex HMAC of payload
func Sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyHMAC verifies a sha256 HMAC hex signature against payload and secret
func VerifyHMAC(secret string, payload []byte, signatureHex string) bool {
	if secret == "" || signatureHex == "" {
		return false
	}
	expected := Sign(secret, payload)
	return hmac.Equal([]byte(expected), []byte(signatureHex))
}

// SignedPayload is the string that gets signed: "<unix timestamp>.<body>"
func SignedPayload(timestamp string, body []byte) []byte {
	out := make([]byte, 0, len(timestamp)+1+len(body))
	out = append(out, timestamp...)
	out = append(out, '.')
	return append(out, body...)
}

// SignRequest returns the timestamp and signature headers for body
func SignRequest(secret string, body []byte, now time.Time) (timestamp, sig string) {
	timestamp = strconv.FormatInt(now.Unix(), 10)
	return timestamp, Sign(secret, SignedPayload(timestamp, body))
}

// VerifyRequest checks a timestamped signature and its freshness
func VerifyRequest(secret string, body []byte, timestamp, sig string, now time.Time, maxSkew time.Duration) error {
	if timestamp == "" || sig == "" {
		return ErrMissingSignature
	}
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return ErrInvalidSignature
	}
	skew := now.Sub(time.Unix(ts, 0))
	if skew < 0 {
		skew = -skew
	}
	if maxSkew > 0 && skew > maxSkew {
		return ErrStaleTimestamp
	}
	if !VerifyHMAC(secret, SignedPayload(timestamp, body), sig) {
		return ErrInvalidSignature
	}
	return nil
}
