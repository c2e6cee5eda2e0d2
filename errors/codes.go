package errors

// ErrorCode is the machine readable code carried by every AppError.
type ErrorCode int32

const (
	ErrorCode_UNSPECIFIED ErrorCode = 0
	ErrorCode_HTTP_OK     ErrorCode = 200

	// General
	ErrorCode_INTERNAL          ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT  ErrorCode = 1001
	ErrorCode_NOT_FOUND         ErrorCode = 1002
	ErrorCode_PERMISSION_DENIED ErrorCode = 1004
	ErrorCode_UNAUTHENTICATED   ErrorCode = 1005
	ErrorCode_FORBIDDEN         ErrorCode = 1006
	ErrorCode_INVALID_PAYLOAD   ErrorCode = 1007

	// Authentication
	ErrorCode_AUTH_INVALID_TOKEN   ErrorCode = 2000
	ErrorCode_AUTH_TOKEN_EXPIRED   ErrorCode = 2001
	ErrorCode_AUTH_INVALID_API_KEY ErrorCode = 2002
	ErrorCode_AUTH_INVALID_SECRET  ErrorCode = 2003

	// Recordings & transcripts
	ErrorCode_RECORDING_NOT_FOUND      ErrorCode = 3000
	ErrorCode_RECORDING_NO_BOT         ErrorCode = 3001
	ErrorCode_RECORDING_SYNC_FAILED    ErrorCode = 3002
	ErrorCode_TRANSCRIPT_MISSING       ErrorCode = 3003
	ErrorCode_TRANSCRIPT_EXPORT_FAILED ErrorCode = 3004

	// Webhooks
	ErrorCode_WEBHOOK_INVALID_SIGNATURE ErrorCode = 4000
	ErrorCode_WEBHOOK_MISSING_FIELDS    ErrorCode = 4001
	ErrorCode_WEBHOOK_NO_MEETING_URL    ErrorCode = 4002

	// Integrations
	ErrorCode_INTEGRATION_BOT_API_FAILED ErrorCode = 5000
	ErrorCode_INTEGRATION_STORAGE_FAILED ErrorCode = 5001
	ErrorCode_INTEGRATION_CACHE_FAILED   ErrorCode = 5002
	ErrorCode_AI_TRANSCRIPTION_FAILED    ErrorCode = 5004

	// Database
	ErrorCode_DB_QUERY_FAILED ErrorCode = 6001
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_UNSPECIFIED:                "UNSPECIFIED",
	ErrorCode_HTTP_OK:                    "HTTP_OK",
	ErrorCode_INTERNAL:                   "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:           "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                  "NOT_FOUND",
	ErrorCode_PERMISSION_DENIED:          "PERMISSION_DENIED",
	ErrorCode_UNAUTHENTICATED:            "UNAUTHENTICATED",
	ErrorCode_FORBIDDEN:                  "FORBIDDEN",
	ErrorCode_INVALID_PAYLOAD:            "INVALID_PAYLOAD",
	ErrorCode_AUTH_INVALID_TOKEN:         "AUTH_INVALID_TOKEN",
	ErrorCode_AUTH_TOKEN_EXPIRED:         "AUTH_TOKEN_EXPIRED",
	ErrorCode_AUTH_INVALID_API_KEY:       "AUTH_INVALID_API_KEY",
	ErrorCode_AUTH_INVALID_SECRET:        "AUTH_INVALID_SECRET",
	ErrorCode_RECORDING_NOT_FOUND:        "RECORDING_NOT_FOUND",
	ErrorCode_RECORDING_NO_BOT:           "RECORDING_NO_BOT",
	ErrorCode_RECORDING_SYNC_FAILED:      "RECORDING_SYNC_FAILED",
	ErrorCode_TRANSCRIPT_MISSING:         "TRANSCRIPT_MISSING",
	ErrorCode_TRANSCRIPT_EXPORT_FAILED:   "TRANSCRIPT_EXPORT_FAILED",
	ErrorCode_WEBHOOK_INVALID_SIGNATURE:  "WEBHOOK_INVALID_SIGNATURE",
	ErrorCode_WEBHOOK_MISSING_FIELDS:     "WEBHOOK_MISSING_FIELDS",
	ErrorCode_WEBHOOK_NO_MEETING_URL:     "WEBHOOK_NO_MEETING_URL",
	ErrorCode_INTEGRATION_BOT_API_FAILED: "INTEGRATION_BOT_API_FAILED",
	ErrorCode_INTEGRATION_STORAGE_FAILED: "INTEGRATION_STORAGE_FAILED",
	ErrorCode_INTEGRATION_CACHE_FAILED:   "INTEGRATION_CACHE_FAILED",
	ErrorCode_AI_TRANSCRIPTION_FAILED:    "AI_TRANSCRIPTION_FAILED",
	ErrorCode_DB_QUERY_FAILED:            "DB_QUERY_FAILED",
}

// String returns the symbolic name of the code
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
