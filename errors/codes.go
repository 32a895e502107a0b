package errors

// ErrorCode identifies an application error category. Codes are stable; the
// numeric value is what clients see in response bodies.
type ErrorCode int

const (
	ErrorCode_HTTP_OK ErrorCode = 0

	// General
	ErrorCode_INTERNAL         ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT ErrorCode = 1001

	// Webhook
	ErrorCode_WEBHOOK_MISSING_HEADERS   ErrorCode = 2000
	ErrorCode_WEBHOOK_INVALID_SIGNATURE ErrorCode = 2001
	ErrorCode_WEBHOOK_INVALID_PAYLOAD   ErrorCode = 2002
	ErrorCode_WEBHOOK_MISSING_FIELD     ErrorCode = 2003

	// Meetings and agents
	ErrorCode_MEETING_NOT_FOUND     ErrorCode = 3000
	ErrorCode_AGENT_NOT_FOUND       ErrorCode = 3001
	ErrorCode_MEETING_INVALID_STATE ErrorCode = 3002

	// Pipeline
	ErrorCode_SUMMARY_ENQUEUE_FAILED ErrorCode = 5000
	ErrorCode_SUMMARY_FETCH_FAILED   ErrorCode = 5001
	ErrorCode_SUMMARY_PARSE_FAILED   ErrorCode = 5002

	// Database
	ErrorCode_DB_QUERY_FAILED ErrorCode = 6000
)

// String returns the symbolic name of the error code
func (c ErrorCode) String() string {
	switch c {
	case ErrorCode_HTTP_OK:
		return "OK"
	case ErrorCode_INTERNAL:
		return "INTERNAL"
	case ErrorCode_INVALID_ARGUMENT:
		return "INVALID_ARGUMENT"
	case ErrorCode_WEBHOOK_MISSING_HEADERS:
		return "WEBHOOK_MISSING_HEADERS"
	case ErrorCode_WEBHOOK_INVALID_SIGNATURE:
		return "WEBHOOK_INVALID_SIGNATURE"
	case ErrorCode_WEBHOOK_INVALID_PAYLOAD:
		return "WEBHOOK_INVALID_PAYLOAD"
	case ErrorCode_WEBHOOK_MISSING_FIELD:
		return "WEBHOOK_MISSING_FIELD"
	case ErrorCode_MEETING_NOT_FOUND:
		return "MEETING_NOT_FOUND"
	case ErrorCode_AGENT_NOT_FOUND:
		return "AGENT_NOT_FOUND"
	case ErrorCode_MEETING_INVALID_STATE:
		return "MEETING_INVALID_STATE"
	case ErrorCode_SUMMARY_ENQUEUE_FAILED:
		return "SUMMARY_ENQUEUE_FAILED"
	case ErrorCode_SUMMARY_FETCH_FAILED:
		return "SUMMARY_FETCH_FAILED"
	case ErrorCode_SUMMARY_PARSE_FAILED:
		return "SUMMARY_PARSE_FAILED"
	case ErrorCode_DB_QUERY_FAILED:
		return "DB_QUERY_FAILED"
	default:
		return "UNKNOWN"
	}
}
