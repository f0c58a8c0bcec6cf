package errors

// Common error codes
const (
	// System errors
	ErrInternal        ErrorCode = "internal_error"
	ErrInvalidArgument ErrorCode = "invalid_argument"
	ErrNotImplemented  ErrorCode = "not_implemented"
	ErrUnavailable     ErrorCode = "service_unavailable"

	// Configuration errors
	ErrInvalidConfig   ErrorCode = "invalid_configuration"
	ErrMissingConfig   ErrorCode = "missing_configuration"
	ErrBindFlags       ErrorCode = "bind_flags_failed"
	ErrReadConfig      ErrorCode = "read_config_failed"
	ErrInvalidInterval ErrorCode = "invalid_interval"

	// Logging errors
	ErrInvalidLogLevel ErrorCode = "invalid_log_level"

	// Initialization errors
	ErrInitFailed     ErrorCode = "initialization_failed"
	ErrShutdownFailed ErrorCode = "shutdown_failed"
	ErrAlreadyRunning ErrorCode = "already_running"

	// Database errors
	ErrConnectFailed ErrorCode = "connect_failed"
	ErrQueryFailed   ErrorCode = "query_failed"

	// Resolution errors
	ErrNoStrategies        ErrorCode = "no_strategies"
	ErrResolutionExhausted ErrorCode = "resolution_exhausted"
	ErrResolutionCancelled ErrorCode = "resolution_cancelled"

	// Credential errors
	ErrCredentialRetrieval ErrorCode = "credential_retrieval_failed"
	ErrRequestSigning      ErrorCode = "request_signing_failed"

	// Operation errors
	ErrOperationFailed  ErrorCode = "operation_failed"
	ErrTimeout          ErrorCode = "operation_timeout"
	ErrInvalidOperation ErrorCode = "invalid_operation"

	// Collection errors
	ErrInitStore      ErrorCode = "init_store_failed"
	ErrRecordSample   ErrorCode = "record_sample_failed"
	ErrCloseStore     ErrorCode = "close_store_failed"
	ErrPushFailed     ErrorCode = "push_failed"
	ErrProbeFailed    ErrorCode = "probe_failed"
	ErrCollectMetrics ErrorCode = "collect_metrics_failed"
)

// Common error messages
var errorMessages = map[ErrorCode]string{
	ErrInternal:            "Internal error occurred",
	ErrInvalidArgument:     "Invalid argument provided",
	ErrNotImplemented:      "Operation not implemented",
	ErrUnavailable:         "Service unavailable",
	ErrInvalidConfig:       "Invalid configuration",
	ErrMissingConfig:       "Missing configuration",
	ErrBindFlags:           "Failed to bind flags",
	ErrReadConfig:          "Failed to read config file",
	ErrInvalidInterval:     "Invalid interval value",
	ErrInvalidLogLevel:     "Invalid log level",
	ErrInitFailed:          "Initialization failed",
	ErrShutdownFailed:      "Shutdown failed",
	ErrAlreadyRunning:      "Another instance is already running",
	ErrConnectFailed:       "Failed to connect to database",
	ErrQueryFailed:         "Query failed",
	ErrNoStrategies:        "No strategies declared for metric",
	ErrResolutionExhausted: "All strategies exhausted",
	ErrResolutionCancelled: "Resolution cancelled",
	ErrCredentialRetrieval: "Failed to retrieve credentials",
	ErrRequestSigning:      "Failed to sign request",
	ErrOperationFailed:     "Operation failed",
	ErrTimeout:             "Operation timed out",
	ErrInvalidOperation:    "Invalid operation",
	ErrInitStore:           "Failed to initialize sample store",
	ErrRecordSample:        "Failed to record sample",
	ErrCloseStore:          "Failed to close sample store",
	ErrPushFailed:          "Failed to push samples",
	ErrProbeFailed:         "Failed to probe target server",
	ErrCollectMetrics:      "Failed to collect metrics",
}

// GetErrorMessage returns the message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}

	return string(code)
}
