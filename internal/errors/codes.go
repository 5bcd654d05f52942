package errors

// Common error codes
const (
	// System errors
	ErrInternal        ErrorCode = "internal_error"
	ErrInvalidArgument ErrorCode = "invalid_argument"
	ErrAlreadyRunning  ErrorCode = "already_running"

	// Configuration errors
	ErrInvalidConfig   ErrorCode = "invalid_configuration"
	ErrReadConfig      ErrorCode = "read_config_failed"
	ErrBindFlags       ErrorCode = "bind_flags_failed"
	ErrInvalidInterval ErrorCode = "invalid_interval"
	ErrInvalidLogLevel ErrorCode = "invalid_log_level"
	ErrUnknownBlock    ErrorCode = "unknown_block"

	// Initialization errors
	ErrInitFailed     ErrorCode = "initialization_failed"
	ErrShutdownFailed ErrorCode = "shutdown_failed"

	// Sensor errors
	ErrSensorUnavailable ErrorCode = "sensor_unavailable"
	ErrParseFailure      ErrorCode = "parse_failure"
	ErrValueOutOfRange   ErrorCode = "value_out_of_range"

	// Watcher errors
	ErrWatcherStart ErrorCode = "watcher_start_failed"
	ErrWatcherFeed  ErrorCode = "watcher_feed_ended"

	// Output errors
	ErrEncodeSnapshot ErrorCode = "encode_snapshot_failed"
	ErrWriteSnapshot  ErrorCode = "write_snapshot_failed"

	// Application errors
	ErrInitApp  ErrorCode = "init_app_failed"
	ErrMainLoop ErrorCode = "main_loop_failed"
)

// Common error messages
var errorMessages = map[ErrorCode]string{
	ErrInternal:          "Internal error occurred",
	ErrInvalidArgument:   "Invalid argument provided",
	ErrAlreadyRunning:    "Another instance is already running",
	ErrInvalidConfig:     "Invalid configuration",
	ErrReadConfig:        "Failed to read configuration",
	ErrBindFlags:         "Failed to bind flags",
	ErrInvalidInterval:   "Invalid interval value",
	ErrInvalidLogLevel:   "Invalid log level",
	ErrUnknownBlock:      "Unknown status block name",
	ErrInitFailed:        "Initialization failed",
	ErrShutdownFailed:    "Shutdown failed",
	ErrSensorUnavailable: "Sensor unavailable",
	ErrParseFailure:      "Failed to parse sensor output",
	ErrValueOutOfRange:   "Value out of range",
	ErrWatcherStart:      "Failed to start volume watcher",
	ErrWatcherFeed:       "Volume event feed ended",
	ErrEncodeSnapshot:    "Failed to encode snapshot",
	ErrWriteSnapshot:     "Failed to write snapshot",
	ErrInitApp:           "Failed to initialize application",
	ErrMainLoop:          "Error in main loop",
}

// GetErrorMessage returns the message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}

	return string(code)
}
