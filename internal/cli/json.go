package cli

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/lumenctl/lumen/internal/errors"
)

// JSONEnvelope wraps command output in a consistent structure for machine
// parsing. All --json output uses this envelope.
type JSONEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *JSONError  `json:"error,omitempty"`
}

// JSONError provides structured error information for machine parsing.
type JSONError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Error codes for machine-readable output.
const (
	ErrCodeConfigNotFound  = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid   = "CONFIG_INVALID"
	ErrCodeMonitorNotFound = "MONITOR_NOT_FOUND"
	ErrCodeHardwareFailed  = "HARDWARE_FAILED"
	ErrCodePersistFailed   = "PERSIST_FAILED"
	ErrCodeCommandFailed   = "COMMAND_FAILED"
	ErrCodeUnknown         = "UNKNOWN"
)

// WriteJSONSuccess writes a successful response with data to the writer.
func WriteJSONSuccess(w io.Writer, data interface{}) error {
	return writeJSONEnvelope(w, JSONEnvelope{Success: true, Data: data})
}

// WriteJSONError writes an error response to the writer.
func WriteJSONError(w io.Writer, code, message, suggestion string) error {
	return writeJSONEnvelope(w, JSONEnvelope{
		Success: false,
		Error: &JSONError{
			Code:       code,
			Message:    message,
			Suggestion: suggestion,
		},
	})
}

// WriteJSONFromError converts a Go error to a JSON error response.
func WriteJSONFromError(w io.Writer, err error) error {
	return writeJSONEnvelope(w, JSONEnvelope{Success: false, Error: ErrorToJSON(err)})
}

// writeJSONEnvelope writes the envelope with consistent formatting.
func writeJSONEnvelope(w io.Writer, env JSONEnvelope) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}

// ErrorToJSON converts a Go error to a JSONError with code mapping.
func ErrorToJSON(err error) *JSONError {
	if err == nil {
		return nil
	}

	if lumErr, ok := err.(*errors.Error); ok {
		return &JSONError{
			Code:       mapErrorCode(lumErr.Code, lumErr.Message),
			Message:    lumErr.Message,
			Suggestion: lumErr.Suggestion,
		}
	}

	return &JSONError{
		Code:    ErrCodeUnknown,
		Message: err.Error(),
	}
}

// mapErrorCode maps internal error codes to machine-readable codes.
func mapErrorCode(internalCode, message string) string {
	switch internalCode {
	case errors.ErrConfig:
		if strings.Contains(strings.ToLower(message), "not found") {
			return ErrCodeConfigNotFound
		}
		return ErrCodeConfigInvalid
	case errors.ErrIndex:
		return ErrCodeMonitorNotFound
	case errors.ErrHardware:
		return ErrCodeHardwareFailed
	case errors.ErrPersist:
		return ErrCodePersistFailed
	case errors.ErrExec:
		return ErrCodeCommandFailed
	}
	return ErrCodeUnknown
}
