package cli

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"os"
	"strings"

	"github.com/nstake/nstake/internal/errors"
)

// Machine mode flag - when true, outputs JSON and suppresses human-friendly decorations
var machineMode bool

// MachineMode returns true if machine-readable output is enabled
func MachineMode() bool {
	return machineMode
}

// JSONEnvelope wraps command output in a consistent structure for machine parsing.
// All --json output should use this envelope.
type JSONEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *JSONError  `json:"error,omitempty"`
}

// JSONError provides structured error information for machine parsing.
type JSONError struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
	Details    interface{} `json:"details,omitempty"`
}

// Error codes for machine-readable output.
const (
	ErrCodeConfigNotFound  = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid   = "CONFIG_INVALID"
	ErrCodeStoreFailed     = "STORE_FAILED"
	ErrCodeFetchFailed     = "FETCH_FAILED"
	ErrCodeReportInvalid   = "REPORT_INVALID"
	ErrCodeNotifyFailed    = "NOTIFY_FAILED"
	ErrCodeIndexOutOfRange = "INDEX_OUT_OF_RANGE"
	ErrCodeInvalidInput    = "INVALID_INPUT"
	ErrCodeUnknown         = "UNKNOWN"
)

// WriteJSONSuccess writes a successful response with data to the writer.
func WriteJSONSuccess(w io.Writer, data interface{}) error {
	env := JSONEnvelope{
		Success: true,
		Data:    data,
	}
	return writeJSONEnvelope(w, env)
}

// WriteJSONError writes an error response to the writer.
func WriteJSONError(w io.Writer, code, message, suggestion string, details interface{}) error {
	env := JSONEnvelope{
		Success: false,
		Error: &JSONError{
			Code:       code,
			Message:    message,
			Suggestion: suggestion,
			Details:    details,
		},
	}
	return writeJSONEnvelope(w, env)
}

// WriteJSONFromError converts a Go error to a JSON error response.
func WriteJSONFromError(w io.Writer, err error) error {
	env := JSONEnvelope{
		Success: false,
		Error:   ErrorToJSON(err),
	}
	return writeJSONEnvelope(w, env)
}

// writeJSONEnvelope writes the envelope with consistent formatting.
func writeJSONEnvelope(w io.Writer, env JSONEnvelope) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}

// ErrorToJSON converts a Go error to a JSONError with appropriate code mapping.
func ErrorToJSON(err error) *JSONError {
	if err == nil {
		return nil
	}

	var nsErr *errors.Error
	if stderrors.As(err, &nsErr) {
		je := &JSONError{
			Code:       mapErrorCode(nsErr),
			Message:    nsErr.Message,
			Suggestion: nsErr.Suggestion,
		}
		if nsErr.Cause != nil {
			je.Details = map[string]interface{}{"cause": nsErr.Cause.Error()}
		}
		return je
	}

	// Generic error
	return &JSONError{
		Code:    ErrCodeUnknown,
		Message: err.Error(),
	}
}

// mapErrorCode maps internal error codes to machine-readable codes.
func mapErrorCode(e *errors.Error) string {
	switch e.Code {
	case errors.ErrConfig:
		// Distinguish between not found and invalid
		if e.Cause != nil && os.IsNotExist(e.Cause) {
			return ErrCodeConfigNotFound
		}
		if strings.Contains(strings.ToLower(e.Message), "not found") {
			return ErrCodeConfigNotFound
		}
		return ErrCodeConfigInvalid
	case errors.ErrStore:
		return ErrCodeStoreFailed
	case errors.ErrFetch:
		return ErrCodeFetchFailed
	case errors.ErrReport:
		return ErrCodeReportInvalid
	case errors.ErrNotify:
		return ErrCodeNotifyFailed
	case errors.ErrIndex:
		return ErrCodeIndexOutOfRange
	case errors.ErrInput:
		return ErrCodeInvalidInput
	}
	return ErrCodeUnknown
}
