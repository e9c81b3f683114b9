package bridge

import "fmt"

// Error codes returned to the UI layer.
const (
	// CodeNotFound indicates no handler is registered under the name
	CodeNotFound = "COMMAND_NOT_FOUND"

	// CodeInvalidArgs indicates the arguments could not be decoded
	CodeInvalidArgs = "INVALID_ARGS"

	// CodeFailed indicates the handler returned an error
	CodeFailed = "COMMAND_FAILED"

	// CodeCancelled indicates the caller's context ended first
	CodeCancelled = "CANCELLED"

	// CodeInternal indicates a panic or an unencodable result
	CodeInternal = "INTERNAL_ERROR"
)

// Error is the structured failure of an invocation.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Command string `json:"command,omitempty"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Command == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Command, e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// InvalidArgs builds the error a handler returns for unusable arguments.
func InvalidArgs(format string, args ...interface{}) *Error {
	return &Error{Code: CodeInvalidArgs, Message: fmt.Sprintf(format, args...)}
}
