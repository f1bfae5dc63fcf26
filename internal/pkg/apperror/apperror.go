package apperror

import "fmt"

// Kind classifies what went wrong so callers can branch without
// string-matching messages.
type Kind int

const (
	// KindNetwork means the backend was unreachable or the transport failed.
	KindNetwork Kind = iota
	// KindHTTPStatus means the backend answered with a non-2xx status.
	KindHTTPStatus
	// KindValidation means the input was rejected before any network call.
	KindValidation
	// KindParse means a payload or persisted blob was not valid JSON.
	KindParse
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindHTTPStatus:
		return "http_status"
	case KindValidation:
		return "validation"
	case KindParse:
		return "parse"
	default:
		return "unknown"
	}
}

// AppError is the error type crossing package boundaries in this module.
type AppError struct {
	Kind    Kind
	Status  int    // HTTP status code, set only for KindHTTPStatus
	Message string // User-facing error message
	Err     error  // The underlying error, if any (not exposed to user)
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with a kind and message.
func New(kind Kind, message string) *AppError {
	return &AppError{
		Kind:    kind,
		Message: message,
	}
}

// Wrap creates a new AppError wrapping an existing error.
func Wrap(err error, kind Kind, message string) *AppError {
	return &AppError{
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Status creates an AppError for a non-2xx backend response.
// If the backend provided a message it is kept verbatim.
func Status(status int, message string) *AppError {
	if message == "" {
		message = fmt.Sprintf("request failed with status %d", status)
	}
	return &AppError{
		Kind:    KindHTTPStatus,
		Status:  status,
		Message: message,
	}
}
