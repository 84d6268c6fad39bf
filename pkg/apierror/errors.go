package apierror

import (
	"errors"
	"net/http"
)

// Error codes surfaced by the backend envelope and by the client pipeline.
const (
	CodeTokenExpired  = "TOKEN_EXPIRED"
	CodeRefreshFailed = "REFRESH_FAILED"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeBadRequest    = "BAD_REQUEST"
	CodeNotFound      = "NOT_FOUND"
	CodeConflict      = "CONFLICT"
	CodeInternal      = "INTERNAL_ERROR"
)

type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (e *AppError) Error() string {
	return e.Message
}

var (
	ErrBadRequest     = &AppError{Code: CodeBadRequest, Message: "Bad request", Status: http.StatusBadRequest}
	ErrUnauthorized   = &AppError{Code: CodeUnauthorized, Message: "Unauthorized", Status: http.StatusUnauthorized}
	ErrNotFound       = &AppError{Code: CodeNotFound, Message: "Not found", Status: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: CodeInternal, Message: "Internal server error", Status: http.StatusInternalServerError}

	// ErrTokenExpired is the one failure the client pipeline recovers from
	// transparently (refresh + single retry).
	ErrTokenExpired = &AppError{Code: CodeTokenExpired, Message: "Access token expired", Status: http.StatusUnauthorized}

	// ErrRefreshFailed is terminal for the session: local state has been
	// cleared and the caller must re-authenticate.
	ErrRefreshFailed = &AppError{Code: CodeRefreshFailed, Message: "Session expired, please log in again", Status: http.StatusUnauthorized}
)

func NewBadRequest(message string) *AppError {
	return &AppError{Code: CodeBadRequest, Message: message, Status: http.StatusBadRequest}
}

func NewUnauthorized(message string) *AppError {
	return &AppError{Code: CodeUnauthorized, Message: message, Status: http.StatusUnauthorized}
}

func NewNotFound(message string) *AppError {
	return &AppError{Code: CodeNotFound, Message: message, Status: http.StatusNotFound}
}

func NewInternalServer(message string) *AppError {
	return &AppError{Code: CodeInternal, Message: message, Status: http.StatusInternalServerError}
}

// FromEnvelope maps an unsuccessful backend envelope to an AppError, keeping
// the server-reported message verbatim. Domain errors get no local recovery.
func FromEnvelope(status int, code, message string) *AppError {
	if message == "" {
		message = http.StatusText(status)
	}
	if code == "" {
		switch status {
		case http.StatusBadRequest:
			code = CodeBadRequest
		case http.StatusUnauthorized:
			code = CodeUnauthorized
		case http.StatusNotFound:
			code = CodeNotFound
		case http.StatusConflict:
			code = CodeConflict
		default:
			code = CodeInternal
		}
	}
	return &AppError{Code: code, Message: message, Status: status}
}

// Map converts any error into an AppError, defaulting to an opaque internal
// error so backend details never leak to the gateway's clients.
func Map(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalServer("An unexpected error occurred")
}
