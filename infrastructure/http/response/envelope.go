package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/patrimonia/portal/pkg/apierror"
)

type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Code    string      `json:"code,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, env Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	json.NewEncoder(w).Encode(env)
}

func Success(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	WriteJSON(w, statusCode, Envelope{Success: true, Message: message, Data: data})
}

func Error(w http.ResponseWriter, statusCode int, code, message string) {
	WriteJSON(w, statusCode, Envelope{Success: false, Code: code, Message: message})
}

// FromError maps an application error to its HTTP representation. Unknown
// errors collapse to a generic 500 so internal detail never leaks.
func FromError(w http.ResponseWriter, err error) {
	var appErr *apierror.AppError
	if errors.As(err, &appErr) {
		Error(w, appErr.Status, appErr.Code, appErr.Message)
		return
	}
	Error(w, http.StatusInternalServerError, apierror.CodeInternal, "internal server error")
}

func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, apierror.CodeBadRequest, message)
}

func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnauthorized, apierror.CodeUnauthorized, message)
}

func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, apierror.CodeNotFound, message)
}

func TooManyRequests(w http.ResponseWriter, message string) {
	Error(w, http.StatusTooManyRequests, "RATE_LIMITED", message)
}

func InternalServerError(w http.ResponseWriter, message string) {
	Error(w, http.StatusInternalServerError, apierror.CodeInternal, message)
}
