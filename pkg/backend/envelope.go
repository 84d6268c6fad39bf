package backend

import (
	"encoding/json"
	"net/http"

	"github.com/patrimonia/portal/pkg/apierror"
)

// Envelope is the JSON wrapper every backend response follows:
// {success, message?, code?, ...payload}. Payload fields sit beside the
// wrapper fields, so callers decode the raw body into their own type.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

// Response is the decoded outcome of one backend call.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Envelope   Envelope
}

// Decode unmarshals the full response body into v. The envelope fields are
// part of the same object, so v may embed or ignore them.
func (r *Response) Decode(v interface{}) error {
	if len(r.Body) == 0 {
		return nil
	}
	return json.Unmarshal(r.Body, v)
}

// Err maps an unsuccessful envelope to an AppError, nil otherwise. The
// server-reported message is surfaced verbatim.
func (r *Response) Err() error {
	if r.Envelope.Success {
		return nil
	}
	return apierror.FromEnvelope(r.StatusCode, r.Envelope.Code, r.Envelope.Message)
}
