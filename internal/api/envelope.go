package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gojetter/storefront/internal/models"
)

// Response is the decoded backend envelope plus the HTTP status it arrived with.
type Response struct {
	StatusCode int             `json:"-"`
	Success    *bool           `json:"Success,omitempty"`
	Message    string          `json:"Message,omitempty"`
	Status     Status          `json:"Status,omitempty"`
	Data       json.RawMessage `json:"Data,omitempty"`
}

// OK reports whether the backend accepted the request. Envelopes without a
// Success field count as accepted.
func (r *Response) OK() bool {
	if r == nil {
		return false
	}
	return r.Success == nil || *r.Success
}

// Status is the envelope's status marker, sent either as a number or a word.
type Status string

// UnmarshalJSON implements json.Unmarshaler
func (s *Status) UnmarshalJSON(data []byte) error {
	var f models.FlexString
	if err := f.UnmarshalJSON(data); err != nil {
		return err
	}
	*s = Status(f)
	return nil
}

// Unauthorized reports whether the status marks the session as no longer valid.
func (s Status) Unauthorized() bool {
	switch strings.ToLower(string(s)) {
	case "401", "unauthorized", "unauthenticated":
		return true
	}
	return false
}

func decodeEnvelope(statusCode int, body []byte) (*Response, error) {
	resp := &Response{StatusCode: statusCode}
	if len(bytes.TrimSpace(body)) == 0 {
		return resp, nil
	}
	if err := json.Unmarshal(body, resp); err != nil {
		return resp, err
	}
	return resp, nil
}

// classify maps a received response onto the error taxonomy. decodeErr is the
// result of decoding the body as an envelope.
func classify(resp *Response, decodeErr error) error {
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &TransportError{StatusCode: resp.StatusCode, Message: resp.Message}
	case decodeErr != nil:
		return &TransportError{StatusCode: resp.StatusCode, Err: decodeErr}
	case resp.Status.Unauthorized():
		return ErrSessionExpired
	case !resp.OK():
		return &BusinessError{Message: resp.Message}
	}
	return nil
}

func hasData(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}
