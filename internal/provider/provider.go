package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Transport sends a provisioning payload to a cloud provider.
type Transport interface {
	// Name returns a human-readable provider name, e.g. "Oracle Cloud".
	Name() string
	// Send performs one outbound call. An error means no response was received.
	Send(ctx context.Context, payload []byte) (*Response, error)
}

// Request is the opaque create-instance document sent on every attempt.
// It is loaded once at startup and never modified.
type Request struct {
	source string
	body   []byte
}

// NewRequest validates that body is a JSON document and returns an immutable Request.
func NewRequest(source string, body []byte) (Request, error) {
	if !json.Valid(body) {
		return Request{}, fmt.Errorf("request %s is not valid JSON", source)
	}
	return Request{source: source, body: bytes.Clone(body)}, nil
}

// Source returns where the request was loaded from.
func (r Request) Source() string {
	return r.source
}

// Payload returns a copy of the request body.
func (r Request) Payload() []byte {
	return bytes.Clone(r.body)
}

// Response is a completed provider answer.
type Response struct {
	StatusCode int
	Body       []byte
}

// Text returns the raw body as a string.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	return string(r.Body)
}

// Document parses the body as JSON. ok is false for empty or non-JSON bodies.
func (r *Response) Document() (doc any, ok bool) {
	if r == nil || len(r.Body) == 0 {
		return nil, false
	}
	if err := json.Unmarshal(r.Body, &doc); err != nil {
		return nil, false
	}
	return doc, true
}

// Successful reports whether the status code is in the 2xx range.
func (r *Response) Successful() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// TransportError reports that a provisioning call could not be completed.
type TransportError struct {
	Provider string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Attempt issues one provisioning call through t.
// Errors are always returned as *TransportError; they are never classified or retried.
func Attempt(ctx context.Context, t Transport, req Request) (*Response, error) {
	resp, err := t.Send(ctx, req.Payload())
	if err != nil {
		var te *TransportError
		if errors.As(err, &te) {
			return nil, err
		}
		return nil, &TransportError{Provider: t.Name(), Err: err}
	}
	if resp == nil {
		return nil, &TransportError{Provider: t.Name(), Err: errors.New("empty response")}
	}
	return resp, nil
}
