package classify

import (
	"fmt"
	"net/http"

	"github.com/google/go-cmp/cmp"

	"github.com/imamik/capacityhunt/internal/provider"
)

// Kind is the classification of one response.
type Kind int

const (
	// Retryable means the provider reported a transient condition.
	Retryable Kind = iota + 1
	// Success means the provider accepted the request.
	Success
	// TerminalError means the provider rejected the request for an unrecognized reason.
	TerminalError
)

func (k Kind) String() string {
	switch k {
	case Retryable:
		return "retryable"
	case Success:
		return "success"
	case TerminalError:
		return "terminal_error"
	default:
		return "unknown"
	}
}

// Outcome is the classifier's decision about a response.
type Outcome struct {
	Kind   Kind
	Reason string
}

// Terminal reports whether the outcome ends the loop.
func (o Outcome) Terminal() bool {
	return o.Kind != Retryable
}

// Classifier maps a completed response to an outcome.
type Classifier interface {
	Classify(resp *provider.Response) Outcome
}

// Signature identifies a retryable failure by exact body equality.
type Signature struct {
	Code    string
	Message string
}

// document returns the signature as the JSON document it must equal.
func (s Signature) document() map[string]any {
	return map[string]any{
		"code":    s.Code,
		"message": s.Message,
	}
}

// DefaultSignatures are the OCI answers that mean "try again later".
var DefaultSignatures = []Signature{
	{Code: "InternalError", Message: "Out of host capacity."},
	{Code: "InternalError", Message: "Out of host capaciy."}, // Legacy spelling
	{Code: "InternalError", Message: "TooManyRequests"},
}

// SignatureClassifier recognizes retryable failures by exact structural equality
// of the whole response body with one of its signatures.
type SignatureClassifier struct {
	signatures []Signature
}

// NewSignatureClassifier returns a classifier for the given signatures.
func NewSignatureClassifier(signatures ...Signature) *SignatureClassifier {
	return &SignatureClassifier{signatures: append([]Signature(nil), signatures...)}
}

// Default returns the classifier for DefaultSignatures.
func Default() *SignatureClassifier {
	return NewSignatureClassifier(DefaultSignatures...)
}

// IsRetryable reports whether resp matches DefaultSignatures.
func IsRetryable(resp *provider.Response) bool {
	return Default().IsRetryable(resp)
}

// IsRetryable reports whether the response body equals one of the signatures.
// Empty and non-JSON bodies never match.
func (c *SignatureClassifier) IsRetryable(resp *provider.Response) bool {
	doc, ok := resp.Document()
	if !ok {
		return false
	}
	for _, sig := range c.signatures {
		if cmp.Equal(doc, sig.document()) {
			return true
		}
	}
	return false
}

// Classify implements Classifier.
func (c *SignatureClassifier) Classify(resp *provider.Response) Outcome {
	if c.IsRetryable(resp) {
		return Outcome{Kind: Retryable, Reason: reason(resp)}
	}
	return terminal(resp)
}

// CodeClassifier recognizes retryable failures by the body's "code" field alone.
// It suits providers whose error messages vary while codes are stable.
type CodeClassifier struct {
	codes map[string]struct{}
}

// NewCodeClassifier returns a classifier treating the given error codes as retryable.
func NewCodeClassifier(codes ...string) *CodeClassifier {
	set := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		set[code] = struct{}{}
	}
	return &CodeClassifier{codes: set}
}

// IsRetryable reports whether the body carries one of the retryable codes.
func (c *CodeClassifier) IsRetryable(resp *provider.Response) bool {
	if resp.Successful() {
		return false
	}
	code, _ := fields(resp)
	if code == "" {
		return false
	}
	_, ok := c.codes[code]
	return ok
}

// Classify implements Classifier.
func (c *CodeClassifier) Classify(resp *provider.Response) Outcome {
	if c.IsRetryable(resp) {
		return Outcome{Kind: Retryable, Reason: reason(resp)}
	}
	return terminal(resp)
}

func terminal(resp *provider.Response) Outcome {
	if resp.Successful() {
		return Outcome{Kind: Success, Reason: http.StatusText(resp.StatusCode)}
	}
	return Outcome{Kind: TerminalError, Reason: reason(resp)}
}

// reason builds a short description from the body's code/message, falling back
// to the HTTP status.
func reason(resp *provider.Response) string {
	code, message := fields(resp)
	switch {
	case code != "" && message != "":
		return fmt.Sprintf("%s: %s", code, message)
	case code != "":
		return code
	case message != "":
		return message
	}
	if resp == nil {
		return "no response"
	}
	if text := http.StatusText(resp.StatusCode); text != "" {
		return fmt.Sprintf("HTTP %d %s", resp.StatusCode, text)
	}
	return fmt.Sprintf("HTTP %d", resp.StatusCode)
}

func fields(resp *provider.Response) (code, message string) {
	doc, ok := resp.Document()
	if !ok {
		return "", ""
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return "", ""
	}
	code, _ = obj["code"].(string)
	message, _ = obj["message"].(string)
	return code, message
}
