package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/imamik/capacityhunt/internal/config"
)

// Sink delivers a human-readable status message.
type Sink interface {
	Notify(ctx context.Context, subject, body string) error
}

// Disabled is the no-op sink.
type Disabled struct{}

// Notify implements Sink.
func (Disabled) Notify(_ context.Context, _, _ string) error {
	return nil
}

// CredentialError reports that the mail relay rejected the configured login.
type CredentialError struct {
	Host     string
	Username string
	Err      error
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("email login as %s on %s failed: %v", e.Username, e.Host, e.Err)
}

func (e *CredentialError) Unwrap() error {
	return e.Err
}

// New returns Disabled when cfg has no credentials. Otherwise it returns an Email
// sink whose credentials have already been validated.
func New(ctx context.Context, cfg config.Email, timeout time.Duration) (Sink, error) {
	if !cfg.Enabled() {
		return Disabled{}, nil
	}

	sink := NewEmail(cfg, timeout)
	if err := sink.Validate(ctx); err != nil {
		return nil, err
	}
	return sink, nil
}
