package config

import (
	"fmt"
	"time"
)

// Timeouts bounds the two blocking calls made per cycle.
// A zero value disables the bound.
type Timeouts struct {
	Request time.Duration `env:"REQUEST_TIMEOUT,default=60s"`    // One provisioning HTTP call
	SMTP    time.Duration `env:"EMAIL_SMTP_TIMEOUT,default=30s"` // Dial, auth and send
}

func (t Timeouts) validate() error {
	if t.Request < 0 {
		return &Error{Field: "REQUEST_TIMEOUT", Err: fmt.Errorf("must not be negative, got %v", t.Request)}
	}
	if t.SMTP < 0 {
		return &Error{Field: "EMAIL_SMTP_TIMEOUT", Err: fmt.Errorf("must not be negative, got %v", t.SMTP)}
	}
	return nil
}
