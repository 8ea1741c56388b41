package notify

import (
	"context"
	"errors"
	"fmt"
	"net/textproto"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/imamik/capacityhunt/internal/config"
)

// mailClient is the subset of *mail.Client used by Email.
type mailClient interface {
	DialWithContext(ctx context.Context) error
	Send(messages ...*mail.Msg) error
	Close() error
}

// Email sends notifications through an SMTP relay using STARTTLS and PLAIN auth.
type Email struct {
	cfg       config.Email
	timeout   time.Duration
	newClient func(cfg config.Email, timeout time.Duration) (mailClient, error)
}

// NewEmail returns an Email sink. No connection is made until Validate or Notify.
func NewEmail(cfg config.Email, timeout time.Duration) *Email {
	return &Email{
		cfg:       cfg,
		timeout:   timeout,
		newClient: newMailClient,
	}
}

func newMailClient(cfg config.Email, timeout time.Duration) (mailClient, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.SMTPPort),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Address),
		mail.WithPassword(cfg.Password),
	}
	if timeout > 0 {
		opts = append(opts, mail.WithTimeout(timeout))
	}
	return mail.NewClient(cfg.SMTPServer, opts...)
}

// Validate logs in and out once. A login the relay rejects is returned as
// *CredentialError; connection and TLS failures are returned wrapped as is.
func (e *Email) Validate(ctx context.Context) error {
	client, err := e.dial(ctx)
	if err != nil {
		if rejectedLogin(err) {
			return &CredentialError{Host: e.address(), Username: e.cfg.Address, Err: err}
		}
		return fmt.Errorf("failed to connect to %s: %w", e.address(), err)
	}
	if err := client.Close(); err != nil {
		return fmt.Errorf("failed to close session with %s: %w", e.address(), err)
	}
	return nil
}

// authFailureCodes are the SMTP replies a relay sends when it refuses AUTH.
var authFailureCodes = map[int]bool{
	530: true, // Authentication required
	534: true, // Mechanism too weak
	535: true, // Credentials invalid
	538: true, // Encryption required for mechanism
}

// rejectedLogin reports whether err is the relay refusing the configured login.
func rejectedLogin(err error) bool {
	var protoErr *textproto.Error
	if errors.As(err, &protoErr) {
		return authFailureCodes[protoErr.Code]
	}
	return errors.Is(err, mail.ErrPlainAuthNotSupported)
}

// Notify sends one message from the configured address to the recipient.
// The session is closed on every path.
func (e *Email) Notify(ctx context.Context, subject, body string) error {
	msg, err := e.message(subject, body)
	if err != nil {
		return err
	}

	client, err := e.dial(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", e.address(), err)
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Send(msg); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	return nil
}

func (e *Email) dial(ctx context.Context) (mailClient, error) {
	client, err := e.newClient(e.cfg, e.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}
	if err := client.DialWithContext(ctx); err != nil {
		return nil, err
	}
	return client, nil
}

func (e *Email) message(subject, body string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(e.cfg.Address); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(e.cfg.Recipient()); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)
	return msg, nil
}

func (e *Email) address() string {
	return fmt.Sprintf("%s:%d", e.cfg.SMTPServer, e.cfg.SMTPPort)
}
