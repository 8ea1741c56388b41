package notify

import (
	"bytes"
	"context"
	"errors"
	"net"
	"net/textproto"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"

	"github.com/imamik/capacityhunt/internal/config"
)

// fakeClient records the SMTP session lifecycle.
type fakeClient struct {
	dialErr error
	sendErr error
	dials   int
	closes  int
	sent    []*mail.Msg
}

func (f *fakeClient) DialWithContext(_ context.Context) error {
	f.dials++
	return f.dialErr
}

func (f *fakeClient) Send(messages ...*mail.Msg) error {
	f.sent = append(f.sent, messages...)
	return f.sendErr
}

func (f *fakeClient) Close() error {
	f.closes++
	return nil
}

func emailConfig() config.Email {
	return config.Email{
		Address:    "me@example.com",
		Password:   "app-password",
		SMTPServer: "smtp.example.com",
		SMTPPort:   587,
	}
}

func newTestEmail(cfg config.Email, fc *fakeClient) *Email {
	e := NewEmail(cfg, time.Second)
	e.newClient = func(_ config.Email, _ time.Duration) (mailClient, error) {
		return fc, nil
	}
	return e
}

func render(t *testing.T, msg *mail.Msg) string {
	t.Helper()
	var buf bytes.Buffer
	_, err := msg.WriteTo(&buf)
	require.NoError(t, err)
	return buf.String()
}

func TestDisabled(t *testing.T) {
	t.Parallel()
	var sink Sink = Disabled{}
	assert.NoError(t, sink.Notify(context.Background(), "subject", "body"))
}

func TestNew_DisabledWithoutCredentials(t *testing.T) {
	t.Parallel()
	sink, err := New(context.Background(), config.Email{Address: "me@example.com"}, time.Second)
	require.NoError(t, err)
	assert.IsType(t, Disabled{}, sink)
}

func TestEmail_Validate(t *testing.T) {
	t.Parallel()

	t.Run("login and logout", func(t *testing.T) {
		fc := &fakeClient{}
		err := newTestEmail(emailConfig(), fc).Validate(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, fc.dials)
		assert.Equal(t, 1, fc.closes)
		assert.Empty(t, fc.sent)
	})

	t.Run("rejected login", func(t *testing.T) {
		fc := &fakeClient{dialErr: &textproto.Error{Code: 535, Msg: "5.7.8 Username and Password not accepted"}}
		err := newTestEmail(emailConfig(), fc).Validate(context.Background())

		var credErr *CredentialError
		require.ErrorAs(t, err, &credErr)
		assert.Equal(t, "me@example.com", credErr.Username)
		assert.Equal(t, "smtp.example.com:587", credErr.Host)
		assert.Contains(t, err.Error(), "535")
	})

	t.Run("plain auth not offered", func(t *testing.T) {
		fc := &fakeClient{dialErr: mail.ErrPlainAuthNotSupported}
		err := newTestEmail(emailConfig(), fc).Validate(context.Background())

		var credErr *CredentialError
		require.ErrorAs(t, err, &credErr)
	})

	connectionFailures := []struct {
		name string
		err  error
	}{
		{name: "connection refused", err: &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connect: connection refused")}},
		{name: "unknown host", err: &net.DNSError{Err: "no such host", Name: "smtp.example.com", IsNotFound: true}},
		{name: "starttls failure", err: errors.New("tls: failed to verify certificate")},
		{name: "temporary auth failure", err: &textproto.Error{Code: 454, Msg: "4.7.0 Temporary authentication failure"}},
	}
	for _, tt := range connectionFailures {
		t.Run(tt.name, func(t *testing.T) {
			fc := &fakeClient{dialErr: tt.err}
			err := newTestEmail(emailConfig(), fc).Validate(context.Background())

			require.Error(t, err)
			var credErr *CredentialError
			assert.False(t, errors.As(err, &credErr))
			assert.ErrorIs(t, err, tt.err)
			assert.Contains(t, err.Error(), "smtp.example.com:587")
		})
	}

	t.Run("client construction failure", func(t *testing.T) {
		e := NewEmail(emailConfig(), time.Second)
		e.newClient = func(_ config.Email, _ time.Duration) (mailClient, error) {
			return nil, errors.New("invalid host")
		}

		err := e.Validate(context.Background())
		require.Error(t, err)
		var credErr *CredentialError
		assert.False(t, errors.As(err, &credErr))
		assert.Contains(t, err.Error(), "invalid host")
	})
}

func TestEmail_Notify(t *testing.T) {
	t.Parallel()

	t.Run("sends one message to self", func(t *testing.T) {
		fc := &fakeClient{}
		err := newTestEmail(emailConfig(), fc).Notify(context.Background(), "Oracle Cloud instance creation status", `{"id":"ocid1.instance"}`)

		require.NoError(t, err)
		require.Len(t, fc.sent, 1)
		assert.Equal(t, 1, fc.closes)

		raw := render(t, fc.sent[0])
		assert.Contains(t, raw, "From: <me@example.com>")
		assert.Contains(t, raw, "To: <me@example.com>")
		assert.Contains(t, raw, "Subject: Oracle Cloud instance creation status")
		assert.Contains(t, raw, `{"id":"ocid1.instance"}`)
	})

	t.Run("distinct recipient", func(t *testing.T) {
		cfg := emailConfig()
		cfg.To = "ops@example.com"
		fc := &fakeClient{}

		require.NoError(t, newTestEmail(cfg, fc).Notify(context.Background(), "s", "b"))
		require.Len(t, fc.sent, 1)
		assert.Contains(t, render(t, fc.sent[0]), "To: <ops@example.com>")
	})

	t.Run("session closed on send failure", func(t *testing.T) {
		fc := &fakeClient{sendErr: errors.New("552 message too large")}
		err := newTestEmail(emailConfig(), fc).Notify(context.Background(), "s", "b")

		require.Error(t, err)
		assert.Equal(t, 1, fc.closes)
	})

	t.Run("dial failure", func(t *testing.T) {
		fc := &fakeClient{dialErr: errors.New("connection refused")}
		err := newTestEmail(emailConfig(), fc).Notify(context.Background(), "s", "b")

		require.Error(t, err)
		assert.Empty(t, fc.sent)
	})

	t.Run("invalid sender", func(t *testing.T) {
		cfg := emailConfig()
		cfg.Address = "not an address"
		fc := &fakeClient{}

		err := newTestEmail(cfg, fc).Notify(context.Background(), "s", "b")
		require.Error(t, err)
		assert.Equal(t, 0, fc.dials)
	})
}
