package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validOCIConfig() *Config {
	return &Config{
		Provider:    ProviderOCI,
		RequestPath: "./request.json",
		WaitTime:    120,
		OCI: OCI{
			Fingerprint: "aa:bb:cc",
			KeyFile:     "./private_key.pem",
			Region:      "eu-frankfurt-1",
			Tenancy:     "ocid1.tenancy.oc1..aaa",
			User:        "ocid1.user.oc1..bbb",
		},
		Email: Email{SMTPServer: "smtp.gmail.com", SMTPPort: 587},
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{
			name:   "valid oci",
			mutate: func(_ *Config) {},
		},
		{
			name: "valid hcloud",
			mutate: func(c *Config) {
				c.Provider = ProviderHCloud
				c.OCI = OCI{}
				c.HCloud.Token = "token"
			},
		},
		{
			name:      "unsupported provider",
			mutate:    func(c *Config) { c.Provider = "aws" },
			wantField: "PROVIDER",
		},
		{
			name: "missing oci fields",
			mutate: func(c *Config) {
				c.OCI.Fingerprint = ""
				c.OCI.User = ""
			},
			wantField: "OCI_FINGERPRINT, OCI_USER",
		},
		{
			name:      "missing hcloud token",
			mutate:    func(c *Config) { c.Provider = ProviderHCloud },
			wantField: "HCLOUD_TOKEN",
		},
		{
			name:      "negative wait",
			mutate:    func(c *Config) { c.WaitTime = -1 },
			wantField: "WAIT_TIME",
		},
		{
			name:   "zero wait is allowed",
			mutate: func(c *Config) { c.WaitTime = 0 },
		},
		{
			name:      "negative max attempts",
			mutate:    func(c *Config) { c.MaxAttempts = -3 },
			wantField: "MAX_ATTEMPTS",
		},
		{
			name:      "negative max duration",
			mutate:    func(c *Config) { c.MaxDuration = -time.Second },
			wantField: "MAX_DURATION",
		},
		{
			name: "bad smtp port with email enabled",
			mutate: func(c *Config) {
				c.Email.Address = "me@example.com"
				c.Email.Password = "secret"
				c.Email.SMTPPort = 70000
			},
			wantField: "EMAIL_SMTP_PORT",
		},
		{
			name:   "bad smtp port ignored when email disabled",
			mutate: func(c *Config) { c.Email.SMTPPort = 0 },
		},
		{
			name:      "archive without keys",
			mutate:    func(c *Config) { c.Archive.Bucket = "results" },
			wantField: "ARCHIVE_S3_ACCESS_KEY, ARCHIVE_S3_SECRET_KEY",
		},
		{
			name:      "negative request timeout",
			mutate:    func(c *Config) { c.Timeouts.Request = -time.Second },
			wantField: "REQUEST_TIMEOUT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validOCIConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantField == "" {
				require.NoError(t, err)
				return
			}

			var cfgErr *Error
			require.True(t, errors.As(err, &cfgErr), "expected *config.Error, got %T", err)
			assert.Equal(t, tt.wantField, cfgErr.Field)
		})
	}
}

func TestConfig_Interval(t *testing.T) {
	t.Parallel()
	cfg := &Config{WaitTime: 120}
	assert.Equal(t, 2*time.Minute, cfg.Interval())

	cfg.WaitTime = 0
	assert.Equal(t, time.Duration(0), cfg.Interval())
}

func TestEmail(t *testing.T) {
	t.Parallel()

	t.Run("disabled without password", func(t *testing.T) {
		e := Email{Address: "me@example.com"}
		assert.False(t, e.Enabled())
	})

	t.Run("disabled without address", func(t *testing.T) {
		e := Email{Password: "secret"}
		assert.False(t, e.Enabled())
	})

	t.Run("recipient defaults to sender", func(t *testing.T) {
		e := Email{Address: "me@example.com", Password: "secret"}
		assert.True(t, e.Enabled())
		assert.Equal(t, "me@example.com", e.Recipient())
	})

	t.Run("recipient override", func(t *testing.T) {
		e := Email{Address: "me@example.com", To: "ops@example.com"}
		assert.Equal(t, "ops@example.com", e.Recipient())
	})
}

func TestError(t *testing.T) {
	t.Parallel()
	cause := errors.New("boom")

	err := &Error{Field: "OCI_REGION", Err: cause}
	assert.Equal(t, "configuration error: OCI_REGION: boom", err.Error())
	assert.ErrorIs(t, err, cause)

	err = &Error{Err: cause}
	assert.Equal(t, "configuration error: boom", err.Error())
}
