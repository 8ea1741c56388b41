package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Supported providers.
const (
	ProviderOCI    = "oci"
	ProviderHCloud = "hcloud"
)

// Config holds the application configuration.
type Config struct {
	Provider    string        `env:"PROVIDER,default=oci"`
	RequestPath string        `env:"REQUEST_JSON_PATH,default=./request.json"`
	WaitTime    int           `env:"WAIT_TIME,default=120"` // seconds between retryable attempts
	MaxAttempts int           `env:"MAX_ATTEMPTS,default=0"`
	MaxDuration time.Duration `env:"MAX_DURATION,default=0s"`
	LogLevel    string        `env:"LOG_LEVEL,default=info"`
	MetricsAddr string        `env:"METRICS_ADDR"`

	OCI      OCI
	HCloud   HCloud
	Email    Email
	Archive  Archive
	Timeouts Timeouts
}

// OCI holds the API signing credentials for Oracle Cloud Infrastructure.
type OCI struct {
	Fingerprint   string `env:"OCI_FINGERPRINT"`
	KeyFile       string `env:"OCI_KEY_FILE_PATH,default=./private_key.pem"`
	KeyPassphrase string `env:"OCI_KEY_PASSPHRASE"`
	Region        string `env:"OCI_REGION"`
	Tenancy       string `env:"OCI_TENANCY"`
	User          string `env:"OCI_USER"`
}

// HCloud holds the Hetzner Cloud API credentials.
type HCloud struct {
	Token string `env:"HCLOUD_TOKEN"`
}

// Email holds the optional notification settings.
// Notifications are active only when both Address and Password are set.
type Email struct {
	Address    string `env:"EMAIL_ADDRESS"`
	Password   string `env:"EMAIL_PASSWORD"`
	SMTPServer string `env:"EMAIL_SMTP_SERVER,default=smtp.gmail.com"`
	SMTPPort   int    `env:"EMAIL_SMTP_PORT,default=587"`
	To         string `env:"EMAIL_TO"`
}

// Enabled reports whether credentials are configured.
func (e Email) Enabled() bool {
	return e.Address != "" && e.Password != ""
}

// Recipient returns the notification recipient, defaulting to the sender.
func (e Email) Recipient() string {
	if e.To != "" {
		return e.To
	}
	return e.Address
}

// Archive holds the optional S3-compatible storage for terminal responses.
type Archive struct {
	Bucket    string `env:"ARCHIVE_S3_BUCKET"`
	Endpoint  string `env:"ARCHIVE_S3_ENDPOINT"`
	Region    string `env:"ARCHIVE_S3_REGION,default=us-east-1"`
	AccessKey string `env:"ARCHIVE_S3_ACCESS_KEY"`
	SecretKey string `env:"ARCHIVE_S3_SECRET_KEY"`
	Prefix    string `env:"ARCHIVE_S3_PREFIX,default=capacityhunt"`
}

// Enabled reports whether a bucket is configured.
func (a Archive) Enabled() bool {
	return a.Bucket != ""
}

// Interval returns the wait between retryable attempts.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.WaitTime) * time.Second
}

// Validate checks provider-dependent required settings and value ranges.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderOCI:
		if err := requireVars(map[string]string{
			"OCI_FINGERPRINT": c.OCI.Fingerprint,
			"OCI_REGION":      c.OCI.Region,
			"OCI_TENANCY":     c.OCI.Tenancy,
			"OCI_USER":        c.OCI.User,
		}); err != nil {
			return err
		}
	case ProviderHCloud:
		if err := requireVars(map[string]string{"HCLOUD_TOKEN": c.HCloud.Token}); err != nil {
			return err
		}
	default:
		return &Error{Field: "PROVIDER", Err: fmt.Errorf("unsupported provider %q (want %s or %s)", c.Provider, ProviderOCI, ProviderHCloud)}
	}

	if c.WaitTime < 0 {
		return &Error{Field: "WAIT_TIME", Err: fmt.Errorf("must not be negative, got %d", c.WaitTime)}
	}
	if c.MaxAttempts < 0 {
		return &Error{Field: "MAX_ATTEMPTS", Err: fmt.Errorf("must not be negative, got %d", c.MaxAttempts)}
	}
	if c.MaxDuration < 0 {
		return &Error{Field: "MAX_DURATION", Err: fmt.Errorf("must not be negative, got %v", c.MaxDuration)}
	}

	if c.Email.Enabled() && (c.Email.SMTPPort <= 0 || c.Email.SMTPPort > 65535) {
		return &Error{Field: "EMAIL_SMTP_PORT", Err: fmt.Errorf("invalid port %d", c.Email.SMTPPort)}
	}

	if c.Archive.Enabled() {
		if err := requireVars(map[string]string{
			"ARCHIVE_S3_ACCESS_KEY": c.Archive.AccessKey,
			"ARCHIVE_S3_SECRET_KEY": c.Archive.SecretKey,
		}); err != nil {
			return err
		}
	}

	return c.Timeouts.validate()
}

// requireVars returns an *Error naming every empty variable, in sorted order.
func requireVars(vars map[string]string) error {
	var missing []string
	for name, value := range vars {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	slices.Sort(missing)
	return &Error{
		Field: strings.Join(missing, ", "),
		Err:   errors.New("required environment variable not set"),
	}
}
