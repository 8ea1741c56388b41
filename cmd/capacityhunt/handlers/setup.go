// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/imamik/capacityhunt/internal/classify"
	"github.com/imamik/capacityhunt/internal/config"
	"github.com/imamik/capacityhunt/internal/logging"
	"github.com/imamik/capacityhunt/internal/notify"
	"github.com/imamik/capacityhunt/internal/platform/hcloud"
	"github.com/imamik/capacityhunt/internal/platform/oci"
	"github.com/imamik/capacityhunt/internal/platform/s3"
	"github.com/imamik/capacityhunt/internal/provider"
	"github.com/imamik/capacityhunt/internal/provisioning"
)

// Archive is the result archive used by the run command.
type Archive interface {
	provisioning.Archiver
	Prepare(ctx context.Context) error
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadConfig reads and validates the process configuration.
	loadConfig = config.LoadFromEnv

	// loadRequest reads the create-instance document.
	loadRequest = config.LoadRequest

	// newTransport builds the provider transport and its classifier.
	newTransport = buildTransport

	// newNotifier builds the notification sink, probing credentials when enabled.
	newNotifier = notify.New

	// newArchive builds the S3 result archive.
	newArchive = func(ctx context.Context, cfg config.Archive) (Archive, error) {
		return s3.NewArchive(ctx, cfg)
	}

	// newLogger installs the process logger.
	newLogger = logging.Init

	// stderrIsTerminal reports whether the summary panel should be shown.
	stderrIsTerminal = func() bool {
		return logging.IsTerminal(os.Stderr)
	}
)

var appVersion = "dev"

// SetVersion sets the version reported to provider APIs.
func SetVersion(v string) {
	appVersion = v
}

// setup holds everything resolved before the first attempt.
type setup struct {
	cfg        *config.Config
	request    provider.Request
	transport  provider.Transport
	classifier classify.Classifier
	sink       notify.Sink
	logger     *slog.Logger
}

// prepare loads configuration and builds every component, failing before any
// provisioning call is made.
func prepare(ctx context.Context, opts RunOptions) (*setup, error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	if opts.RequestPath != "" {
		cfg.RequestPath = opts.RequestPath
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, &config.Error{Field: "LOG_LEVEL", Err: err}
	}
	if opts.Debug {
		level = slog.LevelDebug
	}
	logger := newLogger(level)

	req, err := loadRequest(cfg.RequestPath)
	if err != nil {
		return nil, err
	}

	transport, classifier, err := newTransport(cfg, req)
	if err != nil {
		return nil, err
	}

	sink, err := newNotifier(ctx, cfg.Email, cfg.Timeouts.SMTP)
	if err != nil {
		return nil, err
	}

	return &setup{
		cfg:        cfg,
		request:    req,
		transport:  transport,
		classifier: classifier,
		sink:       sink,
		logger:     logger,
	}, nil
}

// buildTransport selects the provider transport named by PROVIDER.
func buildTransport(cfg *config.Config, req provider.Request) (provider.Transport, classify.Classifier, error) {
	switch cfg.Provider {
	case config.ProviderHCloud:
		if _, err := hcloud.ParseServerRequest(req.Payload()); err != nil {
			return nil, nil, &config.Error{Field: "REQUEST_JSON_PATH", Err: err}
		}
		client := hcloud.NewClient(cfg.HCloud.Token,
			hcloud.WithTimeout(cfg.Timeouts.Request),
			hcloud.WithVersion(appVersion),
		)
		return client, hcloud.Classifier(), nil
	default:
		client, err := oci.NewClient(cfg.OCI, cfg.Timeouts.Request)
		if err != nil {
			return nil, nil, err
		}
		return client, classify.Default(), nil
	}
}

func durationOrUnbounded(d time.Duration) string {
	if d <= 0 {
		return "unbounded"
	}
	return d.String()
}
