package handlers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/imamik/capacityhunt/internal/classify"
	"github.com/imamik/capacityhunt/internal/metrics"
	"github.com/imamik/capacityhunt/internal/provisioning"
	"github.com/imamik/capacityhunt/internal/ui"
)

// RunOptions holds flag values for the run command.
type RunOptions struct {
	Debug       bool
	RequestPath string // Overrides REQUEST_JSON_PATH when set
}

// Run handles the run command.
//
// It validates configuration, the request document and notification credentials,
// then retries the create request until the provider answers with anything other
// than a capacity or throttling error. The final response body is written to out.
func Run(ctx context.Context, out io.Writer, opts RunOptions) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := prepare(ctx, opts)
	if err != nil {
		return err
	}
	cfg := s.cfg

	observers := provisioning.MultiObserver{provisioning.NewSlogObserver(s.logger)}

	if cfg.MetricsAddr != "" {
		recorder := metrics.NewRecorder()
		observers = append(observers, recorder)

		metricsCtx, stopMetrics := context.WithCancel(ctx)
		done := make(chan struct{})
		go func() {
			defer close(done)
			if err := metrics.NewServer(cfg.MetricsAddr, recorder).Serve(metricsCtx); err != nil {
				s.logger.Error("metrics server failed", "addr", cfg.MetricsAddr, "error", err)
			}
		}()
		defer func() {
			stopMetrics()
			<-done
		}()
	}

	runner := provisioning.NewRunner(s.transport, s.request)
	runner.Classifier = s.classifier
	runner.Sink = s.sink
	runner.Observer = observers
	runner.Interval = cfg.Interval()
	runner.MaxAttempts = cfg.MaxAttempts
	runner.MaxDuration = cfg.MaxDuration

	if cfg.Archive.Enabled() {
		archive, err := newArchive(ctx, cfg.Archive)
		if err != nil {
			return err
		}
		if err := archive.Prepare(ctx); err != nil {
			return fmt.Errorf("failed to prepare result archive: %w", err)
		}
		runner.Archiver = archive
	}

	s.logger.Info("starting instance creation",
		slog.String("provider", s.transport.Name()),
		slog.String("request", s.request.Source()),
		slog.Duration("interval", runner.Interval),
		slog.Int("max_attempts", cfg.MaxAttempts),
		slog.String("max_duration", durationOrUnbounded(cfg.MaxDuration)),
		slog.Bool("notify", cfg.Email.Enabled()),
	)

	result, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, result.Body())

	if stderrIsTerminal() {
		fmt.Fprintln(os.Stderr, ui.RenderSummary(ui.Summary{
			Provider: s.transport.Name(),
			Request:  s.request.Source(),
			Result:   result,
		}))
	}

	switch {
	case result.GaveUp:
		return exitErrorf(ExitGaveUp, "gave up after %d attempts: %s", result.Attempts, result.Outcome.Reason)
	case result.Outcome.Kind == classify.Success:
		return nil
	default:
		return exitErrorf(ExitTerminal, "instance creation failed: %s", result.Outcome.Reason)
	}
}
