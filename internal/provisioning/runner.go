package provisioning

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/imamik/capacityhunt/internal/classify"
	"github.com/imamik/capacityhunt/internal/notify"
	"github.com/imamik/capacityhunt/internal/provider"
	"github.com/imamik/capacityhunt/internal/util/retry"
)

// DefaultInterval is the wait between attempts when none is configured.
const DefaultInterval = 120 * time.Second

// Archiver stores the final response body under name and returns its location.
type Archiver interface {
	Archive(ctx context.Context, name string, body []byte) (string, error)
}

// Result describes how a run ended.
type Result struct {
	Outcome  classify.Outcome
	Response *provider.Response
	Attempts int
	Waited   time.Duration
	Elapsed  time.Duration

	// GaveUp is set when MaxAttempts or MaxDuration stopped the loop while the
	// last response was still retryable.
	GaveUp bool

	// Notified is set once the sink accepted the status message.
	Notified  bool
	NotifyErr error

	ArchiveLocation string
}

// Body returns the final response body as text.
func (r *Result) Body() string {
	if r == nil {
		return ""
	}
	return r.Response.Text()
}

// Runner repeats one provisioning request until it no longer matches a retryable signature.
type Runner struct {
	Transport  provider.Transport
	Request    provider.Request
	Classifier classify.Classifier
	Sink       notify.Sink
	Observer   Observer
	Archiver   Archiver // Optional

	Interval    time.Duration
	MaxAttempts int           // Zero means unbounded
	MaxDuration time.Duration // Zero means unbounded

	Sleep retry.SleepFunc
	Now   func() time.Time
}

// NewRunner creates a Runner with the default classifier, a disabled sink and the default interval.
func NewRunner(transport provider.Transport, req provider.Request) *Runner {
	return &Runner{
		Transport:  transport,
		Request:    req,
		Classifier: classify.Default(),
		Sink:       notify.Disabled{},
		Observer:   NopObserver{},
		Interval:   DefaultInterval,
	}
}

// Run executes the loop.
//
// A terminal outcome (success, unrecognized error, or a tripped guard) is archived
// and reported through the sink exactly once, and returned with a nil error. A
// transport failure or context cancellation aborts the loop without notification
// and is returned as the error, together with the partial result.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if r.Transport == nil {
		return nil, errors.New("runner has no transport")
	}

	classifier := r.Classifier
	if classifier == nil {
		classifier = classify.Default()
	}
	observer := r.Observer
	if observer == nil {
		observer = NopObserver{}
	}
	observer = observer.WithFields(map[string]string{"request": r.Request.Source()})
	now := r.Now
	if now == nil {
		now = time.Now
	}
	sleep := r.Sleep
	if sleep == nil {
		sleep = retry.ContextSleep
	}

	name := r.Transport.Name()
	result := &Result{}
	start := now()

	attempt := func(ctx context.Context, n int) error {
		observer.Event(Event{Type: EventAttemptStarted, Provider: name, Attempt: n, Message: "sending create request"})

		resp, err := provider.Attempt(ctx, r.Transport, r.Request)
		if err != nil {
			observer.Event(Event{Type: EventAttemptFailed, Provider: name, Attempt: n, Message: err.Error()})
			return err
		}

		outcome := classifier.Classify(resp)
		result.Outcome = outcome
		result.Response = resp

		observer.Event(Event{
			Type:     EventAttemptCompleted,
			Provider: name,
			Attempt:  n,
			Outcome:  outcome.Kind.String(),
			Message:  outcome.Reason,
			Fields:   map[string]string{"status": strconv.Itoa(resp.StatusCode)},
		})

		if outcome.Kind == classify.Retryable {
			return retry.Retryable(errors.New(outcome.Reason))
		}
		return nil
	}

	attempts, err := retry.Poll(ctx, attempt,
		retry.WithInterval(r.Interval),
		retry.WithMaxAttempts(r.MaxAttempts),
		retry.WithMaxElapsed(r.MaxDuration),
		retry.WithSleep(sleep),
		retry.WithClock(now),
		retry.WithOnRetry(func(n int, _ error, wait time.Duration) {
			result.Waited += wait
			observer.Event(Event{
				Type:     EventWaiting,
				Provider: name,
				Attempt:  n,
				Wait:     wait,
				Message:  "capacity unavailable, waiting before next attempt",
			})
		}),
	)
	result.Attempts = attempts
	result.Elapsed = now().Sub(start)

	switch {
	case err == nil:
	case errors.Is(err, retry.ErrAttemptsExhausted), errors.Is(err, retry.ErrElapsedExhausted):
		result.GaveUp = true
	default:
		observer.Event(Event{Type: EventRunAborted, Provider: name, Attempt: attempts, Message: err.Error()})
		return result, err
	}

	observer.Event(Event{
		Type:     EventRunFinished,
		Provider: name,
		Attempt:  attempts,
		Outcome:  result.Outcome.Kind.String(),
		Message:  finishMessage(result),
		Fields:   map[string]string{"elapsed": result.Elapsed.Round(time.Second).String()},
	})

	r.archive(ctx, observer, name, start, result)
	r.notify(ctx, observer, name, result)

	return result, nil
}

func (r *Runner) archive(ctx context.Context, observer Observer, providerName string, start time.Time, result *Result) {
	if r.Archiver == nil {
		return
	}

	key := ArchiveName(start, result)
	location, err := r.Archiver.Archive(ctx, key, result.Response.Body)
	if err != nil {
		observer.Event(Event{Type: EventArchiveFailed, Provider: providerName, Message: err.Error()})
		return
	}
	result.ArchiveLocation = location
	observer.Event(Event{
		Type:     EventArchiveStored,
		Provider: providerName,
		Message:  "final response archived",
		Fields:   map[string]string{"location": location},
	})
}

func (r *Runner) notify(ctx context.Context, observer Observer, providerName string, result *Result) {
	sink := r.Sink
	if sink == nil {
		sink = notify.Disabled{}
	}

	subject := Subject(providerName, result)
	if err := sink.Notify(ctx, subject, result.Body()); err != nil {
		result.NotifyErr = err
		observer.Event(Event{Type: EventNotifyFailed, Provider: providerName, Message: err.Error()})
		return
	}
	result.Notified = true
	observer.Event(Event{
		Type:     EventNotifySent,
		Provider: providerName,
		Message:  "status notification sent",
		Fields:   map[string]string{"subject": subject},
	})
}

// Subject returns the notification subject for a finished run.
func Subject(providerName string, result *Result) string {
	switch {
	case result.GaveUp:
		return providerName + " instance creation gave up"
	case result.Outcome.Kind == classify.Success:
		return providerName + " instance creation status"
	default:
		return providerName + " instance creation failed"
	}
}

// ArchiveName returns the object name used to archive a finished run.
func ArchiveName(start time.Time, result *Result) string {
	status := result.Outcome.Kind.String()
	if result.GaveUp {
		status = "gave_up"
	}
	return fmt.Sprintf("%s-%s.json", start.UTC().Format("20060102T150405Z"), status)
}

func finishMessage(result *Result) string {
	switch {
	case result.GaveUp:
		return fmt.Sprintf("giving up after %d attempts", result.Attempts)
	case result.Outcome.Kind == classify.Success:
		return fmt.Sprintf("instance creation accepted after %d attempts", result.Attempts)
	default:
		return fmt.Sprintf("instance creation failed: %s", result.Outcome.Reason)
	}
}
