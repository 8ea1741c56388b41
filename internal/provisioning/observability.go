package provisioning

import (
	"context"
	"log/slog"
	"maps"
	"sort"
	"time"
)

// Observer defines the interface for structured observability during a run.
type Observer interface {
	// Event emits a structured event
	Event(event Event)

	// WithFields returns a new Observer with additional context fields
	WithFields(fields map[string]string) Observer
}

// Event represents a structured provisioning event.
type Event struct {
	Type      EventType         // Type of event
	Provider  string            // Provider name, e.g. "Oracle Cloud"
	Attempt   int               // Attempt number, starting at 1; zero for run-level events
	Outcome   string            // Classification of the response, if any
	Message   string            // Human-readable message
	Wait      time.Duration     // Delay before the next attempt, for wait events
	Timestamp time.Time         // When the event occurred
	Fields    map[string]string // Additional contextual fields
}

// EventType represents the type of provisioning event.
type EventType string

const (
	// EventAttemptStarted indicates a request is about to be sent.
	EventAttemptStarted EventType = "attempt.started"
	// EventAttemptCompleted indicates a response was received and classified.
	EventAttemptCompleted EventType = "attempt.completed"
	// EventAttemptFailed indicates no response was received.
	EventAttemptFailed EventType = "attempt.failed"

	// EventWaiting indicates the loop is sleeping before the next attempt.
	EventWaiting EventType = "wait.started"

	// EventNotifySent indicates the status notification was delivered.
	EventNotifySent EventType = "notify.sent"
	// EventNotifyFailed indicates the status notification could not be delivered.
	EventNotifyFailed EventType = "notify.failed"

	// EventArchiveStored indicates the final response was archived.
	EventArchiveStored EventType = "archive.stored"
	// EventArchiveFailed indicates archiving the final response failed.
	EventArchiveFailed EventType = "archive.failed"

	// EventRunFinished indicates the loop reached a terminal outcome.
	EventRunFinished EventType = "run.finished"
	// EventRunAborted indicates the loop stopped without a terminal outcome.
	EventRunAborted EventType = "run.aborted"
)

// NopObserver discards every event.
type NopObserver struct{}

// Event implements Observer.
func (NopObserver) Event(Event) {}

// WithFields implements Observer.
func (o NopObserver) WithFields(map[string]string) Observer { return o }

// SlogObserver implements Observer on top of a slog.Logger.
type SlogObserver struct {
	logger        *slog.Logger
	contextFields map[string]string
}

// NewSlogObserver creates an observer that writes one log record per event.
// A nil logger uses slog.Default().
func NewSlogObserver(logger *slog.Logger) *SlogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogObserver{
		logger:        logger,
		contextFields: make(map[string]string),
	}
}

// Event implements Observer interface.
func (o *SlogObserver) Event(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	fields := make(map[string]string, len(o.contextFields)+len(event.Fields))
	maps.Copy(fields, o.contextFields)
	maps.Copy(fields, event.Fields)

	attrs := []slog.Attr{slog.String("event", string(event.Type))}
	if event.Provider != "" {
		attrs = append(attrs, slog.String("provider", event.Provider))
	}
	if event.Attempt > 0 {
		attrs = append(attrs, slog.Int("attempt", event.Attempt))
	}
	if event.Outcome != "" {
		attrs = append(attrs, slog.String("outcome", event.Outcome))
	}
	if event.Wait > 0 {
		attrs = append(attrs, slog.Duration("wait", event.Wait))
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		attrs = append(attrs, slog.String(k, fields[k]))
	}

	o.logger.LogAttrs(context.Background(), levelFor(event.Type), event.Message, attrs...)
}

// WithFields implements Observer interface.
func (o *SlogObserver) WithFields(fields map[string]string) Observer {
	newFields := make(map[string]string, len(o.contextFields)+len(fields))
	maps.Copy(newFields, o.contextFields)
	maps.Copy(newFields, fields)
	return &SlogObserver{
		logger:        o.logger,
		contextFields: newFields,
	}
}

func levelFor(t EventType) slog.Level {
	switch t {
	case EventAttemptStarted:
		return slog.LevelDebug
	case EventAttemptFailed, EventNotifyFailed, EventArchiveFailed, EventRunAborted:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// MultiObserver fans each event out to several observers.
type MultiObserver []Observer

// Event implements Observer.
func (m MultiObserver) Event(event Event) {
	for _, o := range m {
		o.Event(event)
	}
}

// WithFields implements Observer.
func (m MultiObserver) WithFields(fields map[string]string) Observer {
	out := make(MultiObserver, 0, len(m))
	for _, o := range m {
		out = append(out, o.WithFields(fields))
	}
	return out
}
