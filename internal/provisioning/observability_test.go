package provisioning

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newBufferObserver(level slog.Level) (*SlogObserver, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: level}))
	return NewSlogObserver(logger), &buf
}

func TestSlogObserver_Event(t *testing.T) {
	observer, buf := newBufferObserver(slog.LevelDebug)

	observer.Event(Event{
		Type:     EventWaiting,
		Provider: "Oracle Cloud",
		Attempt:  2,
		Wait:     2 * time.Minute,
		Message:  "capacity unavailable",
		Fields:   map[string]string{"status": "500"},
	})

	out := buf.String()
	assert.Contains(t, out, "event=wait.started")
	assert.Contains(t, out, `provider="Oracle Cloud"`)
	assert.Contains(t, out, "attempt=2")
	assert.Contains(t, out, "wait=2m0s")
	assert.Contains(t, out, "status=500")
	assert.Contains(t, out, `msg="capacity unavailable"`)
}

func TestSlogObserver_WithFields(t *testing.T) {
	observer, buf := newBufferObserver(slog.LevelInfo)

	contextual := observer.WithFields(map[string]string{"request": "request.json"})
	contextual.Event(Event{Type: EventRunFinished, Message: "done"})

	assert.Contains(t, buf.String(), "request=request.json")

	buf.Reset()
	observer.Event(Event{Type: EventRunFinished, Message: "done"})
	assert.NotContains(t, buf.String(), "request=")
}

func TestSlogObserver_Levels(t *testing.T) {
	observer, buf := newBufferObserver(slog.LevelInfo)

	observer.Event(Event{Type: EventAttemptStarted, Message: "sending"})
	assert.Empty(t, buf.String())

	observer.Event(Event{Type: EventAttemptFailed, Message: "connection refused"})
	assert.Contains(t, buf.String(), "level=ERROR")
}

func TestMultiObserver(t *testing.T) {
	a := &recordingObserver{}
	b := &recordingObserver{}
	multi := MultiObserver{a, b}

	multi.WithFields(map[string]string{"k": "v"}).Event(Event{Type: EventNotifySent})

	assert.Len(t, a.events, 1)
	assert.Len(t, b.events, 1)
}

func TestNopObserver(t *testing.T) {
	var o Observer = NopObserver{}
	o.WithFields(nil).Event(Event{Type: EventRunFinished})
}
