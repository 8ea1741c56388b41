package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/imamik/capacityhunt/internal/classify"
	"github.com/imamik/capacityhunt/internal/provisioning"
)

// Summary holds what the end-of-run panel shows.
type Summary struct {
	Provider string
	Request  string
	Result   *provisioning.Result
}

// RenderSummary renders a boxed summary of a finished run.
func RenderSummary(s Summary) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("capacityhunt: %s", s.Provider)))
	b.WriteString(" ")
	b.WriteString(renderStatus(s.Result))
	b.WriteString("\n")

	r := s.Result
	if r == nil {
		return boxStyle.Render(b.String())
	}

	b.WriteString(sectionStyle.Render("Run"))
	b.WriteString("\n")
	writeRow(&b, "request", s.Request)
	writeRow(&b, "attempts", fmt.Sprintf("%d", r.Attempts))
	writeRow(&b, "waited", formatDuration(r.Waited))
	writeRow(&b, "elapsed", formatDuration(r.Elapsed))
	if r.Outcome.Reason != "" {
		writeRow(&b, "reason", r.Outcome.Reason)
	}

	b.WriteString(sectionStyle.Render("Delivery"))
	b.WriteString("\n")
	switch {
	case r.NotifyErr != nil:
		writeRow(&b, "email", failedStyle.Render(r.NotifyErr.Error()))
	case r.Notified:
		writeRow(&b, "email", readyStyle.Render("sent"))
	default:
		writeRow(&b, "email", dimStyle.Render("disabled"))
	}
	if r.ArchiveLocation != "" {
		writeRow(&b, "archive", r.ArchiveLocation)
	}

	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func renderStatus(r *provisioning.Result) string {
	switch {
	case r == nil:
		return dimStyle.Render("no result")
	case r.GaveUp:
		return warningStyle.Render(warnMark + " gave up")
	case r.Outcome.Kind == classify.Success:
		return readyStyle.Render(checkMark + " created")
	default:
		return failedStyle.Render(crossMark + " failed")
	}
}

func writeRow(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "  %s %s\n", dimStyle.Render(fmt.Sprintf("%-9s", label)), value)
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
