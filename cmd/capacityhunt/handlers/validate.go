package handlers

import (
	"context"
	"fmt"
	"io"

	"github.com/imamik/capacityhunt/internal/notify"
)

// Validate handles the validate command.
//
// It performs every startup check the run command performs (configuration,
// request document, signing key, SMTP login) without sending a create request.
func Validate(ctx context.Context, out io.Writer, opts RunOptions) error {
	s, err := prepare(ctx, opts)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "configuration  ok (provider %s)\n", s.cfg.Provider)
	fmt.Fprintf(out, "request        ok (%s)\n", s.request.Source())
	fmt.Fprintf(out, "transport      ok (%s)\n", s.transport.Name())

	if _, disabled := s.sink.(notify.Disabled); disabled {
		fmt.Fprintln(out, "notification   disabled")
	} else {
		fmt.Fprintf(out, "notification   ok (%s)\n", s.cfg.Email.Recipient())
	}

	if s.cfg.Archive.Enabled() {
		fmt.Fprintf(out, "archive        s3://%s/%s\n", s.cfg.Archive.Bucket, s.cfg.Archive.Prefix)
	}
	return nil
}
