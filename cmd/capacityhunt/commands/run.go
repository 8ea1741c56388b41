package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/capacityhunt/cmd/capacityhunt/handlers"
)

// Run returns the run command.
func Run(flags *globalFlags) *cobra.Command {
	var requestPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Retry the create request until it no longer fails for capacity",
		Long: `Run sends the request document to the configured provider every WAIT_TIME
seconds while the provider reports missing host capacity or throttling.

Any other answer ends the run: the response body is printed to stdout and,
when EMAIL_ADDRESS and EMAIL_PASSWORD are set, emailed to EMAIL_TO.

Exit codes:
  0  instance creation accepted
  1  configuration, credential or network failure
  2  provider returned an unrecognized error
  3  MAX_ATTEMPTS or MAX_DURATION reached

Example:
  capacityhunt run --env-file oci.env`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Run(cmd.Context(), cmd.OutOrStdout(), handlers.RunOptions{
				Debug:       flags.debug,
				RequestPath: requestPath,
			})
		},
	}

	cmd.Flags().StringVarP(&requestPath, "request", "r", "", "Path to the request document (overrides REQUEST_JSON_PATH)")

	return cmd
}
