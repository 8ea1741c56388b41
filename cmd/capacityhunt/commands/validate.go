package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/capacityhunt/cmd/capacityhunt/handlers"
)

// Validate returns the validate command.
//
// It runs every startup check without sending a create request.
func Validate(flags *globalFlags) *cobra.Command {
	var requestPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check configuration, request document and credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Validate(cmd.Context(), cmd.OutOrStdout(), handlers.RunOptions{
				Debug:       flags.debug,
				RequestPath: requestPath,
			})
		},
	}

	cmd.Flags().StringVarP(&requestPath, "request", "r", "", "Path to the request document (overrides REQUEST_JSON_PATH)")

	return cmd
}
