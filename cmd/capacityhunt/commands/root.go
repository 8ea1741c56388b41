// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/capacityhunt/internal/config"
)

// globalFlags are bound to persistent flags on the root command.
type globalFlags struct {
	envFile string
	debug   bool
}

// Root returns the root command for the capacityhunt CLI.
func Root() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "capacityhunt",
		Short: "Retry cloud instance creation until capacity is available",
		Long: `capacityhunt sends the same create-instance request to a cloud provider
until the provider stops answering with an out-of-capacity or throttling error,
then reports the final response by email and on stdout.

Configuration is read from the environment and an optional .env file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return config.LoadDotEnv(flags.envFile)
		},
	}

	cmd.PersistentFlags().StringVar(&flags.envFile, "env-file", "", "Path to a dotenv file (default: .env when present)")
	cmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Enable debug logging")

	cmd.AddCommand(Run(flags))
	cmd.AddCommand(Validate(flags))
	cmd.AddCommand(Version())

	return cmd
}
