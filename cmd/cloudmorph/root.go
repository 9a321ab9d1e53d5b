package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cloudmorph/cloudmorph/cmd/cloudmorph/commands"
)

var debug bool

// NewRootCmd builds the cloudmorph root command. Embedders that register
// their own transforms can mount extra subcommands on the returned command
// before executing it.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cloudmorph",
		Short:         "Apply transforms to CloudFormation-style templates",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			setupLogging()
			cmd.SetContext(zerolog.DefaultContextLogger.WithContext(cmd.Context()))
		},
	}

	root.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")

	root.AddCommand(commands.NewApplyCmd())
	root.AddCommand(commands.NewRunCmd())
	root.AddCommand(commands.NewListCmd())
	root.AddCommand(newVersionCmd())

	return root
}

// setupLogging configures zerolog based on flags
func setupLogging() {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprint(cmd.OutOrStdout(), FormatVersion())
		},
	}
}
