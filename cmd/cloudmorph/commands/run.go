package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/cloudmorph/cloudmorph/pkg/pipeline"
	"github.com/cloudmorph/cloudmorph/pkg/report"
)

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	var async bool

	cmd := &cobra.Command{
		Use:   "run <pipeline-file>",
		Short: "Run a pipeline file over its inputs",
		Long: `Run loads a pipeline configuration (.yaml, .json or .hcl) and applies
its transform to every input it names, writing results to the configured
output location.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "run").Logger().WithContext(ctx)

			cfg, err := pipeline.LoadConfig(args[0])
			if err != nil {
				return errors.Errorf("loading pipeline: %w", err)
			}
			if cmd.Flags().Changed("async") {
				cfg.Async = async
			}

			results, err := pipeline.Run(ctx, cfg)
			if err != nil {
				return err
			}

			printer := report.NewPrinter(cmd.ErrOrStderr())
			for _, res := range results {
				printer.Print(res.Input, res.Summary)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&async, "async", false, "process inputs concurrently")

	return cmd
}
