package commands

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"

	"github.com/cloudmorph/cloudmorph/pkg/codec"
	"github.com/cloudmorph/cloudmorph/pkg/registry"
	"github.com/cloudmorph/cloudmorph/pkg/report"
	"github.com/cloudmorph/cloudmorph/pkg/source"
)

// NewApplyCmd creates the apply command.
func NewApplyCmd() *cobra.Command {
	var (
		output      string
		optionPairs []string
		optionsFile string
	)

	cmd := &cobra.Command{
		Use:   "apply <transform> [input]",
		Short: "Apply a registered transform to one template",
		Long: `Apply reads a template, runs the named transform over it once, and
writes the result. The input defaults to stdin and the output to stdout.
Inputs and outputs may be local paths, "-", or scheme-prefixed locations
(github://owner/repo@ref/path, s3://bucket/key).`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "apply").Logger().WithContext(ctx)

			input := "-"
			if len(args) == 2 {
				input = args[1]
			}

			options, err := parseOptions(ctx, optionsFile, optionPairs)
			if err != nil {
				return err
			}

			reg, ok := registry.Get(args[0])
			if !ok {
				return errors.Errorf("unknown transform %q, see `cloudmorph list`", args[0])
			}

			src, err := source.Resolve(ctx, input)
			if err != nil {
				return errors.Errorf("resolving input: %w", err)
			}
			data, err := src.Fetch(ctx)
			if err != nil {
				return errors.Errorf("fetching template: %w", err)
			}
			c := codec.ForFile(src.Name())
			tmpl, err := c.Decode(data)
			if err != nil {
				return errors.Errorf("decoding template: %w", err)
			}

			tr, err := reg.New(tmpl, options)
			if err != nil {
				return errors.Errorf("building transform: %w", err)
			}
			out, err := tr.Apply(ctx)
			if err != nil {
				return errors.Errorf("applying transform: %w", err)
			}

			outCodec := c
			if output != "-" {
				outCodec = codec.ForFile(output)
			}
			encoded, err := outCodec.Encode(out)
			if err != nil {
				return errors.Errorf("encoding template: %w", err)
			}

			sink, err := source.ResolveSink(ctx, output)
			if err != nil {
				return errors.Errorf("resolving output: %w", err)
			}
			if err := sink.Store(ctx, encoded); err != nil {
				return errors.Errorf("writing output: %w", err)
			}

			report.NewPrinter(cmd.ErrOrStderr()).Print(src.Name(), tr.Summary())
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "-", "output location")
	cmd.Flags().StringArrayVar(&optionPairs, "opt", nil, "transform option as key=value (repeatable)")
	cmd.Flags().StringVar(&optionsFile, "options-file", "", "YAML file with transform options")

	return cmd
}

// parseOptions merges an options file with key=value overrides. Override
// values are YAML-parsed, so `--opt count=3` yields a number and
// `--opt force=true` a bool.
func parseOptions(ctx context.Context, optionsFile string, pairs []string) (map[string]any, error) {
	options := map[string]any{}

	if optionsFile != "" {
		src, err := source.Resolve(ctx, optionsFile)
		if err != nil {
			return nil, errors.Errorf("resolving options file: %w", err)
		}
		data, err := src.Fetch(ctx)
		if err != nil {
			return nil, errors.Errorf("reading options file: %w", err)
		}
		if err := yaml.Unmarshal(data, &options); err != nil {
			return nil, errors.Errorf("parsing options file: %w", err)
		}
	}

	for _, pair := range pairs {
		key, raw, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, errors.Errorf("bad option %q, want key=value", pair)
		}
		var value any
		if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
			value = raw
		}
		options[key] = value
	}

	if len(options) == 0 {
		return nil, nil
	}
	return options, nil
}
