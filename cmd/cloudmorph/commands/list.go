package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cloudmorph/cloudmorph/pkg/registry"
)

// NewListCmd creates the list command.
func NewListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered transforms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			regs := registry.List()
			if len(regs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no transforms registered")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, reg := range regs {
				fmt.Fprintf(w, "%s\t%s\n", reg.Name, reg.Description)
			}
			return w.Flush()
		},
	}
}
