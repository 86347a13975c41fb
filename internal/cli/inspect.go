package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kubev2v/vsphere-inventory-generator/internal/rvtools"
)

type InspectOptions struct {
	out io.Writer
}

func DefaultInspectOptions() *InspectOptions {
	return &InspectOptions{out: os.Stdout}
}

func NewCmdInspect() *cobra.Command {
	o := DefaultInspectOptions()
	cmd := &cobra.Command{
		Use:     "inspect FILE",
		Short:   "Summarize an RVTools style workbook",
		Example: "inspect ./fixtures/inventory.xlsx",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o.out = cmd.OutOrStdout()
			return o.Run(cmd.Context(), args)
		},
		SilenceUsage: true,
	}
	return cmd
}

func (o *InspectOptions) Run(ctx context.Context, args []string) error {
	summary, err := rvtools.ParseFile(args[0])
	if err != nil {
		return fmt.Errorf("inspecting %s: %w", args[0], err)
	}
	fmt.Fprint(o.out, summary.String())
	return nil
}
