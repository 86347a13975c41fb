package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/kubev2v/vsphere-inventory-generator/internal/emitter"
	"github.com/kubev2v/vsphere-inventory-generator/internal/inventory"
)

type VerifyOptions struct {
	InputDir string

	out io.Writer
}

func DefaultVerifyOptions() *VerifyOptions {
	return &VerifyOptions{
		InputDir: "vsphere-data",
		out:      os.Stdout,
	}
}

func NewCmdVerify() *cobra.Command {
	o := DefaultVerifyOptions()
	cmd := &cobra.Command{
		Use:     "verify [FLAGS]",
		Short:   "Check the referential integrity of generated CSV files",
		Example: "verify --input-dir ./fixtures",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o.out = cmd.OutOrStdout()
			if err := o.Validate(args); err != nil {
				return err
			}
			return o.Run(cmd.Context(), args)
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *VerifyOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVarP(&o.InputDir, "input-dir", "i", o.InputDir, "Directory holding the generated CSV files")
}

func (o *VerifyOptions) Validate(args []string) error {
	if o.InputDir == "" {
		return fmt.Errorf("input directory is empty")
	}
	return nil
}

func (o *VerifyOptions) Run(ctx context.Context, args []string) error {
	tables, err := emitter.ReadCSV(o.InputDir)
	if err != nil {
		return err
	}
	if err := inventory.Verify(tables); err != nil {
		return err
	}

	records := 0
	for _, t := range tables {
		records += len(t.Rows)
	}
	fmt.Fprintf(o.out, "Inventory in %s is consistent: %d records in %d tables\n", o.InputDir, records, len(tables))
	return nil
}
