package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kubev2v/vsphere-inventory-generator/pkg/version"
)

type VersionOptions struct {
	out io.Writer
}

func DefaultVersionOptions() *VersionOptions {
	return &VersionOptions{out: os.Stdout}
}

func NewCmdVersion() *cobra.Command {
	o := DefaultVersionOptions()
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print generator version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o.out = cmd.OutOrStdout()
			return o.Run(cmd.Context(), args)
		},
	}
	return cmd
}

func (o *VersionOptions) Run(ctx context.Context, args []string) error {
	versionInfo := version.Get()
	fmt.Fprintf(o.out, "Generator Version: %s\n", versionInfo.String())
	return nil
}
