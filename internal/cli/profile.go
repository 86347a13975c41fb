package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kubev2v/vsphere-inventory-generator/internal/profile"
)

type ProfileOptions struct {
	out io.Writer
}

func DefaultProfileOptions() *ProfileOptions {
	return &ProfileOptions{out: os.Stdout}
}

func NewCmdProfile() *cobra.Command {
	o := DefaultProfileOptions()
	cmd := &cobra.Command{
		Use:     "profile",
		Short:   "Print the default configuration document",
		Example: "profile > inventory.yaml",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o.out = cmd.OutOrStdout()
			return o.Run(cmd.Context(), args)
		},
		SilenceUsage: true,
	}
	return cmd
}

func (o *ProfileOptions) Run(ctx context.Context, args []string) error {
	_, err := o.out.Write(profile.DefaultDocument())
	return err
}
