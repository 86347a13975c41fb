package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

type ValidateOptions struct {
	GlobalOptions
}

func DefaultValidateOptions() *ValidateOptions {
	return &ValidateOptions{GlobalOptions: DefaultGlobalOptions()}
}

func NewCmdValidate() *cobra.Command {
	o := DefaultValidateOptions()
	cmd := &cobra.Command{
		Use:     "validate [FLAGS]",
		Short:   "Validate a configuration document",
		Example: "validate --config ./inventory.yaml --scale large",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
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

func (o *ValidateOptions) Run(ctx context.Context, args []string) error {
	cfg, err := o.LoadProfile()
	if err != nil {
		return err
	}
	tier, err := cfg.Tier()
	if err != nil {
		return err
	}

	fmt.Fprintf(o.out, "Configuration is valid: scale %s, %d VMs over %d regions\n", cfg.Scale, tier.TotalVMs, len(cfg.Regions))
	return nil
}
