package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/kubev2v/vsphere-inventory-generator/internal/profile"
)

type GlobalOptions struct {
	ConfigFile string
	Scale      string

	out io.Writer
}

func DefaultGlobalOptions() GlobalOptions {
	return GlobalOptions{
		out: os.Stdout,
	}
}

func (o *GlobalOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVarP(&o.ConfigFile, "config", "c", o.ConfigFile, "Path to the configuration document. The embedded default is used when empty")
	fs.StringVarP(&o.Scale, "scale", "s", o.Scale, "Scale tier overriding the document's scale")
}

func (o *GlobalOptions) Complete(cmd *cobra.Command, args []string) error {
	o.out = cmd.OutOrStdout()
	return nil
}

func (o *GlobalOptions) Validate(args []string) error {
	return nil
}

// LoadProfile reads and validates the configuration document, applying the scale
// override.
func (o *GlobalOptions) LoadProfile() (*profile.Config, error) {
	var (
		cfg *profile.Config
		err error
	)
	if o.ConfigFile == "" {
		cfg, err = profile.Default()
	} else {
		cfg, err = profile.Load(o.ConfigFile)
	}
	if err != nil {
		return nil, err
	}

	if o.Scale != "" && o.Scale != cfg.Scale {
		cfg = cfg.WithScale(o.Scale)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
