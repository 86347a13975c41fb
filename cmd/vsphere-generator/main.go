package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kubev2v/vsphere-inventory-generator/internal/cli"
	"github.com/kubev2v/vsphere-inventory-generator/internal/config"
	"github.com/kubev2v/vsphere-inventory-generator/pkg/log"
)

func main() {
	env, err := config.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "reading environment: %v\n", err)
		os.Exit(1)
	}

	lvl := log.ParseLevel(env.Service.LogLevel)
	logger := log.InitLog(lvl)
	defer func() { _ = logger.Sync() }()

	undo := zap.ReplaceGlobals(logger)
	defer undo()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	command := NewGeneratorCommand(env, lvl)
	if err := command.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func NewGeneratorCommand(env *config.Config, lvl zap.AtomicLevel) *cobra.Command {
	logLevel := env.Service.LogLevel

	cmd := &cobra.Command{
		Use:   "vsphere-generator [flags] [options]",
		Short: "vsphere-generator produces seeded synthetic vSphere inventories.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("log-level") {
				return nil
			}
			if err := lvl.UnmarshalText([]byte(logLevel)); err != nil {
				return fmt.Errorf("invalid log level %q: %w", logLevel, err)
			}
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
			os.Exit(1)
		},
	}
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", logLevel, "Log level (debug, info, warn, error)")

	cmd.AddCommand(cli.NewCmdGenerate(env))
	cmd.AddCommand(cli.NewCmdValidate())
	cmd.AddCommand(cli.NewCmdProfile())
	cmd.AddCommand(cli.NewCmdVerify())
	cmd.AddCommand(cli.NewCmdInspect())
	cmd.AddCommand(cli.NewCmdVersion())

	return cmd
}
