package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"golperbox/internal/config"
	"golperbox/internal/logging"
)

type rootOptions struct {
	configPath string
	cfg        *config.Config
	logger     *logging.ContextLogger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "golperbox",
		Short: "Golper Box Coming Soon landing service",
		Long: `golperbox serves the Golper Box "Coming Soon" page: a countdown to the
launch date and a lead form relayed to the Google Form backend.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			opts.cfg = cfg

			opts.logger = logging.NewLogger()
			opts.logger.SetOutput(cmd.ErrOrStderr())
			if err := opts.logger.SetLevelName(cfg.Log.Level); err != nil {
				return fmt.Errorf("invalid log level: %w", err)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultPath, "Path to the YAML configuration file")

	cmd.AddCommand(
		newServeCmd(opts),
		newCountdownCmd(opts),
		newSubscribeCmd(opts),
	)

	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
