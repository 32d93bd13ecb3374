package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"golperbox/internal/countdown"
	"golperbox/internal/landing"
	"golperbox/internal/metrics"
	"golperbox/internal/models"
	"golperbox/internal/notify"
	"golperbox/internal/relay"
	"golperbox/internal/service"
)

func newSubscribeCmd(opts *rootOptions) *cobra.Command {
	var lead models.Lead

	cmd := &cobra.Command{
		Use:   "subscribe",
		Short: "Submit a lead to the form backend",
		Long: `Submit an email/phone lead exactly as the landing form does.

Example:
  golperbox subscribe --email someone@example.com --phone 01700000000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger := opts.cfg, opts.logger

			svc := service.NewSubscriptionService(
				relay.NewGoogleFormRelay(cfg.RelayConfig()),
				metrics.NewRegistry(),
				logger,
			)
			engine := countdown.NewEngine(cfg.LaunchTarget())
			recorder := notify.NewRecorder()
			component := landing.NewComponent(engine, svc,
				notify.Multi(notify.NewLogNotifier(logger), recorder),
				landing.WithInput(lead))

			err := component.Submit(cmd.Context())
			for _, notice := range recorder.Notices() {
				fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", notice.Kind, notice.Text)
			}
			return err
		},
	}

	cmd.Flags().StringVar(&lead.Email, "email", "", "Subscriber email address")
	cmd.Flags().StringVar(&lead.Phone, "phone", "", "Subscriber phone number")

	return cmd
}
