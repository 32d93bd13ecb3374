package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"golperbox/internal/countdown"
	"golperbox/internal/landing"
	"golperbox/internal/models"
	"golperbox/internal/notify"
)

func newCountdownCmd(opts *rootOptions) *cobra.Command {
	var (
		watch  bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "countdown",
		Short: "Print the time left until launch",
		Long: `Print the time left until launch.

Examples:
  golperbox countdown
  golperbox countdown --watch
  golperbox countdown --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine := countdown.NewEngine(opts.cfg.LaunchTarget(), countdown.WithInterval(opts.cfg.Launch.TickInterval))
			out := cmd.OutOrStdout()

			if !watch {
				state, launched := engine.Snapshot()
				return printState(out, state, launched, asJSON)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return watchCountdown(ctx, engine, out, asJSON)
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "Keep printing every tick until launch or interrupt")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print states as JSON lines")

	return cmd
}

func watchCountdown(ctx context.Context, engine *countdown.Engine, out io.Writer, asJSON bool) error {
	errCh := make(chan error, 1)

	component := landing.NewComponent(engine, nil, notify.NewRecorder(),
		landing.WithTickObserver(func(state models.CountdownState, launched bool) {
			if err := printState(out, state, launched, asJSON); err != nil {
				select {
				case errCh <- err:
				default:
				}
			}
		}))

	if err := component.Mount(ctx); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
	case <-component.Done():
	case err := <-errCh:
		component.Unmount()
		return err
	}
	component.Unmount()
	return nil
}

func printState(out io.Writer, state models.CountdownState, launched bool, asJSON bool) error {
	if asJSON {
		return json.NewEncoder(out).Encode(struct {
			models.CountdownState
			Launched bool `json:"launched"`
		}{state, launched})
	}

	if launched {
		_, err := fmt.Fprintln(out, "Launched!")
		return err
	}
	_, err := fmt.Fprintf(out, "%dd %02dh %02dm %02ds\n", state.Days, state.Hours, state.Minutes, state.Seconds)
	return err
}
