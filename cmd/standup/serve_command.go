package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"standup/internal/assist"
	"standup/internal/config"
	"standup/internal/daemon"
	"standup/internal/logging"
	"standup/internal/notes"
	"standup/internal/preflight"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bindFlag string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the standup API server in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if bindFlag != "" {
				cfg.Server.Bind = bindFlag
			}
			return runServer(cmd.Context(), cfg, func(address string) {
				fmt.Fprintf(cmd.OutOrStdout(), "standup server listening on http://%s\n", address)
			})
		},
	}
	cmd.Flags().StringVar(&bindFlag, "bind", "", "Listen address (overrides server.bind)")
	return cmd
}

// runServer blocks until parent is cancelled or a termination signal
// arrives. ready receives the bound address once the listener is up.
func runServer(parent context.Context, cfg *config.Config, ready func(address string)) error {
	signalCtx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	reportPreflight(signalCtx, cfg, logger)

	store, err := notes.Open(cfg)
	if err != nil {
		logger.Error("open note store", logging.Error(err))
		return err
	}

	d, err := daemon.New(cfg, store, assist.NewFromConfig(cfg, logger), logger)
	if err != nil {
		_ = store.Close()
		return fmt.Errorf("create server: %w", err)
	}
	defer d.Close()

	if err := d.Start(signalCtx); err != nil {
		return err
	}
	if ready != nil {
		ready(d.Address())
	}

	<-signalCtx.Done()
	d.Stop()
	logger.Info("standup server shutting down")
	return nil
}

func reportPreflight(ctx context.Context, cfg *config.Config, logger *slog.Logger) {
	for _, result := range preflight.Failed(preflight.RunAll(ctx, cfg)) {
		logging.WarnWithContext(logger, "preflight check failed", "preflight_failed",
			logging.String("check", result.Name),
			logging.String("detail", result.Detail),
			logging.String(logging.FieldErrorHint, "run `standup status` for details"),
			logging.String(logging.FieldImpact, "affected features use their fallback"),
		)
	}
}
