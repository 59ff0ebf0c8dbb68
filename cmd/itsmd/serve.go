package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"itsm-desk/core/appbootstrap"

	"github.com/spf13/cobra"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and background workers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := root.load()
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.ListenAddr = listen
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			rt, err := appbootstrap.Compose(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer rt.Close()
			logger.Printf("itsmd starting env=%s storage=%s enforce_roles=%t", cfg.AppEnv, cfg.Storage.EffectiveDriver(), cfg.Security.EnforceRoles)
			if err := rt.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			logger.Printf("itsmd stopped")
			return nil
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "override listen address")
	return cmd
}
