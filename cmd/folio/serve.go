package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/eringen/folio"
)

func newServeCmd() *cobra.Command {
	var addr, settingsPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the site over HTTP",
		Long: `Serve the site, relay contact submissions and retry queued ones until
interrupted. FOLIO_SESSION_SECRET must be set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := folio.LoadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			if settingsPath != "" {
				cfg.SettingsPath = settingsPath
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app := folio.New(cfg)
			defer app.Close()
			return app.Start(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides FOLIO_ADDR)")
	cmd.Flags().StringVar(&settingsPath, "settings", "", "settings file or URL (overrides FOLIO_SETTINGS_PATH)")
	return cmd
}
