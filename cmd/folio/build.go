package main

import (
	"github.com/spf13/cobra"

	"github.com/eringen/folio"
	"github.com/eringen/folio/logger"
)

func newBuildCmd() *cobra.Command {
	var (
		out          string
		clean        bool
		settingsPath string
		staticDir    string
	)
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Export the site as static files",
		Long: `Render every page, the feeds and the theme stylesheet into a directory
that any static host can serve. The contact form posts straight to the
configured form endpoint and the theme toggle works client-side only.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := folio.LoadConfig()
			if err != nil {
				return err
			}
			if settingsPath != "" {
				cfg.SettingsPath = settingsPath
			}
			opts := []folio.Option{
				folio.Static(),
				folio.WithLogger(logger.NewWithWriter(cmd.ErrOrStderr(), "build", cfg.LogLevel)),
			}
			if staticDir != "" {
				opts = append(opts, folio.WithStaticDir(staticDir))
			}

			app := folio.New(cfg, opts...)
			defer app.Close()
			res, err := app.Export(cmd.Context(), folio.ExportOptions{Dir: out, Clean: clean})
			if err != nil {
				return err
			}
			cmd.Printf("Wrote %d files to %s\n", len(res.Files), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "dist", "output directory")
	cmd.Flags().BoolVar(&clean, "clean", false, "remove the output directory first")
	cmd.Flags().StringVar(&settingsPath, "settings", "", "settings file or URL (overrides FOLIO_SETTINGS_PATH)")
	cmd.Flags().StringVar(&staticDir, "static", "", "static files directory (overrides FOLIO_STATIC_DIR)")
	return cmd
}
