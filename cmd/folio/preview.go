package main

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/eringen/folio"
	"github.com/eringen/folio/settings"
	"github.com/eringen/folio/views"
)

func newPreviewCmd() *cobra.Command {
	var (
		settingsPath string
		style        string
		width        int
	)
	cmd := &cobra.Command{
		Use:   "preview <slug>",
		Short: "Render a blog post in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if settingsPath == "" {
				cfg, err := folio.LoadConfig()
				if err != nil {
					return err
				}
				settingsPath = cfg.SettingsPath
			}
			doc, err := settings.NewProvider(settingsPath).Load(cmd.Context())
			if err != nil {
				return err
			}
			post, err := doc.Post(args[0])
			if err != nil {
				return err
			}

			out, err := renderPreview(post, style, width)
			if err != nil {
				return err
			}
			cmd.Print(out)
			return nil
		},
	}
	cmd.Flags().StringVar(&settingsPath, "settings", "", "settings file or URL (overrides FOLIO_SETTINGS_PATH)")
	cmd.Flags().StringVar(&style, "style", "auto", "glamour style: auto, dark, light or notty")
	cmd.Flags().IntVar(&width, "width", 80, "word wrap width")
	return cmd
}

func renderPreview(post settings.Post, style string, width int) (string, error) {
	styleOpt := glamour.WithAutoStyle()
	if style != "auto" {
		styleOpt = glamour.WithStandardStyle(style)
	}
	r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return "", fmt.Errorf("create renderer: %w", err)
	}

	header := "# " + post.Title + "\n\n"
	if post.Date != "" {
		header += "*" + views.FormatDate(post.Date) + "*\n\n"
	}
	return r.Render(header + post.Content)
}
