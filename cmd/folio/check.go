package main

import (
	"github.com/spf13/cobra"

	"github.com/eringen/folio"
	"github.com/eringen/folio/settings"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [settings]",
		Short: "Validate a settings document",
		Long: `Load a settings document the way the server does and report what it
contains, the problems found, and which fields fall back to defaults.
Exits non-zero when the document cannot be loaded at all.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := ""
			if len(args) == 1 {
				source = args[0]
			} else {
				cfg, err := folio.LoadConfig()
				if err != nil {
					return err
				}
				source = cfg.SettingsPath
			}

			p := settings.NewProvider(source)
			doc, err := p.Load(cmd.Context())
			if err != nil {
				return err
			}

			cmd.Printf("%s: ok\n", source)
			cmd.Printf("  site:     %s\n", doc.SiteTitle)
			cmd.Printf("  posts:    %d\n", len(doc.Blog.Posts))
			cmd.Printf("  projects: %d\n", len(doc.Portfolio.Projects))
			cmd.Printf("  theme:    %s\n", doc.Theme.Default)
			cmd.Printf("  contact:  %s\n", doc.Contact.Endpoint)

			warnings := p.Warnings()
			if doc.SiteURL == "" {
				warnings = append(warnings, "siteUrl is empty: feeds, sitemap and canonical links use the request host")
			}
			printList(cmd, "Warnings", warnings)
			printList(cmd, "Defaults applied", p.DefaultedFields())
			return nil
		},
	}
}

func printList(cmd *cobra.Command, title string, items []string) {
	if len(items) == 0 {
		return
	}
	cmd.Printf("\n%s (%d):\n", title, len(items))
	for _, it := range items {
		cmd.Printf("  - %s\n", it)
	}
}
