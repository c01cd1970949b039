package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/eringen/folio/scaffold"
)

func newNewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new <dir>",
		Short: "Create a starter site",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			cmd.Printf("Creating new folio site: %s\n\n", dir)
			files, err := scaffold.Create(dir, scaffold.NewData(dir))
			if err != nil {
				return err
			}
			for _, f := range files {
				cmd.Printf("  created %s\n", filepath.Join(dir, f))
			}
			cmd.Println()
			cmd.Println("Done! Next steps:")
			cmd.Println()
			cmd.Printf("  cd %s\n", dir)
			cmd.Println("  cp .env.example .env   # set FOLIO_SESSION_SECRET")
			cmd.Println("  folio check settings.json")
			cmd.Println("  folio serve")
			return nil
		},
	}
}
