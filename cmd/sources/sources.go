// Package sources provides the sources command implementation.
package sources

import "github.com/spf13/cobra"

// Command returns the sources command with its subcommands.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "Manage crawl sources",
		Long:  `Inspect and validate the crawl source configuration.`,
	}

	cmd.AddCommand(
		NewListCommand(),
		NewValidateCommand(),
	)

	return cmd
}
