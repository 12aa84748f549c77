// Package sources implements the command-line interface for inspecting crawl
// sources. This file contains the list command, which displays all configured
// sources in a formatted table.
package sources

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/finradar/bankcrawl/cmd/common"
	internalsources "github.com/finradar/bankcrawl/internal/sources"
)

// TableRenderer handles the display of source data in a table format.
type TableRenderer struct{}

// NewTableRenderer creates a new TableRenderer instance.
func NewTableRenderer() *TableRenderer {
	return &TableRenderer{}
}

// RenderTable formats and displays the sources in a table format.
func (r *TableRenderer) RenderTable(sources []*internalsources.Source) error {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"ID", "Name", "Base URL", "Start URLs", "Max Pages", "Rate Limit", "Date Order"})

	for _, src := range sources {
		rateLimit := src.RateLimit
		if rateLimit == "" {
			rateLimit = "default"
		}
		dateOrder := strings.Join(src.DateOrder, ", ")
		if dateOrder == "" {
			dateOrder = "default"
		}
		t.AppendRow(table.Row{
			src.ID,
			src.Name,
			src.BaseURL,
			len(src.StartURLs),
			src.MaxPages,
			rateLimit,
			dateOrder,
		})
	}

	t.Render()
	return nil
}

// NewListCommand creates a new list command.
func NewListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configured sources",
		Long:  `List all crawl sources configured in the system.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to get dependencies: %w", err)
			}

			sources, err := deps.LoadSources()
			if err != nil {
				return fmt.Errorf("failed to load sources: %w", err)
			}

			if len(sources) == 0 {
				deps.Logger.Info("No sources configured")
				return nil
			}

			return NewTableRenderer().RenderTable(sources)
		},
	}
}
