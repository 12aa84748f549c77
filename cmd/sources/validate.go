package sources

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/finradar/bankcrawl/cmd/common"
)

// NewValidateCommand creates a new validate subcommand for sources.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the source configuration file",
		Long: `Load the sources file and run the full validation pass: required
fields, URL schemes, rate limits, date strategy orders, and URL pattern
regexes. Exits non-zero on the first invalid source.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to get dependencies: %w", err)
			}

			sources, err := deps.LoadSources()
			if err != nil {
				return err
			}

			deps.Logger.Info("Sources file is valid",
				"file", deps.Config.SourcesFile,
				"sources", len(sources),
			)
			return nil
		},
	}
}
