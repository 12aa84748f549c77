// Package common provides shared dependency construction for commands.
package common

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/finradar/bankcrawl/internal/config"
	"github.com/finradar/bankcrawl/internal/logger"
	"github.com/finradar/bankcrawl/internal/sources"
)

// Deps bundles the dependencies every command needs.
type Deps struct {
	Config *config.Config
	Logger logger.Interface
}

// NewCommandDeps builds config and logger from the current Viper state.
func NewCommandDeps() (*Deps, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return &Deps{Config: cfg, Logger: log}, nil
}

// LoadSources loads the source configurations named by the config.
func (d *Deps) LoadSources() ([]*sources.Source, error) {
	return sources.NewLoader(d.Config.SourcesFile).Load()
}
