// Package schedule implements the schedule command: run crawls of all
// configured sources on a cron schedule until interrupted.
package schedule

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/finradar/bankcrawl/cmd/common"
	"github.com/finradar/bankcrawl/cmd/crawl"
)

// Command returns the schedule command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Run crawls on a recurring schedule",
		Long: `Run crawls of all configured sources on the cron schedule from the
configuration. Blocks until interrupted with SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchedule(cmd.Context())
		},
	}
}

func runSchedule(ctx context.Context) error {
	deps, err := common.NewCommandDeps()
	if err != nil {
		return err
	}

	srcs, err := deps.LoadSources()
	if err != nil {
		return fmt.Errorf("failed to load sources: %w", err)
	}

	spec := deps.Config.Schedule.Cron
	scheduler := cron.New()
	_, err = scheduler.AddFunc(spec, func() {
		deps.Logger.Info("Scheduled crawl starting", "sources", len(srcs))
		if runErr := crawl.RunAll(ctx, deps, srcs); runErr != nil {
			deps.Logger.Error("Scheduled crawl failed", "error", runErr)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}

	scheduler.Start()
	deps.Logger.Info("Scheduler started", "cron", spec, "sources", len(srcs))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		deps.Logger.Info("Shutting down scheduler", "signal", sig.String())
	case <-ctx.Done():
		deps.Logger.Info("Shutting down scheduler", "reason", ctx.Err().Error())
	}

	stopCtx := scheduler.Stop()
	<-stopCtx.Done()
	return nil
}
