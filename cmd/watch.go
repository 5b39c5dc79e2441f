package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/rnawhale/classroom-poller/internal/auth"
	"github.com/rnawhale/classroom-poller/internal/config"
	"github.com/rnawhale/classroom-poller/internal/logger"
)

var scheduleFlag string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run sync on a cron schedule until interrupted",
	Long: `Run the sync pipeline on a cron schedule, keeping the snapshot
directory fresh without an external timer.

The first sync runs immediately. After that the schedule takes over; a
sync that is still running when the next slot fires is not doubled up.
Failed syncs are logged and the watch keeps going, except configuration
and authorization failures, which stop it.

Examples:
  classroom-poller watch                           # Sync every 30 minutes
  classroom-poller watch --schedule="0 * * * *"    # Sync hourly, on the hour`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&scheduleFlag, "schedule", "*/30 * * * *", "cron schedule for sync runs")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(scheduleFlag, func() {
		if err := runSync(ctx); err != nil {
			logger.Error("scheduled sync failed", "error", err)
		}
	}); err != nil {
		return config.NewConfigError("schedule", scheduleFlag, "invalid cron expression").WithCause(err)
	}

	// The immediate first sync separates broken setups from transient
	// failures: bad config or authorization stops the watch, anything
	// else is logged and the schedule keeps going.
	if err := runSync(ctx); err != nil {
		var configErr *config.ConfigError
		var authErr *auth.AuthError
		if errors.As(err, &configErr) || errors.As(err, &authErr) {
			return err
		}
		logger.Error("initial sync failed", "error", err)
	}

	c.Start()
	fmt.Printf("Watching on schedule %q (Ctrl-C to stop)\n", scheduleFlag)

	<-ctx.Done()

	stopCtx := c.Stop()
	<-stopCtx.Done()

	logger.Info("watch stopped")
	return nil
}
