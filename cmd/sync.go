package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rnawhale/classroom-poller/internal/classroom"
	"github.com/rnawhale/classroom-poller/internal/logger"
	"github.com/rnawhale/classroom-poller/internal/snapshot"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch Classroom items and write snapshot files",
	Long: `Fetch coursework and announcements from your active Google Classroom
courses and write them as per-day JSON snapshot files plus a manifest.

Each snapshot file covers one calendar day in the configured timezone and
groups items by course, in course order. The manifest lists every day with
a snapshot and names the latest one. A course whose coursework or
announcements cannot be fetched is skipped for that kind; the sync still
succeeds with whatever the remaining calls returned.

Examples:
  classroom-poller sync                       # Write snapshots to the configured directory
  classroom-poller sync --out-dir=/srv/data   # Write snapshots somewhere else`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(ctx context.Context) error {
	authorizer, err := newAuthorizer("")
	if err != nil {
		return err
	}

	httpClient, err := authorizer.HTTPClient(ctx)
	if err != nil {
		return err
	}

	api, err := classroom.NewAPI(ctx, httpClient, classroom.Options{
		PageSize:        cfg.Fetch.PageSize,
		CourseWorkOrder: cfg.Fetch.CourseWorkOrder,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize classroom client: %w", err)
	}

	data, err := classroom.FetchAll(ctx, api)
	if err != nil {
		return err
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	normalizer := &snapshot.Normalizer{
		Location:         loc,
		DueOffsetMinutes: cfg.Snapshot.DueOffsetMinutes,
		Keywords:         cfg.Fetch.AnnouncementKeywords,
	}

	agg := snapshot.Build(data, normalizer)

	writer := snapshot.NewWriter(cfg.Output.Dir)
	if err := writer.WriteAll(agg, time.Now().UTC()); err != nil {
		return err
	}

	days := agg.Days()
	logger.Info("snapshots written",
		"dir", cfg.Output.Dir,
		"days", len(days),
		"latest", agg.LatestDay())

	fmt.Printf("Wrote %d day snapshot(s) and manifest to %s\n", len(days), cfg.Output.Dir)

	return nil
}
