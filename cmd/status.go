package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rnawhale/classroom-poller/internal/auth"
	"github.com/rnawhale/classroom-poller/internal/config"
	"github.com/rnawhale/classroom-poller/internal/snapshot"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the status of the poller",
	Long: `Display the current status of classroom-poller including:
- Credential configuration and stored token
- Snapshot directory and manifest contents
- Last generation time and available days

This command helps you monitor whether the poller is producing snapshots.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Authorization ===")

	creds, err := config.LoadCredentials()
	if err != nil {
		fmt.Printf("Credentials: not configured (%v)\n", err)
	} else {
		fmt.Printf("Client ID: %s\n", creds.Sanitize()["client_id"])
		fmt.Printf("Auth method: %s\n", creds.AuthMethod)

		path := creds.TokenFile
		if tokenFile != "" {
			path = tokenFile
		}
		store := auth.NewStore(path)
		if store.Exists() {
			fmt.Printf("Token: stored at %s\n", store.Path)
		} else {
			fmt.Println("Token: missing (run 'classroom-poller auth')")
		}
	}

	fmt.Println("\n=== Snapshots ===")

	writer := snapshot.NewWriter(cfg.Output.Dir)
	fmt.Printf("Output directory: %s\n", cfg.Output.Dir)

	manifest, err := writer.ReadManifest()
	if err != nil {
		fmt.Printf("Failed to read manifest: %v\n", err)
		return nil
	}
	if manifest == nil {
		fmt.Println("Manifest: not written yet (run 'classroom-poller sync')")
		return nil
	}

	fmt.Printf("Manifest: %s\n", writer.ManifestPath())
	fmt.Printf("Generated: %s (%s ago)\n",
		manifest.GeneratedAt.Format("2006-01-02 15:04:05"),
		time.Since(manifest.GeneratedAt).Truncate(time.Second))

	if manifest.LatestDay != "" {
		fmt.Printf("Latest day: %s\n", manifest.LatestDay)
	}

	fmt.Printf("Days with snapshots: %d\n", len(manifest.Days))
	for _, entry := range manifest.Days {
		fmt.Printf("  %s (%s.json)\n", entry.Label, entry.Day)
	}

	return nil
}
