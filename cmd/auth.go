package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	methodFlag string
	revokeFlag bool
	statusOnly bool
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage Google Classroom authorization",
	Long: `Authorize with the Google Classroom API using OAuth 2.0.

Two flows are supported. The local flow (default) prints a consent URL to
open in your browser and catches the redirect on a loopback listener. The
device flow prints a code to enter on another device, for machines without
a browser.

Running auth always performs a fresh authorization and replaces the stored
token. Set GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET (or put them in .env)
before running.

Examples:
  classroom-poller auth                   # Authorize with the configured flow
  classroom-poller auth --method=device   # Force the device flow
  classroom-poller auth --status          # Check whether a token is stored
  classroom-poller auth --revoke          # Delete the stored token`,
	RunE: runAuth,
}

func init() {
	authCmd.Flags().StringVar(&methodFlag, "method", "", "authorization flow (local/device, overrides GOOGLE_AUTH_METHOD)")
	authCmd.Flags().BoolVar(&revokeFlag, "revoke", false, "delete the stored token")
	authCmd.Flags().BoolVar(&statusOnly, "status", false, "check authorization status only")

	rootCmd.AddCommand(authCmd)
}

func runAuth(cmd *cobra.Command, args []string) error {
	authorizer, err := newAuthorizer(methodFlag)
	if err != nil {
		return err
	}
	store := authorizer.Store()

	// Handle status check only
	if statusOnly {
		if store.Exists() {
			fmt.Printf("Authorization: token stored at %s\n", store.Path)
		} else {
			fmt.Println("Authorization: required (run 'classroom-poller auth')")
		}
		return nil
	}

	// Handle revoke (clear local token)
	if revokeFlag {
		if err := store.Delete(); err != nil {
			return fmt.Errorf("failed to clear authorization: %w", err)
		}
		fmt.Println("Authorization cleared")
		return nil
	}

	if _, err := authorizer.Reauthorize(cmd.Context()); err != nil {
		return fmt.Errorf("authorization failed: %w", err)
	}

	fmt.Println("Authorization successful!")
	fmt.Printf("Token stored at %s\n", store.Path)
	fmt.Println("You can now run 'classroom-poller sync' to fetch your courses.")

	return nil
}
