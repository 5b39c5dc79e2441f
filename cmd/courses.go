package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rnawhale/classroom-poller/internal/classroom"
)

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "List active courses",
	Long: `List the active Google Classroom courses visible to your account.

This command shows each course with its ID and link. Items from all of
these courses end up in the snapshots; the listing helps verify the
account sees what you expect before the first sync.

Example:
  classroom-poller courses`,
	RunE: runCourses,
}

func init() {
	rootCmd.AddCommand(coursesCmd)
}

func runCourses(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

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

	courses, err := api.ListActiveCourses(ctx)
	if err != nil {
		return fmt.Errorf("failed to list courses: %w", err)
	}

	fmt.Println("=== Active Courses ===")
	for _, course := range courses {
		fmt.Println(course.Name)
		fmt.Printf("  ID: %s\n", course.ID)
		if course.AlternateLink != "" {
			fmt.Printf("  Link: %s\n", course.AlternateLink)
		}
		fmt.Println()
	}

	fmt.Printf("Total active courses: %d\n", len(courses))

	return nil
}
