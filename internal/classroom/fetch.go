package classroom

import (
	"context"
	"fmt"

	"github.com/rnawhale/classroom-poller/internal/logger"
)

// FetchAll loads every active course and, per course, the first page of its
// coursework and announcements. Courses are processed one at a time. A
// failing per-course call is logged, recorded on the course entry, and
// treated as zero items; it never interrupts the remaining courses or the
// sibling kind. Only the initial course listing can fail the whole fetch.
func FetchAll(ctx context.Context, api API) ([]CourseData, error) {
	courses, err := api.ListActiveCourses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch course list: %w", err)
	}

	logger.Info("fetched active courses", "count", len(courses))

	data := make([]CourseData, 0, len(courses))
	for _, course := range courses {
		cd := CourseData{Course: course}

		cd.Work, cd.WorkErr = api.ListCourseWork(ctx, course.ID)
		if cd.WorkErr != nil {
			logger.Warn("coursework fetch failed", "course", course.Name, "error", cd.WorkErr)
			cd.Work = nil
		}

		cd.Announcements, cd.AnnouncementsErr = api.ListAnnouncements(ctx, course.ID)
		if cd.AnnouncementsErr != nil {
			logger.Warn("announcement fetch failed", "course", course.Name, "error", cd.AnnouncementsErr)
			cd.Announcements = nil
		}

		logger.Debug("fetched course data",
			"course", course.Name,
			"work_count", len(cd.Work),
			"announcement_count", len(cd.Announcements))

		data = append(data, cd)
	}

	return data, nil
}
