package classroom

import (
	"context"
	"fmt"
	"net/http"

	gclass "google.golang.org/api/classroom/v1"
	"google.golang.org/api/option"
)

const (
	// DefaultPageSize bounds every listing call; only the first page is read.
	DefaultPageSize = 30

	// Announcements have no configurable order; newest activity first.
	announcementOrder = "updateTime desc"
)

// API is the slice of the Classroom service the fetch pipeline consumes.
// The Google-backed implementation lives behind it so tests can substitute
// a fake.
type API interface {
	ListActiveCourses(ctx context.Context) ([]Course, error)
	ListCourseWork(ctx context.Context, courseID string) ([]WorkItem, error)
	ListAnnouncements(ctx context.Context, courseID string) ([]Announcement, error)
}

// Options tune the listing calls.
type Options struct {
	PageSize        int64
	CourseWorkOrder string
}

type service struct {
	svc  *gclass.Service
	opts Options
}

// NewAPI builds the Classroom-backed API from an authorized HTTP client.
func NewAPI(ctx context.Context, client *http.Client, opts Options) (API, error) {
	svc, err := gclass.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create classroom service: %w", err)
	}

	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}

	return &service{svc: svc, opts: opts}, nil
}

// ListActiveCourses retrieves the first page of courses the user actively
// participates in. State filtering happens server side.
func (s *service) ListActiveCourses(ctx context.Context) ([]Course, error) {
	resp, err := s.svc.Courses.List().
		CourseStates("ACTIVE").
		PageSize(s.opts.PageSize).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	courses := make([]Course, 0, len(resp.Courses))
	for _, c := range resp.Courses {
		courses = append(courses, Course{
			ID:            c.Id,
			Name:          c.Name,
			AlternateLink: c.AlternateLink,
			State:         c.CourseState,
		})
	}
	return courses, nil
}

// ListCourseWork retrieves the first page of published coursework for one
// course, ordered by the configured hint.
func (s *service) ListCourseWork(ctx context.Context, courseID string) ([]WorkItem, error) {
	call := s.svc.Courses.CourseWork.List(courseID).
		CourseWorkStates("PUBLISHED").
		PageSize(s.opts.PageSize).
		Context(ctx)
	if s.opts.CourseWorkOrder != "" {
		call = call.OrderBy(s.opts.CourseWorkOrder)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list coursework for course %s: %w", courseID, err)
	}

	work := make([]WorkItem, 0, len(resp.CourseWork))
	for _, cw := range resp.CourseWork {
		work = append(work, convertWorkItem(cw))
	}
	return work, nil
}

// ListAnnouncements retrieves the first page of published announcements for
// one course, newest first.
func (s *service) ListAnnouncements(ctx context.Context, courseID string) ([]Announcement, error) {
	resp, err := s.svc.Courses.Announcements.List(courseID).
		AnnouncementStates("PUBLISHED").
		OrderBy(announcementOrder).
		PageSize(s.opts.PageSize).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list announcements for course %s: %w", courseID, err)
	}

	anns := make([]Announcement, 0, len(resp.Announcements))
	for _, a := range resp.Announcements {
		anns = append(anns, convertAnnouncement(a))
	}
	return anns, nil
}

func convertWorkItem(cw *gclass.CourseWork) WorkItem {
	item := WorkItem{
		ID:            cw.Id,
		CourseID:      cw.CourseId,
		Title:         cw.Title,
		AlternateLink: cw.AlternateLink,
		WorkType:      cw.WorkType,
		CreationTime:  cw.CreationTime,
		UpdateTime:    cw.UpdateTime,
		State:         cw.State,
	}

	if cw.DueDate != nil {
		item.DueDate = &CivilDate{
			Year:  int(cw.DueDate.Year),
			Month: int(cw.DueDate.Month),
			Day:   int(cw.DueDate.Day),
		}
	}
	if cw.DueTime != nil {
		item.DueTime = &TimeOfDay{
			Hours:   int(cw.DueTime.Hours),
			Minutes: int(cw.DueTime.Minutes),
		}
	}

	return item
}

func convertAnnouncement(a *gclass.Announcement) Announcement {
	return Announcement{
		ID:            a.Id,
		CourseID:      a.CourseId,
		Text:          a.Text,
		AlternateLink: a.AlternateLink,
		CreationTime:  a.CreationTime,
		UpdateTime:    a.UpdateTime,
	}
}
