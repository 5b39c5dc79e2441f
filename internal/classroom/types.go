package classroom

// CivilDate is a calendar date without zone information, the way the API
// reports due dates.
type CivilDate struct {
	Year  int
	Month int
	Day   int
}

// TimeOfDay is a wall-clock time without zone information.
type TimeOfDay struct {
	Hours   int
	Minutes int
}

// Course is one active course the user participates in.
type Course struct {
	ID            string
	Name          string
	AlternateLink string
	State         string
}

// WorkItem is one published coursework entry scoped to its course.
// CreationTime and UpdateTime carry the API's RFC 3339 strings untouched;
// parsing happens during normalization so a malformed value degrades one
// item instead of one fetch.
type WorkItem struct {
	ID            string
	CourseID      string
	Title         string
	AlternateLink string
	WorkType      string
	DueDate       *CivilDate
	DueTime       *TimeOfDay
	CreationTime  string
	UpdateTime    string
	State         string
}

// Announcement is one published announcement scoped to its course.
type Announcement struct {
	ID            string
	CourseID      string
	Text          string
	AlternateLink string
	CreationTime  string
	UpdateTime    string
}

// CourseData bundles a course with the first page of its work and
// announcements. List failures are recorded per kind instead of propagated,
// so one broken course never empties the whole run.
type CourseData struct {
	Course           Course
	Work             []WorkItem
	WorkErr          error
	Announcements    []Announcement
	AnnouncementsErr error
}
