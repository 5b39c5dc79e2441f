package snapshot

import (
	"strings"
	"time"

	"github.com/rnawhale/classroom-poller/internal/classroom"
)

const (
	// DefaultDueOffsetMinutes places zone-less due dates in UTC+9.
	DefaultDueOffsetMinutes = 540

	dayKeyLayout = "2006-01-02"

	// End-of-day wall clock applied when a due date carries no time.
	endOfDayHour   = 23
	endOfDayMinute = 59
)

// CivilInstant converts a zone-less calendar date (and optional wall-clock
// time) into an absolute instant, reading the civil values in a zone
// offsetMinutes east of UTC. A nil or zero date yields ok=false; a nil time
// of day means end of day, 23:59.
func CivilInstant(date *classroom.CivilDate, tod *classroom.TimeOfDay, offsetMinutes int) (time.Time, bool) {
	if date == nil || date.Year == 0 {
		return time.Time{}, false
	}

	hour, minute := endOfDayHour, endOfDayMinute
	if tod != nil {
		hour, minute = tod.Hours, tod.Minutes
	}

	zone := time.FixedZone("", offsetMinutes*60)
	t := time.Date(date.Year, time.Month(date.Month), date.Day, hour, minute, 0, 0, zone)
	return t.UTC(), true
}

// DayKey renders the calendar day an instant falls on in loc, as
// "YYYY-MM-DD". Keys are zero padded, so their lexicographic order is
// chronological.
func DayKey(instant time.Time, loc *time.Location) string {
	return instant.In(loc).Format(dayKeyLayout)
}

// DayLabel renders a day key as the viewer's "YYYY.MM.DD" display form.
func DayLabel(key string) string {
	return strings.ReplaceAll(key, "-", ".")
}
