package snapshot

import (
	"fmt"
	"strings"
	"time"

	"github.com/rnawhale/classroom-poller/internal/classroom"
)

const (
	// titleLimit bounds normalized titles; longer ones are cut to
	// titleLimit-len(ellipsis) characters plus the marker.
	titleLimit = 120
	ellipsis   = "..."

	topicCourseWork   = "COURSEWORK"
	topicAnnouncement = "ANNOUNCEMENT"
)

// Normalizer turns raw course records into viewer items. The zero value
// buckets days in UTC, places due dates in UTC+9, keeps every announcement,
// and reads the wall clock for records without timestamps.
type Normalizer struct {
	// Location controls day bucketing; nil means UTC.
	Location *time.Location

	// DueOffsetMinutes is the fixed zone for zone-less due dates;
	// zero means DefaultDueOffsetMinutes.
	DueOffsetMinutes int

	// Keywords filters announcements by substring match on the collapsed
	// text, case-insensitive. Empty keeps everything.
	Keywords []string

	// Now supplies the anchor for records without any timestamp; nil
	// means time.Now.
	Now func() time.Time
}

func (n *Normalizer) loc() *time.Location {
	if n.Location != nil {
		return n.Location
	}
	return time.UTC
}

func (n *Normalizer) dueOffset() int {
	if n.DueOffsetMinutes != 0 {
		return n.DueOffsetMinutes
	}
	return DefaultDueOffsetMinutes
}

func (n *Normalizer) now() time.Time {
	if n.Now != nil {
		return n.Now()
	}
	return time.Now()
}

// WorkItem normalizes one coursework entry. The course supplies nothing but
// scoping here; the item keeps its own link.
func (n *Normalizer) WorkItem(course classroom.Course, work classroom.WorkItem) Item {
	item := Item{
		ID:        fmt.Sprintf("cw:%s:%s", course.ID, work.ID),
		Title:     truncateTitle(work.Title),
		Link:      work.AlternateLink,
		Topic:     work.WorkType,
		CreatedAt: n.anchor(work.UpdateTime, work.CreationTime),
	}
	if item.Topic == "" {
		item.Topic = topicCourseWork
	}
	if due, ok := CivilInstant(work.DueDate, work.DueTime, n.dueOffset()); ok {
		item.DueAt = &due
	}
	return item
}

// Announcement normalizes one announcement. Whitespace-only text drops the
// record; the link always points at the course, not the announcement.
func (n *Normalizer) Announcement(course classroom.Course, ann classroom.Announcement) (Item, bool) {
	text := collapseWhitespace(ann.Text)
	if text == "" {
		return Item{}, false
	}
	if !n.matchesKeywords(text) {
		return Item{}, false
	}

	return Item{
		ID:        fmt.Sprintf("ann:%s:%s", course.ID, ann.ID),
		Title:     truncateTitle(text),
		Link:      course.AlternateLink,
		Topic:     topicAnnouncement,
		CreatedAt: n.anchor(ann.UpdateTime, ann.CreationTime),
	}, true
}

// anchor picks the instant an item is bucketed and sorted by: update time
// when parseable, else creation time, else now.
func (n *Normalizer) anchor(updateTime, creationTime string) time.Time {
	if t, err := time.Parse(time.RFC3339Nano, updateTime); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339Nano, creationTime); err == nil {
		return t
	}
	return n.now()
}

func (n *Normalizer) matchesKeywords(text string) bool {
	if len(n.Keywords) == 0 {
		return true
	}
	lower := strings.ToLower(text)
	for _, kw := range n.Keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// collapseWhitespace folds every whitespace run into a single space and
// trims the ends. Whitespace-only input collapses to "".
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncateTitle cuts by runes so a multibyte title is never split inside a
// character.
func truncateTitle(s string) string {
	runes := []rune(s)
	if len(runes) <= titleLimit {
		return s
	}
	return string(runes[:titleLimit-len(ellipsis)]) + ellipsis
}
