package snapshot

import "time"

// Item is one normalized coursework or announcement entry, shaped exactly
// as the viewer consumes it.
type Item struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Link      string     `json:"link"`
	DueAt     *time.Time `json:"dueAt,omitempty"`
	Topic     string     `json:"topic"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Group collects one course's items inside a day bucket. Groups are never
// stored empty.
type Group struct {
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

// Snapshot is the per-day document written to <day>.json.
type Snapshot struct {
	GeneratedAt time.Time `json:"generatedAt"`
	Day         string    `json:"day"`
	Groups      []Group   `json:"groups"`
}

// DayEntry is one manifest row.
type DayEntry struct {
	Day   string `json:"day"`
	Label string `json:"label"`
}

// Manifest indexes the snapshot files for the viewer. LatestDay is omitted
// when a run observed no data at all.
type Manifest struct {
	GeneratedAt time.Time  `json:"generatedAt"`
	LatestDay   string     `json:"latestDay,omitempty"`
	Days        []DayEntry `json:"days"`
}
