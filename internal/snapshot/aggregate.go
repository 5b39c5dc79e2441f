package snapshot

import (
	"sort"
	"time"

	"github.com/rnawhale/classroom-poller/internal/classroom"
)

// Aggregate holds normalized items bucketed by calendar day and grouped by
// course name. Group order inside a bucket is the order course groups first
// appeared; item order inside a group comes from sortItems alone.
type Aggregate struct {
	days map[string]*dayBucket
}

type dayBucket struct {
	order  []string
	groups map[string][]Item
}

// Build normalizes every course's work items and announcements and buckets
// them. Per-course input order is preserved as the group discovery order;
// it carries no meaning beyond that.
func Build(data []classroom.CourseData, n *Normalizer) *Aggregate {
	agg := &Aggregate{days: make(map[string]*dayBucket)}
	loc := n.loc()

	for _, cd := range data {
		for _, work := range cd.Work {
			item := n.WorkItem(cd.Course, work)
			agg.add(DayKey(item.CreatedAt, loc), cd.Course.Name, item)
		}
		for _, ann := range cd.Announcements {
			item, ok := n.Announcement(cd.Course, ann)
			if !ok {
				continue
			}
			agg.add(DayKey(item.CreatedAt, loc), cd.Course.Name, item)
		}
	}

	agg.sortItems()
	return agg
}

func (a *Aggregate) add(day, group string, item Item) {
	bucket := a.days[day]
	if bucket == nil {
		bucket = &dayBucket{groups: make(map[string][]Item)}
		a.days[day] = bucket
	}
	if _, seen := bucket.groups[group]; !seen {
		bucket.order = append(bucket.order, group)
	}
	bucket.groups[group] = append(bucket.groups[group], item)
}

// sortItems orders every group by anchor instant descending, ties broken by
// title ascending. The stable sort keeps equal (anchor, title) pairs in
// input order.
func (a *Aggregate) sortItems() {
	for _, bucket := range a.days {
		for _, items := range bucket.groups {
			sort.SliceStable(items, func(i, j int) bool {
				if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
					return items[i].CreatedAt.After(items[j].CreatedAt)
				}
				return items[i].Title < items[j].Title
			})
		}
	}
}

// Days returns every observed day key in ascending order.
func (a *Aggregate) Days() []string {
	keys := make([]string, 0, len(a.days))
	for day := range a.days {
		keys = append(keys, day)
	}
	sort.Strings(keys)
	return keys
}

// LatestDay returns the lexicographically maximal day key, or "" when the
// aggregate is empty.
func (a *Aggregate) LatestDay() string {
	days := a.Days()
	if len(days) == 0 {
		return ""
	}
	return days[len(days)-1]
}

// Snapshot renders one day bucket as its output document. Groups appear in
// first-occurrence order; they are never re-sorted.
func (a *Aggregate) Snapshot(day string, generatedAt time.Time) Snapshot {
	snap := Snapshot{
		GeneratedAt: generatedAt,
		Day:         day,
		Groups:      []Group{},
	}

	bucket := a.days[day]
	if bucket == nil {
		return snap
	}

	for _, name := range bucket.order {
		snap.Groups = append(snap.Groups, Group{Name: name, Items: bucket.groups[name]})
	}
	return snap
}

// Manifest renders the day index for this aggregate.
func (a *Aggregate) Manifest(generatedAt time.Time) Manifest {
	days := a.Days()

	m := Manifest{
		GeneratedAt: generatedAt,
		Days:        make([]DayEntry, 0, len(days)),
	}
	for _, day := range days {
		m.Days = append(m.Days, DayEntry{Day: day, Label: DayLabel(day)})
	}
	if len(days) > 0 {
		m.LatestDay = days[len(days)-1]
	}
	return m
}
