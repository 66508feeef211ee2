// Package calendar buckets schedule events by day, week and month and moves
// a reference date between those ranges.
package calendar

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sadopc/quadra/internal/store"
)

type Granularity int

const (
	Day Granularity = iota
	Week
	Month
)

var granularityNames = map[Granularity]string{
	Day:   "day",
	Week:  "week",
	Month: "month",
}

func (g Granularity) String() string { return granularityNames[g] }

func ParseGranularity(s string) (Granularity, error) {
	for g, name := range granularityNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return g, nil
		}
	}
	return Day, fmt.Errorf("unknown granularity %q", s)
}

type Direction int

const (
	Prev Direction = -1
	Next Direction = 1
)

// MaxDots is how many per-event markers a month cell shows before it
// switches to an overflow marker.
const MaxDots = 4

// SameDay reports whether a and b share year, month and day, with a read in
// b's location.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.In(b.Location()).Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// EventsOnDay returns the events starting on day's calendar date, ordered by
// start time. Events with equal start times keep their input order.
func EventsOnDay(schedule []store.ScheduleEvent, day time.Time) []store.ScheduleEvent {
	var out []store.ScheduleEvent
	for _, e := range schedule {
		if SameDay(e.StartTime, day) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out
}

// Navigate moves date one step of g in dir. Month steps use AddDate, so a
// day-of-month that does not exist in the target month overflows into the
// following month (Jan 31 -> Mar 3 in a non-leap year).
func Navigate(date time.Time, g Granularity, dir Direction) time.Time {
	n := int(dir)
	switch g {
	case Week:
		return date.AddDate(0, 0, 7*n)
	case Month:
		return date.AddDate(0, n, 0)
	default:
		return date.AddDate(0, 0, n)
	}
}

// StartOfDay truncates t to local midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// WeekStart returns the Monday that begins date's week.
func WeekStart(date time.Time) time.Time {
	offset := (int(date.Weekday()) + 6) % 7
	return StartOfDay(date).AddDate(0, 0, -offset)
}

type DayBucket struct {
	Date   time.Time
	Events []store.ScheduleEvent
}

// WeekOf buckets the seven days starting at date's Monday.
func WeekOf(schedule []store.ScheduleEvent, date time.Time) [7]DayBucket {
	var out [7]DayBucket
	start := WeekStart(date)
	for i := range out {
		d := start.AddDate(0, 0, i)
		out[i] = DayBucket{Date: d, Events: EventsOnDay(schedule, d)}
	}
	return out
}

// DaysInMonth returns the number of days in month of year.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

type Cell struct {
	Date  time.Time
	Count int
}

// Dots is the number of event markers to draw.
func (c Cell) Dots() int {
	if c.Count > MaxDots {
		return MaxDots
	}
	return c.Count
}

// Overflow reports whether the cell holds more events than it has dots.
func (c Cell) Overflow() bool { return c.Count > MaxDots }

type MonthGrid struct {
	Year  int
	Month time.Month
	// Leading is the number of blank cells before the 1st in a
	// Monday-first week row.
	Leading int
	Cells   []Cell
}

// MonthOf builds the grid for the month containing date.
func MonthOf(schedule []store.ScheduleEvent, date time.Time) MonthGrid {
	y, m, _ := date.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, date.Location())
	g := MonthGrid{
		Year:    y,
		Month:   m,
		Leading: (int(first.Weekday()) + 6) % 7,
	}
	n := DaysInMonth(y, m)
	g.Cells = make([]Cell, n)
	for i := 0; i < n; i++ {
		d := first.AddDate(0, 0, i)
		g.Cells[i] = Cell{Date: d, Count: len(EventsOnDay(schedule, d))}
	}
	return g
}

// Label formats the header for date at granularity g.
func Label(date time.Time, g Granularity) string {
	switch g {
	case Week:
		return "Week of " + date.Format("Jan 2")
	case Month:
		return date.Format("January 2006")
	default:
		return date.Format("Mon, Jan 2")
	}
}
