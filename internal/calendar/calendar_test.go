package calendar

import (
	"testing"
	"time"

	"github.com/sadopc/quadra/internal/store"
)

func at(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, time.UTC)
}

func ev(id string, start time.Time) store.ScheduleEvent {
	return store.ScheduleEvent{ID: id, Title: id, StartTime: start, EndTime: start.Add(time.Hour), Type: store.EventStudy}
}

func ids(events []store.ScheduleEvent) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.ID
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ============================================================
// EventsOnDay
// ============================================================

func TestEventsOnDayFiltersAndSorts(t *testing.T) {
	schedule := []store.ScheduleEvent{
		ev("afternoon", at(2026, time.March, 15, 14, 0)),
		ev("tomorrow", at(2026, time.March, 16, 9, 0)),
		ev("morning", at(2026, time.March, 15, 9, 0)),
	}
	got := EventsOnDay(schedule, at(2026, time.March, 15, 20, 0))
	if want := []string{"morning", "afternoon"}; !equal(ids(got), want) {
		t.Fatalf("got %v, want %v", ids(got), want)
	}
}

func TestEventsOnDayStableForTies(t *testing.T) {
	start := at(2026, time.March, 15, 10, 0)
	schedule := []store.ScheduleEvent{ev("b", start), ev("a", start), ev("c", start)}
	got := EventsOnDay(schedule, start)
	if want := []string{"b", "a", "c"}; !equal(ids(got), want) {
		t.Fatalf("ties should keep input order: got %v", ids(got))
	}
}

func TestEventsOnDayComparesAllDateParts(t *testing.T) {
	schedule := []store.ScheduleEvent{
		ev("lastMonth", at(2026, time.February, 15, 10, 0)),
		ev("lastYear", at(2025, time.March, 15, 10, 0)),
	}
	if got := EventsOnDay(schedule, at(2026, time.March, 15, 0, 0)); len(got) != 0 {
		t.Fatalf("expected no events, got %v", ids(got))
	}
}

func TestEventsOnDayUsesDayLocation(t *testing.T) {
	loc := time.FixedZone("W", -8*3600)
	// 02:00 UTC on the 16th is 18:00 on the 15th in loc.
	schedule := []store.ScheduleEvent{ev("late", at(2026, time.March, 16, 2, 0))}
	day := time.Date(2026, time.March, 15, 12, 0, 0, 0, loc)
	if got := EventsOnDay(schedule, day); len(got) != 1 {
		t.Fatalf("expected event bucketed into the local day, got %v", ids(got))
	}
}

// ============================================================
// Navigate
// ============================================================

func TestNavigate(t *testing.T) {
	d := at(2026, time.March, 15, 10, 0)
	tests := []struct {
		g    Granularity
		dir  Direction
		want time.Time
	}{
		{Day, Next, at(2026, time.March, 16, 10, 0)},
		{Day, Prev, at(2026, time.March, 14, 10, 0)},
		{Week, Next, at(2026, time.March, 22, 10, 0)},
		{Week, Prev, at(2026, time.March, 8, 10, 0)},
		{Month, Next, at(2026, time.April, 15, 10, 0)},
		{Month, Prev, at(2026, time.February, 15, 10, 0)},
	}
	for _, tt := range tests {
		if got := Navigate(d, tt.g, tt.dir); !got.Equal(tt.want) {
			t.Errorf("Navigate(%s, %d) = %v, want %v", tt.g, tt.dir, got, tt.want)
		}
	}
}

func TestNavigateMonthOverflow(t *testing.T) {
	got := Navigate(at(2026, time.January, 31, 0, 0), Month, Next)
	if want := at(2026, time.March, 3, 0, 0); !got.Equal(want) {
		t.Fatalf("Jan 31 + 1 month = %v, want %v", got, want)
	}
}

func TestNavigateWeekIsSevenDays(t *testing.T) {
	d := at(2026, time.December, 29, 23, 0)
	if got := Navigate(d, Week, Next); got.Sub(d) != 7*24*time.Hour {
		t.Fatalf("expected exactly 7 days, got %v", got.Sub(d))
	}
}

// ============================================================
// Week and month views
// ============================================================

func TestWeekStart(t *testing.T) {
	tests := []struct {
		in   time.Time
		want time.Time
	}{
		{at(2026, time.March, 16, 10, 0), at(2026, time.March, 16, 0, 0)}, // Monday
		{at(2026, time.March, 18, 10, 0), at(2026, time.March, 16, 0, 0)}, // Wednesday
		{at(2026, time.March, 22, 23, 0), at(2026, time.March, 16, 0, 0)}, // Sunday
		{at(2026, time.March, 1, 12, 0), at(2026, time.February, 23, 0, 0)},
	}
	for _, tt := range tests {
		if got := WeekStart(tt.in); !got.Equal(tt.want) {
			t.Errorf("WeekStart(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWeekOf(t *testing.T) {
	schedule := []store.ScheduleEvent{
		ev("mon", at(2026, time.March, 16, 9, 0)),
		ev("sun", at(2026, time.March, 22, 9, 0)),
		ev("nextMon", at(2026, time.March, 23, 9, 0)),
	}
	week := WeekOf(schedule, at(2026, time.March, 19, 0, 0))
	if week[0].Date.Weekday() != time.Monday {
		t.Fatal("week should start on Monday")
	}
	if len(week[0].Events) != 1 || len(week[6].Events) != 1 {
		t.Fatalf("unexpected buckets: mon=%d sun=%d", len(week[0].Events), len(week[6].Events))
	}
	total := 0
	for _, b := range week {
		total += len(b.Events)
	}
	if total != 2 {
		t.Fatalf("expected 2 events in week, got %d", total)
	}
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		y    int
		m    time.Month
		want int
	}{
		{2026, time.January, 31},
		{2026, time.February, 28},
		{2024, time.February, 29},
		{2026, time.April, 30},
		{2026, time.December, 31},
	}
	for _, tt := range tests {
		if got := DaysInMonth(tt.y, tt.m); got != tt.want {
			t.Errorf("DaysInMonth(%d, %s) = %d, want %d", tt.y, tt.m, got, tt.want)
		}
	}
}

func TestMonthOf(t *testing.T) {
	var schedule []store.ScheduleEvent
	for i := 0; i < 6; i++ {
		schedule = append(schedule, ev("busy", at(2026, time.March, 10, 8+i, 0)))
	}
	schedule = append(schedule, ev("one", at(2026, time.March, 2, 8, 0)))

	g := MonthOf(schedule, at(2026, time.March, 20, 0, 0))
	// March 1st 2026 is a Sunday.
	if g.Leading != 6 {
		t.Fatalf("expected 6 leading blanks, got %d", g.Leading)
	}
	if len(g.Cells) != 31 {
		t.Fatalf("expected 31 cells, got %d", len(g.Cells))
	}
	busy := g.Cells[9]
	if busy.Count != 6 || busy.Dots() != MaxDots || !busy.Overflow() {
		t.Fatalf("unexpected busy cell: %+v", busy)
	}
	one := g.Cells[1]
	if one.Count != 1 || one.Dots() != 1 || one.Overflow() {
		t.Fatalf("unexpected cell: %+v", one)
	}
}

func TestMonthLeadingForMonday(t *testing.T) {
	// June 1st 2026 is a Monday.
	if g := MonthOf(nil, at(2026, time.June, 15, 0, 0)); g.Leading != 0 {
		t.Fatalf("expected no leading blanks, got %d", g.Leading)
	}
}

func TestParseGranularity(t *testing.T) {
	for _, s := range []string{"day", "Week", " MONTH "} {
		if _, err := ParseGranularity(s); err != nil {
			t.Errorf("ParseGranularity(%q): %v", s, err)
		}
	}
	if _, err := ParseGranularity("year"); err == nil {
		t.Fatal("expected error for year")
	}
}

func TestLabel(t *testing.T) {
	d := at(2026, time.March, 15, 0, 0)
	if got := Label(d, Month); got != "March 2026" {
		t.Fatalf("month label = %q", got)
	}
	if got := Label(d, Week); got != "Week of Mar 15" {
		t.Fatalf("week label = %q", got)
	}
	if got := Label(d, Day); got != "Sun, Mar 15" {
		t.Fatalf("day label = %q", got)
	}
}
