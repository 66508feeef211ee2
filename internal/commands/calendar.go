package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/quadra/internal/calendar"
	"github.com/sadopc/quadra/internal/commands/options"
	"github.com/sadopc/quadra/internal/store"
)

type dayView struct {
	Date   string                `json:"date"`
	Events []store.ScheduleEvent `json:"events"`
}

type monthView struct {
	Month   string     `json:"month"`
	Leading int        `json:"leading"`
	Days    []cellView `json:"days"`
}

type cellView struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

func addCalendar(topLevel *cobra.Command, r *runtime) {
	cmd := &cobra.Command{
		Use:     "calendar",
		Aliases: []string{"cal"},
		Short:   "Show the schedule by day, week or month.",
		Example: `
quadra calendar day
quadra calendar week --date=2026-3-20
quadra cal month
`,
	}

	for _, g := range []calendar.Granularity{calendar.Day, calendar.Week, calendar.Month} {
		on := &options.OnOptions{}
		sub := &cobra.Command{
			Use:   g.String(),
			Short: fmt.Sprintf("Show one %s.", g),
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				now := r.svc.Now()
				date, err := on.GetOn(now)
				if err != nil {
					return r.result(cmd, err)
				}
				schedule := r.svc.State().Schedule
				switch g {
				case calendar.Week:
					return r.printWeek(cmd.OutOrStdout(), schedule, date)
				case calendar.Month:
					return r.printMonth(cmd.OutOrStdout(), schedule, date, now)
				default:
					return r.printDay(cmd.OutOrStdout(), schedule, date)
				}
			},
		}
		options.AddOnArgs(sub, on)
		cmd.AddCommand(sub)
	}

	topLevel.AddCommand(cmd)
}

func (r *runtime) printDay(w io.Writer, schedule []store.ScheduleEvent, date time.Time) error {
	events := calendar.EventsOnDay(schedule, date)
	if r.oo.JSON {
		return r.oo.Print(w, newDayView(date, events))
	}
	printTitleWithCount(w, calendar.Label(date, calendar.Day), len(events))
	printEvents(w, events)
	return nil
}

func (r *runtime) printWeek(w io.Writer, schedule []store.ScheduleEvent, date time.Time) error {
	week := calendar.WeekOf(schedule, date)
	if r.oo.JSON {
		days := make([]dayView, len(week))
		for i, b := range week {
			days[i] = newDayView(b.Date, b.Events)
		}
		return r.oo.Print(w, days)
	}
	printTitle(w, calendar.Label(calendar.WeekStart(date), calendar.Week))
	for _, b := range week {
		label := b.Date.Format("Mon 02")
		if calendar.SameDay(b.Date, date) {
			label = boldColor.Sprint(label)
		}
		_, _ = fmt.Fprintln(w, label)
		printEvents(w, b.Events)
	}
	return nil
}

func (r *runtime) printMonth(w io.Writer, schedule []store.ScheduleEvent, date, now time.Time) error {
	grid := calendar.MonthOf(schedule, date)
	if r.oo.JSON {
		v := monthView{Month: fmt.Sprintf("%04d-%02d", grid.Year, int(grid.Month)), Leading: grid.Leading}
		for _, c := range grid.Cells {
			v.Days = append(v.Days, cellView{Date: c.Date.Format("2006-01-02"), Count: c.Count})
		}
		return r.oo.Print(w, v)
	}

	printTitle(w, calendar.Label(date, calendar.Month))
	_, _ = faintColor.Fprintln(w, "Mo      Tu      We      Th      Fr      Sa      Su")

	var b strings.Builder
	col := 0
	for ; col < grid.Leading; col++ {
		b.WriteString(strings.Repeat(" ", 8))
	}
	for _, c := range grid.Cells {
		day := fmt.Sprintf("%2d", c.Date.Day())
		if calendar.SameDay(c.Date, now) {
			day = boldColor.Sprint(day)
		}
		dots := strings.Repeat("•", c.Dots())
		if c.Overflow() {
			dots += "+"
		}
		// Pad on visible width; color codes do not take space.
		b.WriteString(day + goodColor.Sprint(dots) + strings.Repeat(" ", 8-2-c.Dots()-boolInt(c.Overflow())))
		col++
		if col == 7 {
			b.WriteString("\n")
			col = 0
		}
	}
	if col != 0 {
		b.WriteString("\n")
	}
	_, _ = fmt.Fprint(w, b.String())
	return nil
}

func printEvents(w io.Writer, events []store.ScheduleEvent) {
	if len(events) == 0 {
		printNone(w)
		return
	}
	tbl := newTable()
	for _, e := range events {
		tbl.AddRow("  "+e.StartTime.Format("15:04")+"-"+e.EndTime.Format("15:04"), e.Title, faintColor.Sprint(string(e.Type)))
	}
	_, _ = fmt.Fprintln(w, tbl)
}

func newDayView(date time.Time, events []store.ScheduleEvent) dayView {
	if events == nil {
		events = []store.ScheduleEvent{}
	}
	return dayView{Date: date.Format("2006-01-02"), Events: events}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
