package tracker

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sadopc/quadra/internal/calendar"
	"github.com/sadopc/quadra/internal/gate"
	"github.com/sadopc/quadra/internal/store"
)

// PickColor chooses a subject color from the fixed palette.
func PickColor(rng *rand.Rand) store.ColorTag {
	return store.Palette[rng.Intn(len(store.Palette))]
}

var Quotes = []string{
	"The secret of getting ahead is getting started.",
	"It always seems impossible until it's done.",
	"Don't watch the clock; do what it does. Keep going.",
	"Quality is not an act, it is a habit.",
}

// QuoteOfTheDay rotates through Quotes by day of month.
func QuoteOfTheDay(now time.Time) string {
	return Quotes[now.Day()%len(Quotes)]
}

type CategoryTotal struct {
	Category store.Category
	Total    decimal.Decimal
}

type Budget struct {
	Budget    decimal.Decimal
	Spent     decimal.Decimal
	Remaining decimal.Decimal
	// ByCategory holds only categories with spending, in display order.
	ByCategory []CategoryTotal
}

// Used is the spent fraction of the budget, clamped to [0, 1].
func (b Budget) Used() float64 {
	if !b.Budget.IsPositive() {
		return 0
	}
	f, _ := b.Spent.Div(b.Budget).Float64()
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func BudgetSummary(s store.UserState) Budget {
	totals := make(map[store.Category]decimal.Decimal)
	spent := decimal.Zero
	for _, e := range s.Expenses {
		spent = spent.Add(e.Amount)
		totals[e.Category] = totals[e.Category].Add(e.Amount)
	}
	b := Budget{Budget: s.Budget, Spent: spent, Remaining: s.Budget.Sub(spent)}
	for _, c := range store.Categories {
		if t, ok := totals[c]; ok && t.IsPositive() {
			b.ByCategory = append(b.ByCategory, CategoryTotal{Category: c, Total: t})
		}
	}
	return b
}

func PendingAssignments(s store.UserState) []store.Assignment {
	var out []store.Assignment
	for _, a := range s.Assignments {
		if !a.Completed {
			out = append(out, a)
		}
	}
	return out
}

// PendingFor counts open assignments for one subject.
func PendingFor(s store.UserState, subjectID string) int {
	n := 0
	for _, a := range s.Assignments {
		if a.SubjectID == subjectID && !a.Completed {
			n++
		}
	}
	return n
}

// SubjectFor resolves an assignment's subject. Assignments may outlive
// their subject, in which case ok is false.
func SubjectFor(s store.UserState, a store.Assignment) (store.Subject, bool) {
	return findSubject(s.Subjects, a.SubjectID)
}

// LatestMood returns the most recent mood entry.
func LatestMood(s store.UserState) (store.MoodEntry, bool) {
	if len(s.Moods) == 0 {
		return store.MoodEntry{}, false
	}
	return s.Moods[0], true
}

func TodayEvents(s store.UserState, now time.Time) []store.ScheduleEvent {
	return calendar.EventsOnDay(s.Schedule, now)
}

type Usage struct {
	Premium      bool
	Subjects     int
	SubjectLimit int
	MoodsToday   int
	MoodLimit    int
}

func FreeUsage(s store.UserState, now time.Time) Usage {
	return Usage{
		Premium:      s.IsPremium,
		Subjects:     len(s.Subjects),
		SubjectLimit: gate.FreeSubjects,
		MoodsToday:   gate.CountMoodsOnDate(s.Moods, now),
		MoodLimit:    gate.FreeMoodsPerDay,
	}
}

// SubjectLine renders e.g. "1 / 2 subjects used".
func (u Usage) SubjectLine() string {
	if u.Premium {
		return fmt.Sprintf("%d subjects", u.Subjects)
	}
	return fmt.Sprintf("%d / %d subjects used", u.Subjects, u.SubjectLimit)
}

func (u Usage) MoodLine() string {
	if u.Premium {
		return "Unlimited entries"
	}
	return fmt.Sprintf("%d / %d entry per day", u.MoodsToday, u.MoodLimit)
}
