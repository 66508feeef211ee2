// Package gate decides which premium-limited actions the current plan
// allows. Every check is a pure function of the state; a denial is a
// boolean, never an error.
package gate

import (
	"context"
	"time"

	"github.com/sadopc/quadra/internal/store"
)

const (
	FreeSubjects    = 2
	FreeMoodsPerDay = 1
)

func CanAddSubject(s store.UserState) bool {
	return s.IsPremium || len(s.Subjects) < FreeSubjects
}

// CanAddMoodEntryToday reports whether another mood may be logged on now's
// calendar day.
func CanAddMoodEntryToday(s store.UserState, now time.Time) bool {
	return s.IsPremium || CountMoodsOnDate(s.Moods, now) < FreeMoodsPerDay
}

// CountMoodsOnDate counts entries whose date falls on the same calendar day
// as day, compared in day's location.
func CountMoodsOnDate(moods []store.MoodEntry, day time.Time) int {
	y, m, d := day.Date()
	n := 0
	for _, e := range moods {
		ey, em, ed := e.Date.In(day.Location()).Date()
		if ey == y && em == m && ed == d {
			n++
		}
	}
	return n
}

// Upgrade returns s on the premium plan.
func Upgrade(s store.UserState) store.UserState {
	s.IsPremium = true
	return s
}

// Authorizer approves an upgrade before any state changes.
type Authorizer interface {
	Authorize(ctx context.Context) error
}

// DefaultPaymentDelay mimics a payment round trip.
const DefaultPaymentDelay = time.Second

// SimulatedPayment stands in for a payment round trip. It always succeeds
// after Delay unless ctx is done first.
type SimulatedPayment struct {
	Delay time.Duration
}

func (p SimulatedPayment) Authorize(ctx context.Context) error {
	if p.Delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(p.Delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
