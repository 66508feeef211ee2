package gate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sadopc/quadra/internal/store"
)

func subjects(n int) []store.Subject {
	out := make([]store.Subject, n)
	for i := range out {
		out[i] = store.Subject{ID: string(rune('a' + i)), Name: "s"}
	}
	return out
}

func TestCanAddSubject(t *testing.T) {
	tests := []struct {
		premium bool
		count   int
		want    bool
	}{
		{false, 0, true},
		{false, 1, true},
		{false, 2, false},
		{false, 3, false},
		{true, 0, true},
		{true, 2, true},
		{true, 10, true},
	}
	for _, tt := range tests {
		s := store.UserState{IsPremium: tt.premium, Subjects: subjects(tt.count)}
		if got := CanAddSubject(s); got != tt.want {
			t.Errorf("CanAddSubject(premium=%v, n=%d) = %v, want %v", tt.premium, tt.count, got, tt.want)
		}
	}
}

func TestCountMoodsOnDateUsesCalendarDay(t *testing.T) {
	loc := time.FixedZone("T", -5*3600)
	day := time.Date(2026, time.March, 15, 12, 0, 0, 0, loc)
	moods := []store.MoodEntry{
		{ID: "1", Date: time.Date(2026, time.March, 15, 0, 5, 0, 0, loc)},
		{ID: "2", Date: time.Date(2026, time.March, 15, 23, 55, 0, 0, loc)},
		// Same instant window as above but the previous local day.
		{ID: "3", Date: time.Date(2026, time.March, 14, 23, 59, 0, 0, loc)},
		// 03:00 UTC on the 16th is still the 15th in loc.
		{ID: "4", Date: time.Date(2026, time.March, 16, 3, 0, 0, 0, time.UTC)},
	}
	if got := CountMoodsOnDate(moods, day); got != 3 {
		t.Fatalf("expected 3 moods on the 15th, got %d", got)
	}
}

func TestCanAddMoodEntryToday(t *testing.T) {
	now := time.Date(2026, time.March, 15, 18, 0, 0, 0, time.UTC)
	free := store.UserState{}
	if !CanAddMoodEntryToday(free, now) {
		t.Fatal("first mood of the day should be allowed")
	}

	free.Moods = []store.MoodEntry{{ID: "1", Date: now.Add(-8 * time.Hour), Mood: store.MoodCalm}}
	if CanAddMoodEntryToday(free, now) {
		t.Fatal("second mood on the same day should be denied")
	}
	if !CanAddMoodEntryToday(free, now.Add(24*time.Hour)) {
		t.Fatal("next day should be allowed again")
	}

	free.IsPremium = true
	if !CanAddMoodEntryToday(free, now) {
		t.Fatal("premium is unlimited")
	}
}

func TestUpgradeIsPure(t *testing.T) {
	in := store.UserState{Name: "x"}
	out := Upgrade(in)
	if !out.IsPremium {
		t.Fatal("Upgrade should set IsPremium")
	}
	if in.IsPremium {
		t.Fatal("Upgrade must not modify its input")
	}
}

func TestSimulatedPayment(t *testing.T) {
	if err := (SimulatedPayment{}).Authorize(context.Background()); err != nil {
		t.Fatalf("zero delay should succeed: %v", err)
	}
	if err := (SimulatedPayment{Delay: time.Millisecond}).Authorize(context.Background()); err != nil {
		t.Fatalf("short delay should succeed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := (SimulatedPayment{Delay: time.Hour}).Authorize(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}
