// Package tracker holds the user-facing intents. Each intent validates its
// input, consults the feature gate, builds the record and writes the whole
// collection back through the store.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sadopc/quadra/internal/focus"
	"github.com/sadopc/quadra/internal/gate"
	"github.com/sadopc/quadra/internal/logger"
	"github.com/sadopc/quadra/internal/store"
)

func log() *zap.SugaredLogger { return logger.Get().Named("tracker") }

var (
	// ErrUpgradeRequired is returned when the free plan denies an action.
	ErrUpgradeRequired = errors.New("upgrade required")
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")
)

// DefaultEventLength is used when an event is created without an end time.
const DefaultEventLength = time.Hour

type Service struct {
	mu    sync.Mutex
	st    *store.Store
	auth  gate.Authorizer
	now   func() time.Time
	newID func() string
	rng   *rand.Rand
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithAuthorizer(a gate.Authorizer) Option {
	return func(s *Service) { s.auth = a }
}

func WithIDs(fn func() string) Option {
	return func(s *Service) { s.newID = fn }
}

func WithRand(r *rand.Rand) Option {
	return func(s *Service) { s.rng = r }
}

func New(st *store.Store, opts ...Option) *Service {
	s := &Service{
		st:    st,
		auth:  gate.SimulatedPayment{Delay: gate.DefaultPaymentDelay},
		now:   time.Now,
		newID: newID,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// newID returns a time-ordered UUIDv7, falling back to v4.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (s *Service) State() store.UserState { return s.st.State() }

func (s *Service) Store() *store.Store { return s.st }

func (s *Service) Now() time.Time { return s.now() }

// ============================================================
// Study
// ============================================================

type NewSubject struct {
	Name string `validate:"required,max=80"`
}

func (s *Service) AddSubject(name string) (store.Subject, error) {
	in := NewSubject{Name: strings.TrimSpace(name)}
	if err := check(in); err != nil {
		return store.Subject{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.st.State()
	if !gate.CanAddSubject(state) {
		return store.Subject{}, fmt.Errorf("add subject: %w", ErrUpgradeRequired)
	}
	sub := store.Subject{ID: s.newID(), Name: in.Name, Color: PickColor(s.rng)}
	subjects := append(state.Subjects, sub)
	s.st.Update(store.Patch{Subjects: &subjects})
	log().Infow("subject added", "id", sub.ID, "name", sub.Name)
	return sub, nil
}

// DeleteSubject removes the subject and every assignment that references it.
func (s *Service) DeleteSubject(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.st.State()

	subjects := make([]store.Subject, 0, len(state.Subjects))
	found := false
	for _, sub := range state.Subjects {
		if sub.ID == id {
			found = true
			continue
		}
		subjects = append(subjects, sub)
	}
	if !found {
		return fmt.Errorf("delete subject %q: %w", id, ErrNotFound)
	}

	assignments := make([]store.Assignment, 0, len(state.Assignments))
	for _, a := range state.Assignments {
		if a.SubjectID != id {
			assignments = append(assignments, a)
		}
	}
	s.st.Update(store.Patch{Subjects: &subjects, Assignments: &assignments})
	log().Infow("subject deleted", "id", id, "assignments_removed", len(state.Assignments)-len(assignments))
	return nil
}

type NewAssignment struct {
	SubjectID string `validate:"required"`
	Title     string `validate:"required,max=200"`
	// Due defaults to now.
	Due time.Time
}

func (s *Service) AddAssignment(in NewAssignment) (store.Assignment, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.SubjectID = strings.TrimSpace(in.SubjectID)
	if err := check(in); err != nil {
		return store.Assignment{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.st.State()
	if _, ok := findSubject(state.Subjects, in.SubjectID); !ok {
		return store.Assignment{}, fmt.Errorf("add assignment: subject %q: %w", in.SubjectID, ErrNotFound)
	}
	due := in.Due
	if due.IsZero() {
		due = s.now()
	}
	a := store.Assignment{ID: s.newID(), SubjectID: in.SubjectID, Title: in.Title, DueDate: due}
	assignments := append(state.Assignments, a)
	s.st.Update(store.Patch{Assignments: &assignments})
	return a, nil
}

func (s *Service) ToggleAssignment(id string) (store.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.st.State()

	assignments := append([]store.Assignment(nil), state.Assignments...)
	for i := range assignments {
		if assignments[i].ID == id {
			assignments[i].Completed = !assignments[i].Completed
			s.st.Update(store.Patch{Assignments: &assignments})
			return assignments[i], nil
		}
	}
	return store.Assignment{}, fmt.Errorf("toggle assignment %q: %w", id, ErrNotFound)
}

// ============================================================
// Money
// ============================================================

type NewExpense struct {
	Amount      decimal.Decimal `validate:"gte=0"`
	Category    store.Category  `validate:"category"`
	Description string          `validate:"required,max=200"`
	// Date defaults to now.
	Date time.Time
}

func (s *Service) AddExpense(in NewExpense) (store.Expense, error) {
	in.Description = strings.TrimSpace(in.Description)
	if err := check(in); err != nil {
		return store.Expense{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.st.State()
	date := in.Date
	if date.IsZero() {
		date = s.now()
	}
	e := store.Expense{
		ID:          s.newID(),
		Amount:      in.Amount,
		Category:    in.Category,
		Date:        date,
		Description: in.Description,
	}
	expenses := append([]store.Expense{e}, state.Expenses...)
	s.st.Update(store.Patch{Expenses: &expenses})
	return e, nil
}

type budgetInput struct {
	Budget decimal.Decimal `validate:"gt=0"`
}

func (s *Service) SetBudget(b decimal.Decimal) error {
	if err := check(budgetInput{Budget: b}); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.Update(store.Patch{Budget: &b})
	return nil
}

// ============================================================
// Mind
// ============================================================

type NewMood struct {
	Mood store.Mood `validate:"mood"`
	Note string     `validate:"max=2000"`
}

func (s *Service) AddMood(mood store.Mood, note string) (store.MoodEntry, error) {
	in := NewMood{Mood: mood, Note: strings.TrimSpace(note)}
	if err := check(in); err != nil {
		return store.MoodEntry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.st.State()
	now := s.now()
	if !gate.CanAddMoodEntryToday(state, now) {
		return store.MoodEntry{}, fmt.Errorf("add mood: %w", ErrUpgradeRequired)
	}
	m := store.MoodEntry{ID: s.newID(), Date: now, Mood: in.Mood, Note: in.Note}
	moods := append([]store.MoodEntry{m}, state.Moods...)
	s.st.Update(store.Patch{Moods: &moods})
	return m, nil
}

// ============================================================
// Time
// ============================================================

type NewEvent struct {
	Title string          `validate:"required,max=200"`
	Type  store.EventType `validate:"event_type"`
	Start time.Time
	// End defaults to Start plus DefaultEventLength.
	End time.Time
}

func (s *Service) AddEvent(in NewEvent) (store.ScheduleEvent, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := check(in); err != nil {
		return store.ScheduleEvent{}, err
	}
	if in.Start.IsZero() {
		return store.ScheduleEvent{}, fmt.Errorf("%w: start time is required", ErrInvalidInput)
	}
	if in.End.IsZero() {
		in.End = in.Start.Add(DefaultEventLength)
	}
	if !in.End.After(in.Start) {
		return store.ScheduleEvent{}, fmt.Errorf("%w: end must be after start", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.st.State()
	e := store.ScheduleEvent{ID: s.newID(), Title: in.Title, StartTime: in.Start, EndTime: in.End, Type: in.Type}
	schedule := append(state.Schedule, e)
	s.st.Update(store.Patch{Schedule: &schedule})
	return e, nil
}

// FocusSessionTitle names the schedule event logged for a finished focus
// countdown.
const FocusSessionTitle = "Focus session"

// LogFocusSession records a full focus countdown ending at end as a Study
// event.
func (s *Service) LogFocusSession(end time.Time) (store.ScheduleEvent, error) {
	return s.AddEvent(NewEvent{
		Title: FocusSessionTitle,
		Type:  store.EventStudy,
		Start: end.Add(-focus.FocusDuration * time.Second),
		End:   end,
	})
}

// ============================================================
// Account
// ============================================================

type nameInput struct {
	Name string `validate:"required,max=80"`
}

func (s *Service) SetName(name string) error {
	in := nameInput{Name: strings.TrimSpace(name)}
	if err := check(in); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.Update(store.Patch{Name: &in.Name})
	return nil
}

// Reset discards every record and restores the sample data, including the
// free plan.
func (s *Service) Reset() (store.UserState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.Reset()
}

// Upgrade authorizes a payment and then flips the account to premium. No
// state changes unless authorization succeeds.
func (s *Service) Upgrade(ctx context.Context) error {
	if s.st.State().IsPremium {
		return nil
	}
	if err := s.auth.Authorize(ctx); err != nil {
		return fmt.Errorf("upgrade: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	premium := gate.Upgrade(s.st.State()).IsPremium
	s.st.Update(store.Patch{IsPremium: &premium})
	log().Infow("account upgraded")
	return nil
}

func findSubject(subjects []store.Subject, id string) (store.Subject, bool) {
	for _, sub := range subjects {
		if sub.ID == id {
			return sub, true
		}
	}
	return store.Subject{}, false
}
