package store

import (
	"time"

	"github.com/shopspring/decimal"
)

// SchemaVersion is written into every persisted document.
const SchemaVersion = 1

type Subject struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Color ColorTag `json:"color"`
}

type Assignment struct {
	ID        string    `json:"id"`
	SubjectID string    `json:"subjectId"`
	Title     string    `json:"title"`
	DueDate   time.Time `json:"dueDate"`
	Completed bool      `json:"completed"`
}

type Expense struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Category    Category        `json:"category"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
}

type MoodEntry struct {
	ID   string    `json:"id"`
	Date time.Time `json:"date"`
	Mood Mood      `json:"mood"`
	Note string    `json:"note"`
}

type ScheduleEvent struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Type      EventType `json:"type"`
}

// UserState is the aggregate root. Every record lives in exactly one of its
// collections.
type UserState struct {
	Version     int             `json:"version"`
	IsPremium   bool            `json:"isPremium"`
	Name        string          `json:"name"`
	Budget      decimal.Decimal `json:"budget"`
	Subjects    []Subject       `json:"subjects"`
	Assignments []Assignment    `json:"assignments"`
	Expenses    []Expense       `json:"expenses"`
	Moods       []MoodEntry     `json:"moods"`
	Schedule    []ScheduleEvent `json:"schedule"`
}

// Clone returns a copy that shares no slices with s.
func (s UserState) Clone() UserState {
	c := s
	c.Subjects = append([]Subject(nil), s.Subjects...)
	c.Assignments = append([]Assignment(nil), s.Assignments...)
	c.Expenses = append([]Expense(nil), s.Expenses...)
	c.Moods = append([]MoodEntry(nil), s.Moods...)
	c.Schedule = append([]ScheduleEvent(nil), s.Schedule...)
	return c
}

// Patch is a shallow partial update. Every non-nil field replaces the
// corresponding key of the current state wholesale; collections are never
// merged element-wise.
type Patch struct {
	IsPremium   *bool
	Name        *string
	Budget      *decimal.Decimal
	Subjects    *[]Subject
	Assignments *[]Assignment
	Expenses    *[]Expense
	Moods       *[]MoodEntry
	Schedule    *[]ScheduleEvent
}

// Apply merges p into s and returns the result.
func (p Patch) Apply(s UserState) UserState {
	if p.IsPremium != nil {
		s.IsPremium = *p.IsPremium
	}
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Budget != nil {
		s.Budget = *p.Budget
	}
	if p.Subjects != nil {
		s.Subjects = *p.Subjects
	}
	if p.Assignments != nil {
		s.Assignments = *p.Assignments
	}
	if p.Expenses != nil {
		s.Expenses = *p.Expenses
	}
	if p.Moods != nil {
		s.Moods = *p.Moods
	}
	if p.Schedule != nil {
		s.Schedule = *p.Schedule
	}
	return s
}
