package store

import (
	"time"

	"github.com/shopspring/decimal"
)

// Seed returns the sample dataset used when nothing has been persisted yet.
// Dates are anchored to now so the sample always looks current.
func Seed(now time.Time) UserState {
	at := func(h, m int) time.Time {
		return time.Date(now.Year(), now.Month(), now.Day(), h, m, 0, 0, now.Location())
	}
	return UserState{
		Version:   SchemaVersion,
		IsPremium: false,
		Name:      "Student",
		Budget:    decimal.NewFromInt(500),
		Subjects: []Subject{
			{ID: "1", Name: "Mathematics", Color: ColorBlue},
			{ID: "2", Name: "History", Color: ColorOrange},
		},
		Assignments: []Assignment{
			{ID: "1", SubjectID: "1", Title: "Calculus Quiz", DueDate: now},
			{ID: "2", SubjectID: "2", Title: "Essay Draft", DueDate: now.Add(24 * time.Hour)},
		},
		Expenses: []Expense{
			{ID: "1", Amount: decimal.RequireFromString("12.50"), Category: CategoryFood, Date: now, Description: "Lunch"},
			{ID: "2", Amount: decimal.RequireFromString("45.00"), Category: CategoryStudy, Date: now, Description: "Textbooks"},
		},
		Moods: []MoodEntry{},
		Schedule: []ScheduleEvent{
			{ID: "1", Title: "Math Lecture", StartTime: at(9, 0), EndTime: at(10, 30), Type: EventClass},
			{ID: "2", Title: "Study Session", StartTime: at(14, 0), EndTime: at(16, 0), Type: EventStudy},
		},
	}
}
