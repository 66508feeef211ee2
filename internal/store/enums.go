package store

import (
	"fmt"
	"strings"
)

type Category string

const (
	CategoryFood      Category = "Food"
	CategoryTransport Category = "Transport"
	CategoryStudy     Category = "Study"
	CategoryPersonal  Category = "Personal"
	CategoryOther     Category = "Other"
)

// Categories lists expense categories in display order.
var Categories = []Category{CategoryFood, CategoryTransport, CategoryStudy, CategoryPersonal, CategoryOther}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// ParseCategory matches s case-insensitively against the known categories.
func ParseCategory(s string) (Category, error) {
	for _, v := range Categories {
		if strings.EqualFold(strings.TrimSpace(s), string(v)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

type Mood string

const (
	MoodHappy    Mood = "Happy"
	MoodCalm     Mood = "Calm"
	MoodNeutral  Mood = "Neutral"
	MoodStressed Mood = "Stressed"
	MoodSad      Mood = "Sad"
)

var Moods = []Mood{MoodHappy, MoodCalm, MoodNeutral, MoodStressed, MoodSad}

func (m Mood) Valid() bool {
	for _, v := range Moods {
		if m == v {
			return true
		}
	}
	return false
}

func ParseMood(s string) (Mood, error) {
	for _, v := range Moods {
		if strings.EqualFold(strings.TrimSpace(s), string(v)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown mood %q", s)
}

// Emoji returns the face shown next to a mood.
func (m Mood) Emoji() string {
	switch m {
	case MoodHappy:
		return "😊"
	case MoodCalm:
		return "😌"
	case MoodNeutral:
		return "😐"
	case MoodStressed:
		return "😫"
	case MoodSad:
		return "😢"
	}
	return "·"
}

type EventType string

const (
	EventClass    EventType = "Class"
	EventStudy    EventType = "Study"
	EventPersonal EventType = "Personal"
	EventExam     EventType = "Exam"
)

var EventTypes = []EventType{EventClass, EventStudy, EventPersonal, EventExam}

func (t EventType) Valid() bool {
	for _, v := range EventTypes {
		if t == v {
			return true
		}
	}
	return false
}

func ParseEventType(s string) (EventType, error) {
	for _, v := range EventTypes {
		if strings.EqualFold(strings.TrimSpace(s), string(v)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown event type %q", s)
}

// ColorTag is the cosmetic tag attached to a subject.
type ColorTag string

const (
	ColorBlue   ColorTag = "blue"
	ColorGreen  ColorTag = "green"
	ColorPurple ColorTag = "purple"
	ColorOrange ColorTag = "orange"
	ColorPink   ColorTag = "pink"
)

// Palette is the fixed set of subject colors.
var Palette = []ColorTag{ColorBlue, ColorGreen, ColorPurple, ColorOrange, ColorPink}

// Hex returns a terminal-friendly color for the tag.
func (c ColorTag) Hex() string {
	switch c {
	case ColorBlue:
		return "#7AA2F7"
	case ColorGreen:
		return "#2ECC71"
	case ColorPurple:
		return "#6C63FF"
	case ColorOrange:
		return "#F39C12"
	case ColorPink:
		return "#FF6B9D"
	}
	return "#666666"
}
