package options

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

const (
	layoutISO      = "2006-1-2"
	layoutISOShort = "1/2"
	layoutClock    = "15:04"
)

// OnOptions picks the day a command works on.
type OnOptions struct {
	OnString string
}

func AddOnArgs(cmd *cobra.Command, o *OnOptions) {
	cmd.Flags().StringVar(&o.OnString, "date", "",
		`Specify a date, example: --date="2026-3-15" or --date="3/15". Defaults to today.`)
}

// GetOn resolves the flag against now. A short date without a year means
// this year.
func (o *OnOptions) GetOn(now time.Time) (time.Time, error) {
	if o.OnString == "" {
		return now, nil
	}
	loc := now.Location()
	t, err := time.ParseInLocation(layoutISO, o.OnString, loc)
	if err != nil {
		t, err = time.ParseInLocation(layoutISOShort, o.OnString, loc)
		if err != nil {
			return time.Time{}, fmt.Errorf("date %q must look like 2026-3-15 or 3/15", o.OnString)
		}
		t = t.AddDate(now.Year(), 0, 0)
	}
	return t, nil
}

// AtOptions is a time of day plus a length, for events.
type AtOptions struct {
	OnOptions
	At       string
	Duration time.Duration
}

func AddAtArgs(cmd *cobra.Command, o *AtOptions) {
	AddOnArgs(cmd, &o.OnOptions)
	cmd.Flags().StringVar(&o.At, "time", "09:00",
		`Start time, example: --time="14:30".`)
	cmd.Flags().DurationVar(&o.Duration, "duration", time.Hour,
		`Length of the event, example: --duration=90m.`)
}

// GetStart combines the date and time flags.
func (o *AtOptions) GetStart(now time.Time) (time.Time, error) {
	day, err := o.GetOn(now)
	if err != nil {
		return time.Time{}, err
	}
	clock, err := time.Parse(layoutClock, o.At)
	if err != nil {
		return time.Time{}, fmt.Errorf("time %q must look like 14:30", o.At)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, day.Location()), nil
}
