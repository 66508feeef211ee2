// Package export writes expenses as CSV and the full document as JSON.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/sadopc/quadra/internal/store"
)

const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// DefaultName returns e.g. quadra-expenses-20260315.csv.
func DefaultName(format string, now time.Time) string {
	kind := "expenses"
	if format == FormatJSON {
		kind = "backup"
	}
	return fmt.Sprintf("quadra-%s-%s.%s", kind, now.Format("20060102"), format)
}

// Write exports state in format to path.
func Write(format string, state store.UserState, path string) error {
	switch strings.ToLower(format) {
	case FormatCSV:
		return ToCSV(state.Expenses, path)
	case FormatJSON:
		return ToJSON(state, path)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}
