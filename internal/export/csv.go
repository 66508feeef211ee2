package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/quadra/internal/store"
)

var csvHeader = []string{"ID", "Date", "Category", "Amount", "Description"}

// ToCSV writes one row per expense, in the order given.
func ToCSV(expenses []store.Expense, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, e := range expenses {
		row := []string{
			e.ID,
			e.Date.Local().Format(time.RFC3339),
			string(e.Category),
			e.Amount.StringFixed(2),
			e.Description,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
