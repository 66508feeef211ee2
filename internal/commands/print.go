package commands

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/shopspring/decimal"
)

var (
	titleColor = color.New(color.Bold, color.Underline)
	boldColor  = color.New(color.Bold)
	faintColor = color.New(color.Faint)
	goodColor  = color.New(color.FgGreen)
	badColor   = color.New(color.FgRed)
	idColor    = color.New(color.FgHiYellow, color.Faint)
)

func printTitle(w io.Writer, title string) {
	_, _ = titleColor.Fprintln(w, title)
}

func printTitleWithCount(w io.Writer, title string, count int) {
	_, _ = titleColor.Fprint(w, title)
	switch count {
	case 1:
		_, _ = faintColor.Fprintf(w, " - %d entry\n", count)
	default:
		_, _ = faintColor.Fprintf(w, " - %d entries\n", count)
	}
}

func printNone(w io.Writer) {
	_, _ = color.New(color.Faint, color.Italic).Fprint(w, " none\n")
}

func printDone(w io.Writer, format string, a ...interface{}) {
	_, _ = goodColor.Fprint(w, "✓ ")
	_, _ = fmt.Fprintf(w, format+"\n", a...)
}

func newTable() *uitable.Table {
	tbl := uitable.New()
	tbl.Separator = "  "
	return tbl
}

func formatMoney(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-$" + d.Abs().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}
