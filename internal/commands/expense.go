package commands

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/sadopc/quadra/internal/commands/options"
	"github.com/sadopc/quadra/internal/store"
	"github.com/sadopc/quadra/internal/tracker"
)

type budgetView struct {
	Budget     string            `json:"budget"`
	Spent      string            `json:"spent"`
	Remaining  string            `json:"remaining"`
	ByCategory map[string]string `json:"byCategory,omitempty"`
}

func addExpense(topLevel *cobra.Command, r *runtime) {
	cmd := &cobra.Command{
		Use:     "expense",
		Aliases: []string{"expenses", "money"},
		Short:   "Track spending against the monthly budget.",
	}

	var category string
	on := &options.OnOptions{}
	add := &cobra.Command{
		Use:   "add <amount> <description>",
		Short: "Log an expense.",
		Example: `
quadra expense add 12.50 Lunch --category Food
quadra expense add 45 Textbooks -c Study --date=3/1
`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[0])
			if err != nil {
				return r.result(cmd, err)
			}
			cat, err := store.ParseCategory(category)
			if err != nil {
				return r.result(cmd, err)
			}
			date, err := on.GetOn(r.svc.Now())
			if err != nil {
				return r.result(cmd, err)
			}
			e, err := r.svc.AddExpense(tracker.NewExpense{
				Amount:      amount,
				Category:    cat,
				Description: strings.Join(args[1:], " "),
				Date:        date,
			})
			if err != nil {
				return r.result(cmd, err)
			}
			if r.oo.JSON {
				return r.oo.Print(cmd.OutOrStdout(), e)
			}
			left := tracker.BudgetSummary(r.svc.State()).Remaining
			printDone(cmd.OutOrStdout(), "Logged %s for %s, %s left", formatMoney(e.Amount), e.Description, formatMoney(left))
			return nil
		},
	}
	add.Flags().StringVarP(&category, "category", "c", string(store.CategoryOther),
		"One of "+categoryNames()+".")
	options.AddOnArgs(add, on)

	var byCategory bool
	ls := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List expenses, newest first, with the budget summary.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := r.svc.State()
			summary := tracker.BudgetSummary(st)
			if r.oo.JSON {
				if byCategory {
					return r.oo.Print(cmd.OutOrStdout(), newBudgetView(summary))
				}
				items := st.Expenses
				if items == nil {
					items = []store.Expense{}
				}
				return r.oo.Print(cmd.OutOrStdout(), items)
			}

			w := cmd.OutOrStdout()
			remaining := goodColor.Sprint(formatMoney(summary.Remaining))
			if summary.Remaining.IsNegative() {
				remaining = badColor.Sprint(formatMoney(summary.Remaining))
			}
			printTitle(w, "Budget")
			_, _ = fmt.Fprintf(w, "%s of %s spent, %s left\n\n",
				formatMoney(summary.Spent), formatMoney(summary.Budget), remaining)

			if byCategory {
				printTitle(w, "By category")
				if len(summary.ByCategory) == 0 {
					printNone(w)
					return nil
				}
				tbl := newTable()
				for _, c := range summary.ByCategory {
					tbl.AddRow(string(c.Category), formatMoney(c.Total))
				}
				tbl.RightAlign(1)
				_, _ = fmt.Fprintln(w, tbl)
				return nil
			}

			printTitleWithCount(w, "Expenses", len(st.Expenses))
			if len(st.Expenses) == 0 {
				printNone(w)
				return nil
			}
			tbl := newTable()
			for _, e := range st.Expenses {
				tbl.AddRow(idColor.Sprint(e.ID), e.Date.Format("Jan 02"), string(e.Category), formatMoney(e.Amount), e.Description)
			}
			tbl.RightAlign(3)
			_, _ = fmt.Fprintln(w, tbl)
			return nil
		},
	}
	ls.Flags().BoolVar(&byCategory, "by-category", false, "Show totals per category instead of each expense.")

	budget := &cobra.Command{
		Use:   "budget <amount>",
		Short: "Set the monthly budget.",
		Example: `
quadra expense budget 600
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[0])
			if err != nil {
				return r.result(cmd, err)
			}
			if err := r.svc.SetBudget(amount); err != nil {
				return r.result(cmd, err)
			}
			summary := tracker.BudgetSummary(r.svc.State())
			if r.oo.JSON {
				return r.oo.Print(cmd.OutOrStdout(), newBudgetView(summary))
			}
			printDone(cmd.OutOrStdout(), "Budget set to %s, %s left", formatMoney(amount), formatMoney(summary.Remaining))
			return nil
		},
	}

	cmd.AddCommand(add, ls, budget)
	topLevel.AddCommand(cmd)
}

func newBudgetView(b tracker.Budget) budgetView {
	v := budgetView{
		Budget:     b.Budget.StringFixed(2),
		Spent:      b.Spent.StringFixed(2),
		Remaining:  b.Remaining.StringFixed(2),
		ByCategory: map[string]string{},
	}
	for _, c := range b.ByCategory {
		v.ByCategory[string(c.Category)] = c.Total.StringFixed(2)
	}
	return v
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("amount %q is not a number: %w", s, tracker.ErrInvalidInput)
	}
	return d, nil
}

func categoryNames() string {
	names := make([]string, len(store.Categories))
	for i, c := range store.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
