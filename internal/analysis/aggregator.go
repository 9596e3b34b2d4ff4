// Package analysis contains the pure snapshot analytics: month-over-
// month comparison, category rankings, anomaly detection and budget
// tracking. Every function takes an explicit "now" and has no side
// effects, so callers may run them concurrently over the same snapshot.
package analysis

import (
	"sort"
	"time"

	"finanzas/internal/core"
)

// UncategorizedName is the sentinel bucket for expenses without a
// resolvable category.
const UncategorizedName = "Uncategorized"

// TopCategoryCount is the default ranking size.
const TopCategoryCount = 5

// MonthlyComparison compares the current calendar month's expense
// total against the previous month's.
type MonthlyComparison struct {
	Current  core.Money
	Previous core.Money
	// PercentChange is the relative change from previous to current.
	// Zero when the previous month had no spend; that is a defined
	// edge case, not an error.
	PercentChange float64
}

// CategoryAmount is one entry of a category ranking.
type CategoryAmount struct {
	Name   string
	Amount core.Money
}

// MonthFlow is one month of the cash-flow series.
type MonthFlow struct {
	Month   core.MonthKey
	Income  core.Money
	Expense core.Money
}

// CompareMonths sums expenses for the current and previous calendar
// months and derives the percentage change. Sums are exact cent
// additions with no intermediate rounding.
func CompareMonths(txs []core.Transaction, now time.Time) MonthlyComparison {
	current := core.MonthOf(now)
	previous := current.Prev()

	var cmp MonthlyComparison
	for _, tx := range txs {
		if tx.Type != core.Expense {
			continue
		}
		switch {
		case current.Contains(tx.Date.Time):
			cmp.Current = cmp.Current.Add(tx.Amount)
		case previous.Contains(tx.Date.Time):
			cmp.Previous = cmp.Previous.Add(tx.Amount)
		}
	}
	if cmp.Previous.Cents > 0 {
		cmp.PercentChange = float64(cmp.Current.Cents-cmp.Previous.Cents) / float64(cmp.Previous.Cents) * 100
	}
	return cmp
}

// TopCategories ranks current-month expenses by category name,
// descending, truncated to n entries. Expenses without a resolvable
// category pool under the "Uncategorized" bucket. Ties keep the order
// in which categories were first encountered.
func TopCategories(txs []core.Transaction, cats []core.Category, now time.Time, n int) []CategoryAmount {
	current := core.MonthOf(now)
	names := core.CategoryNames(cats)

	totals := make(map[string]int64)
	var order []string
	for _, tx := range txs {
		if tx.Type != core.Expense || !current.Contains(tx.Date.Time) {
			continue
		}
		name, ok := names[tx.CategoryID]
		if !ok || name == "" {
			name = UncategorizedName
		}
		if _, seen := totals[name]; !seen {
			order = append(order, name)
		}
		totals[name] += tx.Amount.Cents
	}

	ranked := make([]CategoryAmount, 0, len(order))
	for _, name := range order {
		ranked = append(ranked, CategoryAmount{Name: name, Amount: core.Money{Cents: totals[name]}})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Amount.Cents > ranked[j].Amount.Cents
	})
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// CashFlowSeries returns per-month income and expense totals for the
// `months` calendar months ending at the month of "now", oldest first.
func CashFlowSeries(txs []core.Transaction, now time.Time, months int) []MonthFlow {
	if months < 1 {
		return nil
	}
	current := core.MonthOf(now)
	series := make([]MonthFlow, months)
	index := make(map[core.MonthKey]int, months)
	for i := 0; i < months; i++ {
		key := current.AddMonths(i - months + 1)
		series[i] = MonthFlow{Month: key}
		index[key] = i
	}
	for _, tx := range txs {
		i, ok := index[core.MonthOf(tx.Date.Time)]
		if !ok {
			continue
		}
		switch tx.Type {
		case core.Income:
			series[i].Income = series[i].Income.Add(tx.Amount)
		case core.Expense:
			series[i].Expense = series[i].Expense.Add(tx.Amount)
		}
	}
	return series
}
