package analysis

import (
	"math"
	"sort"
	"time"

	"finanzas/internal/core"
)

// anomalyWindowMonths is the trailing baseline window. The current
// month is excluded from it.
const anomalyWindowMonths = 6

// UnusualCategory reports a category whose current-month spend exceeds
// 1.5x its historical monthly average.
type UnusualCategory struct {
	Name            string
	PercentIncrease int
}

// DetectUnusualSpending flags categories spending unusually this month.
//
// The baseline for a category is its total spend over the trailing
// six-month window divided by the number of distinct months in that
// window with at least one transaction in the category. Months with no
// activity do not depress the average. Categories with no history are
// never flagged: no baseline means nothing to be anomalous against.
//
// Results are sorted by percentage increase, descending.
func DetectUnusualSpending(txs []core.Transaction, cats []core.Category, now time.Time) []UnusualCategory {
	currentMonth := core.MonthOf(now)
	windowEnd := currentMonth.Start()
	windowStart := currentMonth.AddMonths(-anomalyWindowMonths).Start()
	names := core.CategoryNames(cats)

	type history struct {
		total  int64
		months map[core.MonthKey]struct{}
	}
	baseline := make(map[string]*history)
	currentSpend := make(map[string]int64)
	var order []string

	for _, tx := range txs {
		if tx.Type != core.Expense {
			continue
		}
		name, ok := names[tx.CategoryID]
		if !ok || name == "" {
			name = UncategorizedName
		}
		when := tx.Date.Time
		switch {
		case currentMonth.Contains(when):
			if _, seen := currentSpend[name]; !seen {
				order = append(order, name)
			}
			currentSpend[name] += tx.Amount.Cents
		case !when.Before(windowStart) && when.Before(windowEnd):
			h := baseline[name]
			if h == nil {
				h = &history{months: make(map[core.MonthKey]struct{})}
				baseline[name] = h
			}
			h.total += tx.Amount.Cents
			h.months[core.MonthOf(when)] = struct{}{}
		}
	}

	var unusual []UnusualCategory
	for _, name := range order {
		h := baseline[name]
		if h == nil || len(h.months) == 0 || h.total <= 0 {
			continue
		}
		current := currentSpend[name]
		months := int64(len(h.months))
		// current > 1.5 * total/months, kept in integer arithmetic so
		// the threshold itself never suffers float drift.
		if 2*current*months <= 3*h.total {
			continue
		}
		increase := float64(current*months-h.total) / float64(h.total) * 100
		unusual = append(unusual, UnusualCategory{
			Name:            name,
			PercentIncrease: int(math.Round(increase)),
		})
	}

	sort.SliceStable(unusual, func(i, j int) bool {
		return unusual[i].PercentIncrease > unusual[j].PercentIncrease
	})
	return unusual
}
