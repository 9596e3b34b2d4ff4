package analysis

import (
	"time"

	"finanzas/internal/core"
)

// ExceededBudget reports a budget-tracked category whose current-month
// spend strictly exceeds its configured limit.
type ExceededBudget struct {
	Category core.Category
	Spent    core.Money
}

// ExceededBudgets checks every budget-tracked category against its
// current-month spend. Spend attribution is by category identity, not
// name. Categories without a positive limit are silently excluded;
// that is intentional, not an error.
func ExceededBudgets(cats []core.Category, txs []core.Transaction, now time.Time) []ExceededBudget {
	tracked := make([]core.Category, 0, len(cats))
	for _, c := range cats {
		if c.Budget.Cents > 0 {
			tracked = append(tracked, c)
		}
	}
	if len(tracked) == 0 {
		return nil
	}

	current := core.MonthOf(now)
	spentByID := make(map[string]int64)
	for _, tx := range txs {
		if tx.Type != core.Expense || tx.CategoryID == "" {
			continue
		}
		if !current.Contains(tx.Date.Time) {
			continue
		}
		spentByID[tx.CategoryID] += tx.Amount.Cents
	}

	var exceeded []ExceededBudget
	for _, c := range tracked {
		spent := spentByID[c.ID]
		if spent > c.Budget.Cents {
			exceeded = append(exceeded, ExceededBudget{
				Category: c,
				Spent:    core.Money{Cents: spent},
			})
		}
	}
	return exceeded
}
