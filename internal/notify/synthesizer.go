// Package notify derives user-facing notifications from a snapshot:
// completed savings goals, exceeded budgets and recurring payments due
// soon. Notifications are recomputed on every evaluation pass and never
// persisted; IDs are deterministic per source entity so repeated cycles
// emit identical results until the underlying state changes.
package notify

import (
	"fmt"
	"time"

	"finanzas/internal/analysis"
	"finanzas/internal/core"
)

// DefaultDueHorizonDays is how far ahead the recurring scanner looks.
// Day 0 means "due today" and the horizon is inclusive.
const DefaultDueHorizonDays = 7

// CompletedGoals emits one success notification per goal whose current
// amount has reached its target. A goal corrected back under target
// simply stops emitting; there is no "already notified" state.
func CompletedGoals(goals []core.SavingsGoal) []core.Notification {
	var ns []core.Notification
	for _, g := range goals {
		if !g.Completed() {
			continue
		}
		ns = append(ns, core.Notification{
			ID:       "goal-" + g.ID,
			Message:  fmt.Sprintf("Congratulations! You reached your savings goal %q.", g.Name),
			Severity: core.SeveritySuccess,
		})
	}
	return ns
}

// UpcomingSchedules emits an alert for every schedule whose next
// occurrence falls within the horizon, inclusive at both ends. Days
// are counted between UTC-normalized midnights.
func UpcomingSchedules(schedules []core.RecurringSchedule, now time.Time, horizonDays int) []core.Notification {
	var ns []core.Notification
	for _, s := range schedules {
		if s.NextDate.IsEmpty() {
			continue
		}
		days := core.DaysUntil(s.NextDate, now)
		if days < 0 || days > horizonDays {
			continue
		}
		var when string
		switch days {
		case 0:
			when = "due today"
		case 1:
			when = "due tomorrow"
		default:
			when = fmt.Sprintf("due in %d days", days)
		}
		ns = append(ns, core.Notification{
			ID:       "recurring-" + s.ID,
			Message:  fmt.Sprintf("Reminder: the payment for %q is %s.", s.Description, when),
			Severity: core.SeverityAlert,
		})
	}
	return ns
}

// ExceededBudgets emits an alert per budget-tracked category whose
// current-month spend strictly exceeds its limit.
func ExceededBudgets(cats []core.Category, txs []core.Transaction, now time.Time) []core.Notification {
	overruns := analysis.ExceededBudgets(cats, txs, now)
	ns := make([]core.Notification, 0, len(overruns))
	for _, o := range overruns {
		ns = append(ns, core.Notification{
			ID: "budget-" + o.Category.ID,
			Message: fmt.Sprintf("You exceeded your %q budget this month (spent: $%s / limit: $%s).",
				o.Category.Name, o.Spent, o.Category.Budget),
			Severity: core.SeverityAlert,
		})
	}
	return ns
}

// Evaluate merges all notification sources for one snapshot: completed
// goals, then budget overruns, then upcoming recurring payments. Each
// source namespaces its IDs, so no cross-source de-duplication is
// needed.
func Evaluate(snap core.Snapshot, now time.Time, horizonDays int) []core.Notification {
	var ns []core.Notification
	ns = append(ns, CompletedGoals(snap.Goals)...)
	ns = append(ns, ExceededBudgets(snap.Categories, snap.Transactions, now)...)
	ns = append(ns, UpcomingSchedules(snap.Schedules, now, horizonDays)...)
	return ns
}
