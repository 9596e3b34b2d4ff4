package notify

import (
	"strings"
	"testing"
	"time"

	"finanzas/internal/core"
)

var testNow = time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC)

func TestCompletedGoals(t *testing.T) {
	goals := []core.SavingsGoal{
		{ID: "g1", Name: "Vacation", Target: core.Money{Cents: 100000}, Current: core.Money{Cents: 110000}},
		{ID: "g2", Name: "Laptop", Target: core.Money{Cents: 100000}, Current: core.Money{Cents: 100000}},
		{ID: "g3", Name: "Car", Target: core.Money{Cents: 100000}, Current: core.Money{Cents: 99999}},
	}
	ns := CompletedGoals(goals)
	if len(ns) != 2 {
		t.Fatalf("expected 2 notifications, got %+v", ns)
	}
	if ns[0].ID != "goal-g1" || ns[0].Severity != core.SeveritySuccess {
		t.Fatalf("unexpected first notification: %+v", ns[0])
	}
	if !strings.Contains(ns[0].Message, "Vacation") {
		t.Fatalf("message should name the goal: %q", ns[0].Message)
	}
}

func TestCompletedGoalsReEmitUntilStateChanges(t *testing.T) {
	goals := []core.SavingsGoal{
		{ID: "g1", Name: "Vacation", Target: core.Money{Cents: 100}, Current: core.Money{Cents: 100}},
	}
	first := CompletedGoals(goals)
	second := CompletedGoals(goals)
	if len(first) != 1 || len(second) != 1 || first[0] != second[0] {
		t.Fatalf("re-evaluation must be idempotent: %+v vs %+v", first, second)
	}
}

func TestUpcomingSchedulesPhrasing(t *testing.T) {
	schedules := []core.RecurringSchedule{
		{ID: "s0", Description: "rent", NextDate: core.NewDate(2025, 6, 10)},
		{ID: "s1", Description: "gym", NextDate: core.NewDate(2025, 6, 11)},
		{ID: "s5", Description: "internet", NextDate: core.NewDate(2025, 6, 15)},
	}
	ns := UpcomingSchedules(schedules, testNow, DefaultDueHorizonDays)
	if len(ns) != 3 {
		t.Fatalf("expected 3 notifications, got %+v", ns)
	}
	wants := []string{"due today", "due tomorrow", "due in 5 days"}
	for i, want := range wants {
		if !strings.Contains(ns[i].Message, want) {
			t.Fatalf("notification %d: expected %q in %q", i, want, ns[i].Message)
		}
		if ns[i].Severity != core.SeverityAlert {
			t.Fatalf("notification %d: expected alert severity", i)
		}
	}
}

func TestUpcomingSchedulesHorizonBoundary(t *testing.T) {
	schedules := []core.RecurringSchedule{
		{ID: "in", Description: "at horizon", NextDate: core.NewDate(2025, 6, 17)},  // today+7
		{ID: "out", Description: "past horizon", NextDate: core.NewDate(2025, 6, 18)}, // today+8
		{ID: "late", Description: "overdue", NextDate: core.NewDate(2025, 6, 9)},      // yesterday
	}
	ns := UpcomingSchedules(schedules, testNow, DefaultDueHorizonDays)
	if len(ns) != 1 || ns[0].ID != "recurring-in" {
		t.Fatalf("horizon must be inclusive at 7 and exclusive beyond, got %+v", ns)
	}
}

func TestExceededBudgetNotification(t *testing.T) {
	cats := []core.Category{
		{ID: "c1", Name: "Food", Budget: core.Money{Cents: 10000}},
	}
	txs := []core.Transaction{
		{Type: core.Expense, CategoryID: "c1", Amount: core.Money{Cents: 15050}, Date: core.NewDate(2025, 6, 5)},
	}
	ns := ExceededBudgets(cats, txs, testNow)
	if len(ns) != 1 {
		t.Fatalf("expected 1 notification, got %+v", ns)
	}
	if ns[0].ID != "budget-c1" {
		t.Fatalf("unexpected id %q", ns[0].ID)
	}
	if !strings.Contains(ns[0].Message, "150.50") || !strings.Contains(ns[0].Message, "100.00") {
		t.Fatalf("message should interpolate spent and limit: %q", ns[0].Message)
	}
}

func TestEvaluateMergesSourcesInOrder(t *testing.T) {
	snap := core.Snapshot{
		Goals: []core.SavingsGoal{
			{ID: "g1", Name: "Vacation", Target: core.Money{Cents: 100}, Current: core.Money{Cents: 100}},
		},
		Categories: []core.Category{
			{ID: "c1", Name: "Food", Budget: core.Money{Cents: 100}},
		},
		Transactions: []core.Transaction{
			{Type: core.Expense, CategoryID: "c1", Amount: core.Money{Cents: 200}, Date: core.NewDate(2025, 6, 5)},
		},
		Schedules: []core.RecurringSchedule{
			{ID: "s1", Description: "rent", NextDate: core.NewDate(2025, 6, 10)},
		},
	}
	ns := Evaluate(snap, testNow, DefaultDueHorizonDays)
	if len(ns) != 3 {
		t.Fatalf("expected 3 notifications, got %+v", ns)
	}
	if ns[0].ID != "goal-g1" || ns[1].ID != "budget-c1" || ns[2].ID != "recurring-s1" {
		t.Fatalf("unexpected order: %s, %s, %s", ns[0].ID, ns[1].ID, ns[2].ID)
	}
}
