package analysis

import (
	"testing"
	"time"

	"finanzas/internal/core"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func expense(category string, cents int64, date core.Date) core.Transaction {
	return core.Transaction{
		Type:       core.Expense,
		CategoryID: category,
		Amount:     core.Money{Cents: cents},
		Date:       date,
	}
}

func income(cents int64, date core.Date) core.Transaction {
	return core.Transaction{
		Type:   core.Income,
		Amount: core.Money{Cents: cents},
		Date:   date,
	}
}

func TestCompareMonths(t *testing.T) {
	txs := []core.Transaction{
		expense("c1", 10000, core.NewDate(2025, 6, 1)),
		expense("c1", 5000, core.NewDate(2025, 6, 20)),
		expense("c1", 10000, core.NewDate(2025, 5, 10)),
		expense("c1", 9999, core.NewDate(2025, 4, 10)), // outside both months
		income(99999, core.NewDate(2025, 6, 5)),        // income never counts
	}
	cmp := CompareMonths(txs, testNow)
	if cmp.Current.Cents != 15000 {
		t.Fatalf("current: expected 15000, got %d", cmp.Current.Cents)
	}
	if cmp.Previous.Cents != 10000 {
		t.Fatalf("previous: expected 10000, got %d", cmp.Previous.Cents)
	}
	if cmp.PercentChange != 50 {
		t.Fatalf("percent change: expected 50, got %v", cmp.PercentChange)
	}
}

func TestCompareMonthsZeroPrevious(t *testing.T) {
	txs := []core.Transaction{
		expense("c1", 10000, core.NewDate(2025, 6, 1)),
	}
	cmp := CompareMonths(txs, testNow)
	if cmp.PercentChange != 0 {
		t.Fatalf("zero previous month must yield 0%% change, got %v", cmp.PercentChange)
	}
}

func TestCompareMonthsYearRollover(t *testing.T) {
	january := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	txs := []core.Transaction{
		expense("c1", 2000, core.NewDate(2025, 1, 5)),
		expense("c1", 1000, core.NewDate(2024, 12, 28)),
	}
	cmp := CompareMonths(txs, january)
	if cmp.Previous.Cents != 1000 {
		t.Fatalf("December of previous year should count, got %d", cmp.Previous.Cents)
	}
	if cmp.PercentChange != 100 {
		t.Fatalf("expected 100%%, got %v", cmp.PercentChange)
	}
}

func TestTopCategories(t *testing.T) {
	cats := []core.Category{
		{ID: "c1", Name: "Food"},
		{ID: "c2", Name: "Transport"},
		{ID: "c3", Name: "Rent"},
	}
	txs := []core.Transaction{
		expense("c2", 3000, core.NewDate(2025, 6, 2)),
		expense("c1", 5000, core.NewDate(2025, 6, 3)),
		expense("c1", 2000, core.NewDate(2025, 6, 4)),
		expense("c3", 90000, core.NewDate(2025, 6, 5)),
		expense("", 1500, core.NewDate(2025, 6, 6)),      // no category
		expense("ghost", 500, core.NewDate(2025, 6, 7)),  // unknown id
		expense("c1", 77777, core.NewDate(2025, 5, 20)),  // previous month
	}
	got := TopCategories(txs, cats, testNow, 5)
	want := []CategoryAmount{
		{Name: "Rent", Amount: core.Money{Cents: 90000}},
		{Name: "Food", Amount: core.Money{Cents: 7000}},
		{Name: "Transport", Amount: core.Money{Cents: 3000}},
		{Name: UncategorizedName, Amount: core.Money{Cents: 2000}},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entry %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestTopCategoriesTiesKeepFirstEncounter(t *testing.T) {
	cats := []core.Category{
		{ID: "c1", Name: "Food"},
		{ID: "c2", Name: "Transport"},
	}
	txs := []core.Transaction{
		expense("c2", 1000, core.NewDate(2025, 6, 1)),
		expense("c1", 1000, core.NewDate(2025, 6, 2)),
	}
	got := TopCategories(txs, cats, testNow, 5)
	if got[0].Name != "Transport" || got[1].Name != "Food" {
		t.Fatalf("tie must keep first-encounter order, got %+v", got)
	}
}

func TestTopCategoriesSumNeverExceedsMonthTotal(t *testing.T) {
	cats := []core.Category{
		{ID: "c1", Name: "A"}, {ID: "c2", Name: "B"}, {ID: "c3", Name: "C"},
		{ID: "c4", Name: "D"}, {ID: "c5", Name: "E"}, {ID: "c6", Name: "F"},
	}
	var txs []core.Transaction
	for i, c := range cats {
		txs = append(txs, expense(c.ID, int64(1000*(i+1)), core.NewDate(2025, 6, 10)))
	}
	total := CompareMonths(txs, testNow).Current.Cents
	var topSum int64
	for _, e := range TopCategories(txs, cats, testNow, 5) {
		topSum += e.Amount.Cents
	}
	if topSum > total {
		t.Fatalf("top-5 sum %d exceeds month total %d", topSum, total)
	}
	if topSum == total {
		t.Fatalf("with 6 categories the truncated sum must be strictly below the total")
	}
}

func TestCashFlowSeries(t *testing.T) {
	txs := []core.Transaction{
		income(10000, core.NewDate(2025, 5, 1)),
		expense("c1", 4000, core.NewDate(2025, 5, 2)),
		expense("c1", 6000, core.NewDate(2025, 6, 2)),
	}
	series := CashFlowSeries(txs, testNow, 3)
	if len(series) != 3 {
		t.Fatalf("expected 3 months, got %d", len(series))
	}
	if series[0].Month != (core.MonthKey{Year: 2025, Month: time.April}) {
		t.Fatalf("series must start at the oldest month, got %v", series[0].Month)
	}
	if series[1].Income.Cents != 10000 || series[1].Expense.Cents != 4000 {
		t.Fatalf("May flow wrong: %+v", series[1])
	}
	if series[2].Expense.Cents != 6000 {
		t.Fatalf("June flow wrong: %+v", series[2])
	}
}
