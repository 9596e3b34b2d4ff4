package analysis

import (
	"testing"
	"time"

	"finanzas/internal/core"
)

func TestDetectUnusualSpendingScenario(t *testing.T) {
	// "Comida" spent 100 in January and 200 in February, nothing else
	// in the window. Current month (June) spend is 500:
	// average = 300/2 = 150, increase = round((500-150)/150*100) = 233.
	cats := []core.Category{{ID: "c1", Name: "Comida"}}
	txs := []core.Transaction{
		expense("c1", 10000, core.NewDate(2025, 1, 10)),
		expense("c1", 20000, core.NewDate(2025, 2, 10)),
		expense("c1", 50000, core.NewDate(2025, 6, 10)),
	}
	got := DetectUnusualSpending(txs, cats, testNow)
	if len(got) != 1 {
		t.Fatalf("expected one flagged category, got %+v", got)
	}
	if got[0].Name != "Comida" || got[0].PercentIncrease != 233 {
		t.Fatalf("expected Comida +233%%, got %+v", got[0])
	}
}

func TestAnomalyAverageUsesActiveMonthsOnly(t *testing.T) {
	// One historical month with 100 spend: average is 100, never 100/6.
	// Current spend of 160 exceeds 1.5x only if the divisor is right.
	cats := []core.Category{{ID: "c1", Name: "Food"}}
	txs := []core.Transaction{
		expense("c1", 10000, core.NewDate(2025, 3, 5)),
		expense("c1", 16000, core.NewDate(2025, 6, 5)),
	}
	got := DetectUnusualSpending(txs, cats, testNow)
	if len(got) != 1 {
		t.Fatalf("expected a flag with single-month baseline, got %+v", got)
	}
	if got[0].PercentIncrease != 60 {
		t.Fatalf("expected +60%%, got %d", got[0].PercentIncrease)
	}
}

func TestAnomalyThresholdIsStrict(t *testing.T) {
	// Exactly 1.5x the average must not be flagged.
	cats := []core.Category{{ID: "c1", Name: "Food"}}
	txs := []core.Transaction{
		expense("c1", 10000, core.NewDate(2025, 3, 5)),
		expense("c1", 15000, core.NewDate(2025, 6, 5)),
	}
	if got := DetectUnusualSpending(txs, cats, testNow); len(got) != 0 {
		t.Fatalf("1.5x exactly should not flag, got %+v", got)
	}
}

func TestAnomalyNewCategoryNeverFlagged(t *testing.T) {
	cats := []core.Category{{ID: "c1", Name: "Brand New"}}
	txs := []core.Transaction{
		expense("c1", 999999, core.NewDate(2025, 6, 5)),
	}
	if got := DetectUnusualSpending(txs, cats, testNow); len(got) != 0 {
		t.Fatalf("category without baseline must never be flagged, got %+v", got)
	}
}

func TestAnomalyWindowExcludesCurrentMonthAndOlderHistory(t *testing.T) {
	cats := []core.Category{{ID: "c1", Name: "Food"}}
	txs := []core.Transaction{
		// Before the window start (2024-12-01 for a June 2025 "now").
		expense("c1", 100, core.NewDate(2024, 11, 30)),
		// In-window activity.
		expense("c1", 10000, core.NewDate(2025, 4, 1)),
		// Current month: not part of the baseline.
		expense("c1", 16000, core.NewDate(2025, 6, 1)),
	}
	got := DetectUnusualSpending(txs, cats, testNow)
	// Baseline must be 10000 over one month, so 16000 flags at +60%.
	if len(got) != 1 || got[0].PercentIncrease != 60 {
		t.Fatalf("window boundaries wrong: %+v", got)
	}
}

func TestAnomalySortedByIncreaseDescending(t *testing.T) {
	cats := []core.Category{
		{ID: "c1", Name: "Food"},
		{ID: "c2", Name: "Travel"},
	}
	txs := []core.Transaction{
		expense("c1", 10000, core.NewDate(2025, 5, 1)),
		expense("c1", 20000, core.NewDate(2025, 6, 1)), // +100%
		expense("c2", 10000, core.NewDate(2025, 5, 1)),
		expense("c2", 40000, core.NewDate(2025, 6, 1)), // +300%
	}
	got := DetectUnusualSpending(txs, cats, testNow)
	if len(got) != 2 || got[0].Name != "Travel" || got[1].Name != "Food" {
		t.Fatalf("expected Travel before Food, got %+v", got)
	}
}

func TestAnomalyUncategorizedBucket(t *testing.T) {
	txs := []core.Transaction{
		expense("", 10000, core.NewDate(2025, 5, 1)),
		expense("", 20000, core.NewDate(2025, 6, 1)),
	}
	got := DetectUnusualSpending(txs, nil, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC))
	if len(got) != 1 || got[0].Name != UncategorizedName {
		t.Fatalf("uncategorized spend should pool under the sentinel, got %+v", got)
	}
}
