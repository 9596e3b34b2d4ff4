// finanzas-insights computes and prints the current insights for one
// user: month-over-month comparison, top spending categories, unusual
// spending, cash flow and active notifications.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"finanzas/internal/config"
	"finanzas/internal/core"
	"finanzas/internal/log"
	"finanzas/internal/services"
	"finanzas/internal/storage"
)

func main() {
	_ = godotenv.Load()

	logger := log.New(log.Config{
		Level:     slog.LevelWarn,
		Component: "insights",
	})
	log.SetDefault(logger)

	userID := flag.String("user", "", "user ID to compute insights for (required)")
	flag.Parse()

	if *userID == "" {
		fmt.Fprintln(os.Stderr, "usage: finanzas-insights -user <user-id>")
		os.Exit(2)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	insightConfig := services.DefaultInsightConfig()
	insightConfig.TopCategories = cfg.TopCategories
	insightConfig.DueHorizonDays = cfg.DueHorizonDays
	insightConfig.CacheTTL = cfg.CacheTTL
	service := services.NewInsightService(repo, insightConfig)

	insights, err := service.Compute(context.Background(), *userID)
	if err != nil {
		logger.Error("Failed to compute insights", "user_id", *userID, "error", err)
		os.Exit(1)
	}

	printInsights(*userID, insights)
}

func printInsights(userID string, in services.Insights) {
	fmt.Printf("Insights for %s\n\n", userID)

	fmt.Println("Monthly comparison")
	fmt.Printf("  current:  $%s\n", in.Comparison.Current)
	fmt.Printf("  previous: $%s\n", in.Comparison.Previous)
	if in.Comparison.Previous.Cents > 0 {
		fmt.Printf("  change:   %+.1f%%\n", in.Comparison.PercentChange)
	}

	fmt.Println("\nTop spending categories")
	if len(in.TopCategories) == 0 {
		fmt.Println("  no expenses this month")
	}
	for i, c := range in.TopCategories {
		fmt.Printf("  %d. %-20s $%s\n", i+1, c.Name, c.Amount)
	}

	if len(in.Unusual) > 0 {
		fmt.Println("\nUnusual spending")
		for _, u := range in.Unusual {
			fmt.Printf("  %s is %d%% above its recent average\n", u.Name, u.PercentIncrease)
		}
	}

	fmt.Println("\nCash flow")
	for _, m := range in.CashFlow {
		net := core.Money{Cents: m.Income.Cents - m.Expense.Cents}
		fmt.Printf("  %04d-%02d  in $%s  out $%s  net $%s\n",
			m.Month.Year, int(m.Month.Month), m.Income, m.Expense, net)
	}

	if len(in.Notifications) > 0 {
		fmt.Println("\nNotifications")
		for _, n := range in.Notifications {
			fmt.Printf("  [%s] %s\n", n.Severity, n.Message)
		}
	}
}
