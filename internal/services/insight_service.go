package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"finanzas/internal/analysis"
	"finanzas/internal/cache"
	"finanzas/internal/core"
	"finanzas/internal/notify"
)

// Insights is the full analytics view over one user's snapshot.
type Insights struct {
	Comparison    analysis.MonthlyComparison
	TopCategories []analysis.CategoryAmount
	Unusual       []analysis.UnusualCategory
	CashFlow      []analysis.MonthFlow
	Notifications []core.Notification
}

// InsightConfig tunes the insight computation.
type InsightConfig struct {
	// TopCategories is the ranking size (default: 5)
	TopCategories int

	// CashFlowMonths is how many trailing months the cash-flow series
	// covers (default: 6)
	CashFlowMonths int

	// DueHorizonDays is the recurring-payment lookahead (default: 7)
	DueHorizonDays int

	// CacheTTL bounds how stale a cached result may be (default: 5m)
	CacheTTL time.Duration

	// CacheSize is the max number of users cached (default: 256)
	CacheSize int
}

// DefaultInsightConfig returns sensible defaults.
func DefaultInsightConfig() InsightConfig {
	return InsightConfig{
		TopCategories:  analysis.TopCategoryCount,
		CashFlowMonths: 6,
		DueHorizonDays: notify.DefaultDueHorizonDays,
		CacheTTL:       5 * time.Minute,
		CacheSize:      256,
	}
}

// SnapshotLoader loads one user's full financial state.
type SnapshotLoader interface {
	LoadSnapshot(ctx context.Context, userID string) (core.Snapshot, error)
}

// InsightService computes insights over snapshots, caching results per
// user for the configured TTL.
type InsightService struct {
	loader SnapshotLoader
	config InsightConfig
	cache  *cache.LRUCache[Insights]
	now    func() time.Time
}

func NewInsightService(loader SnapshotLoader, config InsightConfig) *InsightService {
	return &InsightService{
		loader: loader,
		config: config,
		cache:  cache.NewLRUCache[Insights](config.CacheSize, config.CacheTTL),
		now:    time.Now,
	}
}

// Compute returns the insights for a user, serving from cache when a
// result computed within the TTL exists.
func (s *InsightService) Compute(ctx context.Context, userID string) (Insights, error) {
	if cached, ok := s.cache.Get(userID); ok {
		slog.DebugContext(ctx, "Serving cached insights", "user_id", userID)
		return cached, nil
	}

	snap, err := s.loader.LoadSnapshot(ctx, userID)
	if err != nil {
		return Insights{}, fmt.Errorf("load snapshot for %s: %w", userID, err)
	}

	insights, err := s.ComputeFromSnapshot(ctx, snap)
	if err != nil {
		return Insights{}, err
	}

	s.cache.Set(userID, insights)
	return insights, nil
}

// ComputeFromSnapshot runs every analysis over an already loaded
// snapshot. The analyses are pure and independent, so they run
// concurrently.
func (s *InsightService) ComputeFromSnapshot(ctx context.Context, snap core.Snapshot) (Insights, error) {
	now := s.now()

	var insights Insights
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		insights.Comparison = analysis.CompareMonths(snap.Transactions, now)
		return nil
	})
	g.Go(func() error {
		insights.TopCategories = analysis.TopCategories(snap.Transactions, snap.Categories, now, s.config.TopCategories)
		return nil
	})
	g.Go(func() error {
		insights.Unusual = analysis.DetectUnusualSpending(snap.Transactions, snap.Categories, now)
		return nil
	})
	g.Go(func() error {
		insights.CashFlow = analysis.CashFlowSeries(snap.Transactions, now, s.config.CashFlowMonths)
		return nil
	})
	g.Go(func() error {
		insights.Notifications = notify.Evaluate(snap, now, s.config.DueHorizonDays)
		return nil
	})
	if err := g.Wait(); err != nil {
		return Insights{}, err
	}

	slog.DebugContext(ctx, "Computed insights",
		"user_id", snap.UserID,
		"top_categories", len(insights.TopCategories),
		"unusual", len(insights.Unusual),
		"notifications", len(insights.Notifications))

	return insights, nil
}

// Invalidate drops a user's cached insights, forcing the next Compute
// to reload. The ledger engine calls this after a committed write.
func (s *InsightService) Invalidate(userID string) {
	s.cache.Delete(userID)
}
