package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"finanzas/internal/core"
	"finanzas/internal/notify"
)

// NotifierConfig holds configuration for the notifier processor.
type NotifierConfig struct {
	// PollInterval is how often every user is re-evaluated (default: 15m)
	PollInterval time.Duration

	// DueHorizonDays is the recurring-payment lookahead (default: 7)
	DueHorizonDays int
}

// DefaultNotifierConfig returns sensible defaults.
func DefaultNotifierConfig() NotifierConfig {
	return NotifierConfig{
		PollInterval:   15 * time.Minute,
		DueHorizonDays: notify.DefaultDueHorizonDays,
	}
}

// NotifierStore is the storage surface the processor needs: user
// enumeration, snapshot loads and schedule advancement.
type NotifierStore interface {
	ListUserIDs(ctx context.Context) ([]string, error)
	SnapshotLoader
	ScheduleStore
}

// NotificationPublisher delivers one user's evaluated notifications.
type NotificationPublisher interface {
	PublishNotifications(ctx context.Context, userID string, ns []core.Notification) error
}

// NotifierProcessor periodically advances due schedules and evaluates
// notifications for every user, publishing non-empty results. A nil
// publisher skips publishing; evaluation and schedule advancement
// still run.
type NotifierProcessor struct {
	store     NotifierStore
	publisher NotificationPublisher
	config    NotifierConfig
	now       func() time.Time

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewNotifierProcessor(store NotifierStore, publisher NotificationPublisher, config NotifierConfig) *NotifierProcessor {
	return &NotifierProcessor{
		store:     store,
		publisher: publisher,
		config:    config,
		now:       time.Now,
	}
}

// Start begins the evaluation loop. Returns an error if already running.
func (p *NotifierProcessor) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("notifier processor is already running")
	}
	p.running = true
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	p.mu.Unlock()

	go p.runLoop(ctx)

	slog.InfoContext(ctx, "Notifier processor started",
		"poll_interval", p.config.PollInterval,
		"due_horizon_days", p.config.DueHorizonDays,
		"publishing", p.publisher != nil)

	return nil
}

// Stop gracefully stops the processor and waits for completion.
func (p *NotifierProcessor) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()

	close(p.stopCh)

	select {
	case <-p.doneCh:
		slog.InfoContext(ctx, "Notifier processor stopped gracefully")
	case <-ctx.Done():
		slog.WarnContext(ctx, "Notifier processor stop timed out")
		return ctx.Err()
	}

	p.mu.Lock()
	p.running = false
	p.mu.Unlock()

	return nil
}

// IsRunning returns whether the processor is currently running.
func (p *NotifierProcessor) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *NotifierProcessor) runLoop(ctx context.Context) {
	defer close(p.doneCh)

	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	// Evaluate immediately on startup.
	p.EvaluateAll(ctx)

	for {
		select {
		case <-p.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.EvaluateAll(ctx)
		}
	}
}

// EvaluateAll runs one evaluation cycle over every user. A failing
// user is logged and skipped; the cycle continues.
func (p *NotifierProcessor) EvaluateAll(ctx context.Context) {
	userIDs, err := p.store.ListUserIDs(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list users", "error", err)
		return
	}

	published := 0
	for _, userID := range userIDs {
		select {
		case <-p.stopCh:
			return
		case <-ctx.Done():
			return
		default:
		}

		if err := p.evaluateUser(ctx, userID); err != nil {
			slog.ErrorContext(ctx, "Failed to evaluate user",
				"user_id", userID, "error", err)
			continue
		}
		published++
	}

	slog.DebugContext(ctx, "Evaluation cycle complete",
		"users", len(userIDs), "evaluated", published)
}

func (p *NotifierProcessor) evaluateUser(ctx context.Context, userID string) error {
	snap, err := p.store.LoadSnapshot(ctx, userID)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	now := p.now()

	// Roll overdue schedules forward first so the dueness scan sees
	// current next dates.
	schedules, advanced, err := AdvanceDueSchedules(ctx, p.store, snap.Schedules, now)
	if err != nil {
		return fmt.Errorf("advance schedules: %w", err)
	}
	snap.Schedules = schedules
	if advanced > 0 {
		slog.InfoContext(ctx, "Advanced due schedules",
			"user_id", userID, "count", advanced)
	}

	ns := notify.Evaluate(snap, now, p.config.DueHorizonDays)
	if len(ns) == 0 {
		return nil
	}

	slog.DebugContext(ctx, "Evaluated notifications",
		"user_id", userID, "count", len(ns))

	if p.publisher == nil {
		return nil
	}
	if err := p.publisher.PublishNotifications(ctx, userID, ns); err != nil {
		return fmt.Errorf("publish notifications: %w", err)
	}
	return nil
}
