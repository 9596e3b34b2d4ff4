// Package services orchestrates the pure analytics over stored data:
// schedule advancement, insight computation and the periodic notifier.
//
// Schedule advancement uses the Strategy pattern: each frequency has an
// advancer that computes the next occurrence after a given date.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"finanzas/internal/core"
)

// OccurrenceAdvancer computes the occurrence that follows "after" for
// one frequency. The schedule's start date carries the anchor day for
// monthly and yearly frequencies.
type OccurrenceAdvancer interface {
	Next(after, start core.Date) core.Date
}

type DailyAdvancer struct{}

func (DailyAdvancer) Next(after, _ core.Date) core.Date {
	return after.AddDays(1)
}

type WeeklyAdvancer struct{}

func (WeeklyAdvancer) Next(after, _ core.Date) core.Date {
	return after.AddDays(7)
}

// MonthlyAdvancer anchors on the start date's day of month, clamping
// to the last day when the next month is shorter (Jan 31 -> Feb 28).
type MonthlyAdvancer struct{}

func (MonthlyAdvancer) Next(after, start core.Date) core.Date {
	month := core.MonthOf(after.Time).AddMonths(1)
	return clampToMonth(month, start.Day())
}

// YearlyAdvancer anchors on the start date's month and day, clamping
// Feb 29 to Feb 28 outside leap years.
type YearlyAdvancer struct{}

func (YearlyAdvancer) Next(after, start core.Date) core.Date {
	month := core.MonthKey{Year: after.Year() + 1, Month: start.Month()}
	return clampToMonth(month, start.Day())
}

func clampToMonth(k core.MonthKey, day int) core.Date {
	lastDay := k.Start().AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return core.NewDate(k.Year, int(k.Month), day)
}

var occurrenceAdvancers = map[core.Frequency]OccurrenceAdvancer{
	core.Daily:   DailyAdvancer{},
	core.Weekly:  WeeklyAdvancer{},
	core.Monthly: MonthlyAdvancer{},
	core.Yearly:  YearlyAdvancer{},
}

// GetAdvancer returns the advancer for a frequency.
func GetAdvancer(frequency core.Frequency) (OccurrenceAdvancer, error) {
	advancer, ok := occurrenceAdvancers[frequency]
	if !ok {
		return nil, fmt.Errorf("unknown frequency: %s", frequency)
	}
	return advancer, nil
}

// RegisterAdvancer registers a custom advancer for a new frequency.
func RegisterAdvancer(frequency core.Frequency, advancer OccurrenceAdvancer) {
	occurrenceAdvancers[frequency] = advancer
}

// NextOccurrence computes the occurrence following "after" for the
// schedule. The second result is false when the schedule is exhausted:
// the next occurrence would land past its end date.
func NextOccurrence(s core.RecurringSchedule, after core.Date) (core.Date, bool, error) {
	advancer, err := GetAdvancer(s.Frequency)
	if err != nil {
		return core.Date{}, false, err
	}
	next := advancer.Next(after, s.StartDate)
	if !s.EndDate.IsEmpty() && next.Time.After(s.EndDate.Time) {
		return core.Date{}, false, nil
	}
	return next, true, nil
}

// ScheduleStore persists next-occurrence updates.
type ScheduleStore interface {
	UpdateScheduleNextDate(ctx context.Context, id string, next core.Date) error
}

// AdvanceDueSchedules rolls every schedule whose next occurrence is
// today or earlier forward until it points past today, catching up
// over any missed periods, and persists the new dates. Exhausted
// schedules get their next date cleared. The returned slice carries
// the updated schedules; the count is how many were changed.
func AdvanceDueSchedules(ctx context.Context, store ScheduleStore, schedules []core.RecurringSchedule, now time.Time) ([]core.RecurringSchedule, int, error) {
	today := core.DateOf(now)
	out := make([]core.RecurringSchedule, len(schedules))
	copy(out, schedules)

	advanced := 0
	for i, s := range out {
		if s.NextDate.IsEmpty() || s.NextDate.Time.After(today.Time) {
			continue
		}

		next := s.NextDate
		for !next.IsEmpty() && !next.Time.After(today.Time) {
			candidate, ok, err := NextOccurrence(s, next)
			if err != nil {
				slog.ErrorContext(ctx, "Cannot advance schedule",
					"schedule_id", s.ID, "error", err)
				next = s.NextDate
				break
			}
			if !ok {
				next = core.Date{}
				break
			}
			next = candidate
		}
		if next == s.NextDate {
			continue
		}

		if err := store.UpdateScheduleNextDate(ctx, s.ID, next); err != nil {
			return out, advanced, fmt.Errorf("advance schedule %s: %w", s.ID, err)
		}
		out[i].NextDate = next
		advanced++

		slog.InfoContext(ctx, "Advanced recurring schedule",
			"schedule_id", s.ID,
			"description", s.Description,
			"frequency", s.Frequency,
			"next_date", formatNextDate(next))
	}
	return out, advanced, nil
}

func formatNextDate(d core.Date) string {
	if d.IsEmpty() {
		return "exhausted"
	}
	return d.Format("2006-01-02")
}
