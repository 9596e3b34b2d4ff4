package core

import "time"

// Date is a calendar day, normalized to midnight UTC. All month
// bucketing and due-date arithmetic in the engine goes through it so
// that the same transaction never lands in two different months
// depending on the caller's time zone.
type Date struct {
	time.Time
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to its UTC calendar day.
func DateOf(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return NewDate(y, int(m), d)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// IsEmpty reports whether the date is unset (optional dates).
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

// AddDays returns the date n calendar days later.
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// MonthKey identifies one calendar month.
type MonthKey struct {
	Year  int
	Month time.Month
}

// MonthOf returns the calendar month containing t (UTC).
func MonthOf(t time.Time) MonthKey {
	u := t.UTC()
	return MonthKey{Year: u.Year(), Month: u.Month()}
}

// Prev returns the immediately preceding month, rolling the year over
// at January.
func (k MonthKey) Prev() MonthKey {
	if k.Month == time.January {
		return MonthKey{Year: k.Year - 1, Month: time.December}
	}
	return MonthKey{Year: k.Year, Month: k.Month - 1}
}

// AddMonths returns the month n months away (n may be negative).
func (k MonthKey) AddMonths(n int) MonthKey {
	t := time.Date(k.Year, k.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

// Start returns the first instant of the month (UTC midnight).
func (k MonthKey) Start() time.Time {
	return time.Date(k.Year, k.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Contains reports whether t falls inside this calendar month.
func (k MonthKey) Contains(t time.Time) bool {
	u := t.UTC()
	return u.Year() == k.Year && u.Month() == k.Month
}

// DaysUntil returns the whole number of days from "now" until the
// given date, using UTC-normalized midnights and rounding partial days
// up. A date earlier than today yields a negative count; today is 0.
func DaysUntil(target Date, now time.Time) int {
	today := DateOf(now)
	diff := target.Time.Sub(today.Time)
	days := diff / (24 * time.Hour)
	if diff%(24*time.Hour) > 0 {
		days++
	}
	return int(days)
}
