package core

// Progress returns the goal's completion percentage clamped to
// [0, 100]. A zero or negative target yields 0 rather than an error.
func (g SavingsGoal) Progress() float64 {
	return progressPercent(g.Current, g.Target)
}

// Completed reports whether the goal has reached its target. Deposits
// are not clamped at the target, so Current may exceed it; the goal is
// simply reported complete.
func (g SavingsGoal) Completed() bool {
	return g.Current.Cents >= g.Target.Cents
}

// Progress returns the repaid percentage clamped to [0, 100].
func (d Debt) Progress() float64 {
	return progressPercent(d.Paid, d.Total)
}

// Settled reports whether every installment has been paid.
func (d Debt) Settled() bool {
	return d.InstallmentsPaid >= d.InstallmentsTotal
}

// NominalInstallment is the per-installment share of the total,
// truncated to whole cents. It pre-fills payment amounts; the engine
// never validates an actual payment against it.
func (d Debt) NominalInstallment() Money {
	if d.InstallmentsTotal < 1 {
		return Money{}
	}
	return Money{Cents: d.Total.Cents / int64(d.InstallmentsTotal)}
}

func progressPercent(part, whole Money) float64 {
	if whole.Cents <= 0 {
		return 0
	}
	pct := float64(part.Cents) / float64(whole.Cents) * 100
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}
