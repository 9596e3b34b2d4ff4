package core

import (
	"errors"
	"strings"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

const (
	SeverityAlert   Severity = "alert"
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
)

type (
	TransactionType string
	Frequency       string
	Severity        string

	// Account holds money. Its current balance is never stored: it is
	// derived from the initial balance plus the transaction history.
	Account struct {
		ID             string
		UserID         string
		Name           string
		InitialBalance Money
	}

	// Category labels expenses. Budget is an optional monthly limit;
	// zero or negative means the category is not budget-tracked. A
	// category with an empty UserID is shared across all users.
	Category struct {
		ID     string
		UserID string
		Name   string
		Budget Money
	}

	// Transaction is a single signed ledger entry. Amount is strictly
	// positive; the direction is carried by Type.
	Transaction struct {
		ID            string
		UserID        string
		AccountID     string
		CategoryID    string // optional for income, required for expenses
		Type          TransactionType
		Amount        Money
		Description   string
		Date          Date
		PaymentMethod string
	}

	// SavingsGoal accumulates deposits toward a target amount.
	// Completion is derived (Current >= Target), never stored.
	SavingsGoal struct {
		ID       string
		UserID   string
		Name     string
		Target   Money
		Current  Money
		Deadline Date // optional
	}

	// Debt is an installment obligation. Paid and InstallmentsPaid only
	// advance together through the ledger engine's payment operation.
	Debt struct {
		ID                string
		UserID            string
		Description       string
		Total             Money
		Paid              Money
		InstallmentsTotal int
		InstallmentsPaid  int
		Category          string
	}

	// RecurringSchedule describes a repeating obligation. NextDate is
	// only used for due-date notification; materializing the actual
	// transaction is an external responsibility.
	RecurringSchedule struct {
		ID          string
		UserID      string
		Description string
		Amount      Money
		Type        TransactionType
		AccountID   string
		CategoryID  string
		Frequency   Frequency
		StartDate   Date
		EndDate     Date // optional
		NextDate    Date
	}

	// Notification is a derived alert. It is recomputed from current
	// state on every evaluation pass and never persisted; the ID is
	// deterministic (source entity + kind) so re-computation is
	// idempotent.
	Notification struct {
		ID       string
		Message  string
		Severity Severity
	}
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidFrequency = errors.New("invalid frequency")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyName        = errors.New("empty name")
	ErrMissingAccount   = errors.New("missing account reference")
	ErrMissingCategory  = errors.New("missing category reference")
)

func (t TransactionType) Validate() error {
	switch t {
	case Income, Expense:
		return nil
	}
	return ErrInvalidType
}

func (f Frequency) Validate() error {
	switch f {
	case Daily, Weekly, Monthly, Yearly:
		return nil
	}
	return ErrInvalidFrequency
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (tx Transaction) Validate() error {
	if err := tx.Type.Validate(); err != nil {
		return err
	}
	if err := tx.Amount.Validate(); err != nil {
		return err
	}
	if err := tx.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(tx.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(tx.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if tx.AccountID == "" {
		return ErrMissingAccount
	}
	if tx.Type == Expense && tx.CategoryID == "" {
		return ErrMissingCategory
	}
	return nil
}

func (g SavingsGoal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if err := g.Target.Validate(); err != nil {
		return err
	}
	if g.Current.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (d Debt) Validate() error {
	if len(strings.TrimSpace(d.Description)) == 0 {
		return ErrEmptyDescription
	}
	if err := d.Total.Validate(); err != nil {
		return err
	}
	if d.Paid.Cents < 0 || d.Paid.Cents > d.Total.Cents {
		return ErrInvalidAmount
	}
	if d.InstallmentsTotal < 1 {
		return errors.New("installments total must be at least 1")
	}
	if d.InstallmentsPaid < 0 || d.InstallmentsPaid > d.InstallmentsTotal {
		return errors.New("installments paid out of range")
	}
	return nil
}

func (s RecurringSchedule) Validate() error {
	if err := s.StartDate.Validate(); err != nil {
		return errors.New("invalid start date: " + err.Error())
	}
	if !s.EndDate.IsEmpty() && s.EndDate.Before(s.StartDate.Time) {
		return errors.New("end date must not be before start date")
	}
	if err := s.Frequency.Validate(); err != nil {
		return err
	}
	if err := s.Type.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(s.Description)) == 0 {
		return ErrEmptyDescription
	}
	if err := s.Amount.Validate(); err != nil {
		return err
	}
	if s.AccountID == "" {
		return ErrMissingAccount
	}
	return nil
}
