package storage

import (
	"context"
	"database/sql"
	"fmt"

	"finanzas/internal/core"
)

func (r *SQLiteRepository) SaveAccount(ctx context.Context, a core.Account) error {
	if err := a.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (id, user_id, name, initial_balance_cents) VALUES (?, ?, ?, ?)`,
		a.ID, a.UserID, a.Name, a.InitialBalance.Cents)
	if err != nil {
		return fmt.Errorf("save account: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) SaveCategory(ctx context.Context, c core.Category) error {
	if err := c.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (id, user_id, name, budget_cents) VALUES (?, ?, ?, ?)`,
		c.ID, nullIfEmpty(c.UserID), c.Name, nullIfZero(c.Budget.Cents))
	if err != nil {
		return fmt.Errorf("save category: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) SaveTransaction(ctx context.Context, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, user_id, account_id, category_id, type, amount_cents, description, date, payment_method)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.UserID, tx.AccountID, nullIfEmpty(tx.CategoryID), string(tx.Type),
		tx.Amount.Cents, tx.Description, tx.Date.Format(dateLayout), nullIfEmpty(tx.PaymentMethod))
	if err != nil {
		return fmt.Errorf("save transaction: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) SaveGoal(ctx context.Context, g core.SavingsGoal) error {
	if err := g.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO savings_goals (id, user_id, name, target_cents, current_cents, deadline) VALUES (?, ?, ?, ?, ?, ?)`,
		g.ID, g.UserID, g.Name, g.Target.Cents, g.Current.Cents, formatOptionalDate(g.Deadline))
	if err != nil {
		return fmt.Errorf("save savings goal: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) SaveDebt(ctx context.Context, d core.Debt) error {
	if err := d.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO debts (id, user_id, description, total_cents, paid_cents, installments_total, installments_paid, category)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.UserID, d.Description, d.Total.Cents, d.Paid.Cents,
		d.InstallmentsTotal, d.InstallmentsPaid, nullIfEmpty(d.Category))
	if err != nil {
		return fmt.Errorf("save debt: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) SaveSchedule(ctx context.Context, s core.RecurringSchedule) error {
	if err := s.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO recurring_schedules (id, user_id, description, amount_cents, type, account_id, category_id, frequency, start_date, end_date, next_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.UserID, s.Description, s.Amount.Cents, string(s.Type), s.AccountID,
		nullIfEmpty(s.CategoryID), string(s.Frequency), s.StartDate.Format(dateLayout),
		formatOptionalDate(s.EndDate), formatOptionalDate(s.NextDate))
	if err != nil {
		return fmt.Errorf("save recurring schedule: %w", err)
	}
	return nil
}

// UpdateScheduleNextDate advances a schedule's next occurrence. A nil
// next date clears it (schedule ran past its end date).
func (r *SQLiteRepository) UpdateScheduleNextDate(ctx context.Context, id string, next core.Date) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE recurring_schedules SET next_date = ? WHERE id = ?`,
		formatOptionalDate(next), id)
	if err != nil {
		return fmt.Errorf("update schedule next date: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) listAccounts(ctx context.Context, userID string) ([]core.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, initial_balance_cents FROM accounts WHERE user_id = ? ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []core.Account
	for rows.Next() {
		var a core.Account
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.InitialBalance.Cents); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *SQLiteRepository) listCategories(ctx context.Context, userID string) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, budget_cents FROM categories
		 WHERE user_id = ? OR user_id IS NULL ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []core.Category
	for rows.Next() {
		var c core.Category
		var owner sql.NullString
		var budget sql.NullInt64
		if err := rows.Scan(&c.ID, &owner, &c.Name, &budget); err != nil {
			return nil, err
		}
		c.UserID = owner.String
		c.Budget = core.Money{Cents: budget.Int64}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *SQLiteRepository) listTransactions(ctx context.Context, userID string) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, account_id, category_id, type, amount_cents, description, date, payment_method
		 FROM transactions WHERE user_id = ? ORDER BY date, created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		var tx core.Transaction
		var category, method, date sql.NullString
		if err := rows.Scan(&tx.ID, &tx.UserID, &tx.AccountID, &category, (*string)(&tx.Type),
			&tx.Amount.Cents, &tx.Description, &date, &method); err != nil {
			return nil, err
		}
		tx.CategoryID = category.String
		tx.PaymentMethod = method.String
		if tx.Date, err = parseOptionalDate(date); err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

func (r *SQLiteRepository) listGoals(ctx context.Context, userID string) ([]core.SavingsGoal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, target_cents, current_cents, deadline
		 FROM savings_goals WHERE user_id = ? ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []core.SavingsGoal
	for rows.Next() {
		var g core.SavingsGoal
		var deadline sql.NullString
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.Target.Cents, &g.Current.Cents, &deadline); err != nil {
			return nil, err
		}
		if g.Deadline, err = parseOptionalDate(deadline); err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (r *SQLiteRepository) listDebts(ctx context.Context, userID string) ([]core.Debt, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, description, total_cents, paid_cents, installments_total, installments_paid, category
		 FROM debts WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var debts []core.Debt
	for rows.Next() {
		var d core.Debt
		var category sql.NullString
		if err := rows.Scan(&d.ID, &d.UserID, &d.Description, &d.Total.Cents, &d.Paid.Cents,
			&d.InstallmentsTotal, &d.InstallmentsPaid, &category); err != nil {
			return nil, err
		}
		d.Category = category.String
		debts = append(debts, d)
	}
	return debts, rows.Err()
}

func (r *SQLiteRepository) listSchedules(ctx context.Context, userID string) ([]core.RecurringSchedule, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, description, amount_cents, type, account_id, category_id, frequency, start_date, end_date, next_date
		 FROM recurring_schedules WHERE user_id = ? ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schedules []core.RecurringSchedule
	for rows.Next() {
		var s core.RecurringSchedule
		var category, start, end, next sql.NullString
		if err := rows.Scan(&s.ID, &s.UserID, &s.Description, &s.Amount.Cents, (*string)(&s.Type),
			&s.AccountID, &category, (*string)(&s.Frequency), &start, &end, &next); err != nil {
			return nil, err
		}
		s.CategoryID = category.String
		if s.StartDate, err = parseOptionalDate(start); err != nil {
			return nil, err
		}
		if s.EndDate, err = parseOptionalDate(end); err != nil {
			return nil, err
		}
		if s.NextDate, err = parseOptionalDate(next); err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}
	return schedules, rows.Err()
}

func nullIfZero(v int64) any {
	if v == 0 {
		return nil
	}
	return v
}

func formatOptionalDate(d core.Date) any {
	if d.IsEmpty() {
		return nil
	}
	return d.Format(dateLayout)
}
