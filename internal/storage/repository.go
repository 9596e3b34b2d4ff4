// Package storage is the SQLite persistence layer: it loads the
// read-only snapshots the analytics run on and provides the atomic
// unit of work the ledger engine commits through.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"finanzas/internal/core"
	"finanzas/internal/ledger"
)

const dateLayout = "2006-01-02"

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// SQLite allows a single writer; a second concurrent unit of work
	// queues instead of failing with SQLITE_BUSY.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadSnapshot reads every collection owned by the user (plus shared
// categories) in one pass. The result is a value: analytics over it
// never observe later writes.
func (r *SQLiteRepository) LoadSnapshot(ctx context.Context, userID string) (core.Snapshot, error) {
	snap := core.Snapshot{UserID: userID, TakenAt: time.Now()}

	var err error
	if snap.Accounts, err = r.listAccounts(ctx, userID); err != nil {
		return snap, fmt.Errorf("load accounts: %w", err)
	}
	if snap.Categories, err = r.listCategories(ctx, userID); err != nil {
		return snap, fmt.Errorf("load categories: %w", err)
	}
	if snap.Transactions, err = r.listTransactions(ctx, userID); err != nil {
		return snap, fmt.Errorf("load transactions: %w", err)
	}
	if snap.Goals, err = r.listGoals(ctx, userID); err != nil {
		return snap, fmt.Errorf("load savings goals: %w", err)
	}
	if snap.Debts, err = r.listDebts(ctx, userID); err != nil {
		return snap, fmt.Errorf("load debts: %w", err)
	}
	if snap.Schedules, err = r.listSchedules(ctx, userID); err != nil {
		return snap, fmt.Errorf("load recurring schedules: %w", err)
	}

	slog.DebugContext(ctx, "Snapshot loaded",
		"user_id", userID,
		"transactions", len(snap.Transactions),
		"goals", len(snap.Goals),
		"debts", len(snap.Debts),
		"schedules", len(snap.Schedules))

	return snap, nil
}

// ListUserIDs returns every user with at least one account.
func (r *SQLiteRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT user_id FROM accounts ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("list user ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// RunAtomic implements ledger.Store: fn runs inside one database
// transaction; every write commits together or the whole unit rolls
// back.
func (r *SQLiteRepository) RunAtomic(ctx context.Context, fn func(tx ledger.Tx) error) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	if err := fn(&sqlTx{tx: dbTx}); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// sqlTx implements ledger.Tx over one open database transaction.
type sqlTx struct {
	tx *sql.Tx
}

func (t *sqlTx) Account(ctx context.Context, userID, id string) (core.Account, error) {
	var a core.Account
	err := t.tx.QueryRowContext(ctx,
		`SELECT id, user_id, name, initial_balance_cents FROM accounts WHERE id = ? AND user_id = ?`,
		id, userID,
	).Scan(&a.ID, &a.UserID, &a.Name, &a.InitialBalance.Cents)
	if err == sql.ErrNoRows {
		return core.Account{}, ledger.ErrAccountNotFound
	}
	return a, err
}

func (t *sqlTx) Goal(ctx context.Context, userID, id string) (core.SavingsGoal, error) {
	var g core.SavingsGoal
	var deadline sql.NullString
	err := t.tx.QueryRowContext(ctx,
		`SELECT id, user_id, name, target_cents, current_cents, deadline FROM savings_goals WHERE id = ? AND user_id = ?`,
		id, userID,
	).Scan(&g.ID, &g.UserID, &g.Name, &g.Target.Cents, &g.Current.Cents, &deadline)
	if err == sql.ErrNoRows {
		return core.SavingsGoal{}, ledger.ErrGoalNotFound
	}
	if err != nil {
		return core.SavingsGoal{}, err
	}
	g.Deadline, err = parseOptionalDate(deadline)
	return g, err
}

func (t *sqlTx) Debt(ctx context.Context, userID, id string) (core.Debt, error) {
	var d core.Debt
	var category sql.NullString
	err := t.tx.QueryRowContext(ctx,
		`SELECT id, user_id, description, total_cents, paid_cents, installments_total, installments_paid, category
		 FROM debts WHERE id = ? AND user_id = ?`,
		id, userID,
	).Scan(&d.ID, &d.UserID, &d.Description, &d.Total.Cents, &d.Paid.Cents,
		&d.InstallmentsTotal, &d.InstallmentsPaid, &category)
	if err == sql.ErrNoRows {
		return core.Debt{}, ledger.ErrDebtNotFound
	}
	if err != nil {
		return core.Debt{}, err
	}
	d.Category = category.String
	return d, nil
}

func (t *sqlTx) SharedCategoryID(ctx context.Context, name string) (string, error) {
	var id string
	err := t.tx.QueryRowContext(ctx,
		`SELECT id FROM categories WHERE user_id IS NULL AND name = ?`, name,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("shared category %q not seeded", name)
	}
	return id, err
}

func (t *sqlTx) SeenIdempotencyKey(ctx context.Context, key string) (bool, error) {
	var one int
	err := t.tx.QueryRowContext(ctx,
		`SELECT 1 FROM transactions WHERE idempotency_key = ?`, key,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (t *sqlTx) InsertTransaction(ctx context.Context, tx core.Transaction, idempotencyKey string) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO transactions (id, user_id, account_id, category_id, type, amount_cents, description, date, payment_method, idempotency_key)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.UserID, tx.AccountID, nullIfEmpty(tx.CategoryID), string(tx.Type),
		tx.Amount.Cents, tx.Description, tx.Date.Format(dateLayout),
		nullIfEmpty(tx.PaymentMethod), nullIfEmpty(idempotencyKey))
	return err
}

func (t *sqlTx) UpdateGoalAmount(ctx context.Context, id string, current core.Money) error {
	res, err := t.tx.ExecContext(ctx,
		`UPDATE savings_goals SET current_cents = ? WHERE id = ?`, current.Cents, id)
	if err != nil {
		return err
	}
	return requireOneRow(res, "savings goal", id)
}

func (t *sqlTx) UpdateDebtPayment(ctx context.Context, id string, paid core.Money, installmentsPaid int) error {
	res, err := t.tx.ExecContext(ctx,
		`UPDATE debts SET paid_cents = ?, installments_paid = ? WHERE id = ?`,
		paid.Cents, installmentsPaid, id)
	if err != nil {
		return err
	}
	return requireOneRow(res, "debt", id)
}

func requireOneRow(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n != 1 {
		return fmt.Errorf("%s %s: expected one row updated, got %d", entity, id, n)
	}
	return nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func parseOptionalDate(v sql.NullString) (core.Date, error) {
	if !v.Valid || v.String == "" {
		return core.Date{}, nil
	}
	t, err := time.ParseInLocation(dateLayout, v.String, time.UTC)
	if err != nil {
		return core.Date{}, fmt.Errorf("parse date %q: %w", v.String, err)
	}
	return core.DateOf(t), nil
}
