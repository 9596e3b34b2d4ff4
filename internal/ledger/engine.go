// Package ledger implements the two atomic cross-entity mutations of
// the system: depositing into a savings goal and paying a debt
// installment. Each operation inserts a transaction and advances the
// goal/debt counters as one indivisible unit; on any failure nothing
// is written.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"finanzas/internal/core"
)

// Shared categories the engine records its side-effect transactions
// under. The storage schema seeds both.
const (
	SavingsTransferCategory = "Savings transfer"
	DebtPaymentCategory     = "Debt payment"
)

// Tx is the set of reads and writes available inside one atomic unit
// of work. Implementations must apply every write of a unit together
// or none at all, and must serialize conflicting units touching the
// same goal or debt: two concurrent payments may never both observe
// the same installment counter.
type Tx interface {
	Account(ctx context.Context, userID, id string) (core.Account, error)
	Goal(ctx context.Context, userID, id string) (core.SavingsGoal, error)
	Debt(ctx context.Context, userID, id string) (core.Debt, error)
	SharedCategoryID(ctx context.Context, name string) (string, error)
	SeenIdempotencyKey(ctx context.Context, key string) (bool, error)
	InsertTransaction(ctx context.Context, tx core.Transaction, idempotencyKey string) error
	UpdateGoalAmount(ctx context.Context, id string, current core.Money) error
	UpdateDebtPayment(ctx context.Context, id string, paid core.Money, installmentsPaid int) error
}

// Store runs a function inside a single serializable transaction
// against the backing store.
type Store interface {
	RunAtomic(ctx context.Context, fn func(tx Tx) error) error
}

// Engine executes the atomic operations. It holds no state between
// calls; all durable state lives behind the Store.
type Engine struct {
	store Store
	now   func() time.Time
	newID func() string
}

func New(store Store) *Engine {
	return &Engine{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// DepositRequest describes a deposit-to-goal operation. The
// IdempotencyKey is optional but recommended: a retried request with
// the same key is rejected instead of re-executed.
type DepositRequest struct {
	UserID         string
	GoalID         string
	AccountID      string
	Amount         core.Money
	IdempotencyKey string
}

// DepositResult carries the records as committed.
type DepositResult struct {
	Goal        core.SavingsGoal
	Transaction core.Transaction
}

// PaymentRequest describes a pay-installment operation.
type PaymentRequest struct {
	UserID         string
	DebtID         string
	AccountID      string
	Amount         core.Money
	IdempotencyKey string
}

// PaymentResult carries the records as committed.
type PaymentResult struct {
	Debt        core.Debt
	Transaction core.Transaction
}

// DepositToGoal atomically records an expense transaction on the
// account and increases the goal's current amount. No upper clamp is
// applied: a deposit may push the goal past its target, which simply
// reports it complete.
func (e *Engine) DepositToGoal(ctx context.Context, req DepositRequest) (*DepositResult, error) {
	if err := req.Amount.Validate(); err != nil {
		return nil, err
	}
	if req.GoalID == "" {
		return nil, ErrGoalNotFound
	}
	if req.AccountID == "" {
		return nil, ErrAccountNotFound
	}

	var result DepositResult
	err := e.store.RunAtomic(ctx, func(tx Tx) error {
		goal, err := tx.Goal(ctx, req.UserID, req.GoalID)
		if err != nil {
			return err
		}
		account, err := tx.Account(ctx, req.UserID, req.AccountID)
		if err != nil {
			return err
		}
		if err := e.checkIdempotency(ctx, tx, req.IdempotencyKey); err != nil {
			return err
		}
		categoryID, err := tx.SharedCategoryID(ctx, SavingsTransferCategory)
		if err != nil {
			return fmt.Errorf("resolve savings transfer category: %w", err)
		}

		record := core.Transaction{
			ID:          e.newID(),
			UserID:      req.UserID,
			AccountID:   account.ID,
			CategoryID:  categoryID,
			Type:        core.Expense,
			Amount:      req.Amount,
			Description: fmt.Sprintf("Deposit to goal %q", goal.Name),
			Date:        core.DateOf(e.now()),
		}
		if err := tx.InsertTransaction(ctx, record, req.IdempotencyKey); err != nil {
			return fmt.Errorf("insert deposit transaction: %w", err)
		}

		goal.Current = goal.Current.Add(req.Amount)
		if err := tx.UpdateGoalAmount(ctx, goal.ID, goal.Current); err != nil {
			return fmt.Errorf("update goal amount: %w", err)
		}

		result = DepositResult{Goal: goal, Transaction: record}
		return nil
	})
	if err != nil {
		return nil, classify("deposit to goal", err)
	}
	return &result, nil
}

// PayInstallment atomically records an expense transaction on the
// account, adds the paid amount to the debt and advances the
// installment counter by exactly one. The amount is trusted as given:
// partial payments and overpayments both count as one installment.
func (e *Engine) PayInstallment(ctx context.Context, req PaymentRequest) (*PaymentResult, error) {
	if err := req.Amount.Validate(); err != nil {
		return nil, err
	}
	if req.DebtID == "" {
		return nil, ErrDebtNotFound
	}
	if req.AccountID == "" {
		return nil, ErrAccountNotFound
	}

	var result PaymentResult
	err := e.store.RunAtomic(ctx, func(tx Tx) error {
		debt, err := tx.Debt(ctx, req.UserID, req.DebtID)
		if err != nil {
			return err
		}
		if debt.Settled() {
			return ErrDebtSettled
		}
		account, err := tx.Account(ctx, req.UserID, req.AccountID)
		if err != nil {
			return err
		}
		if err := e.checkIdempotency(ctx, tx, req.IdempotencyKey); err != nil {
			return err
		}
		categoryID, err := tx.SharedCategoryID(ctx, DebtPaymentCategory)
		if err != nil {
			return fmt.Errorf("resolve debt payment category: %w", err)
		}

		record := core.Transaction{
			ID:          e.newID(),
			UserID:      req.UserID,
			AccountID:   account.ID,
			CategoryID:  categoryID,
			Type:        core.Expense,
			Amount:      req.Amount,
			Description: fmt.Sprintf("Installment payment for %q", debt.Description),
			Date:        core.DateOf(e.now()),
		}
		if err := tx.InsertTransaction(ctx, record, req.IdempotencyKey); err != nil {
			return fmt.Errorf("insert payment transaction: %w", err)
		}

		debt.Paid = debt.Paid.Add(req.Amount)
		debt.InstallmentsPaid++
		if err := tx.UpdateDebtPayment(ctx, debt.ID, debt.Paid, debt.InstallmentsPaid); err != nil {
			return fmt.Errorf("update debt payment: %w", err)
		}

		result = PaymentResult{Debt: debt, Transaction: record}
		return nil
	})
	if err != nil {
		return nil, classify("pay installment", err)
	}
	return &result, nil
}

func (e *Engine) checkIdempotency(ctx context.Context, tx Tx, key string) error {
	if key == "" {
		return nil
	}
	seen, err := tx.SeenIdempotencyKey(ctx, key)
	if err != nil {
		return fmt.Errorf("check idempotency key: %w", err)
	}
	if seen {
		return ErrDuplicateOperation
	}
	return nil
}
