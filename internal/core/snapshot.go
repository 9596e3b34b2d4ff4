package core

import "time"

// Snapshot is an immutable in-memory copy of one user's collections at
// a point in time. The analytics and notification packages are pure
// functions over a Snapshot plus an explicit "now"; they never touch a
// live store and therefore never observe partial state.
type Snapshot struct {
	UserID       string
	TakenAt      time.Time
	Accounts     []Account
	Categories   []Category
	Transactions []Transaction
	Goals        []SavingsGoal
	Debts        []Debt
	Schedules    []RecurringSchedule
}

// AccountBalance derives the current balance of an account: initial
// balance plus income minus expenses recorded against it.
func AccountBalance(a Account, txs []Transaction) Money {
	balance := a.InitialBalance
	for _, tx := range txs {
		if tx.AccountID != a.ID {
			continue
		}
		switch tx.Type {
		case Income:
			balance = balance.Add(tx.Amount)
		case Expense:
			balance = balance.Sub(tx.Amount)
		}
	}
	return balance
}

// CategoryNames maps category IDs to display names.
func CategoryNames(cats []Category) map[string]string {
	names := make(map[string]string, len(cats))
	for _, c := range cats {
		names[c.ID] = c.Name
	}
	return names
}

// DebtFromCreditPurchase describes the debt implied by an expense paid
// by credit card in more than one installment. The purchase is recorded
// as a debt instead of a plain transaction; the ledger engine's payment
// operation then advances it installment by installment.
func DebtFromCreditPurchase(description string, amount Money, installments int) (Debt, bool) {
	if installments < 2 {
		return Debt{}, false
	}
	return Debt{
		Description:       description,
		Total:             amount,
		InstallmentsTotal: installments,
		Category:          "credit card",
	}, true
}
