package ledger

import "errors"

// Validation errors: the request was rejected before any mutation was
// attempted, nothing was written.
var (
	ErrGoalNotFound       = errors.New("savings goal not found")
	ErrDebtNotFound       = errors.New("debt not found")
	ErrAccountNotFound    = errors.New("account not found")
	ErrDebtSettled        = errors.New("debt already fully paid")
	ErrDuplicateOperation = errors.New("operation already applied for this idempotency key")
)

// ConsistencyError reports that the atomic multi-record write could
// not be committed as a unit. The caller may safely retry: no partial
// state was left behind.
type ConsistencyError struct {
	Op  string
	Err error
}

func (e *ConsistencyError) Error() string {
	return e.Op + " did not complete: " + e.Err.Error()
}

func (e *ConsistencyError) Unwrap() error {
	return e.Err
}

// classify separates the rejected-before-mutation cases from failures
// of the atomic write itself. Reads inside the transaction happen
// before any write, so a not-found surfaced there still means nothing
// was mutated.
func classify(op string, err error) error {
	switch {
	case errors.Is(err, ErrGoalNotFound),
		errors.Is(err, ErrDebtNotFound),
		errors.Is(err, ErrAccountNotFound),
		errors.Is(err, ErrDebtSettled),
		errors.Is(err, ErrDuplicateOperation):
		return err
	}
	return &ConsistencyError{Op: op, Err: err}
}
