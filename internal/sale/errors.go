package sale

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means a cart line referenced a batch that does not exist.
	ErrNotFound = errors.New("medicine batch not found")
	// ErrUnauthorized means the referenced batch belongs to another user.
	ErrUnauthorized = errors.New("medicine batch belongs to another user")
	// ErrInsufficientStock means the requested quantity exceeds on-hand stock.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrTxConflict means a concurrent writer touched the same batch; the
	// coordinator retries a bounded number of times before surfacing it.
	ErrTxConflict = errors.New("transaction conflict")
)

// ItemError ties an engine failure to the line item that caused it, so the
// caller can be told which item sank the cart.
type ItemError struct {
	BatchID int64
	Name    string
	Err     error
}

func (e *ItemError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("item %d (%s): %v", e.BatchID, e.Name, e.Err)
	}
	return fmt.Sprintf("item %d: %v", e.BatchID, e.Err)
}

func (e *ItemError) Unwrap() error { return e.Err }
