package order

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by order placement. Handlers map these to HTTP
// statuses; none of them leaves partial order artifacts behind.
var (
	ErrAuthenticationFailed = errors.New("identity verification failed")
	ErrEmptyCart            = errors.New("order must contain at least one item")
	ErrNoValidItems         = errors.New("no valid items in order")
	ErrItemNotFound         = errors.New("stock item not found")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrCommitFailed         = errors.New("order could not be saved")
)

// LineError reports which cart line made the whole order unprocessable.
// Bad lines are never silently dropped; the customer must not be charged
// for a different set of items than they submitted.
type LineError struct {
	StockID uint
	Err     error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("cart line for stock item %d: %v", e.StockID, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }
