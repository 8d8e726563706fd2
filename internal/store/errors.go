// internal/store/errors.go
package store

import (
	"errors"
	"fmt"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrOrderNotFound   = errors.New("order not found")

	// ErrStockConflict means stock changed between the availability check and
	// the decrement; the whole adjustment batch was rolled back.
	ErrStockConflict = errors.New("stock changed concurrently")
)

// InsufficientStockError reports one product whose available stock could not
// cover the requested quantity.
type InsufficientStockError struct {
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d",
		e.ProductName, e.Requested, e.Available)
}
