// README: Dispatch engine types and errors.
package dispatch

import (
	"errors"

	"samaha/internal/types"
)

var (
	ErrBadRequest    = errors.New("order id required")
	ErrOrderNotFound = errors.New("order not found")
	// ErrDriverBusy means the driver's slot was taken between the candidate
	// read and the assignment transaction. The engine retries the next
	// candidate; manual assignment surfaces it.
	ErrDriverBusy = errors.New("driver already has an active order")
)

// Candidate is an available driver ranked by distance to the restaurant.
type Candidate struct {
	DriverID types.ID
	Distance float64
}
