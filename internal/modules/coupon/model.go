// README: Coupon records and validation results.
package coupon

import (
	"time"

	"samaha/internal/types"
)

type DiscountType string

const (
	DiscountPercent DiscountType = "PERCENT"
	DiscountFixed   DiscountType = "FIXED"
)

type Coupon struct {
	ID   types.ID `firestore:"-"`
	Code string   `firestore:"code"`
	// DiscountValue is a whole percentage for PERCENT coupons and an amount
	// in cents for FIXED ones.
	DiscountType   DiscountType `firestore:"discountType"`
	DiscountValue  int64        `firestore:"discountValue"`
	MinOrderAmount int64        `firestore:"minOrderAmount"`
	IsActive       bool         `firestore:"isActive"`
	ExpiresAt      *time.Time   `firestore:"expiresAt,omitempty"`
}

// Result is the outcome of a validation call. Invalid coupons carry a
// customer-facing message, never an error.
type Result struct {
	Valid         bool
	DiscountCents int64
	Message       string
}
