// README: Coupon validation service.
package coupon

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/juju/clock"
)

var ErrBadRequest = errors.New("code and subtotal required")

type Service struct {
	store Store
	clock clock.Clock
}

func NewService(store Store, clk clock.Clock) *Service {
	if clk == nil {
		clk = clock.WallClock
	}
	return &Service{store: store, clock: clk}
}

// Validate checks a coupon against a subtotal. Coupons are validated at
// checkout only; they are not re-validated after order creation.
func (s *Service) Validate(ctx context.Context, code string, subtotalCents int64) (Result, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || subtotalCents <= 0 {
		return Result{}, ErrBadRequest
	}

	c, err := s.store.FindActive(ctx, code)
	if errors.Is(err, ErrNotFound) {
		return Result{Valid: false, Message: "Invalid coupon"}, nil
	}
	if err != nil {
		return Result{}, err
	}

	if c.ExpiresAt != nil && c.ExpiresAt.Before(s.clock.Now()) {
		return Result{Valid: false, Message: "Coupon expired"}, nil
	}
	if c.MinOrderAmount > 0 && subtotalCents < c.MinOrderAmount {
		return Result{
			Valid:   false,
			Message: fmt.Sprintf("Min order: $%d.%02d", c.MinOrderAmount/100, c.MinOrderAmount%100),
		}, nil
	}

	discount := c.DiscountValue
	if c.DiscountType == DiscountPercent {
		discount = int64(math.Round(float64(subtotalCents) * float64(c.DiscountValue) / 100))
	}
	return Result{Valid: true, DiscountCents: discount}, nil
}
