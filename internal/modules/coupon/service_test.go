package coupon

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/juju/clock/testclock"
)

type fakeStore struct {
	coupons map[string]*Coupon
}

func (s *fakeStore) FindActive(ctx context.Context, code string) (*Coupon, error) {
	c, ok := s.coupons[code]
	if !ok || !c.IsActive {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func newCouponFixture(t *testing.T) (*Service, *fakeStore, *testclock.Clock) {
	t.Helper()
	store := &fakeStore{coupons: make(map[string]*Coupon)}
	clk := testclock.NewClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	return NewService(store, clk), store, clk
}

func TestValidateRejectsEmptyInput(t *testing.T) {
	svc, _, _ := newCouponFixture(t)
	if _, err := svc.Validate(context.Background(), "", 1000); !errors.Is(err, ErrBadRequest) {
		t.Fatalf("err = %v, want ErrBadRequest", err)
	}
	if _, err := svc.Validate(context.Background(), "SAVE10", 0); !errors.Is(err, ErrBadRequest) {
		t.Fatalf("err = %v, want ErrBadRequest", err)
	}
}

func TestValidateUnknownCode(t *testing.T) {
	svc, _, _ := newCouponFixture(t)
	res, err := svc.Validate(context.Background(), "NOPE", 1000)
	if err != nil {
		t.Fatal(err)
	}
	if res.Valid || res.Message != "Invalid coupon" {
		t.Errorf("result = %+v", res)
	}
}

func TestValidateNormalizesCode(t *testing.T) {
	svc, store, _ := newCouponFixture(t)
	store.coupons["SAVE10"] = &Coupon{Code: "SAVE10", DiscountType: DiscountPercent, DiscountValue: 10, IsActive: true}

	res, err := svc.Validate(context.Background(), "  save10 ", 1000)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Valid || res.DiscountCents != 100 {
		t.Errorf("result = %+v", res)
	}
}

func TestValidateExpiredBeforeMinOrder(t *testing.T) {
	svc, store, clk := newCouponFixture(t)
	expired := clk.Now().Add(-time.Hour)
	store.coupons["OLD"] = &Coupon{
		Code:           "OLD",
		DiscountType:   DiscountFixed,
		DiscountValue:  500,
		MinOrderAmount: 5000,
		IsActive:       true,
		ExpiresAt:      &expired,
	}

	// Subtotal is below the minimum too, but expiry wins.
	res, err := svc.Validate(context.Background(), "OLD", 1000)
	if err != nil {
		t.Fatal(err)
	}
	if res.Valid || res.Message != "Coupon expired" {
		t.Errorf("result = %+v", res)
	}
}

func TestValidateMinOrder(t *testing.T) {
	svc, store, _ := newCouponFixture(t)
	store.coupons["BIG"] = &Coupon{
		Code:           "BIG",
		DiscountType:   DiscountFixed,
		DiscountValue:  500,
		MinOrderAmount: 2550,
		IsActive:       true,
	}

	res, err := svc.Validate(context.Background(), "BIG", 2000)
	if err != nil {
		t.Fatal(err)
	}
	if res.Valid {
		t.Fatalf("result = %+v", res)
	}
	if want := "Min order: $25.50"; res.Message != want {
		t.Errorf("message = %q, want %q", res.Message, want)
	}

	res, err = svc.Validate(context.Background(), "BIG", 2550)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Valid || res.DiscountCents != 500 {
		t.Errorf("result = %+v", res)
	}
}

func TestValidatePercentDiscount(t *testing.T) {
	svc, store, _ := newCouponFixture(t)
	store.coupons["SAVE15"] = &Coupon{Code: "SAVE15", DiscountType: DiscountPercent, DiscountValue: 15, IsActive: true}

	res, err := svc.Validate(context.Background(), "SAVE15", 999)
	if err != nil {
		t.Fatal(err)
	}
	// 15% of $9.99 rounds to $1.50.
	if !res.Valid || res.DiscountCents != 150 {
		t.Errorf("result = %+v", res)
	}
}

func TestValidateFixedDiscount(t *testing.T) {
	svc, store, _ := newCouponFixture(t)
	store.coupons["FLAT5"] = &Coupon{Code: "FLAT5", DiscountType: DiscountFixed, DiscountValue: 500, IsActive: true}

	res, err := svc.Validate(context.Background(), "FLAT5", 10000)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Valid || res.DiscountCents != 500 {
		t.Errorf("result = %+v", res)
	}
}
