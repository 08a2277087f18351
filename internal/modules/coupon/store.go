// README: Coupon store backed by Firestore.
package coupon

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"samaha/internal/types"
)

const couponsCollection = "coupons"

var ErrNotFound = errors.New("coupon not found")

type Store interface {
	// FindActive returns the active coupon with the given (already
	// normalized) code, or ErrNotFound.
	FindActive(ctx context.Context, code string) (*Coupon, error)
}

type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) FindActive(ctx context.Context, code string) (*Coupon, error) {
	iter := s.client.Collection(couponsCollection).
		Where("code", "==", code).
		Where("isActive", "==", true).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == iterator.Done {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find coupon %s: %w", code, err)
	}
	var c Coupon
	if err := snap.DataTo(&c); err != nil {
		return nil, fmt.Errorf("decode coupon %s: %w", code, err)
	}
	c.ID = types.ID(snap.Ref.ID)
	return &c, nil
}
