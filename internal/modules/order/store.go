// README: Order store interface and its Firestore implementation.
package order

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"samaha/internal/types"
)

const ordersCollection = "orders"

// Store is the order document store. The Firestore implementation below is
// the production one; tests substitute an in-memory fake.
type Store interface {
	Create(ctx context.Context, o *Order) (types.ID, error)
	Get(ctx context.Context, id types.ID) (*Order, error)
	// UpdateStatus performs a compare-on-status write: it commits only when
	// the stored status still equals from, and reports whether it won.
	UpdateStatus(ctx context.Context, id types.ID, from, to Status, stampField string, at time.Time, enableTracking bool) (bool, error)
	// ListStale returns orders still RECEIVED whose createdAt is before the
	// cutoff.
	ListStale(ctx context.Context, before time.Time) ([]*Order, error)
	ListByCustomer(ctx context.Context, customerID types.ID, limit int) ([]*Order, error)
}

type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) Create(ctx context.Context, o *Order) (types.ID, error) {
	ref, _, err := s.client.Collection(ordersCollection).Add(ctx, o)
	if err != nil {
		return "", fmt.Errorf("create order: %w", err)
	}
	o.ID = types.ID(ref.ID)
	return o.ID, nil
}

func (s *FirestoreStore) Get(ctx context.Context, id types.ID) (*Order, error) {
	snap, err := s.client.Collection(ordersCollection).Doc(string(id)).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", id, err)
	}
	return decodeOrder(snap)
}

func (s *FirestoreStore) UpdateStatus(ctx context.Context, id types.ID, from, to Status, stampField string, at time.Time, enableTracking bool) (bool, error) {
	ref := s.client.Collection(ordersCollection).Doc(string(id))
	won := false
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		won = false
		snap, err := tx.Get(ref)
		if status.Code(err) == codes.NotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		current, err := snap.DataAt("status")
		if err != nil {
			return err
		}
		if cur, _ := current.(string); Status(cur) != from {
			// Lost the race; not an error at this layer.
			return nil
		}

		updates := []firestore.Update{
			{Path: "status", Value: string(to)},
		}
		if stampField != "" {
			// Stage timestamps are write-once: the compare-on-status guard
			// above means each stage is entered at most once.
			updates = append(updates, firestore.Update{Path: "timestamps." + stampField, Value: at})
		}
		if enableTracking {
			updates = append(updates, firestore.Update{Path: "trackingEnabled", Value: true})
		}
		if err := tx.Update(ref, updates); err != nil {
			return err
		}
		won = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return won, nil
}

func (s *FirestoreStore) ListStale(ctx context.Context, before time.Time) ([]*Order, error) {
	iter := s.client.Collection(ordersCollection).
		Where("status", "==", string(StatusReceived)).
		Where("timestamps.createdAt", "<", before).
		Documents(ctx)
	return collectOrders(iter)
}

func (s *FirestoreStore) ListByCustomer(ctx context.Context, customerID types.ID, limit int) ([]*Order, error) {
	iter := s.client.Collection(ordersCollection).
		Where("customerId", "==", string(customerID)).
		OrderBy("timestamps.createdAt", firestore.Desc).
		Limit(limit).
		Documents(ctx)
	return collectOrders(iter)
}

func collectOrders(iter *firestore.DocumentIterator) ([]*Order, error) {
	defer iter.Stop()
	var orders []*Order
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list orders: %w", err)
		}
		o, err := decodeOrder(snap)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func decodeOrder(snap *firestore.DocumentSnapshot) (*Order, error) {
	var o Order
	if err := snap.DataTo(&o); err != nil {
		return nil, fmt.Errorf("decode order %s: %w", snap.Ref.ID, err)
	}
	o.ID = types.ID(snap.Ref.ID)
	return &o, nil
}
