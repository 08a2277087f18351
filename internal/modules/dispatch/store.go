// README: Assignment store — the order/driver binding as one atomic
// Firestore transaction.
package dispatch

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"samaha/internal/types"
)

const (
	ordersCollection  = "orders"
	driversCollection = "drivers"
)

// Assigner binds an order to a driver. The binding writes order.driverId and
// driver.activeOrderId together; it must fail with ErrDriverBusy when the
// driver's slot is no longer free, so two dispatches can never bind the same
// driver to two orders.
type Assigner interface {
	Assign(ctx context.Context, orderID, driverID types.ID) error
}

type FirestoreAssigner struct {
	client *firestore.Client
}

func NewFirestoreAssigner(client *firestore.Client) *FirestoreAssigner {
	return &FirestoreAssigner{client: client}
}

func (a *FirestoreAssigner) Assign(ctx context.Context, orderID, driverID types.ID) error {
	orderRef := a.client.Collection(ordersCollection).Doc(string(orderID))
	driverRef := a.client.Collection(driversCollection).Doc(string(driverID))

	err := a.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(orderRef); err != nil {
			if status.Code(err) == codes.NotFound {
				return ErrOrderNotFound
			}
			return err
		}
		driverSnap, err := tx.Get(driverRef)
		if err != nil {
			return err
		}
		// Re-check availability inside the transaction: the candidate scan
		// read the slot outside it.
		if active, err := driverSnap.DataAt("activeOrderId"); err == nil {
			if s, _ := active.(string); s != "" {
				return ErrDriverBusy
			}
		}

		if err := tx.Update(orderRef, []firestore.Update{
			{Path: "driverId", Value: string(driverID)},
		}); err != nil {
			return err
		}
		return tx.Update(driverRef, []firestore.Update{
			{Path: "activeOrderId", Value: string(orderID)},
		})
	})
	if err == ErrDriverBusy || err == ErrOrderNotFound {
		return err
	}
	if err != nil {
		return fmt.Errorf("assign order %s to driver %s: %w", orderID, driverID, err)
	}
	return nil
}
