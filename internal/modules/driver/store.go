// README: Driver store — Firestore documents plus a Redis GEO mirror of live
// positions.
package driver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/redis/go-redis/v9"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"samaha/internal/types"
)

const (
	driversCollection = "drivers"
	driverGeoKey      = "geo:drivers"
)

var ErrNotFound = errors.New("driver not found")

type Store interface {
	Get(ctx context.Context, id types.ID) (*Driver, error)
	ListOnline(ctx context.Context) ([]*Driver, error)
	SetOnline(ctx context.Context, id types.ID, online bool, at time.Time) error
	UpdateLocation(ctx context.Context, id types.ID, lat, lng, heading, speed float64, at time.Time) error
	ClearActiveOrder(ctx context.Context, id types.ID) error
}

type FirestoreStore struct {
	client *firestore.Client
	redis  *redis.Client
}

func NewFirestoreStore(client *firestore.Client, rdb *redis.Client) *FirestoreStore {
	return &FirestoreStore{client: client, redis: rdb}
}

func (s *FirestoreStore) Get(ctx context.Context, id types.ID) (*Driver, error) {
	snap, err := s.client.Collection(driversCollection).Doc(string(id)).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get driver %s: %w", id, err)
	}
	var d Driver
	if err := snap.DataTo(&d); err != nil {
		return nil, fmt.Errorf("decode driver %s: %w", id, err)
	}
	d.ID = types.ID(snap.Ref.ID)
	return &d, nil
}

func (s *FirestoreStore) ListOnline(ctx context.Context) ([]*Driver, error) {
	iter := s.client.Collection(driversCollection).
		Where("isOnline", "==", true).
		Documents(ctx)
	defer iter.Stop()

	var drivers []*Driver
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list online drivers: %w", err)
		}
		var d Driver
		if err := snap.DataTo(&d); err != nil {
			return nil, fmt.Errorf("decode driver %s: %w", snap.Ref.ID, err)
		}
		d.ID = types.ID(snap.Ref.ID)
		drivers = append(drivers, &d)
	}
	return drivers, nil
}

func (s *FirestoreStore) SetOnline(ctx context.Context, id types.ID, online bool, at time.Time) error {
	_, err := s.client.Collection(driversCollection).Doc(string(id)).Update(ctx, []firestore.Update{
		{Path: "isOnline", Value: online},
		{Path: "updatedAt", Value: at},
	})
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("set driver %s online=%v: %w", id, online, err)
	}
	if !online && s.redis != nil {
		if err := s.redis.ZRem(ctx, driverGeoKey, string(id)).Err(); err != nil {
			return fmt.Errorf("remove driver %s from geo index: %w", id, err)
		}
	}
	return nil
}

func (s *FirestoreStore) UpdateLocation(ctx context.Context, id types.ID, lat, lng, heading, speed float64, at time.Time) error {
	_, err := s.client.Collection(driversCollection).Doc(string(id)).Update(ctx, []firestore.Update{
		{Path: "lat", Value: lat},
		{Path: "lng", Value: lng},
		{Path: "heading", Value: heading},
		{Path: "speed", Value: speed},
		{Path: "updatedAt", Value: at},
	})
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update driver %s location: %w", id, err)
	}
	if s.redis != nil {
		err = s.redis.GeoAdd(ctx, driverGeoKey, &redis.GeoLocation{
			Name:      string(id),
			Longitude: lng,
			Latitude:  lat,
		}).Err()
		if err != nil {
			return fmt.Errorf("mirror driver %s into geo index: %w", id, err)
		}
	}
	return nil
}

// ClearActiveOrder releases the driver's slot. Missing drivers are treated as
// already cleared.
func (s *FirestoreStore) ClearActiveOrder(ctx context.Context, id types.ID) error {
	_, err := s.client.Collection(driversCollection).Doc(string(id)).Update(ctx, []firestore.Update{
		{Path: "activeOrderId", Value: firestore.Delete},
	})
	if status.Code(err) == codes.NotFound {
		return nil
	}
	if err != nil {
		return fmt.Errorf("clear driver %s active order: %w", id, err)
	}
	return nil
}
