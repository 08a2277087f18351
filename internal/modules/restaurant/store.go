// README: Restaurant store backed by Firestore.
package restaurant

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"samaha/internal/types"
)

const restaurantsCollection = "restaurants"

var ErrNotFound = errors.New("restaurant not found")

type Store struct {
	client *firestore.Client
}

func NewStore(client *firestore.Client) *Store {
	return &Store{client: client}
}

// Settings binds the store to the single restaurant this deployment serves
// and exposes the flags other modules depend on.
type Settings struct {
	store *Store
	id    types.ID
}

func NewSettings(store *Store, id types.ID) *Settings {
	return &Settings{store: store, id: id}
}

func (s *Settings) AutoDispatchEnabled(ctx context.Context) (bool, error) {
	r, err := s.store.Get(ctx, s.id)
	if err != nil {
		return false, err
	}
	return r.AutoDispatch, nil
}

func (s *Settings) Location(ctx context.Context) (types.Point, error) {
	r, err := s.store.Get(ctx, s.id)
	if err != nil {
		return types.Point{}, err
	}
	return r.Location(), nil
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Restaurant, error) {
	snap, err := s.client.Collection(restaurantsCollection).Doc(string(id)).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get restaurant %s: %w", id, err)
	}
	var r Restaurant
	if err := snap.DataTo(&r); err != nil {
		return nil, fmt.Errorf("decode restaurant %s: %w", id, err)
	}
	r.ID = types.ID(snap.Ref.ID)
	return &r, nil
}
