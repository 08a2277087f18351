// README: User store backed by Firestore.
package user

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"samaha/internal/types"
)

const usersCollection = "users"

var ErrNotFound = errors.New("user not found")

type Store struct {
	client *firestore.Client
}

func NewStore(client *firestore.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Get(ctx context.Context, uid types.ID) (*User, error) {
	snap, err := s.client.Collection(usersCollection).Doc(string(uid)).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", uid, err)
	}
	var u User
	if err := snap.DataTo(&u); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", uid, err)
	}
	u.UID = types.ID(snap.Ref.ID)
	return &u, nil
}

// Role returns the role recorded for the user, or ErrNotFound.
func (s *Store) Role(ctx context.Context, uid types.ID) (Role, error) {
	u, err := s.Get(ctx, uid)
	if err != nil {
		return "", err
	}
	return u.Role, nil
}

// PushToken implements notify.TokenResolver. A missing user yields an empty
// token rather than an error: pushes to unknown users are silently dropped.
func (s *Store) PushToken(ctx context.Context, uid types.ID) (string, error) {
	u, err := s.Get(ctx, uid)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return u.PushToken, nil
}

// AdminTokens returns the push tokens of every admin user with a registered
// device. Implements notify.AdminLister.
func (s *Store) AdminTokens(ctx context.Context) ([]string, error) {
	iter := s.client.Collection(usersCollection).
		Where("role", "==", string(RoleAdmin)).
		Documents(ctx)
	defer iter.Stop()

	var tokens []string
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list admins: %w", err)
		}
		var u User
		if err := snap.DataTo(&u); err != nil {
			continue
		}
		if u.PushToken != "" {
			tokens = append(tokens, u.PushToken)
		}
	}
	return tokens, nil
}
