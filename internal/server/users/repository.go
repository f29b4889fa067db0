package users

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/yardcms/internal/common"
	"github.com/dmitrijs2005/yardcms/internal/kv"
)

const keyPrefix = "user:"

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetUserByLogin(ctx context.Context, username string) (*User, error)
}

// KVRepository keeps each user as a JSON document under user:<username>.
type KVRepository struct {
	store kv.Store
}

func NewKVRepository(store kv.Store) *KVRepository {
	return &KVRepository{store: store}
}

func userKey(username string) string {
	return keyPrefix + username
}

// Create stores user. It returns common.ErrAlreadyExists when the name is
// taken. The check and the write are separate store calls.
func (r *KVRepository) Create(ctx context.Context, user *User) error {
	key := userKey(user.Username)

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check user: %w", err)
	}
	if exists {
		return fmt.Errorf("user %q: %w", user.Username, common.ErrAlreadyExists)
	}
	if err := kv.SetJSON(ctx, r.store, key, user, 0); err != nil {
		return fmt.Errorf("write user: %w", err)
	}
	return nil
}

func (r *KVRepository) GetUserByLogin(ctx context.Context, username string) (*User, error) {
	user := &User{}
	if err := kv.GetJSON(ctx, r.store, userKey(username), user); err != nil {
		return nil, err
	}
	return user, nil
}
