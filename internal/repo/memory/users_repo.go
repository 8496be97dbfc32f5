package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/taskhub/api/internal/domain/user"
)

// UsersRepo is the in-memory credential store. Mutations are guarded by
// the mutex since id uniqueness and read-modify-write updates are not
// safe under parallel requests otherwise.
type UsersRepo struct {
	mu    sync.RWMutex
	items map[string]user.User
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{
		items: make(map[string]user.User),
	}
}

func (r *UsersRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.Username == u.Username || existing.Email == u.Email {
			return user.User{}, user.ErrDuplicate
		}
	}

	u.ID = uuid.NewString()
	u.CreatedAt = time.Now().UTC()
	r.items[u.ID] = u

	return u, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.items[id]

	if !ok {
		return user.User{}, user.ErrNotFound
	}

	return u, nil
}

// GetByUsernameOrEmail matches the identifier against either field,
// exact match. Linear scan; the store is unindexed.
func (r *UsersRepo) GetByUsernameOrEmail(ctx context.Context, identifier string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.items {
		if u.Username == identifier || u.Email == identifier {
			return u, nil
		}
	}

	return user.User{}, user.ErrNotFound
}

func (r *UsersRepo) UpdateProfile(ctx context.Context, id string, upd user.ProfileUpdate) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.items[id]

	if !ok {
		return user.User{}, user.ErrNotFound
	}

	if upd.Email != nil && *upd.Email != "" && *upd.Email != u.Email {
		for _, existing := range r.items {
			if existing.ID != id && existing.Email == *upd.Email {
				return user.User{}, user.ErrDuplicate
			}
		}
		u.Email = *upd.Email
	}

	if upd.Name != nil && *upd.Name != "" {
		u.Name = *upd.Name
	}

	r.items[id] = u

	return u, nil
}
