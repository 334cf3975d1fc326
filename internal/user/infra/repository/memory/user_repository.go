package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/cristianortiz/auctionSettlement/internal/user/domain"
)

// UserRepository keeps users in a map; used by the memory store and tests.
type UserRepository struct {
	mu    sync.RWMutex
	users map[int64]domain.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[int64]domain.User)}
}

func (r *UserRepository) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *UserRepository) Ensure(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.users[id]; ok {
		return &u, nil
	}
	u, err := domain.NewUser(id, "")
	if err != nil {
		return nil, err
	}
	r.users[id] = *u
	return u, nil
}

// Snapshot captures the users so a failed unit of work can put them back.
func (r *UserRepository) Snapshot() func() {
	r.mu.RLock()
	saved := maps.Clone(r.users)
	r.mu.RUnlock()

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.users = saved
	}
}
