package memory

import (
	"context"
	"sync"
	"time"

	"github.com/baechuer/noteplus/internal/domain"
)

// UserRepo keeps users in insertion order; emails may repeat.
type UserRepo struct {
	mu    sync.RWMutex
	users []domain.User
	now   func() time.Time
}

func NewUserRepo() *UserRepo {
	return &UserRepo{now: func() time.Time { return time.Now().UTC() }}
}

func (r *UserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u.ID == "" {
		return domain.User{}, domain.ErrInternal(nil)
	}
	u.CreatedAt = r.now()
	r.users = append(r.users, u)
	return u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound()
}

// Sequence is the in-process user counter.
type Sequence struct {
	mu sync.Mutex
	n  int64
}

func NewSequence() *Sequence { return &Sequence{} }

func (s *Sequence) Next(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return s.n, nil
}
