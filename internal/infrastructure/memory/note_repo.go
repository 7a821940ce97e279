package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/baechuer/noteplus/internal/domain"
)

type NoteRepo struct {
	mu   sync.RWMutex
	byID map[string]domain.Note
	now  func() time.Time
}

func NewNoteRepo() *NoteRepo {
	return &NoteRepo{
		byID: make(map[string]domain.Note),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (r *NoteRepo) Create(ctx context.Context, n domain.Note) (domain.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n.ID == "" {
		return domain.Note{}, domain.ErrInternal(nil)
	}
	n.CreatedAt = r.now()
	n.UpdatedAt = nil
	r.byID[n.ID] = n
	return n, nil
}

func (r *NoteRepo) GetByID(ctx context.Context, id string) (domain.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.byID[id]
	if !ok {
		return domain.Note{}, domain.ErrNoteNotFound()
	}
	return n, nil
}

func (r *NoteRepo) ListByOwner(ctx context.Context, ownerEmail string) ([]domain.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Note, 0)
	for _, n := range r.byID {
		if n.OwnerEmail == ownerEmail {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *NoteRepo) Update(ctx context.Context, n domain.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[n.ID]
	if !ok {
		return domain.ErrNoteNotFound()
	}
	cur.Category = n.Category
	cur.Title = n.Title
	cur.Content = n.Content
	cur.UpdatedAt = n.UpdatedAt
	r.byID[n.ID] = cur
	return nil
}

func (r *NoteRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return domain.ErrNoteNotFound()
	}
	delete(r.byID, id)
	return nil
}

// Ping satisfies the readiness check.
func (r *NoteRepo) Ping(ctx context.Context) error { return nil }
