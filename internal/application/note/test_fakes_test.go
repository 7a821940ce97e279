package note

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/baechuer/noteplus/internal/domain"
)

type fakeNoteRepo struct {
	mu sync.Mutex

	byID  map[string]domain.Note
	clock time.Time

	createErr error
	listErr   error
	updateErr error
	deleteErr error

	listCalls int
	// onList runs after the store snapshot is taken, outside the lock
	onList func()
}

func newFakeNoteRepo() *fakeNoteRepo {
	return &fakeNoteRepo{
		byID:  map[string]domain.Note{},
		clock: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (f *fakeNoteRepo) Create(ctx context.Context, n domain.Note) (domain.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return domain.Note{}, f.createErr
	}
	f.clock = f.clock.Add(time.Minute)
	n.CreatedAt = f.clock
	f.byID[n.ID] = n
	return n, nil
}

func (f *fakeNoteRepo) GetByID(ctx context.Context, id string) (domain.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	n, ok := f.byID[id]
	if !ok {
		return domain.Note{}, domain.ErrNoteNotFound()
	}
	return n, nil
}

func (f *fakeNoteRepo) ListByOwner(ctx context.Context, owner string) ([]domain.Note, error) {
	f.mu.Lock()
	f.listCalls++
	if f.listErr != nil {
		f.mu.Unlock()
		return nil, f.listErr
	}
	var out []domain.Note
	for _, n := range f.byID {
		if n.OwnerEmail == owner {
			out = append(out, n)
		}
	}
	hook := f.onList
	f.onList = nil
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeNoteRepo) Update(ctx context.Context, n domain.Note) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.byID[n.ID]; !ok {
		return domain.ErrNoteNotFound()
	}
	f.byID[n.ID] = n
	return nil
}

func (f *fakeNoteRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNoteNotFound()
	}
	delete(f.byID, id)
	return nil
}

// fakeCache mirrors the redis cache's version check.
type fakeCache struct {
	mu sync.Mutex

	lists       map[string][]domain.Note
	versions    map[string]int64
	getErr      error
	invalidated []string
	staleSets   int
}

func newFakeCache() *fakeCache {
	return &fakeCache{lists: map[string][]domain.Note{}, versions: map[string]int64{}}
}

func (c *fakeCache) Get(ctx context.Context, owner string) ([]domain.Note, int64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, 0, false, c.getErr
	}
	l, ok := c.lists[owner]
	return l, c.versions[owner], ok, nil
}

func (c *fakeCache) Set(ctx context.Context, owner string, version int64, notes []domain.Note) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.versions[owner] != version {
		c.staleSets++
		return nil
	}
	c.lists[owner] = notes
	return nil
}

func (c *fakeCache) Invalidate(ctx context.Context, owner string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.versions[owner]++
	delete(c.lists, owner)
	c.invalidated = append(c.invalidated, owner)
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	err    error
	events []NoteEvent
}

func (p *fakePublisher) PublishNoteEvent(ctx context.Context, evt NoteEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

func (p *fakePublisher) types() []EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]EventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type testDeps struct {
	repo  *fakeNoteRepo
	cache *fakeCache
	pub   *fakePublisher
	now   time.Time
}

func newSvcForTest(t *testing.T, cfg Config) (*Service, *testDeps) {
	t.Helper()

	d := &testDeps{
		repo:  newFakeNoteRepo(),
		cache: newFakeCache(),
		pub:   &fakePublisher{},
		now:   time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC),
	}
	seq := 0
	svc := NewService(d.repo, d.cache, d.pub, cfg).
		WithClock(func() time.Time { return d.now }).
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("note-%d", seq)
		})
	return svc, d
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	if !domain.Is(err, code) {
		t.Fatalf("expected code %q, got %v", code, err)
	}
}
