package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/baechuer/noteplus/internal/domain"
)

/*
Fakes for ports
*/

type fakeUserRepo struct {
	mu sync.Mutex

	users []domain.User // insertion order

	getByEmailErr error
	createErr     error
}

func newFakeUserRepo() *fakeUserRepo { return &fakeUserRepo{} }

func (f *fakeUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return domain.User{}, f.createErr
	}
	u.CreatedAt = time.Now().UTC()
	f.users = append(f.users, u)
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getByEmailErr != nil {
		return domain.User{}, f.getByEmailErr
	}
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound()
}

type fakeSeq struct {
	mu  sync.Mutex
	n   int64
	err error
}

func (s *fakeSeq) Next(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	s.n++
	return s.n, nil
}

type fakeHasher struct {
	hashFn func(pw string) (string, error)
}

func (h *fakeHasher) Hash(password string) (string, error) {
	if h.hashFn != nil {
		return h.hashFn(password)
	}
	return "hash:" + password, nil
}

func (h *fakeHasher) Compare(hash string, password string) error {
	if hash == "hash:"+password {
		return nil
	}
	return errors.New("mismatch")
}

type fakeSigner struct {
	signFn func(id domain.Identity, ttl time.Duration) (string, error)

	lastTTL time.Duration
}

func (s *fakeSigner) Sign(id domain.Identity, ttl time.Duration) (string, error) {
	s.lastTTL = ttl
	if s.signFn != nil {
		return s.signFn(id, ttl)
	}
	return fmt.Sprintf("jwt(%s,%s)", id.Name, id.Email), nil
}

func (s *fakeSigner) Verify(token string) (TokenClaims, error) {
	return TokenClaims{}, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	err    error
	events []UserRegisteredEvent
}

func (p *fakePublisher) PublishUserRegistered(ctx context.Context, evt UserRegisteredEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

type auditEntry struct {
	action string
	fields map[string]string
}

type testDeps struct {
	users  *fakeUserRepo
	seq    *fakeSeq
	hasher *fakeHasher
	signer *fakeSigner
	pub    *fakePublisher
	audits *[]auditEntry
}

func newSvcForTest(t *testing.T) (*Service, testDeps) {
	t.Helper()

	d := testDeps{
		users:  newFakeUserRepo(),
		seq:    &fakeSeq{},
		hasher: &fakeHasher{},
		signer: &fakeSigner{},
		pub:    &fakePublisher{},
		audits: &[]auditEntry{},
	}
	svc := NewService(d.users, d.seq, d.hasher, d.signer, d.pub, Config{TokenTTL: time.Hour}).
		WithAudit(func(action string, fields map[string]string) {
			*d.audits = append(*d.audits, auditEntry{action: action, fields: fields})
		})
	return svc, d
}

func domainCode(err error) string {
	if err == nil {
		return ""
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return de.Code
	}
	return "non_domain_error"
}

func requireDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	if got := domainCode(err); got != code {
		t.Fatalf("expected code %q, got %q (err=%v)", code, got, err)
	}
}
