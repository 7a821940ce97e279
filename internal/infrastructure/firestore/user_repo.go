package firestore

import (
	"context"
	"errors"
	"time"

	fs "cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/baechuer/noteplus/internal/domain"
)

type userDoc struct {
	Name      string    `firestore:"name"`
	Email     string    `firestore:"email"`
	Password  string    `firestore:"password"`
	CreatedAt time.Time `firestore:"createdAt,serverTimestamp"`
}

type UserRepo struct {
	client *fs.Client
}

func NewUserRepo(c *fs.Client) *UserRepo {
	return &UserRepo{client: c}
}

func (r *UserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	if u.ID == "" {
		return domain.User{}, domain.ErrMissingField("id")
	}
	wr, err := r.client.Collection(usersCollection).Doc(u.ID).Create(ctx, userDoc{
		Name:     u.Name,
		Email:    u.Email,
		Password: u.PasswordHash,
	})
	if err != nil {
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	u.CreatedAt = wr.UpdateTime
	return u, nil
}

// GetByEmail returns the oldest user with the email. Ordering happens here so
// the query needs no composite index.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	it := r.client.Collection(usersCollection).Where("email", "==", email).Documents(ctx)
	defer it.Stop()

	var (
		found bool
		best  domain.User
	)
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return domain.User{}, domain.ErrDBUnavailable(err)
		}
		var d userDoc
		if err := snap.DataTo(&d); err != nil {
			return domain.User{}, domain.ErrInternal(err)
		}
		u := domain.User{
			ID:           snap.Ref.ID,
			Name:         d.Name,
			Email:        d.Email,
			PasswordHash: d.Password,
			CreatedAt:    d.CreatedAt,
		}
		if !found || u.CreatedAt.Before(best.CreatedAt) {
			best, found = u, true
		}
	}
	if !found {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return best, nil
}
