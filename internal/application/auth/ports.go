package auth

import (
	"context"
	"time"

	"github.com/baechuer/noteplus/internal/domain"
)

/*
UserRepo
--------
Persistence port for users.
Email is not unique; GetByEmail returns the oldest match.
*/
type UserRepo interface {
	Create(ctx context.Context, u domain.User) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
}

/*
IDSequence
----------
Hands out user ids. Next must be atomic across concurrent callers.
*/
type IDSequence interface {
	Next(ctx context.Context) (int64, error)
}

/*
PasswordHasher
--------------
Abstracts bcrypt.
*/
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error // nil if match
}

/*
TokenSigner
-----------
Issues and verifies session tokens (JWT).
Used by service + auth middleware.
*/
type TokenClaims struct {
	Name  string
	Email string
	Exp   time.Time
}

type TokenSigner interface {
	Sign(id domain.Identity, ttl time.Duration) (string, error)
	Verify(token string) (TokenClaims, error)
}

/*
EventPublisher
--------------
Best-effort domain events. A failed publish never fails the request.
*/
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, evt UserRegisteredEvent) error
}

type UserRegisteredEvent struct {
	UserID string
	Name   string
	Email  string
}
