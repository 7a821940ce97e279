package auth

import (
	"context"
	"time"

	"github.com/baechuer/noteplus/internal/domain"
	"github.com/baechuer/noteplus/internal/logger"
)

type Service struct {
	users  UserRepo
	seq    IDSequence
	hasher PasswordHasher
	signer TokenSigner
	pub    EventPublisher

	tokenTTL time.Duration
	audit    func(action string, fields map[string]string)
}

type Config struct {
	TokenTTL time.Duration
}

func NewService(
	users UserRepo,
	seq IDSequence,
	hasher PasswordHasher,
	signer TokenSigner,
	pub EventPublisher,
	cfg Config,
) *Service {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{
		users:    users,
		seq:      seq,
		hasher:   hasher,
		signer:   signer,
		pub:      pub,
		tokenTTL: ttl,
		audit:    func(string, map[string]string) {},
	}
}

func (s *Service) WithAudit(fn func(action string, fields map[string]string)) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}

// RegisterResult carries the new user's id; no token is issued on register.
type RegisterResult struct {
	UserID string
}

type LoginResult struct {
	User  domain.User
	Token string
}

func (s *Service) publishRegistered(ctx context.Context, u domain.User) {
	if s.pub == nil {
		return
	}
	evt := UserRegisteredEvent{UserID: u.ID, Name: u.Name, Email: u.Email}
	if err := s.pub.PublishUserRegistered(ctx, evt); err != nil {
		logger.WithCtx(ctx).Warn().Err(err).Str("user_id", u.ID).Msg("publish user.registered failed")
	}
}
