package auth

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/baechuer/noteplus/internal/domain"
)

// Register stores a new user under the next sequential id.
// Duplicate emails are accepted.
func (s *Service) Register(ctx context.Context, name, email, password string) (RegisterResult, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	switch {
	case name == "":
		return RegisterResult{}, domain.ErrMissingField("name")
	case email == "":
		return RegisterResult{}, domain.ErrMissingField("email")
	case password == "":
		return RegisterResult{}, domain.ErrMissingField("password")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		var de *domain.Error
		if errors.As(err, &de) {
			return RegisterResult{}, err
		}
		return RegisterResult{}, domain.ErrHashFailed(err)
	}

	n, err := s.seq.Next(ctx)
	if err != nil {
		var de *domain.Error
		if errors.As(err, &de) {
			return RegisterResult{}, err
		}
		return RegisterResult{}, domain.ErrSequenceFailed(err)
	}

	created, err := s.users.Create(ctx, domain.User{
		ID:           strconv.FormatInt(n, 10),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		return RegisterResult{}, err
	}

	s.audit("user.register", map[string]string{"user_id": created.ID})
	s.publishRegistered(ctx, created)

	return RegisterResult{UserID: created.ID}, nil
}
