package auth

import (
	"context"
	"strings"

	"github.com/baechuer/noteplus/internal/domain"
)

// Login checks the password of the first user registered under email and
// issues a session token. An unknown email is reported as not found, a wrong
// password as invalid credentials.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = strings.TrimSpace(email)

	switch {
	case email == "":
		return LoginResult{}, domain.ErrMissingField("email")
	case password == "":
		return LoginResult{}, domain.ErrMissingField("password")
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return LoginResult{}, err
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		s.audit("user.login_failed", map[string]string{"user_id": u.ID})
		return LoginResult{}, domain.ErrInvalidCredentials()
	}

	tok, err := s.signer.Sign(domain.Identity{Name: u.Name, Email: u.Email}, s.tokenTTL)
	if err != nil {
		return LoginResult{}, domain.ErrTokenSignFailed(err)
	}

	s.audit("user.login", map[string]string{"user_id": u.ID})
	return LoginResult{User: u, Token: tok}, nil
}
