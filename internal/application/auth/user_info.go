package auth

import "github.com/baechuer/noteplus/internal/domain"

// UserInfo echoes the verified identity; there is no store lookup.
func (s *Service) UserInfo(id domain.Identity) domain.Identity {
	return domain.Identity{Name: id.Name, Email: id.Email}
}
