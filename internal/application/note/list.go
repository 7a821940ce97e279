package note

import (
	"context"

	"github.com/baechuer/noteplus/internal/domain"
	"github.com/baechuer/noteplus/internal/logger"
)

// List returns the owner's notes, newest first. An owner without notes gets
// domain.ErrNoNotes.
func (s *Service) List(ctx context.Context, ownerEmail string) ([]domain.Note, error) {
	if ownerEmail == "" {
		return nil, domain.ErrMissingField("owner_email")
	}

	var (
		version  int64
		canStore bool
	)
	if s.cache != nil {
		cached, ver, ok, err := s.cache.Get(ctx, ownerEmail)
		if err != nil {
			logger.WithCtx(ctx).Warn().Err(err).Msg("note list cache read failed")
		} else if ok && len(cached) > 0 {
			return cached, nil
		} else {
			version, canStore = ver, true
		}
	}

	notes, err := s.notes.ListByOwner(ctx, ownerEmail)
	if err != nil {
		return nil, err
	}
	if len(notes) == 0 {
		return nil, domain.ErrNoNotes()
	}

	if canStore {
		if err := s.cache.Set(ctx, ownerEmail, version, notes); err != nil {
			logger.WithCtx(ctx).Warn().Err(err).Msg("note list cache write failed")
		}
	}
	return notes, nil
}
