package note

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/baechuer/noteplus/internal/logger"
)

type Service struct {
	notes NoteRepo
	cache ListCache
	pub   EventPublisher

	newID IDGenerator
	now   Clock

	openUpdate bool
	audit      func(action string, fields map[string]string)
}

type Config struct {
	// OpenUpdate skips the ownership check on Update.
	OpenUpdate bool
}

// NewService wires the note use cases. cache and pub may be nil.
func NewService(notes NoteRepo, cache ListCache, pub EventPublisher, cfg Config) *Service {
	return &Service{
		notes:      notes,
		cache:      cache,
		pub:        pub,
		newID:      uuid.NewString,
		now:        func() time.Time { return time.Now().UTC() },
		openUpdate: cfg.OpenUpdate,
		audit:      func(string, map[string]string) {},
	}
}

func (s *Service) WithAudit(fn func(action string, fields map[string]string)) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}

func (s *Service) WithClock(now Clock) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

func (s *Service) WithIDGenerator(gen IDGenerator) *Service {
	if gen != nil {
		s.newID = gen
	}
	return s
}

func (s *Service) invalidate(ctx context.Context, owner string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, owner); err != nil {
		logger.WithCtx(ctx).Warn().Err(err).Msg("note list cache invalidate failed")
	}
}

func (s *Service) publish(ctx context.Context, evt NoteEvent) {
	if s.pub == nil {
		return
	}
	if err := s.pub.PublishNoteEvent(ctx, evt); err != nil {
		logger.WithCtx(ctx).Warn().Err(err).
			Str("event", string(evt.Type)).
			Str("note_id", evt.NoteID).
			Msg("publish note event failed")
	}
}
