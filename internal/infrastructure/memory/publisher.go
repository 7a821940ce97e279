package memory

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/baechuer/noteplus/internal/application/auth"
	"github.com/baechuer/noteplus/internal/application/note"
)

// NoopPublisher logs events instead of sending them. Used when no broker is
// configured.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher { return &NoopPublisher{} }

func (p *NoopPublisher) PublishUserRegistered(ctx context.Context, evt auth.UserRegisteredEvent) error {
	log.Debug().Str("user_id", evt.UserID).Msg("[noop-pub] user.registered")
	return nil
}

func (p *NoopPublisher) PublishNoteEvent(ctx context.Context, evt note.NoteEvent) error {
	log.Debug().Str("event", string(evt.Type)).Str("note_id", evt.NoteID).Msg("[noop-pub] note event")
	return nil
}
