package note

import (
	"context"

	"github.com/baechuer/noteplus/internal/domain"
)

type CreateCmd struct {
	OwnerEmail string
	Category   string
	Title      string
	Content    string
}

// Create stores a new note owned by the caller and returns its id.
func (s *Service) Create(ctx context.Context, cmd CreateCmd) (string, error) {
	n, err := domain.NewNote(s.newID(), cmd.OwnerEmail, cmd.Category, cmd.Title, cmd.Content)
	if err != nil {
		return "", err
	}

	created, err := s.notes.Create(ctx, n)
	if err != nil {
		return "", err
	}

	s.invalidate(ctx, created.OwnerEmail)
	s.publish(ctx, NoteEvent{
		Type:       EventNoteCreated,
		NoteID:     created.ID,
		OwnerEmail: created.OwnerEmail,
		ActorEmail: created.OwnerEmail,
		At:         created.CreatedAt,
	})
	return created.ID, nil
}
