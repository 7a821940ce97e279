package note

import (
	"context"

	"github.com/baechuer/noteplus/internal/domain"
)

// Delete removes a note owned by actorEmail.
func (s *Service) Delete(ctx context.Context, noteID, actorEmail string) error {
	if noteID == "" {
		return domain.ErrMissingField("note_id")
	}

	n, err := s.notes.GetByID(ctx, noteID)
	if err != nil {
		return err
	}
	if !n.OwnedBy(actorEmail) {
		s.audit("note.delete_denied", map[string]string{"note_id": n.ID, "actor": actorEmail})
		return domain.ErrNotNoteOwner()
	}

	if err := s.notes.Delete(ctx, noteID); err != nil {
		return err
	}

	s.audit("note.delete", map[string]string{"note_id": n.ID, "owner": n.OwnerEmail})
	s.invalidate(ctx, n.OwnerEmail)
	s.publish(ctx, NoteEvent{
		Type:       EventNoteDeleted,
		NoteID:     n.ID,
		OwnerEmail: n.OwnerEmail,
		ActorEmail: actorEmail,
		At:         s.now(),
	})
	return nil
}
