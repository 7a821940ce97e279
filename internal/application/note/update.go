package note

import (
	"context"

	"github.com/baechuer/noteplus/internal/domain"
)

// UpdateCmd is a partial update. Nil fields are left untouched; owner, id and
// timestamps cannot be changed by the caller.
type UpdateCmd struct {
	NoteID     string
	ActorEmail string
	Patch      domain.NotePatch
}

func (s *Service) Update(ctx context.Context, cmd UpdateCmd) (domain.Note, error) {
	if cmd.NoteID == "" {
		return domain.Note{}, domain.ErrMissingField("note_id")
	}

	n, err := s.notes.GetByID(ctx, cmd.NoteID)
	if err != nil {
		return domain.Note{}, err
	}

	if !s.openUpdate && !n.OwnedBy(cmd.ActorEmail) {
		s.audit("note.update_denied", map[string]string{"note_id": n.ID, "actor": cmd.ActorEmail})
		return domain.Note{}, domain.ErrNotNoteOwner()
	}

	cmd.Patch.Apply(&n, s.now())
	if err := s.notes.Update(ctx, n); err != nil {
		return domain.Note{}, err
	}

	s.invalidate(ctx, n.OwnerEmail)
	s.publish(ctx, NoteEvent{
		Type:       EventNoteUpdated,
		NoteID:     n.ID,
		OwnerEmail: n.OwnerEmail,
		ActorEmail: cmd.ActorEmail,
		At:         *n.UpdatedAt,
	})
	return n, nil
}
