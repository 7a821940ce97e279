package note

import (
	"context"
	"time"

	"github.com/baechuer/noteplus/internal/domain"
)

/*
NoteRepo
--------
Persistence port for notes. Create assigns CreatedAt and returns the stored
note. Missing notes are reported as domain.ErrNoteNotFound.
*/
type NoteRepo interface {
	Create(ctx context.Context, n domain.Note) (domain.Note, error)
	GetByID(ctx context.Context, id string) (domain.Note, error)
	// ListByOwner returns the owner's notes, newest first.
	ListByOwner(ctx context.Context, ownerEmail string) ([]domain.Note, error)
	// Update persists category, title, content and updatedAt of n.
	Update(ctx context.Context, n domain.Note) error
	Delete(ctx context.Context, id string) error
}

/*
ListCache
---------
Optional read-through cache of an owner's note list. Errors are logged and
treated as misses.

Get also returns the owner's list version, taken before the store read. Set
must drop the write when Invalidate has moved the version on since then.
*/
type ListCache interface {
	Get(ctx context.Context, ownerEmail string) (notes []domain.Note, version int64, ok bool, err error)
	Set(ctx context.Context, ownerEmail string, version int64, notes []domain.Note) error
	Invalidate(ctx context.Context, ownerEmail string) error
}

/*
EventPublisher
--------------
Best-effort note change events.
*/
type EventType string

const (
	EventNoteCreated EventType = "note.created"
	EventNoteUpdated EventType = "note.updated"
	EventNoteDeleted EventType = "note.deleted"
)

type NoteEvent struct {
	Type       EventType
	NoteID     string
	OwnerEmail string
	ActorEmail string
	At         time.Time
}

type EventPublisher interface {
	PublishNoteEvent(ctx context.Context, evt NoteEvent) error
}

type IDGenerator func() string

type Clock func() time.Time
