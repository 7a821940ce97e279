package firestore

import (
	"context"
	"errors"
	"time"

	fs "cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/baechuer/noteplus/internal/domain"
)

type noteDoc struct {
	UserEmail string     `firestore:"userEmail"`
	Category  string     `firestore:"category"`
	Title     string     `firestore:"title"`
	Content   string     `firestore:"content"`
	CreatedAt time.Time  `firestore:"createdAt,serverTimestamp"`
	UpdatedAt *time.Time `firestore:"updatedAt,omitempty"`
}

func (d noteDoc) toDomain(id string) domain.Note {
	return domain.Note{
		ID:         id,
		OwnerEmail: d.UserEmail,
		Category:   d.Category,
		Title:      d.Title,
		Content:    d.Content,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

type NoteRepo struct {
	client *fs.Client
}

func NewNoteRepo(c *fs.Client) *NoteRepo {
	return &NoteRepo{client: c}
}

func (r *NoteRepo) col() *fs.CollectionRef {
	return r.client.Collection(notesCollection)
}

func (r *NoteRepo) Create(ctx context.Context, n domain.Note) (domain.Note, error) {
	if n.ID == "" {
		return domain.Note{}, domain.ErrMissingField("id")
	}
	wr, err := r.col().Doc(n.ID).Create(ctx, noteDoc{
		UserEmail: n.OwnerEmail,
		Category:  n.Category,
		Title:     n.Title,
		Content:   n.Content,
	})
	if err != nil {
		return domain.Note{}, domain.ErrDBUnavailable(err)
	}
	n.CreatedAt = wr.UpdateTime
	n.UpdatedAt = nil
	return n, nil
}

func (r *NoteRepo) GetByID(ctx context.Context, id string) (domain.Note, error) {
	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return domain.Note{}, domain.ErrNoteNotFound()
		}
		return domain.Note{}, domain.ErrDBUnavailable(err)
	}
	var d noteDoc
	if err := snap.DataTo(&d); err != nil {
		return domain.Note{}, domain.ErrInternal(err)
	}
	return d.toDomain(snap.Ref.ID), nil
}

// listByOwnerQuery needs the (userEmail ASC, createdAt DESC) composite index
// from firestore.indexes.json.
func (r *NoteRepo) listByOwnerQuery(ownerEmail string) fs.Query {
	return r.col().Where("userEmail", "==", ownerEmail).OrderBy("createdAt", fs.Desc)
}

func (r *NoteRepo) ListByOwner(ctx context.Context, ownerEmail string) ([]domain.Note, error) {
	it := r.listByOwnerQuery(ownerEmail).Documents(ctx)
	defer it.Stop()

	out := make([]domain.Note, 0)
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, domain.ErrDBUnavailable(err)
		}
		var d noteDoc
		if err := snap.DataTo(&d); err != nil {
			return nil, domain.ErrInternal(err)
		}
		out = append(out, d.toDomain(snap.Ref.ID))
	}
	return out, nil
}

func (r *NoteRepo) Update(ctx context.Context, n domain.Note) error {
	updates := []fs.Update{
		{Path: "category", Value: n.Category},
		{Path: "title", Value: n.Title},
		{Path: "content", Value: n.Content},
	}
	if n.UpdatedAt != nil {
		updates = append(updates, fs.Update{Path: "updatedAt", Value: *n.UpdatedAt})
	}
	// Update fails with NotFound when the document is gone.
	if _, err := r.col().Doc(n.ID).Update(ctx, updates); err != nil {
		if isNotFound(err) {
			return domain.ErrNoteNotFound()
		}
		return domain.ErrDBUnavailable(err)
	}
	return nil
}

func (r *NoteRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.col().Doc(id).Delete(ctx, fs.Exists); err != nil {
		if isNotFound(err) {
			return domain.ErrNoteNotFound()
		}
		return domain.ErrDBUnavailable(err)
	}
	return nil
}
