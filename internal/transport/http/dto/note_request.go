package dto

import "github.com/baechuer/noteplus/internal/domain"

type CreateNoteRequest struct {
	Category string `json:"category" validate:"required,notblank"`
	Title    string `json:"title" validate:"required,notblank"`
	Content  string `json:"content" validate:"required,notblank"`
}

func (r *CreateNoteRequest) Validate() error { return validateStruct(r) }

// UpdateNoteRequest carries only the mutable fields. Other keys a client
// sends (noteId, userEmail, createdAt, updatedAt) are dropped by decoding.
type UpdateNoteRequest struct {
	Category *string `json:"category"`
	Title    *string `json:"title"`
	Content  *string `json:"content"`
}

func (r *UpdateNoteRequest) Patch() domain.NotePatch {
	return domain.NotePatch{Category: r.Category, Title: r.Title, Content: r.Content}
}
