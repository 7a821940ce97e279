package domain

import (
	"strings"
	"time"
)

// Suggested categories offered by the client. The server accepts any
// non-empty category.
var SuggestedCategories = []string{"งาน", "ส่วนตัว", "การเรียน", "อื่นๆ"}

type Note struct {
	ID         string
	OwnerEmail string
	Category   string
	Title      string
	Content    string
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}

// NewNote validates the client-supplied fields of a note. CreatedAt is left
// zero; the store assigns it.
func NewNote(id, ownerEmail, category, title, content string) (Note, error) {
	if strings.TrimSpace(ownerEmail) == "" {
		return Note{}, ErrMissingField("owner_email")
	}
	if strings.TrimSpace(category) == "" {
		return Note{}, ErrMissingField("category")
	}
	if strings.TrimSpace(title) == "" {
		return Note{}, ErrMissingField("title")
	}
	if strings.TrimSpace(content) == "" {
		return Note{}, ErrMissingField("content")
	}
	return Note{
		ID:         id,
		OwnerEmail: ownerEmail,
		Category:   category,
		Title:      title,
		Content:    content,
	}, nil
}

// OwnedBy reports whether email owns the note.
func (n Note) OwnedBy(email string) bool {
	return email != "" && n.OwnerEmail == email
}

// NotePatch is a partial update. Nil fields are left untouched.
type NotePatch struct {
	Category *string
	Title    *string
	Content  *string
}

func (p NotePatch) Empty() bool {
	return p.Category == nil && p.Title == nil && p.Content == nil
}

// Apply merges the patch into n and stamps UpdatedAt.
func (p NotePatch) Apply(n *Note, at time.Time) {
	if p.Category != nil {
		n.Category = *p.Category
	}
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Content != nil {
		n.Content = *p.Content
	}
	n.UpdatedAt = &at
}
