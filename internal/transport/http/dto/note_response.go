package dto

import (
	"time"

	"github.com/baechuer/noteplus/internal/domain"
)

type CreateNoteResponse struct {
	Message string `json:"message"`
	NoteID  string `json:"noteId"`
}

type NoteResponse struct {
	NoteID    string     `json:"noteId"`
	UserEmail string     `json:"userEmail"`
	Category  string     `json:"category"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

func ToNoteResponse(n domain.Note) NoteResponse {
	return NoteResponse{
		NoteID:    n.ID,
		UserEmail: n.OwnerEmail,
		Category:  n.Category,
		Title:     n.Title,
		Content:   n.Content,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func ToNoteList(notes []domain.Note) []NoteResponse {
	out := make([]NoteResponse, 0, len(notes))
	for _, n := range notes {
		out = append(out, ToNoteResponse(n))
	}
	return out
}
