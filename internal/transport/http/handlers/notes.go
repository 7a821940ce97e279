package http_handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/noteplus/internal/application/note"
	"github.com/baechuer/noteplus/internal/domain"
	"github.com/baechuer/noteplus/internal/transport/http/dto"
	"github.com/baechuer/noteplus/internal/transport/http/middleware"
	"github.com/baechuer/noteplus/internal/transport/http/response"
)

type NoteHandler struct {
	svc *note.Service
}

func NewNoteHandler(svc *note.Service) *NoteHandler {
	return &NoteHandler{svc: svc}
}

// Create handles POST /api/notes
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenMissing())
		return
	}

	var req dto.CreateNoteRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	noteID, err := h.svc.Create(r.Context(), note.CreateCmd{
		OwnerEmail: id.Email,
		Category:   req.Category,
		Title:      req.Title,
		Content:    req.Content,
	})
	if err != nil {
		observe("create", err)
		response.WriteError(w, r, err)
		return
	}
	observe("create", nil)

	response.Created(w, dto.CreateNoteResponse{
		Message: "Note บันทึกสำเร็จ",
		NoteID:  noteID,
	})
}

// List handles GET /api/notes
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenMissing())
		return
	}

	notes, err := h.svc.List(r.Context(), id.Email)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.ToNoteList(notes))
}

// Update handles PUT /api/notes/{id}. The actor may be empty when the route
// runs without mandatory auth.
func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	noteID := chi.URLParam(r, "id")
	if noteID == "" {
		response.WriteError(w, r, domain.ErrMissingField("id"))
		return
	}

	var req dto.UpdateNoteRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	actor, _ := middleware.IdentityFromContext(r.Context())
	if _, err := h.svc.Update(r.Context(), note.UpdateCmd{
		NoteID:     noteID,
		ActorEmail: actor.Email,
		Patch:      req.Patch(),
	}); err != nil {
		observe("update", err)
		response.WriteError(w, r, err)
		return
	}
	observe("update", nil)

	response.OK(w, response.Message{Message: "Note updated successfully"})
}

// Delete handles DELETE /api/notes/{id}
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenMissing())
		return
	}
	noteID := chi.URLParam(r, "id")
	if noteID == "" {
		response.WriteError(w, r, domain.ErrMissingField("id"))
		return
	}

	if err := h.svc.Delete(r.Context(), noteID, id.Email); err != nil {
		observe("delete", err)
		response.WriteError(w, r, err)
		return
	}
	observe("delete", nil)

	response.OK(w, response.Message{Message: "Note deleted successfully"})
}

func observe(op string, err error) {
	status := "ok"
	if err != nil {
		status = string(domain.KindOf(err))
	}
	middleware.NoteOperationsTotal.WithLabelValues(op, status).Inc()
}
