package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/baechuer/noteplus/internal/domain"
)

type NoteRepo struct {
	db *sql.DB
}

func NewNoteRepo(db *sql.DB) *NoteRepo {
	return &NoteRepo{db: db}
}

const noteColumns = `id, owner_email, category, title, content, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (domain.Note, error) {
	var (
		n         domain.Note
		updatedAt sql.NullTime
	)
	if err := row.Scan(&n.ID, &n.OwnerEmail, &n.Category, &n.Title, &n.Content, &n.CreatedAt, &updatedAt); err != nil {
		return domain.Note{}, err
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		n.UpdatedAt = &t
	}
	return n, nil
}

func (r *NoteRepo) Create(ctx context.Context, n domain.Note) (domain.Note, error) {
	if n.ID == "" {
		return domain.Note{}, domain.ErrMissingField("id")
	}

	const q = `
INSERT INTO notes (id, owner_email, category, title, content)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + noteColumns + `;
`
	created, err := scanNote(r.db.QueryRowContext(ctx, q, n.ID, n.OwnerEmail, n.Category, n.Title, n.Content))
	if err != nil {
		return domain.Note{}, domain.ErrDBUnavailable(err)
	}
	return created, nil
}

func (r *NoteRepo) GetByID(ctx context.Context, id string) (domain.Note, error) {
	const q = `SELECT ` + noteColumns + ` FROM notes WHERE id = $1;`

	n, err := scanNote(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Note{}, domain.ErrNoteNotFound()
		}
		return domain.Note{}, domain.ErrDBUnavailable(err)
	}
	return n, nil
}

func (r *NoteRepo) ListByOwner(ctx context.Context, ownerEmail string) ([]domain.Note, error) {
	const q = `
SELECT ` + noteColumns + `
FROM notes
WHERE owner_email = $1
ORDER BY created_at DESC, id DESC;
`
	rows, err := r.db.QueryContext(ctx, q, ownerEmail)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	out := make([]domain.Note, 0)
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, domain.ErrDBUnavailable(err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return out, nil
}

func (r *NoteRepo) Update(ctx context.Context, n domain.Note) error {
	const q = `
UPDATE notes
SET category = $2,
    title = $3,
    content = $4,
    updated_at = $5
WHERE id = $1;
`
	var updatedAt sql.NullTime
	if n.UpdatedAt != nil {
		updatedAt = sql.NullTime{Time: *n.UpdatedAt, Valid: true}
	}
	res, err := r.db.ExecContext(ctx, q, n.ID, n.Category, n.Title, n.Content, updatedAt)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return domain.ErrNoteNotFound()
	}
	return nil
}

func (r *NoteRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1;`, id)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return domain.ErrNoteNotFound()
	}
	return nil
}

func (r *NoteRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
