package postgres

import (
	"context"
	"database/sql"

	"github.com/baechuer/noteplus/internal/domain"
)

const userCounter = "userCounter"

// Sequence allocates user ids from the counters table. The upsert takes a
// row lock, so concurrent callers never observe the same value.
type Sequence struct {
	db   *sql.DB
	name string
}

func NewSequence(db *sql.DB) *Sequence {
	return &Sequence{db: db, name: userCounter}
}

func (s *Sequence) Next(ctx context.Context) (int64, error) {
	const q = `
INSERT INTO counters (name, count)
VALUES ($1, 1)
ON CONFLICT (name) DO UPDATE SET count = counters.count + 1
RETURNING count;
`
	var n int64
	if err := s.db.QueryRowContext(ctx, q, s.name).Scan(&n); err != nil {
		return 0, domain.ErrDBUnavailable(err)
	}
	return n, nil
}
