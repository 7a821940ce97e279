package firestore

import (
	"context"

	fs "cloud.google.com/go/firestore"

	"github.com/baechuer/noteplus/internal/domain"
)

type counterDoc struct {
	Count int64 `firestore:"count"`
}

// Sequence increments counters/userCounter inside a transaction; Firestore
// retries the function on contention.
type Sequence struct {
	client *fs.Client
}

func NewSequence(c *fs.Client) *Sequence {
	return &Sequence{client: c}
}

func (s *Sequence) Next(ctx context.Context) (int64, error) {
	ref := s.client.Collection(countersCollection).Doc(userCounterDoc)

	var next int64
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *fs.Transaction) error {
		var cur counterDoc
		snap, err := tx.Get(ref)
		switch {
		case isNotFound(err):
		case err != nil:
			return err
		default:
			if err := snap.DataTo(&cur); err != nil {
				return err
			}
		}
		next = cur.Count + 1
		return tx.Set(ref, counterDoc{Count: next})
	})
	if err != nil {
		return 0, domain.ErrDBUnavailable(err)
	}
	return next, nil
}
