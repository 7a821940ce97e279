//go:build integration

package postgres

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/baechuer/noteplus/internal/domain"
)

func setupTestDatabase(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctr, err := tcpostgres.Run(ctx, "postgres:17",
		tcpostgres.WithDatabase("noteplus"),
		tcpostgres.WithUsername("noteplus"),
		tcpostgres.WithPassword("noteplus"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Skipf("Skipping integration test because Docker is unavailable: %v", err)
	}
	t.Cleanup(func() { _ = ctr.Terminate(context.Background()) })

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Migrate(ctx, db))
	return db
}

func TestIntegration_ConcurrentRegistrationsGetUniqueIDs(t *testing.T) {
	db := setupTestDatabase(t)
	seq := NewSequence(db)

	const workers = 32
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids = map[int64]bool{}
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := seq.Next(context.Background())
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			ids[n] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, ids, workers)
	for i := int64(1); i <= workers; i++ {
		assert.True(t, ids[i], "missing id %d", i)
	}
}

func TestIntegration_NoteLifecycle(t *testing.T) {
	db := setupTestDatabase(t)
	ctx := context.Background()
	users := NewUserRepo(db)
	notes := NewNoteRepo(db)

	_, err := users.Create(ctx, domain.User{ID: "1", Name: "A", Email: "a@x.com", PasswordHash: "h1"})
	require.NoError(t, err)
	_, err = users.Create(ctx, domain.User{ID: "2", Name: "A2", Email: "a@x.com", PasswordHash: "h2"})
	require.NoError(t, err)

	u, err := users.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "1", u.ID)

	created, err := notes.Create(ctx, domain.Note{ID: "n1", OwnerEmail: "a@x.com", Category: "งาน", Title: "T", Content: "C"})
	require.NoError(t, err)
	assert.False(t, created.CreatedAt.IsZero())

	list, err := notes.ListByOwner(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "งาน", list[0].Category)

	at := time.Now().UTC().Truncate(time.Microsecond)
	created.Title = "T2"
	created.UpdatedAt = &at
	require.NoError(t, notes.Update(ctx, created))

	got, err := notes.GetByID(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, "T2", got.Title)
	require.NotNil(t, got.UpdatedAt)
	assert.True(t, at.Equal(*got.UpdatedAt))

	require.NoError(t, notes.Delete(ctx, "n1"))
	assert.True(t, domain.Is(notes.Delete(ctx, "n1"), "note_not_found"))
}
