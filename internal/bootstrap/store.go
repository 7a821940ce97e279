package bootstrap

import (
	"context"
	"fmt"

	"github.com/baechuer/noteplus/internal/config"
	"github.com/baechuer/noteplus/internal/infrastructure/db/postgres"
	"github.com/baechuer/noteplus/internal/infrastructure/firestore"
	"github.com/baechuer/noteplus/internal/infrastructure/memory"
	"github.com/baechuer/noteplus/internal/logger"
)

// openStore builds the adapters for cfg.StoreDriver.
func openStore(ctx context.Context, cfg *config.Config) (*Store, error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		db, err := config.NewDB(cfg.DBAddr, cfg.DBDebug)
		if err != nil {
			return nil, err
		}
		if cfg.DBMigrate {
			if err := postgres.Migrate(ctx, db); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("migrate: %w", err)
			}
			logger.Logger.Info().Msg("database migrations applied")
		}
		notes := postgres.NewNoteRepo(db)
		return &Store{
			Users:  postgres.NewUserRepo(db),
			Seq:    postgres.NewSequence(db),
			Notes:  notes,
			Pinger: notes,
			Close:  db.Close,
		}, nil

	case config.StoreFirestore:
		client, err := firestore.NewClient(ctx, cfg.FirestoreProjectID, cfg.FirestoreCredentialsFile)
		if err != nil {
			return nil, err
		}
		return &Store{
			Users:  firestore.NewUserRepo(client),
			Seq:    firestore.NewSequence(client),
			Notes:  firestore.NewNoteRepo(client),
			Pinger: firestore.NewPinger(client),
			Close:  client.Close,
		}, nil

	case config.StoreMemory:
		logger.Logger.Warn().Msg("using in-memory store; data is lost on restart")
		notes := memory.NewNoteRepo()
		return &Store{
			Users:  memory.NewUserRepo(),
			Seq:    memory.NewSequence(),
			Notes:  notes,
			Pinger: notes,
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
