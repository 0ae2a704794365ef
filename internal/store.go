package internal

import (
	"context"
	"fmt"
	"log/slog"
	"pair-chat/errors"
	"pair-chat/infrastructure/sqlstore"
	"pair-chat/repositories"

	"github.com/dgraph-io/badger/v4"
)

// Stores is the persistence selected by STORE_DRIVER.
type Stores struct {
	Conversations repositories.IConversationRepository
	Messages      repositories.IMessageRepository
	Users         repositories.IUserRepository
	// Badger is set only for the badger driver; the debug inspector reads it.
	Badger *badger.DB
	close  func() error
}

func (s Stores) Close() error {
	return s.close()
}

func OpenStores(ctx context.Context, config Config, log *slog.Logger) (Stores, error) {
	switch config.StoreDriver {
	case StoreBadger:
		db, err := badger.Open(BadgerOptions(config.BadgerFilepath, log, ctx))
		if err != nil {
			return Stores{}, fmt.Errorf("database opening failed: %w", err)
		}
		return Stores{
			Conversations: repositories.NewConversationRepository(db, log),
			Messages:      repositories.NewMessageRepository(db, log, config.LimitMessages),
			Users:         repositories.NewUserRepository(db),
			Badger:        db,
			close:         db.Close,
		}, nil
	case StoreSQLite:
		db, err := sqlstore.Open(ctx, config.SQLiteFilepath)
		if err != nil {
			return Stores{}, fmt.Errorf("database opening failed: %w", err)
		}
		return Stores{
			Conversations: sqlstore.NewConversationRepository(db, log),
			Messages:      sqlstore.NewMessageRepository(db, log, config.LimitMessages),
			Users:         sqlstore.NewUserRepository(db),
			close:         db.Close,
		}, nil
	default:
		return Stores{}, fmt.Errorf("%w: %q", errors.ErrUnknownStoreDriver, config.StoreDriver)
	}
}

func BadgerOptions(path string, logger *slog.Logger, ctx context.Context) badger.Options {
	options := badger.DefaultOptions(path)
	if logger.Enabled(ctx, slog.LevelDebug) {
		options = options.WithLoggingLevel(badger.DEBUG)
	} else {
		options = options.WithLoggingLevel(badger.WARNING)
	}
	return options
}
