//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"context"
	"fmt"
	"log/slog"
	"pair-chat/domain"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IMessageRepository interface {
	CreateMessage(ctx context.Context, message domain.NewMessage) (domain.Message, error)
	GetMessages(ctx context.Context, conversationID string, cursor *string) ([]domain.Message, *string, error)
}

type MessageRepository struct {
	db            *badger.DB
	log           *slog.Logger
	limitMessages *int
	now           func() time.Time
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, limitMessages *int) MessageRepository {
	return MessageRepository{db: db, log: log, limitMessages: limitMessages, now: time.Now}
}

// CreateMessage assigns an id and a timestamp, then persists the message in BadgerDB.
// The key is formatted as "msg:{conversation_id}:{timestamp_padded}:{uuid}" to:
//  1. Ensure chronological sorting using 19-digit zero padding (lexicographical order).
//  2. Prevent data loss by using UUID as a collision disconnector if two messages
//     arrive at the same nanosecond.
func (m MessageRepository) CreateMessage(ctx context.Context, newMessage domain.NewMessage) (domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return domain.Message{}, err
	}
	message := domain.Message{
		ID:             uuid.NewString(),
		ConversationID: newMessage.ConversationID,
		SenderID:       newMessage.SenderID,
		Content:        newMessage.Content,
		Lang:           newMessage.Lang,
		CreatedAt:      m.now().UTC(),
	}
	key := fmt.Sprintf("msg:%s:%s", message.ConversationID, domain.FormatCursor(message.CreatedAt, message.ID))
	err := m.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), marshalMessage(message))
	})
	if err != nil {
		return domain.Message{}, fmt.Errorf("store message: %w", err)
	}
	return message, nil
}

// GetMessages retrieves messages for a conversation using a reverse prefix scan.
// Thanks to the padded timestamp in the key, messages come out newest first.
// It stops collecting messages once the configured limitMessages is reached.
// The returned cursor is the key suffix of the last message (domain.FormatCursor), or nil when
// nothing was read. A malformed cursor is rejected with errors.ErrInvalidCursor.
func (m MessageRepository) GetMessages(ctx context.Context, conversationID string, cursor *string) ([]domain.Message, *string, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if cursor != nil {
		if _, _, err := domain.ParseCursor(*cursor); err != nil {
			return nil, nil, err
		}
	}
	var messages []domain.Message
	var lastKey string
	err := m.db.View(func(txn *badger.Txn) error {
		prefixStr := fmt.Sprintf("msg:%s:", conversationID)
		prefix := []byte(prefixStr)
		prefixLen := len(prefixStr)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			// Start past the newest possible timestamp and walk back.
			seekKey = append(prefix, []byte("9999999999999999999")...)
		default:
			seekKey = append(prefix, []byte(*cursor)...)
		}

		it.Seek(seekKey)

		if cursor != nil && it.ValidForPrefix(prefix) && string(it.Item().Key()[prefixLen:]) == *cursor {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if m.limitMessages != nil && len(messages) == *m.limitMessages {
				m.log.Debug(fmt.Sprintf("Maximum of %d message reached", *m.limitMessages))
				break
			}
			item := it.Item()
			// Memorize cursor part of the actual key
			lastKey = string(item.Key()[prefixLen:])
			err := item.Value(func(value []byte) error {
				message, err := unmarshalMessage(value)
				if err != nil {
					return err
				}
				messages = append(messages, message)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("get messages: %w", err)
	}
	if len(messages) == 0 {
		return nil, nil, nil
	}
	return messages, &lastKey, nil
}
