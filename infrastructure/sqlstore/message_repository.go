package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"pair-chat/domain"
	"time"

	"github.com/google/uuid"
)

type MessageRepository struct {
	db            *sql.DB
	log           *slog.Logger
	limitMessages *int
	now           func() time.Time
}

func NewMessageRepository(db *sql.DB, log *slog.Logger, limitMessages *int) *MessageRepository {
	return &MessageRepository{db: db, log: log, limitMessages: limitMessages, now: time.Now}
}

func (m *MessageRepository) CreateMessage(ctx context.Context, newMessage domain.NewMessage) (domain.Message, error) {
	message := domain.Message{
		ID:             uuid.NewString(),
		ConversationID: newMessage.ConversationID,
		SenderID:       newMessage.SenderID,
		Content:        newMessage.Content,
		Lang:           newMessage.Lang,
		CreatedAt:      m.now().UTC(),
	}
	_, err := m.db.ExecContext(ctx,
		`INSERT INTO messages (id, conversation_id, sender_id, content, lang, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		message.ID, message.ConversationID, message.SenderID, message.Content, message.Lang,
		message.CreatedAt.UnixNano())
	if err != nil {
		return domain.Message{}, fmt.Errorf("store message: %w", err)
	}
	return message, nil
}

// GetMessages pages through a conversation newest first. The cursor has the same
// "{created_nano:019d}:{id}" shape as the badger store, so clients cannot tell them apart.
func (m *MessageRepository) GetMessages(ctx context.Context, conversationID string, cursor *string) ([]domain.Message, *string, error) {
	query := `SELECT id, conversation_id, sender_id, content, lang, created_at FROM messages
		WHERE conversation_id = ?`
	args := []any{conversationID}

	if cursor != nil {
		at, id, err := domain.ParseCursor(*cursor)
		if err != nil {
			return nil, nil, err
		}
		query += ` AND (created_at < ? OR (created_at = ? AND id < ?))`
		args = append(args, at, at, id)
	}

	limit := -1
	if m.limitMessages != nil {
		limit = *m.limitMessages
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("get messages: %w", err)
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var message domain.Message
		var createdAt int64
		if err := rows.Scan(&message.ID, &message.ConversationID, &message.SenderID,
			&message.Content, &message.Lang, &createdAt); err != nil {
			return nil, nil, fmt.Errorf("get messages: %w", err)
		}
		message.CreatedAt = time.Unix(0, createdAt).UTC()
		messages = append(messages, message)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("get messages: %w", err)
	}
	if len(messages) == 0 {
		return nil, nil, nil
	}

	last := messages[len(messages)-1]
	next := domain.FormatCursor(last.CreatedAt, last.ID)
	return messages, &next, nil
}
