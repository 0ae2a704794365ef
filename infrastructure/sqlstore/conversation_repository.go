package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"pair-chat/domain"
	"pair-chat/errors"
	"time"

	"github.com/google/uuid"
)

type ConversationRepository struct {
	db  *sql.DB
	log *slog.Logger
	now func() time.Time
}

func NewConversationRepository(db *sql.DB, log *slog.Logger) *ConversationRepository {
	return &ConversationRepository{db: db, log: log, now: time.Now}
}

const conversationColumns = "id, user1_id, user2_id, created_at"

// FindByParticipants matches the pair in either column order.
func (r *ConversationRepository) FindByParticipants(ctx context.Context, a, b string) (*domain.Conversation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+conversationColumns+` FROM conversations
		 WHERE (user1_id = ? AND user2_id = ?) OR (user1_id = ? AND user2_id = ?)
		 LIMIT 1`,
		a, b, b, a)
	conversation, err := scanConversation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find conversation: %w", err)
	}
	return &conversation, nil
}

// Create inserts the conversation; idx_conversations_pair turns a duplicate pair,
// in either order, into ErrConversationAlreadyExists.
func (r *ConversationRepository) Create(ctx context.Context, a, b string) (domain.Conversation, error) {
	conversation := domain.Conversation{
		ID:        uuid.NewString(),
		User1ID:   a,
		User2ID:   b,
		CreatedAt: r.now().UTC(),
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO conversations (`+conversationColumns+`) VALUES (?, ?, ?, ?)`,
		conversation.ID, conversation.User1ID, conversation.User2ID, conversation.CreatedAt.UnixNano())
	if isUniqueViolation(err) {
		return domain.Conversation{}, fmt.Errorf("create conversation: %w", errors.ErrConversationAlreadyExists)
	}
	if err != nil {
		return domain.Conversation{}, fmt.Errorf("create conversation: %w", err)
	}
	r.log.Debug("Conversation created", "conversation_id", conversation.ID)
	return conversation, nil
}

func (r *ConversationRepository) GetByID(ctx context.Context, id string) (*domain.Conversation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+conversationColumns+` FROM conversations WHERE id = ?`, id)
	conversation, err := scanConversation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	return &conversation, nil
}

func (r *ConversationRepository) ListByParticipant(ctx context.Context, userID string) ([]domain.Conversation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+conversationColumns+` FROM conversations
		 WHERE user1_id = ? OR user2_id = ?
		 ORDER BY created_at DESC, id DESC`,
		userID, userID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	var conversations []domain.Conversation
	for rows.Next() {
		conversation, err := scanConversation(rows)
		if err != nil {
			return nil, fmt.Errorf("list conversations: %w", err)
		}
		conversations = append(conversations, conversation)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	return conversations, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanConversation(s scanner) (domain.Conversation, error) {
	var conversation domain.Conversation
	var createdAt int64
	if err := s.Scan(&conversation.ID, &conversation.User1ID, &conversation.User2ID, &createdAt); err != nil {
		return domain.Conversation{}, err
	}
	conversation.CreatedAt = time.Unix(0, createdAt).UTC()
	return conversation, nil
}
