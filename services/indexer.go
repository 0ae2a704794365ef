//go:generate go run go.uber.org/mock/mockgen -source=indexer.go -destination=../mocks/mock_message_index.go -package=mocks
package services

import (
	"context"
	"pair-chat/domain"
)

// IMessageIndex is the full-text side of the message store.
type IMessageIndex interface {
	Index(ctx context.Context, msg domain.Message) error
	Search(ctx context.Context, conversationID, query string, limit int) ([]domain.Message, error)
}
