package search

import (
	"context"
	"fmt"
	"log/slog"
	"pair-chat/domain"
	"time"

	"github.com/blugelabs/bluge"
)

const (
	fieldID             = "_id"
	fieldConversationID = "conversation_id"
	fieldSenderID       = "sender_id"
	fieldContent        = "content"
	fieldLang           = "lang"
	fieldCreatedAt      = "created_at"
)

// MessageIndex keeps a full-text copy of every persisted message.
// Stored fields are enough to rebuild a domain.Message, so a search never goes back to the store.
type MessageIndex struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func NewMessageIndex(writer *bluge.Writer, log *slog.Logger) *MessageIndex {
	return &MessageIndex{writer: writer, log: log}
}

func (i *MessageIndex) Index(ctx context.Context, msg domain.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	doc := bluge.NewDocument(msg.ID).
		AddField(bluge.NewKeywordField(fieldConversationID, msg.ConversationID).StoreValue()).
		AddField(bluge.NewKeywordField(fieldSenderID, msg.SenderID).StoreValue()).
		AddField(bluge.NewTextField(fieldContent, msg.Content).StoreValue()).
		AddField(bluge.NewKeywordField(fieldLang, msg.Lang).StoreValue()).
		AddField(bluge.NewDateTimeField(fieldCreatedAt, msg.CreatedAt).StoreValue().Sortable())

	if err := i.writer.Update(doc.ID(), doc); err != nil {
		return fmt.Errorf("unable to index message %s: %w", msg.ID, err)
	}
	return nil
}

// Search matches query against the content of one conversation, best matches first.
func (i *MessageIndex) Search(ctx context.Context, conversationID, query string, limit int) ([]domain.Message, error) {
	reader, err := i.writer.Reader()
	if err != nil {
		return nil, fmt.Errorf("unable to open index reader: %w", err)
	}
	defer func() {
		if err := reader.Close(); err != nil {
			i.log.Warn("Unable to close index reader", "error", err)
		}
	}()

	q := bluge.NewBooleanQuery().
		AddMust(bluge.NewMatchQuery(query).SetField(fieldContent)).
		AddMust(bluge.NewTermQuery(conversationID).SetField(fieldConversationID))

	it, err := reader.Search(ctx, bluge.NewTopNSearch(limit, q))
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	var messages []domain.Message
	match, err := it.Next()
	for err == nil && match != nil {
		var msg domain.Message
		var decodeErr error
		visitErr := match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case fieldID:
				msg.ID = string(value)
			case fieldConversationID:
				msg.ConversationID = string(value)
			case fieldSenderID:
				msg.SenderID = string(value)
			case fieldContent:
				msg.Content = string(value)
			case fieldLang:
				msg.Lang = string(value)
			case fieldCreatedAt:
				var at time.Time
				at, decodeErr = bluge.DecodeDateTime(value)
				msg.CreatedAt = at.UTC()
			}
			return decodeErr == nil
		})
		if visitErr != nil {
			return nil, visitErr
		}
		if decodeErr != nil {
			return nil, decodeErr
		}
		messages = append(messages, msg)
		match, err = it.Next()
	}
	if err != nil {
		return nil, err
	}
	return messages, nil
}
