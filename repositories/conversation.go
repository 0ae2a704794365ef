//go:generate go run go.uber.org/mock/mockgen -source=conversation.go -destination=../mocks/mock_conversation_repository.go -package=mocks
package repositories

import (
	"context"
	"fmt"
	"log/slog"
	"pair-chat/domain"
	"pair-chat/errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// IConversationRepository is the conversation store used by the chat services.
// Implementations must reject a second conversation for the same unordered pair:
// the services rely on that constraint and never lock around lookup-then-create.
type IConversationRepository interface {
	// FindByParticipants returns nil, nil when the pair has no conversation yet.
	FindByParticipants(ctx context.Context, a, b string) (*domain.Conversation, error)
	Create(ctx context.Context, a, b string) (domain.Conversation, error)
	// GetByID returns nil, nil when the id is unknown.
	GetByID(ctx context.Context, id string) (*domain.Conversation, error)
	ListByParticipant(ctx context.Context, userID string) ([]domain.Conversation, error)
}

type ConversationRepository struct {
	db  *badger.DB
	log *slog.Logger
	now func() time.Time
}

func NewConversationRepository(db *badger.DB, log *slog.Logger) ConversationRepository {
	return ConversationRepository{db: db, log: log, now: time.Now}
}

// Keys:
//
//	conversation:{id}                                 -> conversation record
//	pair:{len(low)}:{low}:{high}                      -> conversation id (uniqueness guard)
//	member:{len(user)}:{user}:{created_nano}:{id}     -> empty, per-participant index
//
// The length prefix keeps ids containing ':' from colliding.
func conversationKey(id string) []byte {
	return []byte("conversation:" + id)
}

func pairKey(pair domain.ParticipantPair) []byte {
	return []byte(fmt.Sprintf("pair:%d:%s:%s", len(pair.Low), pair.Low, pair.High))
}

func memberPrefix(userID string) []byte {
	return []byte(fmt.Sprintf("member:%d:%s:", len(userID), userID))
}

func memberKey(userID string, c domain.Conversation) []byte {
	return append(memberPrefix(userID), []byte(fmt.Sprintf("%019d:%s", c.CreatedAt.UnixNano(), c.ID))...)
}

// FindByParticipants resolves the unordered pair {a, b} through the pair index.
func (r ConversationRepository) FindByParticipants(ctx context.Context, a, b string) (*domain.Conversation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var found *domain.Conversation
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(pairKey(domain.NewParticipantPair(a, b)))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		id, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		found, err = getConversation(txn, string(id))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("find conversation: %w", err)
	}
	return found, nil
}

// Create stores a new conversation between a and b. The pair key is read and written
// in the same transaction, so two concurrent creators for one pair cannot both commit:
// the loser gets either ErrConversationAlreadyExists or badger.ErrConflict.
func (r ConversationRepository) Create(ctx context.Context, a, b string) (domain.Conversation, error) {
	if err := ctx.Err(); err != nil {
		return domain.Conversation{}, err
	}
	conversation := domain.Conversation{
		ID:        uuid.NewString(),
		User1ID:   a,
		User2ID:   b,
		CreatedAt: r.now().UTC(),
	}
	err := r.db.Update(func(txn *badger.Txn) error {
		pk := pairKey(conversation.Pair())
		_, err := txn.Get(pk)
		if err == nil {
			return errors.ErrConversationAlreadyExists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err = txn.Set(pk, []byte(conversation.ID)); err != nil {
			return err
		}
		if err = txn.Set(conversationKey(conversation.ID), marshalConversation(conversation)); err != nil {
			return err
		}
		for _, userID := range lo.Uniq([]string{a, b}) {
			if err = txn.Set(memberKey(userID, conversation), []byte{}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.Conversation{}, fmt.Errorf("create conversation: %w", err)
	}
	r.log.Debug("Conversation created", "conversation_id", conversation.ID)
	return conversation, nil
}

func (r ConversationRepository) GetByID(ctx context.Context, id string) (*domain.Conversation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var found *domain.Conversation
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		found, err = getConversation(txn, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	return found, nil
}

// ListByParticipant scans the member index backwards, newest conversation first.
func (r ConversationRepository) ListByParticipant(ctx context.Context, userID string) ([]domain.Conversation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var conversations []domain.Conversation
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := memberPrefix(userID)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()

		var ids []string
		for it.Seek(append(prefix, 0xFF)); it.ValidForPrefix(prefix); it.Next() {
			suffix := string(it.Item().Key()[len(prefix):])
			// {created_nano:019d}:{id}
			if len(suffix) < 21 {
				r.log.Warn("Skipping malformed member key", "key", string(it.Item().Key()))
				continue
			}
			ids = append(ids, suffix[20:])
		}

		for _, id := range ids {
			c, err := getConversation(txn, id)
			if err != nil {
				return err
			}
			if c != nil {
				conversations = append(conversations, *c)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	return conversations, nil
}

func getConversation(txn *badger.Txn, id string) (*domain.Conversation, error) {
	item, err := txn.Get(conversationKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var conversation domain.Conversation
	err = item.Value(func(val []byte) error {
		conversation, err = unmarshalConversation(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}
