package services

import (
	"context"
	"fmt"
	"log/slog"
	"pair-chat/domain"
	"pair-chat/domain/chat"
	"pair-chat/mocks"
	"pair-chat/moderation"
	"pair-chat/observability"
	"pair-chat/repositories"
	"testing"
	"time"

	"github.com/abadojack/whatlanggo"
	"github.com/dgraph-io/badger/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type chatFixture struct {
	conversations *mocks.MockIConversationRepository
	messages      *mocks.MockIMessageRepository
	index         *mocks.MockIMessageIndex
	metrics       *observability.Metrics
	svc           *ChatService
}

func newChatFixture(t *testing.T, policy ContentPolicy) chatFixture {
	ctrl := gomock.NewController(t)
	f := chatFixture{
		conversations: mocks.NewMockIConversationRepository(ctrl),
		messages:      mocks.NewMockIMessageRepository(ctrl),
		index:         mocks.NewMockIMessageIndex(ctrl),
		metrics:       observability.NewMetrics(),
	}
	f.svc = NewChatService(
		NewConversationService(f.conversations, slog.Default(), f.metrics),
		f.conversations, f.messages, f.index, policy, slog.Default(), f.metrics,
	)
	return f
}

func TestChatService_PostMessage(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("should reject a conversation with oneself without touching the stores", func(t *testing.T) {
		req := require.New(t)
		f := newChatFixture(t, ContentPolicy{})

		for _, id := range []string{"u1", "", "same"} {
			result := f.svc.PostMessage(ctx, chat.PostMessageCommand{SenderID: id, ReceiverID: id, Content: "hi"})

			req.True(result.IsFailure())
			req.Equal(domain.NewFailure("Sender id is equal to receiver id"), result.Failure())
		}
	})

	t.Run("should create the conversation then the message on first contact", func(t *testing.T) {
		req := require.New(t)
		f := newChatFixture(t, ContentPolicy{})
		conversation := domain.Conversation{ID: "conv-1", User1ID: "a", User2ID: "b", CreatedAt: now}
		stored := domain.Message{ID: "msg-1", ConversationID: "conv-1", SenderID: "a", Content: "hello", CreatedAt: now}

		gomock.InOrder(
			f.conversations.EXPECT().FindByParticipants(ctx, "a", "b").Return(nil, nil),
			f.conversations.EXPECT().Create(ctx, "a", "b").Return(conversation, nil),
			f.messages.EXPECT().CreateMessage(ctx, domain.NewMessage{
				ConversationID: "conv-1",
				SenderID:       "a",
				Content:        "hello",
				Lang:           whatlanggo.Detect("hello").Lang.Iso6391(),
			}).Return(stored, nil),
			f.index.EXPECT().Index(ctx, stored).Return(nil),
		)

		result := f.svc.PostMessage(ctx, chat.PostMessageCommand{SenderID: "a", ReceiverID: "b", Content: "hello"})

		req.True(result.IsSuccess())
		req.Equal("conv-1", result.Success().ConversationID)
		req.Equal("hello", result.Success().Content)
		req.Equal(float64(1), testutil.ToFloat64(f.metrics.MessagesPosted))
	})

	t.Run("should forward the lookup failure unchanged", func(t *testing.T) {
		req := require.New(t)
		f := newChatFixture(t, ContentPolicy{})

		f.conversations.EXPECT().FindByParticipants(ctx, "a", "b").Return(nil, fmt.Errorf("connection reset"))
		f.messages.EXPECT().CreateMessage(gomock.Any(), gomock.Any()).Times(0)

		result := f.svc.PostMessage(ctx, chat.PostMessageCommand{SenderID: "a", ReceiverID: "b", Content: "hello"})

		req.True(result.IsFailure())
		req.Equal(domain.NewFailure("Failed to find or create chat"), result.Failure())
	})

	t.Run("should fail when the message store fails after the conversation was resolved", func(t *testing.T) {
		req := require.New(t)
		f := newChatFixture(t, ContentPolicy{})

		f.conversations.EXPECT().FindByParticipants(ctx, "a", "b").
			Return(&domain.Conversation{ID: "conv-1", User1ID: "a", User2ID: "b"}, nil)
		f.messages.EXPECT().CreateMessage(ctx, gomock.Any()).Return(domain.Message{}, fmt.Errorf("write failed"))
		f.index.EXPECT().Index(gomock.Any(), gomock.Any()).Times(0)

		result := f.svc.PostMessage(ctx, chat.PostMessageCommand{SenderID: "a", ReceiverID: "b", Content: "hello"})

		req.True(result.IsFailure())
		req.Equal(domain.NewFailure("Failed to create message"), result.Failure())
	})

	t.Run("should succeed even when indexing fails", func(t *testing.T) {
		req := require.New(t)
		f := newChatFixture(t, ContentPolicy{})
		stored := domain.Message{ID: "msg-1", ConversationID: "conv-1", SenderID: "a", Content: "hello"}

		f.conversations.EXPECT().FindByParticipants(ctx, "a", "b").
			Return(&domain.Conversation{ID: "conv-1", User1ID: "a", User2ID: "b"}, nil)
		f.messages.EXPECT().CreateMessage(ctx, gomock.Any()).Return(stored, nil)
		f.index.EXPECT().Index(ctx, stored).Return(fmt.Errorf("index closed"))

		result := f.svc.PostMessage(ctx, chat.PostMessageCommand{SenderID: "a", ReceiverID: "b", Content: "hello"})

		req.True(result.IsSuccess())
		req.Equal(stored, result.Success())
		req.Equal(float64(1), testutil.ToFloat64(f.metrics.IndexErrors))
	})

	t.Run("should reject content longer than the configured maximum", func(t *testing.T) {
		req := require.New(t)
		f := newChatFixture(t, ContentPolicy{MaxLength: 5})

		result := f.svc.PostMessage(ctx, chat.PostMessageCommand{SenderID: "a", ReceiverID: "b", Content: "héllo!"})

		req.True(result.IsFailure())
		req.Equal(domain.MsgContentTooLong, result.Failure().Message)
	})

	t.Run("should store censored content when a moderator is configured", func(t *testing.T) {
		req := require.New(t)
		moderator, err := moderation.NewModerator([]string{"idiot"}, '*', slog.Default())
		req.NoError(err)
		f := newChatFixture(t, ContentPolicy{MaxLength: 50, Moderator: moderator})

		f.conversations.EXPECT().FindByParticipants(ctx, "a", "b").
			Return(&domain.Conversation{ID: "conv-1", User1ID: "a", User2ID: "b"}, nil)
		f.messages.EXPECT().CreateMessage(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, m domain.NewMessage) (domain.Message, error) {
				req.Equal("you *****", m.Content)
				return domain.Message{ID: "msg-1", ConversationID: m.ConversationID, SenderID: m.SenderID, Content: m.Content}, nil
			})
		f.index.EXPECT().Index(ctx, gomock.Any()).Return(nil)

		result := f.svc.PostMessage(ctx, chat.PostMessageCommand{SenderID: "a", ReceiverID: "b", Content: "you 1d10t"})

		req.True(result.IsSuccess())
		req.Equal("you *****", result.Success().Content)
	})
}

func TestChatService_GetMessages(t *testing.T) {
	ctx := context.Background()
	conversation := &domain.Conversation{ID: "conv-1", User1ID: "a", User2ID: "b"}

	t.Run("should return a page for a participant", func(t *testing.T) {
		req := require.New(t)
		f := newChatFixture(t, ContentPolicy{})
		page := []domain.Message{{ID: "m2"}, {ID: "m1"}}

		f.conversations.EXPECT().GetByID(ctx, "conv-1").Return(conversation, nil)
		f.messages.EXPECT().GetMessages(ctx, "conv-1", (*string)(nil)).Return(page, lo.ToPtr("next"), nil)

		result := f.svc.GetMessages(ctx, chat.GetMessagesCommand{ConversationID: "conv-1", RequesterID: "b"})

		req.True(result.IsSuccess())
		req.Equal(page, result.Success().Messages)
		req.Equal("next", *result.Success().Cursor)
	})

	t.Run("should return an empty page without cursor", func(t *testing.T) {
		req := require.New(t)
		f := newChatFixture(t, ContentPolicy{})

		f.conversations.EXPECT().GetByID(ctx, "conv-1").Return(conversation, nil)
		f.messages.EXPECT().GetMessages(ctx, "conv-1", gomock.Any()).Return(nil, nil, nil)

		cursor := domain.FormatCursor(time.Unix(0, 1), "m0")
		result := f.svc.GetMessages(ctx, chat.GetMessagesCommand{ConversationID: "conv-1", Cursor: &cursor})

		req.True(result.IsSuccess())
		req.Empty(result.Success().Messages)
		req.NotNil(result.Success().Messages)
		req.Nil(result.Success().Cursor)
	})

	t.Run("should fail on unknown conversation", func(t *testing.T) {
		req := require.New(t)
		f := newChatFixture(t, ContentPolicy{})

		f.conversations.EXPECT().GetByID(ctx, "nope").Return(nil, nil)

		result := f.svc.GetMessages(ctx, chat.GetMessagesCommand{ConversationID: "nope"})

		req.Equal(domain.NewFailure(domain.MsgConversationNotFound), result.Failure())
	})

	t.Run("should refuse an outsider", func(t *testing.T) {
		req := require.New(t)
		f := newChatFixture(t, ContentPolicy{})

		f.conversations.EXPECT().GetByID(ctx, "conv-1").Return(conversation, nil)
		f.messages.EXPECT().GetMessages(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		result := f.svc.GetMessages(ctx, chat.GetMessagesCommand{ConversationID: "conv-1", RequesterID: "eve"})

		req.Equal(domain.NewFailure(domain.MsgNotConversationPartner), result.Failure())
	})

	t.Run("should reject a malformed cursor before reaching the store", func(t *testing.T) {
		req := require.New(t)
		f := newChatFixture(t, ContentPolicy{})

		f.conversations.EXPECT().GetByID(gomock.Any(), gomock.Any()).Times(0)
		f.messages.EXPECT().GetMessages(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		result := f.svc.GetMessages(ctx, chat.GetMessagesCommand{ConversationID: "conv-1", Cursor: lo.ToPtr("garbage")})

		req.Equal(domain.NewFailure(domain.MsgInvalidCursor), result.Failure())
	})

	t.Run("should hide store faults", func(t *testing.T) {
		req := require.New(t)
		f := newChatFixture(t, ContentPolicy{})

		f.conversations.EXPECT().GetByID(ctx, "conv-1").Return(conversation, nil)
		f.messages.EXPECT().GetMessages(ctx, "conv-1", gomock.Any()).Return(nil, nil, fmt.Errorf("bad cursor"))

		result := f.svc.GetMessages(ctx, chat.GetMessagesCommand{ConversationID: "conv-1"})

		req.Equal(domain.NewFailure(domain.MsgGetMessages), result.Failure())
	})
}

func TestChatService_ListConversations(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newChatFixture(t, ContentPolicy{})

	f.conversations.EXPECT().ListByParticipant(ctx, "a").Return(nil, nil)
	f.conversations.EXPECT().ListByParticipant(ctx, "b").Return(nil, fmt.Errorf("boom"))

	empty := f.svc.ListConversations(ctx, "a")
	req.True(empty.IsSuccess())
	req.NotNil(empty.Success())
	req.Empty(empty.Success())

	failed := f.svc.ListConversations(ctx, "b")
	req.Equal(domain.NewFailure(domain.MsgListConversations), failed.Failure())
}

func TestChatService_SearchMessages(t *testing.T) {
	ctx := context.Background()
	conversation := &domain.Conversation{ID: "conv-1", User1ID: "a", User2ID: "b"}

	t.Run("should use the default limit", func(t *testing.T) {
		req := require.New(t)
		f := newChatFixture(t, ContentPolicy{})
		hits := []domain.Message{{ID: "m1", Content: "hello"}}

		f.conversations.EXPECT().GetByID(ctx, "conv-1").Return(conversation, nil)
		f.index.EXPECT().Search(ctx, "conv-1", "hello", defaultSearchLimit).Return(hits, nil)

		result := f.svc.SearchMessages(ctx, chat.SearchMessagesCommand{ConversationID: "conv-1", RequesterID: "a", Query: "hello"})

		req.True(result.IsSuccess())
		req.Equal(hits, result.Success())
	})

	t.Run("should hide index faults", func(t *testing.T) {
		req := require.New(t)
		f := newChatFixture(t, ContentPolicy{})

		f.conversations.EXPECT().GetByID(ctx, "conv-1").Return(conversation, nil)
		f.index.EXPECT().Search(ctx, "conv-1", "hello", 5).Return(nil, fmt.Errorf("segment missing"))

		result := f.svc.SearchMessages(ctx, chat.SearchMessagesCommand{ConversationID: "conv-1", Query: "hello", Limit: 5})

		req.Equal(domain.NewFailure(domain.MsgSearchMessages), result.Failure())
	})
}

type noopIndex struct{}

func (noopIndex) Index(context.Context, domain.Message) error { return nil }
func (noopIndex) Search(context.Context, string, string, int) ([]domain.Message, error) {
	return nil, nil
}

// Two participants writing to each other in turn share a single conversation.
func TestChatService_Scenario_On_Badger(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()

	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	req.NoError(err)
	t.Cleanup(func() { _ = db.Close() })

	metrics := observability.NewMetrics()
	conversationRepository := repositories.NewConversationRepository(db, slog.Default())
	messageRepository := repositories.NewMessageRepository(db, slog.Default(), nil)
	svc := NewChatService(
		NewConversationService(conversationRepository, slog.Default(), metrics),
		conversationRepository, messageRepository, noopIndex{}, ContentPolicy{}, slog.Default(), metrics,
	)

	first := svc.PostMessage(ctx, chat.PostMessageCommand{SenderID: "u1", ReceiverID: "u2", Content: "hi"})
	req.True(first.IsSuccess())
	req.Equal("hi", first.Success().Content)

	second := svc.PostMessage(ctx, chat.PostMessageCommand{SenderID: "u2", ReceiverID: "u1", Content: "yo"})
	req.True(second.IsSuccess())
	req.Equal(first.Success().ConversationID, second.Success().ConversationID)
	req.Equal(float64(1), testutil.ToFloat64(metrics.ConversationsCreated))

	page := svc.GetMessages(ctx, chat.GetMessagesCommand{ConversationID: first.Success().ConversationID, RequesterID: "u1"})
	req.True(page.IsSuccess())
	req.Len(page.Success().Messages, 2)

	listed := svc.ListConversations(ctx, "u2")
	req.True(listed.IsSuccess())
	req.Len(listed.Success(), 1)
}
