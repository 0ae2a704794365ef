package services

import (
	"context"
	"log/slog"
	"pair-chat/domain"
	"pair-chat/domain/chat"
	"pair-chat/moderation"
	"pair-chat/observability"
	"pair-chat/repositories"
	"unicode/utf8"

	"github.com/abadojack/whatlanggo"
)

const defaultSearchLimit = 20

type IChatService interface {
	PostMessage(ctx context.Context, cmd chat.PostMessageCommand) domain.Result[domain.Failure, domain.Message]
	GetMessages(ctx context.Context, cmd chat.GetMessagesCommand) domain.Result[domain.Failure, domain.MessagePage]
	ListConversations(ctx context.Context, userID string) domain.Result[domain.Failure, []domain.Conversation]
	SearchMessages(ctx context.Context, cmd chat.SearchMessagesCommand) domain.Result[domain.Failure, []domain.Message]
}

// ContentPolicy is the optional content check run before a conversation is resolved.
// The zero value accepts any content unchanged.
type ContentPolicy struct {
	// MaxLength counts runes; zero disables the check.
	MaxLength int
	// Moderator, when set, censors dictionary words before the message is stored.
	Moderator *moderation.Moderator
}

type ChatService struct {
	conversations          IConversationService
	conversationRepository repositories.IConversationRepository
	messageRepository      repositories.IMessageRepository
	index                  IMessageIndex
	policy                 ContentPolicy
	log                    *slog.Logger
	metrics                *observability.Metrics
}

func NewChatService(
	conversations IConversationService,
	conversationRepository repositories.IConversationRepository,
	messageRepository repositories.IMessageRepository,
	index IMessageIndex,
	policy ContentPolicy,
	log *slog.Logger,
	metrics *observability.Metrics,
) *ChatService {
	return &ChatService{
		conversations:          conversations,
		conversationRepository: conversationRepository,
		messageRepository:      messageRepository,
		index:                  index,
		policy:                 policy,
		log:                    log,
		metrics:                metrics,
	}
}

// PostMessage appends a message to the conversation between sender and receiver,
// creating that conversation on first contact.
func (s *ChatService) PostMessage(ctx context.Context, cmd chat.PostMessageCommand) domain.Result[domain.Failure, domain.Message] {
	if cmd.SenderID == cmd.ReceiverID {
		return s.failMessage("post_message", domain.MsgSelfConversation)
	}

	content, ok := s.checkContent(cmd.Content)
	if !ok {
		return s.failMessage("post_message", domain.MsgContentTooLong)
	}

	conversation := s.conversations.FindOrCreate(ctx, cmd.SenderID, cmd.ReceiverID)
	if conversation.IsFailure() {
		return domain.Fail[domain.Failure, domain.Message](conversation.Failure())
	}

	msg, err := s.messageRepository.CreateMessage(ctx, domain.NewMessage{
		ConversationID: conversation.Success().ID,
		SenderID:       cmd.SenderID,
		Content:        content,
		Lang:           whatlanggo.Detect(content).Lang.Iso6391(),
	})
	if err != nil {
		s.log.Error("Unable to create message",
			"conversation_id", conversation.Success().ID, "sender_id", cmd.SenderID, "error", err)
		return s.failMessage("post_message", domain.MsgCreateMessage)
	}
	s.metrics.MessagesPosted.Inc()

	if err := s.index.Index(ctx, msg); err != nil {
		s.log.Warn("Message stored but not indexed", "message_id", msg.ID, "error", err)
		s.metrics.IndexErrors.Inc()
	}
	return domain.Succeed[domain.Failure](msg)
}

func (s *ChatService) checkContent(content string) (string, bool) {
	if s.policy.MaxLength > 0 && utf8.RuneCountInString(content) > s.policy.MaxLength {
		return "", false
	}
	if s.policy.Moderator != nil {
		content, _ = s.policy.Moderator.Censor(content)
	}
	return content, true
}

// GetMessages returns one page of a conversation, newest first.
// The cursor is checked here so every store rejects the same inputs.
func (s *ChatService) GetMessages(ctx context.Context, cmd chat.GetMessagesCommand) domain.Result[domain.Failure, domain.MessagePage] {
	if cmd.Cursor != nil {
		if _, _, err := domain.ParseCursor(*cmd.Cursor); err != nil {
			s.metrics.Failure("get_messages")
			return domain.Fail[domain.Failure, domain.MessagePage](domain.NewFailure(domain.MsgInvalidCursor))
		}
	}
	if failure, ok := s.authorize(ctx, cmd.ConversationID, cmd.RequesterID, domain.MsgGetMessages); !ok {
		s.metrics.Failure("get_messages")
		return domain.Fail[domain.Failure, domain.MessagePage](failure)
	}

	messages, cursor, err := s.messageRepository.GetMessages(ctx, cmd.ConversationID, cmd.Cursor)
	if err != nil {
		s.log.Error("Unable to read messages", "conversation_id", cmd.ConversationID, "error", err)
		s.metrics.Failure("get_messages")
		return domain.Fail[domain.Failure, domain.MessagePage](domain.NewFailure(domain.MsgGetMessages))
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	return domain.Succeed[domain.Failure](domain.MessagePage{Messages: messages, Cursor: cursor})
}

// ListConversations returns the conversations userID takes part in, newest first.
func (s *ChatService) ListConversations(ctx context.Context, userID string) domain.Result[domain.Failure, []domain.Conversation] {
	conversations, err := s.conversationRepository.ListByParticipant(ctx, userID)
	if err != nil {
		s.log.Error("Unable to list conversations", "user_id", userID, "error", err)
		s.metrics.Failure("list_conversations")
		return domain.Fail[domain.Failure, []domain.Conversation](domain.NewFailure(domain.MsgListConversations))
	}
	if conversations == nil {
		conversations = []domain.Conversation{}
	}
	return domain.Succeed[domain.Failure](conversations)
}

// SearchMessages runs a full-text query over one conversation.
func (s *ChatService) SearchMessages(ctx context.Context, cmd chat.SearchMessagesCommand) domain.Result[domain.Failure, []domain.Message] {
	if failure, ok := s.authorize(ctx, cmd.ConversationID, cmd.RequesterID, domain.MsgSearchMessages); !ok {
		s.metrics.Failure("search_messages")
		return domain.Fail[domain.Failure, []domain.Message](failure)
	}

	limit := cmd.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	messages, err := s.index.Search(ctx, cmd.ConversationID, cmd.Query, limit)
	if err != nil {
		s.log.Error("Unable to search messages", "conversation_id", cmd.ConversationID, "error", err)
		s.metrics.Failure("search_messages")
		return domain.Fail[domain.Failure, []domain.Message](domain.NewFailure(domain.MsgSearchMessages))
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	return domain.Succeed[domain.Failure](messages)
}

// authorize checks the conversation exists and, when requesterID is set, that it belongs to it.
// storeFailure is the message used when the lookup itself fails.
func (s *ChatService) authorize(ctx context.Context, conversationID, requesterID, storeFailure string) (domain.Failure, bool) {
	conversation, err := s.conversationRepository.GetByID(ctx, conversationID)
	if err != nil {
		s.log.Error("Unable to load conversation", "conversation_id", conversationID, "error", err)
		return domain.NewFailure(storeFailure), false
	}
	if conversation == nil {
		return domain.NewFailure(domain.MsgConversationNotFound), false
	}
	if requesterID != "" && !conversation.Pair().Contains(requesterID) {
		return domain.NewFailure(domain.MsgNotConversationPartner), false
	}
	return domain.Failure{}, true
}

func (s *ChatService) failMessage(operation, message string) domain.Result[domain.Failure, domain.Message] {
	s.metrics.Failure(operation)
	return domain.Fail[domain.Failure, domain.Message](domain.NewFailure(message))
}
