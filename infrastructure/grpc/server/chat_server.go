package server

import (
	"context"
	"log/slog"
	"pair-chat/auth"
	"pair-chat/contract"
	"pair-chat/domain"
	"pair-chat/domain/chat"
	"pair-chat/services"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type ChatServer struct {
	chatService         services.IChatService
	conversationService services.IConversationService
	log                 *slog.Logger
}

func NewChatServer(log *slog.Logger, chatService services.IChatService, conversationService services.IConversationService) *ChatServer {
	return &ChatServer{chatService: chatService, conversationService: conversationService, log: log}
}

// PostMessage stores a message from the authenticated caller to req.ReceiverID.
func (s *ChatServer) PostMessage(ctx context.Context, req *contract.PostMessageRequest) (*contract.PostMessageResponse, error) {
	userID, err := auth.UserIDFromContext(ctx)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, err.Error())
	}
	result := s.chatService.PostMessage(ctx, chat.PostMessageCommand{
		SenderID:   userID,
		ReceiverID: req.ReceiverID,
		Content:    req.Content,
	})
	if result.IsFailure() {
		return nil, toStatus(result.Failure())
	}
	return &contract.PostMessageResponse{Message: result.Success()}, nil
}

func (s *ChatServer) FindOrCreateConversation(ctx context.Context, req *contract.FindOrCreateConversationRequest) (*contract.FindOrCreateConversationResponse, error) {
	userID, err := auth.UserIDFromContext(ctx)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, err.Error())
	}
	if userID == req.ParticipantID {
		return nil, toStatus(domain.NewFailure(domain.MsgSelfConversation))
	}
	result := s.conversationService.FindOrCreate(ctx, userID, req.ParticipantID)
	if result.IsFailure() {
		return nil, toStatus(result.Failure())
	}
	return &contract.FindOrCreateConversationResponse{ConversationID: result.Success().ID}, nil
}

func (s *ChatServer) GetMessages(ctx context.Context, req *contract.GetMessagesRequest) (*contract.GetMessagesResponse, error) {
	userID, err := auth.UserIDFromContext(ctx)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, err.Error())
	}
	result := s.chatService.GetMessages(ctx, chat.GetMessagesCommand{
		ConversationID: req.ConversationID,
		RequesterID:    userID,
		Cursor:         req.Cursor,
	})
	if result.IsFailure() {
		return nil, toStatus(result.Failure())
	}
	page := result.Success()
	return &contract.GetMessagesResponse{Messages: page.Messages, Cursor: page.Cursor}, nil
}

// toStatus carries a domain failure to the client as InvalidArgument with the failure message.
func toStatus(f domain.Failure) error {
	return status.Error(codes.InvalidArgument, f.Message)
}
