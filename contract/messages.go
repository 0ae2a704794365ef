package contract

import "pair-chat/domain"

type PostMessageRequest struct {
	ReceiverID string `json:"receiver_id"`
	Content    string `json:"content"`
}

type PostMessageResponse struct {
	Message domain.Message `json:"message"`
}

type FindOrCreateConversationRequest struct {
	ParticipantID string `json:"participant_id"`
}

type FindOrCreateConversationResponse struct {
	ConversationID string `json:"conversation_id"`
}

type GetMessagesRequest struct {
	ConversationID string  `json:"conversation_id"`
	Cursor         *string `json:"cursor,omitempty"`
}

type GetMessagesResponse struct {
	Messages []domain.Message `json:"messages"`
	Cursor   *string          `json:"cursor,omitempty"`
}

type RegisterRequest struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}
