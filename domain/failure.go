package domain

// Failure is the payload of every failed chat operation.
// Only the message crosses the service boundary; the underlying cause is logged, never returned.
type Failure struct {
	Message string `json:"message"`
}

const (
	MsgSelfConversation       = "Sender id is equal to receiver id"
	MsgFindOrCreateChat       = "Failed to find or create chat"
	MsgCreateMessage          = "Failed to create message"
	MsgContentTooLong         = "Content exceeds maximum length"
	MsgConversationNotFound   = "Conversation not found"
	MsgGetMessages            = "Failed to get messages"
	MsgInvalidCursor          = "Invalid cursor"
	MsgListConversations      = "Failed to list conversations"
	MsgSearchMessages         = "Failed to search messages"
	MsgNotConversationPartner = "User is not a participant of this conversation"
)

func NewFailure(message string) Failure {
	return Failure{Message: message}
}
