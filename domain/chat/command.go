package chat

type PostMessageCommand struct {
	SenderID   string
	ReceiverID string
	Content    string
}

type GetMessagesCommand struct {
	ConversationID string
	// RequesterID, when set, must be one of the conversation's participants.
	RequesterID string
	Cursor      *string
}

type SearchMessagesCommand struct {
	ConversationID string
	RequesterID    string
	Query          string
	Limit          int
}
