package domain

import "time"

// Conversation links exactly two participants. User1ID and User2ID keep the order
// given on creation; lookups go through Pair and ignore that order.
type Conversation struct {
	ID        string    `json:"id"`
	User1ID   string    `json:"user1_id"`
	User2ID   string    `json:"user2_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (c Conversation) Pair() ParticipantPair {
	return NewParticipantPair(c.User1ID, c.User2ID)
}

// ConversationRef is what lookup-or-create hands back to its caller.
type ConversationRef struct {
	ID string `json:"id"`
}
