// Package domain contains core concepts of the chat system.
// This file defines Message events and related rules.
// Messages are immutable once stored.
package domain

import (
	"time"
)

// Message represents an immutable chat event.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	Content        string    `json:"content"`
	Lang           string    `json:"lang,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewMessage is a message before the store assigns its id and timestamp.
type NewMessage struct {
	ConversationID string
	SenderID       string
	Content        string
	Lang           string
}

// MessagePage is one page of a conversation, newest first.
// Cursor is nil when the page is empty.
type MessagePage struct {
	Messages []Message `json:"messages"`
	Cursor   *string   `json:"cursor,omitempty"`
}
