package types

import "time"

type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PinnedConversation struct {
	ConversationID string `json:"conversation_id"`
	Title          string `json:"title"`
}
