package entity

import "time"

// Conversation holds the messages exchanged between its participants,
// ordered by CreatedAt.
type Conversation struct {
	Id           string
	Participants []string
	Messages     []Message
}

type Message struct {
	Id             string
	ConversationId string
	SenderId       string
	CreatedAt      time.Time
}
