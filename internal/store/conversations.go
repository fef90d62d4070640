package store

import (
	"context"
	"fmt"
	"time"

	"github.com/marketlane/sellermetrics/internal/dependency"
	"github.com/marketlane/sellermetrics/internal/entity"
)

type conversationStore struct {
	*MYSQLStore
}

// Conversations returns an object implementing the Conversations interface.
func (ms *MYSQLStore) Conversations() dependency.Conversations {
	return &conversationStore{
		MYSQLStore: ms,
	}
}

type messageRow struct {
	Id             string    `db:"id"`
	ConversationId string    `db:"conversation_id"`
	SenderId       string    `db:"sender_id"`
	CreatedAt      time.Time `db:"created_at"`
}

type participantRow struct {
	ConversationId string `db:"conversation_id"`
	UserId         string `db:"user_id"`
}

func (cs *conversationStore) FindConversations(ctx context.Context, userId string, since time.Time) ([]entity.Conversation, error) {
	params := map[string]any{
		"since": since,
	}
	participant := ""
	if userId != "" {
		params["userId"] = userId
		participant = `
	AND m.conversation_id IN (
		SELECT cp.conversation_id FROM conversation_participant cp WHERE cp.user_id = :userId
	)`
	}
	query := fmt.Sprintf(`
	SELECT m.id, m.conversation_id, m.sender_id, m.created_at
	FROM message m
	WHERE m.created_at >= :since%s
	ORDER BY m.conversation_id, m.created_at, m.id`, participant)

	rows, err := QueryListNamed[messageRow](ctx, cs.DB(), query, params)
	if err != nil {
		return nil, fmt.Errorf("can't get messages: %w", err)
	}
	if len(rows) == 0 {
		return []entity.Conversation{}, nil
	}

	var (
		convs []entity.Conversation
		index = make(map[string]int)
		ids   []string
	)
	for _, r := range rows {
		i, ok := index[r.ConversationId]
		if !ok {
			i = len(convs)
			index[r.ConversationId] = i
			ids = append(ids, r.ConversationId)
			convs = append(convs, entity.Conversation{Id: r.ConversationId})
		}
		convs[i].Messages = append(convs[i].Messages, entity.Message{
			Id:             r.Id,
			ConversationId: r.ConversationId,
			SenderId:       r.SenderId,
			CreatedAt:      r.CreatedAt,
		})
	}

	query = `
	SELECT cp.conversation_id, cp.user_id
	FROM conversation_participant cp
	WHERE cp.conversation_id IN (:conversationIds)
	ORDER BY cp.conversation_id, cp.user_id`
	participants, err := QueryListNamed[participantRow](ctx, cs.DB(), query, map[string]any{
		"conversationIds": ids,
	})
	if err != nil {
		return nil, fmt.Errorf("can't get conversation participants: %w", err)
	}
	for _, p := range participants {
		if i, ok := index[p.ConversationId]; ok {
			convs[i].Participants = append(convs[i].Participants, p.UserId)
		}
	}

	return convs, nil
}
