package core

import (
	"github.com/animechat/anime-chatbot-backend/internal/store"
)

// Roles shared by the chat model providers. The assistant side is named
// "model" after Gemini's convention; the OpenAI provider translates it.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// ContextMessage is one role-tagged segment of a reconstructed conversation.
type ContextMessage struct {
	Role string
	Text string
}

// BuildContext replays a user's full stored history, oldest first, into the
// role-tagged form the chat models consume. No windowing, truncation or
// deduplication is applied: every chat turn reloads the whole history, so
// prompt size grows linearly with conversation length. A new user gets an
// empty context.
func BuildContext(db store.HistoryStore, userID string) ([]ContextMessage, error) {
	messages, err := db.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	context := make([]ContextMessage, 0, len(messages))
	for _, msg := range messages {
		role := RoleModel
		if msg.Sender == store.SenderUser {
			role = RoleUser
		}
		context = append(context, ContextMessage{Role: role, Text: msg.Text})
	}
	return context, nil
}
