package core

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/animechat/anime-chatbot-backend/internal/store"
)

// ErrGenerationFailed wraps any failure of the external chat model: network
// errors, service errors, or an unusable response. The API layer converts it
// into the fixed fallback reply; nothing is persisted for the failed turn.
var ErrGenerationFailed = errors.New("reply generation failed")

// ChatModel is the external conversational model consumed by the chat
// service. Complete is a single attempt with no retry and no client-imposed
// timeout; a slow model blocks only the calling request.
type ChatModel interface {
	Complete(ctx context.Context, history []ContextMessage, message string) (string, error)
	Close() error
}

type ChatService struct {
	dbStore store.HistoryStore
	model   ChatModel
}

func NewChatService(db store.HistoryStore, model ChatModel) *ChatService {
	return &ChatService{
		dbStore: db,
		model:   model,
	}
}

// GenerateReply runs one chat turn: reconstruct the user's context, ask the
// model, and on success persist the user message followed by the reply.
//
// The two inserts are separate writes, not a transaction; a crash between
// them leaves a half-recorded turn. That gap is a known property of the
// system and is kept as is.
func (s *ChatService) GenerateReply(ctx context.Context, userID, text string) (string, error) {
	history, err := BuildContext(s.dbStore, userID)
	if err != nil {
		return "", fmt.Errorf("failed to reconstruct context for user %s: %w", userID, err)
	}

	reply, err := s.model.Complete(ctx, history, text)
	if err != nil {
		log.Printf("Chat model failed for user %s: %v", userID, err)
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	if err := s.dbStore.Append(userID, store.SenderUser, text); err != nil {
		return "", fmt.Errorf("failed to store user message: %w", err)
	}
	if err := s.dbStore.Append(userID, store.SenderBot, reply); err != nil {
		return "", fmt.Errorf("failed to store bot message: %w", err)
	}

	return reply, nil
}

// History returns the user's full message log, oldest first.
func (s *ChatService) History(userID string) ([]store.Message, error) {
	return s.dbStore.ListByUser(userID)
}

// Clear removes the user's entire history and reports how many rows went.
func (s *ChatService) Clear(userID string) (int64, error) {
	return s.dbStore.ClearUser(userID)
}
