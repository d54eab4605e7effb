package core

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/animechat/anime-chatbot-backend/internal/store"
)

// mockStore is an in-memory HistoryStore with per-operation error injection.
// This mirrors the real store's contract: ascending sequence per insertion,
// empty result for unknown users.
type mockStore struct {
	messages []store.Message
	seq      int64

	listErr     error
	clearErr    error
	appendCalls int
	appendErrOn int // 1-based Append call index that fails; 0 = never
}

func (m *mockStore) Append(userID, sender, text string) error {
	m.appendCalls++
	if m.appendErrOn != 0 && m.appendCalls == m.appendErrOn {
		return fmt.Errorf("%w: injected append failure", store.ErrUnavailable)
	}
	m.seq++
	m.messages = append(m.messages, store.Message{
		UserID:   userID,
		Sender:   sender,
		Text:     text,
		Sequence: m.seq,
	})
	return nil
}

func (m *mockStore) ListByUser(userID string) ([]store.Message, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []store.Message
	for _, msg := range m.messages {
		if msg.UserID == userID {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *mockStore) ClearUser(userID string) (int64, error) {
	if m.clearErr != nil {
		return 0, m.clearErr
	}
	var kept []store.Message
	var removed int64
	for _, msg := range m.messages {
		if msg.UserID == userID {
			removed++
			continue
		}
		kept = append(kept, msg)
	}
	m.messages = kept
	return removed, nil
}

func (m *mockStore) Ping() error  { return nil }
func (m *mockStore) Close() error { return nil }

func TestBuildContextEmptyForNewUser(t *testing.T) {
	db := &mockStore{}

	context, err := BuildContext(db, "alice")
	require.NoError(t, err)
	require.Empty(t, context)
}

func TestBuildContextTagsRolesAndKeepsOrder(t *testing.T) {
	db := &mockStore{}
	require.NoError(t, db.Append("alice", store.SenderUser, "hi"))
	require.NoError(t, db.Append("alice", store.SenderBot, "hello"))

	context, err := BuildContext(db, "alice")
	require.NoError(t, err)
	require.Equal(t, []ContextMessage{
		{Role: RoleUser, Text: "hi"},
		{Role: RoleModel, Text: "hello"},
	}, context)
}

func TestBuildContextReplaysFullHistory(t *testing.T) {
	db := &mockStore{}
	for i := 0; i < 50; i++ {
		require.NoError(t, db.Append("alice", store.SenderUser, fmt.Sprintf("q%d", i)))
		require.NoError(t, db.Append("alice", store.SenderBot, fmt.Sprintf("a%d", i)))
	}

	// No windowing: every stored message comes back, in order.
	context, err := BuildContext(db, "alice")
	require.NoError(t, err)
	require.Len(t, context, 100)
	require.Equal(t, "q0", context[0].Text)
	require.Equal(t, "a49", context[99].Text)
}

func TestBuildContextPropagatesStoreError(t *testing.T) {
	db := &mockStore{listErr: store.ErrUnavailable}

	_, err := BuildContext(db, "alice")
	require.ErrorIs(t, err, store.ErrUnavailable)
}
