package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// ErrUnavailable is returned when the underlying database cannot be reached.
var ErrUnavailable = errors.New("history store unavailable")

// HistoryStore is the per-user message log consumed by the chat service and
// the API handlers.
type HistoryStore interface {
	Append(userID, sender, text string) error
	ListByUser(userID string) ([]Message, error)
	ClearUser(userID string) (int64, error)
	Ping() error
	Close() error
}

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens the database and initializes the schema. It always
// returns a usable *SQLiteStore: on failure the error is reported for logging
// but the store is still handed out, and every operation on it returns
// ErrUnavailable. Callers decide whether a dead store is fatal; the server
// deliberately keeps running with one.
func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return &SQLiteStore{}, fmt.Errorf("failed to open database: %w", err)
	}
	store := &SQLiteStore{db: db}
	if err = db.Ping(); err != nil {
		return store, fmt.Errorf("failed to ping database: %w", err)
	}
	if err = store.initSchema(); err != nil {
		return store, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) Ping() error {
	if s.db == nil {
		return ErrUnavailable
	}
	if err := s.db.Ping(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS messages (
        sequence INTEGER PRIMARY KEY AUTOINCREMENT,
        id TEXT UNIQUE NOT NULL,
        user_id TEXT NOT NULL,
        sender TEXT NOT NULL CHECK (sender IN ('user', 'bot')),
        text TEXT NOT NULL,
        timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE INDEX IF NOT EXISTS idx_messages_user_sequence ON messages (user_id, sequence);
    `
	_, err := s.db.Exec(schema)
	return err
}

// Append inserts one message with a fresh store-assigned sequence value.
func (s *SQLiteStore) Append(userID, sender, text string) error {
	if s.db == nil {
		return ErrUnavailable
	}

	stmt, err := s.db.Prepare("INSERT INTO messages (id, user_id, sender, text, timestamp) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("%w: failed to prepare message insert: %v", ErrUnavailable, err)
	}
	defer stmt.Close()

	_, err = stmt.Exec(uuid.NewString(), userID, sender, text, time.Now())
	if err != nil {
		return fmt.Errorf("%w: failed to execute message insert: %v", ErrUnavailable, err)
	}
	return nil
}

// ListByUser returns the user's full history ordered ascending by sequence.
// Unknown users get an empty slice, not an error.
func (s *SQLiteStore) ListByUser(userID string) ([]Message, error) {
	if s.db == nil {
		return nil, ErrUnavailable
	}

	rows, err := s.db.Query("SELECT sequence, id, user_id, sender, text, timestamp FROM messages WHERE user_id = ? ORDER BY sequence ASC", userID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query messages: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var msg Message
		if err := rows.Scan(&msg.Sequence, &msg.ID, &msg.UserID, &msg.Sender, &msg.Text, &msg.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to iterate messages: %v", ErrUnavailable, err)
	}
	return messages, nil
}

// ClearUser deletes the user's entire history and returns the number of rows
// removed. Clearing an already-empty user succeeds with a zero count.
func (s *SQLiteStore) ClearUser(userID string) (int64, error) {
	if s.db == nil {
		return 0, ErrUnavailable
	}

	res, err := s.db.Exec("DELETE FROM messages WHERE user_id = ?", userID)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to delete messages: %v", ErrUnavailable, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		log.Printf("Warning: could not read affected row count for user %s: %v", userID, err)
		return 0, nil
	}
	return affected, nil
}
