package store

import "time"

const (
	SenderUser = "user"
	SenderBot  = "bot"
)

type Message struct {
	ID        string    `json:"id"` // UUID for external reference
	UserID    string    `json:"user_id"`
	Sender    string    `json:"sender"` // "user" or "bot"
	Text      string    `json:"text"`
	Sequence  int64     `json:"sequence"` // store-assigned, ascending per insertion
	Timestamp time.Time `json:"timestamp"`
}
