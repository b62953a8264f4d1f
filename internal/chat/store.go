package chat

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("chat: conversation not found")

// ConversationStore persists conversations as append-only message
// sequences. Append is atomic per conversation: concurrent appends to
// the same conversation serialize, none interleave.
type ConversationStore interface {
	Create(ctx context.Context) (string, error)
	Load(ctx context.Context, id string) ([]Message, error)
	Append(ctx context.Context, id string, msgs []Message) error
}
