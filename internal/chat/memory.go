package chat

import (
	"context"
	"sync"

	"hrops.org/internal/ids"
)

// MemoryStore keeps conversations in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	convs map[string]*memConversation
}

type memConversation struct {
	mu   sync.Mutex // serializes appends per conversation
	msgs []Message
}

var _ ConversationStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{convs: make(map[string]*memConversation)}
}

func (s *MemoryStore) Create(context.Context) (string, error) {
	id := ids.New()
	s.mu.Lock()
	s.convs[id] = &memConversation{}
	s.mu.Unlock()
	return id, nil
}

func (s *MemoryStore) Load(_ context.Context, id string) ([]Message, error) {
	s.mu.RLock()
	conv, ok := s.convs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	conv.mu.Lock()
	defer conv.mu.Unlock()
	out := make([]Message, len(conv.msgs))
	copy(out, conv.msgs)
	return out, nil
}

func (s *MemoryStore) Append(_ context.Context, id string, msgs []Message) error {
	s.mu.RLock()
	conv, ok := s.convs[id]
	s.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	conv.mu.Lock()
	conv.msgs = append(conv.msgs, msgs...)
	conv.mu.Unlock()
	return nil
}
