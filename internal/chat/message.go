// Package chat stores conversations and drives the turn lifecycle from
// user input through generation and tool execution to a persisted reply.
package chat

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"

	"hrops.org/internal/llm"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is one stored conversation entry.
type Message struct {
	ID         string         `json:"id"`
	Role       string         `json:"role"`
	Content    string         `json:"content"`
	ToolCalls  []llm.ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
}

// EnsureMessageID returns the message id, deriving a deterministic one
// from the conversation id, position and content when absent. Identical
// turns therefore produce identical ids, which makes finalization
// idempotent.
func EnsureMessageID(conversationID string, index int, m Message) string {
	if m.ID != "" {
		return m.ID
	}
	h := sha256.New()
	h.Write([]byte(conversationID))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(index)))
	h.Write([]byte{0})
	h.Write([]byte(m.Role))
	h.Write([]byte{0})
	h.Write([]byte(m.Content))
	h.Write([]byte{0})
	h.Write([]byte(m.ToolCallID))
	for _, tc := range m.ToolCalls {
		h.Write([]byte{0})
		h.Write([]byte(tc.ID))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Reconcile removes duplicate ids keeping the last occurrence of each,
// preserving the relative order of survivors. Applying it twice yields
// the same sequence.
func Reconcile(msgs []Message) []Message {
	seen := make(map[string]struct{}, len(msgs))
	out := make([]Message, 0, len(msgs))
	for i := len(msgs) - 1; i >= 0; i-- {
		if _, dup := seen[msgs[i].ID]; dup {
			continue
		}
		seen[msgs[i].ID] = struct{}{}
		out = append(out, msgs[i])
	}
	// Undo the reverse scan.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func toWire(msgs []Message) []llm.ChatMessage {
	wire := make([]llm.ChatMessage, 0, len(msgs))
	for _, m := range msgs {
		wire = append(wire, llm.ChatMessage{
			Role:       m.Role,
			Content:    m.Content,
			ToolCalls:  m.ToolCalls,
			ToolCallID: m.ToolCallID,
		})
	}
	return wire
}
