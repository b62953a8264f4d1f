package chat

import (
	"context"
	"database/sql"
	"encoding/json"

	"hrops.org/internal/ids"
	"hrops.org/internal/llm"
)

// PGStore persists conversations in PostgreSQL. Appends take a row lock
// on the conversation so concurrent turns against the same conversation
// serialize instead of interleaving positions.
type PGStore struct {
	db *sql.DB
}

var _ ConversationStore = (*PGStore)(nil)

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Create(ctx context.Context) (string, error) {
	id := ids.New()
	_, err := s.db.ExecContext(ctx, `insert into conversations(id) values($1)`, id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *PGStore) Load(ctx context.Context, id string) ([]Message, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`select exists(select 1 from conversations where id=$1)`, id).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}

	rows, err := s.db.QueryContext(ctx,
		`select message_id, role, content, tool_calls, tool_call_id
		 from conversation_messages where conversation_id=$1 order by position asc`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	msgs := []Message{}
	for rows.Next() {
		var (
			m          Message
			toolCalls  []byte
			toolCallID sql.NullString
		)
		if err := rows.Scan(&m.ID, &m.Role, &m.Content, &toolCalls, &toolCallID); err != nil {
			return nil, err
		}
		if len(toolCalls) > 0 {
			var calls []llm.ToolCall
			if err := json.Unmarshal(toolCalls, &calls); err == nil {
				m.ToolCalls = calls
			}
		}
		if toolCallID.Valid {
			m.ToolCallID = toolCallID.String
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (s *PGStore) Append(ctx context.Context, id string, msgs []Message) error {
	if len(msgs) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var locked string
	err = tx.QueryRowContext(ctx,
		`select id from conversations where id=$1 for update`, id).Scan(&locked)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return err
	}

	var next int
	err = tx.QueryRowContext(ctx,
		`select coalesce(max(position), -1) + 1 from conversation_messages where conversation_id=$1`, id).Scan(&next)
	if err != nil {
		return err
	}

	for i, m := range msgs {
		var toolCalls any
		if len(m.ToolCalls) > 0 {
			raw, err := json.Marshal(m.ToolCalls)
			if err != nil {
				return err
			}
			toolCalls = raw
		}
		var toolCallID any
		if m.ToolCallID != "" {
			toolCallID = m.ToolCallID
		}
		_, err := tx.ExecContext(ctx,
			`insert into conversation_messages(id, conversation_id, position, message_id, role, content, tool_calls, tool_call_id)
			 values($1,$2,$3,$4,$5,$6,$7,$8)`,
			ids.New(), id, next+i, m.ID, m.Role, m.Content, toolCalls, toolCallID,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}
