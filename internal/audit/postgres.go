package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"strings"
)

// PGStore persists audit entries in PostgreSQL.
type PGStore struct {
	db *sql.DB
}

var _ Store = (*PGStore)(nil)

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Insert(ctx context.Context, e Entry) error {
	detail, _ := json.Marshal(e.Detail)
	var actorID any
	if e.ActorID != "" {
		actorID = e.ActorID
	}
	var entityID any
	if e.EntityID != "" {
		entityID = e.EntityID
	}
	_, err := s.db.ExecContext(ctx,
		`insert into audit_entries(id, entity, entity_id, action, actor_id, status, detail, occurred_at)
		 values($1,$2,$3,$4,$5,$6,$7,$8)`,
		e.ID, e.Entity, entityID, e.Action, actorID, e.Status, detail, e.OccurredAt,
	)
	return err
}

func (s *PGStore) Query(ctx context.Context, f Filter) ([]Entry, error) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(`select id, entity, entity_id, action, actor_id, status, detail, occurred_at
		from audit_entries where true`)
	add := func(clause string, arg any) {
		args = append(args, arg)
		sb.WriteString(" and " + clause + "$" + strconv.Itoa(len(args)))
	}
	if f.Entity != "" {
		add("entity=", f.Entity)
	}
	if f.EntityID != "" {
		add("entity_id=", f.EntityID)
	}
	if f.ActorID != "" {
		add("actor_id=", f.ActorID)
	}
	if !f.From.IsZero() {
		add("occurred_at>=", f.From)
	}
	if !f.To.IsZero() {
		add("occurred_at<=", f.To)
	}
	args = append(args, f.limit())
	sb.WriteString(" order by occurred_at desc limit $" + strconv.Itoa(len(args)))

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Entry
	for rows.Next() {
		var (
			e                 Entry
			entityID, actorID sql.NullString
			detail            []byte
		)
		if err := rows.Scan(&e.ID, &e.Entity, &entityID, &e.Action, &actorID,
			&e.Status, &detail, &e.OccurredAt); err != nil {
			return nil, err
		}
		if entityID.Valid {
			e.EntityID = entityID.String
		}
		if actorID.Valid {
			e.ActorID = actorID.String
		}
		if len(detail) > 0 {
			_ = json.Unmarshal(detail, &e.Detail)
		}
		res = append(res, e)
	}
	return res, rows.Err()
}
