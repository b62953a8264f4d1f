// Package audit persists a trail of every state-changing operation.
// Recording is best effort: a failed audit write never aborts the
// operation it describes, it is logged and counted instead.
package audit

import (
	"context"
	"strings"
	"time"

	"hrops.org/internal/ids"
	"hrops.org/internal/obs"
)

const (
	// DefaultQueryLimit applies when a query does not name a limit.
	DefaultQueryLimit = 100
	// MaxQueryLimit caps any requested limit.
	MaxQueryLimit = 500

	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Entry is one audit row. ActorID is empty for unattributed system actions.
type Entry struct {
	ID         string         `json:"id"`
	Entity     string         `json:"entity"`
	EntityID   string         `json:"entity_id,omitempty"`
	Action     string         `json:"action"`
	ActorID    string         `json:"actor_id,omitempty"`
	Status     string         `json:"status"`
	Detail     map[string]any `json:"detail,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// Filter narrows a Query. Zero values mean "no constraint".
type Filter struct {
	Entity   string
	EntityID string
	ActorID  string
	From     time.Time
	To       time.Time
	Limit    int
}

func (f Filter) limit() int {
	switch {
	case f.Limit <= 0:
		return DefaultQueryLimit
	case f.Limit > MaxQueryLimit:
		return MaxQueryLimit
	default:
		return f.Limit
	}
}

func (f Filter) matches(e Entry) bool {
	if f.Entity != "" && e.Entity != f.Entity {
		return false
	}
	if f.EntityID != "" && e.EntityID != f.EntityID {
		return false
	}
	if f.ActorID != "" && e.ActorID != f.ActorID {
		return false
	}
	if !f.From.IsZero() && e.OccurredAt.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && e.OccurredAt.After(f.To) {
		return false
	}
	return true
}

// Store persists audit entries.
type Store interface {
	Insert(ctx context.Context, e Entry) error
	Query(ctx context.Context, f Filter) ([]Entry, error)
}

// Recorder fronts a Store with the best-effort write contract.
type Recorder struct {
	store Store
}

func NewRecorder(store Store) *Recorder {
	return &Recorder{store: store}
}

// Record writes an audit entry. Failures are swallowed after logging so
// the primary operation's outcome is never coupled to audit availability.
func (r *Recorder) Record(ctx context.Context, e Entry) {
	if r == nil || r.store == nil {
		return
	}
	e.Entity = strings.TrimSpace(e.Entity)
	e.Action = strings.TrimSpace(e.Action)
	if e.Entity == "" || e.Action == "" {
		return
	}
	if e.ID == "" {
		e.ID = ids.New()
	}
	if e.Status == "" {
		e.Status = StatusSuccess
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	if err := r.store.Insert(ctx, e); err != nil {
		obs.ObserveAuditFailure()
		obs.LogEvent(map[string]any{
			"type":   "audit_write_failed",
			"entity": e.Entity,
			"action": e.Action,
			"error":  err.Error(),
		})
	}
}

// Query returns matching entries, newest first, honoring limit bounds.
func (r *Recorder) Query(ctx context.Context, f Filter) ([]Entry, error) {
	return r.store.Query(ctx, f)
}
