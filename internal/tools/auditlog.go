package tools

import (
	"context"
	"fmt"

	"hrops.org/internal/audit"
	"hrops.org/internal/auth"
)

// The audit log is not an HR entity; access is gated on the user entity,
// which only the admin role can read.
func auditTools() []Tool {
	return []Tool{
		{
			Name:        "search_audit_log",
			Description: "Search the audit trail of state-changing operations.",
			Entity:      auth.EntityUser,
			Action:      auth.ActionRead,
			Params: []Param{
				{Name: "entity", Type: TypeString, Description: "Filter by entity name."},
				{Name: "entity_id", Type: TypeString, Description: "Filter by record id."},
				{Name: "actor_id", Type: TypeString, Description: "Filter by acting user id."},
				{Name: "from", Type: TypeDate, Description: "Inclusive lower bound on occurrence time."},
				{Name: "to", Type: TypeDate, Description: "Inclusive upper bound on occurrence time."},
				{Name: "limit", Type: TypeInteger, Description: "Maximum rows to return (default 100, cap 500)."},
			},
			Handler: func(ctx context.Context, deps *Deps, args Args) (any, string, error) {
				actor, err := auth.RequireActor(ctx)
				if err != nil {
					return nil, "", err
				}
				if actor.Role != auth.RoleAdmin {
					return nil, "", fmt.Errorf("%w: audit log is admin only", auth.ErrUnauthorized)
				}
				entries, err := deps.Audit.Query(ctx, audit.Filter{
					Entity:   args.String("entity"),
					EntityID: args.String("entity_id"),
					ActorID:  args.String("actor_id"),
					From:     args.Date("from"),
					To:       args.Date("to"),
					Limit:    int(args.Int64("limit")),
				})
				if err != nil {
					return nil, "", err
				}
				return entries, "", nil
			},
		},
	}
}
