package tools

import (
	"context"
	"fmt"

	"hrops.org/internal/auth"
	"hrops.org/internal/hr"
)

func ownBenefit(ctx context.Context, deps *Deps, args Args) (string, error) {
	b, err := deps.Store.Benefits(ctx).Find(ctx, args.String("id"))
	if err != nil {
		return "", err
	}
	return b.EmployeeID, nil
}

func benefitTools() []Tool {
	return []Tool{
		{
			Name:        "create_benefit",
			Description: "Grant a recurring benefit to an employee.",
			Entity:      auth.EntityBenefit,
			Action:      auth.ActionCreate,
			Params: []Param{
				{Name: "employee_id", Type: TypeString, Required: true, Description: "Employee id."},
				{Name: "category", Type: TypeString, Required: true, Enum: []string{"health", "pension", "meal", "transport", "education", "other"}, Description: "Benefit kind."},
				{Name: "amount", Type: TypeInteger, Required: true, Description: "Amount per period in minor units."},
				{Name: "effective_from", Type: TypeDate, Required: true, Description: "First period the benefit applies, YYYY-MM-DD."},
				{Name: "note", Type: TypeString, Description: "Free-form note."},
			},
			Handler: func(ctx context.Context, deps *Deps, args Args) (any, string, error) {
				category, err := hr.ParseBenefitCategory(args.String("category"))
				if err != nil {
					return nil, "", err
				}
				if args.Int64("amount") <= 0 {
					return nil, "", fmt.Errorf("%w: amount must be positive", hr.ErrInvalidInput)
				}
				if _, err := deps.Store.Employees(ctx).Find(ctx, args.String("employee_id")); err != nil {
					return nil, "", err
				}
				b := &hr.Benefit{
					EmployeeID:    args.String("employee_id"),
					Category:      category,
					Amount:        args.Int64("amount"),
					EffectiveFrom: args.Date("effective_from"),
					Note:          args.String("note"),
				}
				if err := deps.Store.Benefits(ctx).Create(ctx, b); err != nil {
					return nil, "", err
				}
				return b, b.ID, nil
			},
		},
		{
			Name:        "get_benefit",
			Description: "Fetch one benefit by id.",
			Entity:      auth.EntityBenefit,
			Action:      auth.ActionRead,
			Params: []Param{
				{Name: "id", Type: TypeString, Required: true, Description: "Benefit id."},
			},
			Owner: ownBenefit,
			Handler: func(ctx context.Context, deps *Deps, args Args) (any, string, error) {
				b, err := deps.Store.Benefits(ctx).Find(ctx, args.String("id"))
				if err != nil {
					return nil, "", err
				}
				return b, b.ID, nil
			},
		},
		{
			Name:        "list_benefits",
			Description: "List benefits of one employee.",
			Entity:      auth.EntityBenefit,
			Action:      auth.ActionRead,
			Params: []Param{
				{Name: "employee_id", Type: TypeString, Required: true, Description: "Employee id."},
			},
			Owner: ownByEmployeeArg,
			Handler: func(ctx context.Context, deps *Deps, args Args) (any, string, error) {
				list, err := deps.Store.Benefits(ctx).ListByEmployee(ctx, args.String("employee_id"))
				if err != nil {
					return nil, "", err
				}
				return list, "", nil
			},
		},
		{
			Name:        "update_benefit",
			Description: "Update the amount or note of a benefit.",
			Entity:      auth.EntityBenefit,
			Action:      auth.ActionUpdate,
			Params: []Param{
				{Name: "id", Type: TypeString, Required: true, Description: "Benefit id."},
				{Name: "amount", Type: TypeInteger, Description: "New amount in minor units."},
				{Name: "note", Type: TypeString, Description: "New note."},
			},
			Owner: ownBenefit,
			Handler: func(ctx context.Context, deps *Deps, args Args) (any, string, error) {
				var upd hr.BenefitUpdate
				if args.Has("amount") {
					v := args.Int64("amount")
					if v <= 0 {
						return nil, "", fmt.Errorf("%w: amount must be positive", hr.ErrInvalidInput)
					}
					upd.Amount = &v
				}
				if args.Has("note") {
					v := args.String("note")
					upd.Note = &v
				}
				b, err := deps.Store.Benefits(ctx).Update(ctx, args.String("id"), upd)
				if err != nil {
					return nil, "", err
				}
				return b, b.ID, nil
			},
		},
	}
}
