package tools

import (
	"context"
	"fmt"

	"hrops.org/internal/auth"
	"hrops.org/internal/hr"
)

func ownContract(ctx context.Context, deps *Deps, args Args) (string, error) {
	c, err := deps.Store.Contracts(ctx).Find(ctx, args.String("id"))
	if err != nil {
		return "", err
	}
	return c.EmployeeID, nil
}

// ownByEmployeeArg resolves ownership for tools keyed by employee_id.
func ownByEmployeeArg(_ context.Context, _ *Deps, args Args) (string, error) {
	return args.String("employee_id"), nil
}

func contractTools() []Tool {
	return []Tool{
		{
			Name:        "create_contract",
			Description: "Create an employment contract for an employee.",
			Entity:      auth.EntityContract,
			Action:      auth.ActionCreate,
			Params: []Param{
				{Name: "employee_id", Type: TypeString, Required: true, Description: "Employee id."},
				{Name: "type", Type: TypeString, Required: true, Enum: []string{"permanent", "fixed_term", "internship"}, Description: "Contract kind."},
				{Name: "start_date", Type: TypeDate, Required: true, Description: "Contract start, YYYY-MM-DD."},
				{Name: "end_date", Type: TypeDate, Description: "Contract end for fixed terms, YYYY-MM-DD."},
				{Name: "salary", Type: TypeInteger, Required: true, Description: "Salary per period in minor units."},
			},
			Handler: func(ctx context.Context, deps *Deps, args Args) (any, string, error) {
				ctype, err := hr.ParseContractType(args.String("type"))
				if err != nil {
					return nil, "", err
				}
				if args.Int64("salary") <= 0 {
					return nil, "", fmt.Errorf("%w: salary must be positive", hr.ErrInvalidInput)
				}
				// The employee must exist before a contract can bind it.
				if _, err := deps.Store.Employees(ctx).Find(ctx, args.String("employee_id")); err != nil {
					return nil, "", err
				}
				c := &hr.Contract{
					EmployeeID: args.String("employee_id"),
					Type:       ctype,
					StartDate:  args.Date("start_date"),
					Salary:     args.Int64("salary"),
					Status:     hr.ContractDraft,
				}
				if args.Has("end_date") {
					end := args.Date("end_date")
					if end.Before(c.StartDate) {
						return nil, "", fmt.Errorf("%w: end_date precedes start_date", hr.ErrInvalidInput)
					}
					c.EndDate = &end
				}
				if err := deps.Store.Contracts(ctx).Create(ctx, c); err != nil {
					return nil, "", err
				}
				return c, c.ID, nil
			},
		},
		{
			Name:        "get_contract",
			Description: "Fetch one contract by id.",
			Entity:      auth.EntityContract,
			Action:      auth.ActionRead,
			Params: []Param{
				{Name: "id", Type: TypeString, Required: true, Description: "Contract id."},
			},
			Owner: ownContract,
			Handler: func(ctx context.Context, deps *Deps, args Args) (any, string, error) {
				c, err := deps.Store.Contracts(ctx).Find(ctx, args.String("id"))
				if err != nil {
					return nil, "", err
				}
				return c, c.ID, nil
			},
		},
		{
			Name:        "list_contracts",
			Description: "List contracts of one employee.",
			Entity:      auth.EntityContract,
			Action:      auth.ActionRead,
			Params: []Param{
				{Name: "employee_id", Type: TypeString, Required: true, Description: "Employee id."},
			},
			Owner: ownByEmployeeArg,
			Handler: func(ctx context.Context, deps *Deps, args Args) (any, string, error) {
				list, err := deps.Store.Contracts(ctx).ListByEmployee(ctx, args.String("employee_id"))
				if err != nil {
					return nil, "", err
				}
				return list, "", nil
			},
		},
		{
			Name:        "update_contract_status",
			Description: "Move a contract to a new lifecycle status.",
			Entity:      auth.EntityContract,
			Action:      auth.ActionUpdate,
			Params: []Param{
				{Name: "id", Type: TypeString, Required: true, Description: "Contract id."},
				{Name: "status", Type: TypeString, Required: true, Enum: []string{"draft", "active", "expired", "terminated"}, Description: "Target status."},
			},
			Owner: ownContract,
			Handler: func(ctx context.Context, deps *Deps, args Args) (any, string, error) {
				status, err := hr.ParseContractStatus(args.String("status"))
				if err != nil {
					return nil, "", err
				}
				c, err := deps.Store.Contracts(ctx).UpdateStatus(ctx, args.String("id"), status)
				if err != nil {
					return nil, "", err
				}
				return c, c.ID, nil
			},
		},
	}
}
