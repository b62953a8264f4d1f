package tools

import (
	"context"
	"fmt"

	"hrops.org/internal/auth"
	"hrops.org/internal/hr"
)

// ownEmployee resolves an employee record's owner: the employee itself.
func ownEmployee(ctx context.Context, deps *Deps, args Args) (string, error) {
	emp, err := deps.Store.Employees(ctx).Find(ctx, args.String("id"))
	if err != nil {
		return "", err
	}
	return emp.ID, nil
}

func employeeTools() []Tool {
	return []Tool{
		{
			Name:        "create_employee",
			Description: "Create a new employee record.",
			Entity:      auth.EntityEmployee,
			Action:      auth.ActionCreate,
			Params: []Param{
				{Name: "first_name", Type: TypeString, Required: true, Description: "Given name."},
				{Name: "last_name", Type: TypeString, Required: true, Description: "Family name."},
				{Name: "email", Type: TypeString, Required: true, Description: "Work email address."},
				{Name: "position", Type: TypeString, Required: true, Description: "Job title."},
				{Name: "department", Type: TypeString, Required: true, Description: "Department name."},
				{Name: "hire_date", Type: TypeDate, Required: true, Description: "Hire date, YYYY-MM-DD."},
				{Name: "base_salary", Type: TypeInteger, Required: true, Description: "Base salary per period in minor units."},
			},
			Handler: func(ctx context.Context, deps *Deps, args Args) (any, string, error) {
				if args.Int64("base_salary") <= 0 {
					return nil, "", fmt.Errorf("%w: base_salary must be positive", hr.ErrInvalidInput)
				}
				emp := &hr.Employee{
					FirstName:  args.String("first_name"),
					LastName:   args.String("last_name"),
					Email:      args.String("email"),
					Position:   args.String("position"),
					Department: args.String("department"),
					HireDate:   args.Date("hire_date"),
					BaseSalary: args.Int64("base_salary"),
					Status:     hr.EmployeeActive,
				}
				if err := deps.Store.Employees(ctx).Create(ctx, emp); err != nil {
					return nil, "", err
				}
				return emp, emp.ID, nil
			},
		},
		{
			Name:        "get_employee",
			Description: "Fetch one employee record by id.",
			Entity:      auth.EntityEmployee,
			Action:      auth.ActionRead,
			Params: []Param{
				{Name: "id", Type: TypeString, Required: true, Description: "Employee id."},
			},
			Owner: ownEmployee,
			Handler: func(ctx context.Context, deps *Deps, args Args) (any, string, error) {
				emp, err := deps.Store.Employees(ctx).Find(ctx, args.String("id"))
				if err != nil {
					return nil, "", err
				}
				return emp, emp.ID, nil
			},
		},
		{
			Name:        "list_employees",
			Description: "List employee records visible to the caller.",
			Entity:      auth.EntityEmployee,
			Action:      auth.ActionRead,
			Handler: func(ctx context.Context, deps *Deps, args Args) (any, string, error) {
				actor, err := auth.RequireActor(ctx)
				if err != nil {
					return nil, "", err
				}
				all, err := deps.Store.Employees(ctx).List(ctx)
				if err != nil {
					return nil, "", err
				}
				visible := make([]*hr.Employee, 0, len(all))
				for _, emp := range all {
					if auth.CanAccessRecord(actor.Role, emp.ID, actor.EmployeeID) {
						visible = append(visible, emp)
					}
				}
				return visible, "", nil
			},
		},
		{
			Name:        "update_employee",
			Description: "Update fields of an existing employee record.",
			Entity:      auth.EntityEmployee,
			Action:      auth.ActionUpdate,
			Params: []Param{
				{Name: "id", Type: TypeString, Required: true, Description: "Employee id."},
				{Name: "first_name", Type: TypeString, Description: "New given name."},
				{Name: "last_name", Type: TypeString, Description: "New family name."},
				{Name: "email", Type: TypeString, Description: "New email address."},
				{Name: "position", Type: TypeString, Description: "New job title."},
				{Name: "department", Type: TypeString, Description: "New department."},
				{Name: "base_salary", Type: TypeInteger, Description: "New base salary in minor units."},
				{Name: "status", Type: TypeString, Enum: []string{"active", "on_leave", "terminated"}, Description: "New lifecycle status."},
			},
			Owner: ownEmployee,
			Handler: func(ctx context.Context, deps *Deps, args Args) (any, string, error) {
				var upd hr.EmployeeUpdate
				if args.Has("first_name") {
					v := args.String("first_name")
					upd.FirstName = &v
				}
				if args.Has("last_name") {
					v := args.String("last_name")
					upd.LastName = &v
				}
				if args.Has("email") {
					v := args.String("email")
					upd.Email = &v
				}
				if args.Has("position") {
					v := args.String("position")
					upd.Position = &v
				}
				if args.Has("department") {
					v := args.String("department")
					upd.Department = &v
				}
				if args.Has("base_salary") {
					v := args.Int64("base_salary")
					if v <= 0 {
						return nil, "", fmt.Errorf("%w: base_salary must be positive", hr.ErrInvalidInput)
					}
					upd.BaseSalary = &v
				}
				if args.Has("status") {
					status, err := hr.ParseEmployeeStatus(args.String("status"))
					if err != nil {
						return nil, "", err
					}
					upd.Status = &status
				}
				emp, err := deps.Store.Employees(ctx).Update(ctx, args.String("id"), upd)
				if err != nil {
					return nil, "", err
				}
				return emp, emp.ID, nil
			},
		},
		{
			Name:        "delete_employee",
			Description: "Delete an employee record.",
			Entity:      auth.EntityEmployee,
			Action:      auth.ActionDelete,
			Params: []Param{
				{Name: "id", Type: TypeString, Required: true, Description: "Employee id."},
			},
			Owner: ownEmployee,
			Handler: func(ctx context.Context, deps *Deps, args Args) (any, string, error) {
				id := args.String("id")
				if err := deps.Store.Employees(ctx).Delete(ctx, id); err != nil {
					return nil, "", err
				}
				return map[string]any{"deleted": true, "id": id}, id, nil
			},
		},
	}
}
