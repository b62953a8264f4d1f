package tools

import (
	"context"
	"fmt"
	"strings"

	"hrops.org/internal/auth"
	"hrops.org/internal/hr"
)

func userTools() []Tool {
	return []Tool{
		{
			Name:        "create_user",
			Description: "Create a login account with a role, optionally linked to an employee record.",
			Entity:      auth.EntityUser,
			Action:      auth.ActionCreate,
			Params: []Param{
				{Name: "email", Type: TypeString, Required: true, Description: "Login email."},
				{Name: "password", Type: TypeString, Required: true, Description: "Initial password."},
				{Name: "role", Type: TypeString, Required: true, Enum: []string{"admin", "manager", "member", "finance_reviewer"}, Description: "Account role."},
				{Name: "employee_id", Type: TypeString, Description: "Employee record this account owns."},
			},
			Handler: func(ctx context.Context, deps *Deps, args Args) (any, string, error) {
				role, err := auth.ParseRole(args.String("role"))
				if err != nil {
					return nil, "", err
				}
				email := strings.ToLower(strings.TrimSpace(args.String("email")))
				if email == "" || !strings.Contains(email, "@") {
					return nil, "", fmt.Errorf("%w: invalid email", hr.ErrInvalidInput)
				}
				if len(args.String("password")) < 8 {
					return nil, "", fmt.Errorf("%w: password must be at least 8 characters", hr.ErrInvalidInput)
				}
				if _, err := deps.Store.Users(ctx).FindByEmail(ctx, email); err == nil {
					return nil, "", fmt.Errorf("%w: email already registered", hr.ErrInvalidInput)
				}
				if id := args.String("employee_id"); id != "" {
					if _, err := deps.Store.Employees(ctx).Find(ctx, id); err != nil {
						return nil, "", err
					}
				}
				hash, err := auth.HashPassword(args.String("password"))
				if err != nil {
					return nil, "", err
				}
				u := &hr.User{
					Email:        email,
					PasswordHash: hash,
					Role:         role,
					EmployeeID:   args.String("employee_id"),
					Status:       hr.UserStatusActive,
				}
				if err := deps.Store.Users(ctx).Create(ctx, u); err != nil {
					return nil, "", err
				}
				return u, u.ID, nil
			},
		},
	}
}
