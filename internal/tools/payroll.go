package tools

import (
	"context"
	"fmt"

	"hrops.org/internal/auth"
	"hrops.org/internal/hr"
)

func ownPayroll(ctx context.Context, deps *Deps, args Args) (string, error) {
	p, err := deps.Store.Payrolls(ctx).Find(ctx, args.String("id"))
	if err != nil {
		return "", err
	}
	return p.EmployeeID, nil
}

func payrollTools() []Tool {
	return []Tool{
		{
			Name:        "calculate_payroll",
			Description: "Compute a pay run for an employee over a period from base salary, overtime and deductions.",
			Entity:      auth.EntityPayroll,
			Action:      auth.ActionCreate,
			Params: []Param{
				{Name: "employee_id", Type: TypeString, Required: true, Description: "Employee id."},
				{Name: "period_start", Type: TypeDate, Required: true, Description: "Period start, YYYY-MM-DD."},
				{Name: "period_end", Type: TypeDate, Required: true, Description: "Period end, YYYY-MM-DD."},
				{Name: "deductions", Type: TypeObject, Description: "Deduction name to amount in minor units."},
			},
			Handler: func(ctx context.Context, deps *Deps, args Args) (any, string, error) {
				start, end := args.Date("period_start"), args.Date("period_end")
				if end.Before(start) {
					return nil, "", fmt.Errorf("%w: period_end precedes period_start", hr.ErrInvalidInput)
				}
				emp, err := deps.Store.Employees(ctx).Find(ctx, args.String("employee_id"))
				if err != nil {
					return nil, "", err
				}
				attendance, err := deps.Store.Attendance(ctx).ListByEmployee(ctx, emp.ID, start, end)
				if err != nil {
					return nil, "", err
				}
				records := make([]hr.AttendanceRecord, 0, len(attendance))
				for _, rec := range attendance {
					records = append(records, *rec)
				}
				deductions := hr.ParseDeductions(args.Object("deductions"))
				overtime, net := hr.ComputePayroll(emp.BaseSalary, records, deductions, start, end)

				p := &hr.Payroll{
					EmployeeID:  emp.ID,
					PeriodStart: start,
					PeriodEnd:   end,
					BaseSalary:  emp.BaseSalary,
					OvertimePay: overtime,
					Deductions:  deductions,
					NetSalary:   net,
					Status:      hr.PayrollCalculated,
				}
				if err := deps.Store.Payrolls(ctx).Create(ctx, p); err != nil {
					return nil, "", err
				}
				return p, p.ID, nil
			},
		},
		{
			Name:        "get_payroll",
			Description: "Fetch one pay run by id.",
			Entity:      auth.EntityPayroll,
			Action:      auth.ActionRead,
			Params: []Param{
				{Name: "id", Type: TypeString, Required: true, Description: "Payroll id."},
			},
			Owner: ownPayroll,
			Handler: func(ctx context.Context, deps *Deps, args Args) (any, string, error) {
				p, err := deps.Store.Payrolls(ctx).Find(ctx, args.String("id"))
				if err != nil {
					return nil, "", err
				}
				return p, p.ID, nil
			},
		},
		{
			Name:        "list_payrolls",
			Description: "List pay runs of one employee.",
			Entity:      auth.EntityPayroll,
			Action:      auth.ActionRead,
			Params: []Param{
				{Name: "employee_id", Type: TypeString, Required: true, Description: "Employee id."},
			},
			Owner: ownByEmployeeArg,
			Handler: func(ctx context.Context, deps *Deps, args Args) (any, string, error) {
				list, err := deps.Store.Payrolls(ctx).ListByEmployee(ctx, args.String("employee_id"))
				if err != nil {
					return nil, "", err
				}
				return list, "", nil
			},
		},
		{
			Name:        "update_payroll_status",
			Description: "Advance a pay run one step along pending, calculated, verified, approved, paid.",
			Entity:      auth.EntityPayroll,
			Action:      auth.ActionUpdate,
			Params: []Param{
				{Name: "id", Type: TypeString, Required: true, Description: "Payroll id."},
				{Name: "status", Type: TypeString, Required: true, Enum: []string{"pending", "calculated", "verified", "approved", "paid"}, Description: "Target status."},
			},
			Owner: ownPayroll,
			Handler: func(ctx context.Context, deps *Deps, args Args) (any, string, error) {
				target, err := hr.ParsePayrollStatus(args.String("status"))
				if err != nil {
					return nil, "", err
				}
				p, err := deps.Store.Payrolls(ctx).Find(ctx, args.String("id"))
				if err != nil {
					return nil, "", err
				}
				if !p.Status.CanTransition(target) {
					return nil, "", fmt.Errorf("%w: %s -> %s", hr.ErrInvalidTransition, p.Status, target)
				}
				// Approval steps demand a stronger policy action than update.
				actor, err := auth.RequireActor(ctx)
				if err != nil {
					return nil, "", err
				}
				if !auth.Allowed(actor.Role, p.Status.RequiredAction(target), auth.EntityPayroll) {
					return nil, "", fmt.Errorf("%w: %s payroll", auth.ErrUnauthorized, p.Status.RequiredAction(target))
				}
				p, err = deps.Store.Payrolls(ctx).UpdateStatus(ctx, p.ID, target)
				if err != nil {
					return nil, "", err
				}
				return p, p.ID, nil
			},
		},
	}
}
