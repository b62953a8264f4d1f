package tools

import (
	"context"
	"fmt"

	"hrops.org/internal/auth"
	"hrops.org/internal/hr"
)

func attendanceTools() []Tool {
	return []Tool{
		{
			Name:        "record_attendance",
			Description: "Record one attendance day for an employee.",
			Entity:      auth.EntityAttendance,
			Action:      auth.ActionCreate,
			Params: []Param{
				{Name: "employee_id", Type: TypeString, Required: true, Description: "Employee id."},
				{Name: "date", Type: TypeDate, Required: true, Description: "Day the record covers, YYYY-MM-DD."},
				{Name: "status", Type: TypeString, Required: true, Enum: []string{"present", "absent", "leave", "holiday"}, Description: "Attendance state."},
				{Name: "overtime_minutes", Type: TypeInteger, Description: "Overtime worked that day, in minutes."},
			},
			Owner: ownByEmployeeArg,
			Handler: func(ctx context.Context, deps *Deps, args Args) (any, string, error) {
				status, err := hr.ParseAttendanceStatus(args.String("status"))
				if err != nil {
					return nil, "", err
				}
				if args.Int64("overtime_minutes") < 0 {
					return nil, "", fmt.Errorf("%w: overtime_minutes cannot be negative", hr.ErrInvalidInput)
				}
				if _, err := deps.Store.Employees(ctx).Find(ctx, args.String("employee_id")); err != nil {
					return nil, "", err
				}
				rec := &hr.AttendanceRecord{
					EmployeeID:      args.String("employee_id"),
					Date:            args.Date("date"),
					OvertimeMinutes: args.Int64("overtime_minutes"),
					Status:          status,
				}
				if err := deps.Store.Attendance(ctx).Create(ctx, rec); err != nil {
					return nil, "", err
				}
				return rec, rec.ID, nil
			},
		},
		{
			Name:        "list_attendance",
			Description: "List attendance records of one employee, optionally bounded by dates.",
			Entity:      auth.EntityAttendance,
			Action:      auth.ActionRead,
			Params: []Param{
				{Name: "employee_id", Type: TypeString, Required: true, Description: "Employee id."},
				{Name: "from", Type: TypeDate, Description: "Inclusive lower bound, YYYY-MM-DD."},
				{Name: "to", Type: TypeDate, Description: "Inclusive upper bound, YYYY-MM-DD."},
			},
			Owner: ownByEmployeeArg,
			Handler: func(ctx context.Context, deps *Deps, args Args) (any, string, error) {
				list, err := deps.Store.Attendance(ctx).ListByEmployee(ctx,
					args.String("employee_id"), args.Date("from"), args.Date("to"))
				if err != nil {
					return nil, "", err
				}
				return list, "", nil
			},
		},
	}
}
