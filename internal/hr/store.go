package hr

import (
	"context"
	"time"
)

// Store describes persistence operations required by the HR subsystem.
// The relational engine behind it is an opaque transactional collaborator.
type Store interface {
	Employees(ctx context.Context) EmployeeStore
	Contracts(ctx context.Context) ContractStore
	Letters(ctx context.Context) LetterStore
	Attendance(ctx context.Context) AttendanceStore
	Payrolls(ctx context.Context) PayrollStore
	Benefits(ctx context.Context) BenefitStore
	Users(ctx context.Context) UserStore
}

// EmployeeUpdate carries optional field changes; nil means "leave unchanged".
type EmployeeUpdate struct {
	FirstName  *string
	LastName   *string
	Email      *string
	Position   *string
	Department *string
	BaseSalary *int64
	Status     *EmployeeStatus
}

// EmployeeStore manages employee records.
type EmployeeStore interface {
	Create(ctx context.Context, e *Employee) error
	Find(ctx context.Context, id string) (*Employee, error)
	List(ctx context.Context) ([]*Employee, error)
	Update(ctx context.Context, id string, upd EmployeeUpdate) (*Employee, error)
	Delete(ctx context.Context, id string) error
}

// ContractStore manages contracts.
type ContractStore interface {
	Create(ctx context.Context, c *Contract) error
	Find(ctx context.Context, id string) (*Contract, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]*Contract, error)
	UpdateStatus(ctx context.Context, id string, status ContractStatus) (*Contract, error)
}

// LetterStore manages generated HR letters.
type LetterStore interface {
	Create(ctx context.Context, l *Letter) error
	Find(ctx context.Context, id string) (*Letter, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]*Letter, error)
}

// AttendanceStore manages attendance records.
type AttendanceStore interface {
	Create(ctx context.Context, rec *AttendanceRecord) error
	ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]*AttendanceRecord, error)
}

// PayrollStore manages pay runs.
type PayrollStore interface {
	Create(ctx context.Context, p *Payroll) error
	Find(ctx context.Context, id string) (*Payroll, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]*Payroll, error)
	UpdateStatus(ctx context.Context, id string, status PayrollStatus) (*Payroll, error)
}

// BenefitUpdate carries optional field changes for a benefit.
type BenefitUpdate struct {
	Amount *int64
	Note   *string
}

// BenefitStore manages benefits.
type BenefitStore interface {
	Create(ctx context.Context, b *Benefit) error
	Find(ctx context.Context, id string) (*Benefit, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]*Benefit, error)
	Update(ctx context.Context, id string, upd BenefitUpdate) (*Benefit, error)
}

// UserStore manages login accounts.
type UserStore interface {
	Create(ctx context.Context, u *User) error
	Find(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
}
