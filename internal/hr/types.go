package hr

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"hrops.org/internal/auth"
)

var (
	ErrNotFound          = errors.New("hr: not found")
	ErrInvalidInput      = errors.New("hr: invalid input")
	ErrInvalidTransition = errors.New("hr: invalid status transition")
)

// Monetary amounts are kept in minor units (e.g., cents). No floats.

// EmployeeStatus is the lifecycle state of an employee record.
type EmployeeStatus string

const (
	EmployeeActive     EmployeeStatus = "active"
	EmployeeOnLeave    EmployeeStatus = "on_leave"
	EmployeeTerminated EmployeeStatus = "terminated"
)

// ParseEmployeeStatus maps raw input onto the closed status set.
func ParseEmployeeStatus(raw string) (EmployeeStatus, error) {
	switch EmployeeStatus(strings.TrimSpace(strings.ToLower(raw))) {
	case EmployeeActive:
		return EmployeeActive, nil
	case EmployeeOnLeave:
		return EmployeeOnLeave, nil
	case EmployeeTerminated:
		return EmployeeTerminated, nil
	default:
		return "", fmt.Errorf("%w: employee status %q", ErrInvalidInput, raw)
	}
}

// Employee is the central record; all other entities link to it through
// EmployeeID, which is also the ownership anchor for the member role.
type Employee struct {
	ID         string         `json:"id"`
	UserID     string         `json:"user_id,omitempty"`
	FirstName  string         `json:"first_name"`
	LastName   string         `json:"last_name"`
	Email      string         `json:"email"`
	Position   string         `json:"position"`
	Department string         `json:"department"`
	HireDate   time.Time      `json:"hire_date"`
	BaseSalary int64          `json:"base_salary"` // minor units per period
	Status     EmployeeStatus `json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// ContractType is the closed set of employment contract kinds.
type ContractType string

const (
	ContractPermanent  ContractType = "permanent"
	ContractFixedTerm  ContractType = "fixed_term"
	ContractInternship ContractType = "internship"
)

// ParseContractType maps raw input onto the closed contract-type set.
func ParseContractType(raw string) (ContractType, error) {
	switch ContractType(strings.TrimSpace(strings.ToLower(raw))) {
	case ContractPermanent:
		return ContractPermanent, nil
	case ContractFixedTerm:
		return ContractFixedTerm, nil
	case ContractInternship:
		return ContractInternship, nil
	default:
		return "", fmt.Errorf("%w: contract type %q", ErrInvalidInput, raw)
	}
}

// ContractStatus is the lifecycle state of a contract.
type ContractStatus string

const (
	ContractDraft      ContractStatus = "draft"
	ContractActive     ContractStatus = "active"
	ContractExpired    ContractStatus = "expired"
	ContractTerminated ContractStatus = "terminated"
)

// ParseContractStatus maps raw input onto the closed contract-status set.
func ParseContractStatus(raw string) (ContractStatus, error) {
	switch ContractStatus(strings.TrimSpace(strings.ToLower(raw))) {
	case ContractDraft:
		return ContractDraft, nil
	case ContractActive:
		return ContractActive, nil
	case ContractExpired:
		return ContractExpired, nil
	case ContractTerminated:
		return ContractTerminated, nil
	default:
		return "", fmt.Errorf("%w: contract status %q", ErrInvalidInput, raw)
	}
}

// Contract binds an employee to employment terms.
type Contract struct {
	ID         string         `json:"id"`
	EmployeeID string         `json:"employee_id"`
	Type       ContractType   `json:"type"`
	StartDate  time.Time      `json:"start_date"`
	EndDate    *time.Time     `json:"end_date,omitempty"`
	Salary     int64          `json:"salary"` // minor units per period
	Status     ContractStatus `json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// LetterKind is the closed set of HR letter templates.
type LetterKind string

const (
	LetterEmployment  LetterKind = "employment"
	LetterSalary      LetterKind = "salary"
	LetterPromotion   LetterKind = "promotion"
	LetterTermination LetterKind = "termination"
)

// ParseLetterKind maps raw input onto the closed letter-kind set.
func ParseLetterKind(raw string) (LetterKind, error) {
	switch LetterKind(strings.TrimSpace(strings.ToLower(raw))) {
	case LetterEmployment:
		return LetterEmployment, nil
	case LetterSalary:
		return LetterSalary, nil
	case LetterPromotion:
		return LetterPromotion, nil
	case LetterTermination:
		return LetterTermination, nil
	default:
		return "", fmt.Errorf("%w: letter kind %q", ErrInvalidInput, raw)
	}
}

// Letter is a generated HR document. DocumentPath points into the opaque
// blob store; the path-return contract is all this service relies on.
type Letter struct {
	ID           string     `json:"id"`
	EmployeeID   string     `json:"employee_id"`
	Kind         LetterKind `json:"kind"`
	Body         string     `json:"body"`
	DocumentPath string     `json:"document_path,omitempty"`
	IssuedAt     time.Time  `json:"issued_at"`
}

// AttendanceStatus is the closed set of per-day attendance states.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLeave   AttendanceStatus = "leave"
	AttendanceHoliday AttendanceStatus = "holiday"
)

// ParseAttendanceStatus maps raw input onto the closed attendance-status set.
func ParseAttendanceStatus(raw string) (AttendanceStatus, error) {
	switch AttendanceStatus(strings.TrimSpace(strings.ToLower(raw))) {
	case AttendancePresent:
		return AttendancePresent, nil
	case AttendanceAbsent:
		return AttendanceAbsent, nil
	case AttendanceLeave:
		return AttendanceLeave, nil
	case AttendanceHoliday:
		return AttendanceHoliday, nil
	default:
		return "", fmt.Errorf("%w: attendance status %q", ErrInvalidInput, raw)
	}
}

// AttendanceRecord captures one working day for one employee.
type AttendanceRecord struct {
	ID              string           `json:"id"`
	EmployeeID      string           `json:"employee_id"`
	Date            time.Time        `json:"date"`
	ClockIn         *time.Time       `json:"clock_in,omitempty"`
	ClockOut        *time.Time       `json:"clock_out,omitempty"`
	OvertimeMinutes int64            `json:"overtime_minutes"`
	Status          AttendanceStatus `json:"status"`
	CreatedAt       time.Time        `json:"created_at"`
}

// PayrollStatus progresses strictly forward:
// Pending -> Calculated -> Verified -> Approved -> Paid.
type PayrollStatus string

const (
	PayrollPending    PayrollStatus = "pending"
	PayrollCalculated PayrollStatus = "calculated"
	PayrollVerified   PayrollStatus = "verified"
	PayrollApproved   PayrollStatus = "approved"
	PayrollPaid       PayrollStatus = "paid"
)

// ParsePayrollStatus maps raw input onto the closed payroll-status set.
func ParsePayrollStatus(raw string) (PayrollStatus, error) {
	switch PayrollStatus(strings.TrimSpace(strings.ToLower(raw))) {
	case PayrollPending:
		return PayrollPending, nil
	case PayrollCalculated:
		return PayrollCalculated, nil
	case PayrollVerified:
		return PayrollVerified, nil
	case PayrollApproved:
		return PayrollApproved, nil
	case PayrollPaid:
		return PayrollPaid, nil
	default:
		return "", fmt.Errorf("%w: payroll status %q", ErrInvalidInput, raw)
	}
}

var payrollNext = map[PayrollStatus]PayrollStatus{
	PayrollPending:    PayrollCalculated,
	PayrollCalculated: PayrollVerified,
	PayrollVerified:   PayrollApproved,
	PayrollApproved:   PayrollPaid,
}

// CanTransition reports whether a payroll may move from -> to. Only single
// forward steps are permitted; Paid is terminal.
func (s PayrollStatus) CanTransition(to PayrollStatus) bool {
	next, ok := payrollNext[s]
	return ok && next == to
}

// RequiredAction returns the policy action needed to perform the transition.
// Moving into Approved or Paid requires the approve action, everything else
// is a plain update.
func (s PayrollStatus) RequiredAction(to PayrollStatus) auth.Action {
	if to == PayrollApproved || to == PayrollPaid {
		return auth.ActionApprove
	}
	return auth.ActionUpdate
}

// Payroll is a computed pay run for one employee and period.
type Payroll struct {
	ID          string           `json:"id"`
	EmployeeID  string           `json:"employee_id"`
	PeriodStart time.Time        `json:"period_start"`
	PeriodEnd   time.Time        `json:"period_end"`
	BaseSalary  int64            `json:"base_salary"`
	OvertimePay int64            `json:"overtime_pay"`
	Deductions  map[string]int64 `json:"deductions"`
	NetSalary   int64            `json:"net_salary"`
	Status      PayrollStatus    `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// BenefitCategory is the closed set of benefit kinds.
type BenefitCategory string

const (
	BenefitHealth    BenefitCategory = "health"
	BenefitPension   BenefitCategory = "pension"
	BenefitMeal      BenefitCategory = "meal"
	BenefitTransport BenefitCategory = "transport"
	BenefitEducation BenefitCategory = "education"
	BenefitOther     BenefitCategory = "other"
)

// ParseBenefitCategory maps raw input onto the closed benefit-category set.
func ParseBenefitCategory(raw string) (BenefitCategory, error) {
	switch BenefitCategory(strings.TrimSpace(strings.ToLower(raw))) {
	case BenefitHealth:
		return BenefitHealth, nil
	case BenefitPension:
		return BenefitPension, nil
	case BenefitMeal:
		return BenefitMeal, nil
	case BenefitTransport:
		return BenefitTransport, nil
	case BenefitEducation:
		return BenefitEducation, nil
	case BenefitOther:
		return BenefitOther, nil
	default:
		return "", fmt.Errorf("%w: benefit category %q", ErrInvalidInput, raw)
	}
}

// Benefit is a recurring allowance granted to an employee.
type Benefit struct {
	ID            string          `json:"id"`
	EmployeeID    string          `json:"employee_id"`
	Category      BenefitCategory `json:"category"`
	Amount        int64           `json:"amount"` // minor units per period
	EffectiveFrom time.Time       `json:"effective_from"`
	Note          string          `json:"note,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// User is a login account. Role decides the permission policy row; the
// optional EmployeeID links the account to the employee record it owns.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         auth.Role `json:"role"`
	EmployeeID   string    `json:"employee_id,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)
