package auth

import (
	"fmt"
	"strings"
)

// Role is the closed set of caller roles known to the permission policy.
type Role string

const (
	RoleAdmin           Role = "admin"
	RoleManager         Role = "manager"
	RoleMember          Role = "member"
	RoleFinanceReviewer Role = "finance_reviewer"
)

// Roles lists every valid role. Order is stable for iteration in tests.
var Roles = []Role{RoleAdmin, RoleManager, RoleMember, RoleFinanceReviewer}

// ParseRole maps a raw string onto the closed role set.
func ParseRole(raw string) (Role, error) {
	switch Role(strings.TrimSpace(strings.ToLower(raw))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleManager:
		return RoleManager, nil
	case RoleMember:
		return RoleMember, nil
	case RoleFinanceReviewer:
		return RoleFinanceReviewer, nil
	default:
		return "", fmt.Errorf("%w: unknown role %q", ErrInvalidInput, raw)
	}
}

// Valid reports whether the role belongs to the closed set.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleMember, RoleFinanceReviewer:
		return true
	}
	return false
}

// Action is an operation class a tool may require.
type Action string

const (
	ActionCreate  Action = "create"
	ActionRead    Action = "read"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionApprove Action = "approve"
)

// Actions lists every valid action.
var Actions = []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionApprove}

// Entity is the closed set of record kinds the policy covers.
type Entity string

const (
	EntityEmployee   Entity = "employee"
	EntityContract   Entity = "contract"
	EntityLetter     Entity = "letter"
	EntityAttendance Entity = "attendance_record"
	EntityPayroll    Entity = "payroll"
	EntityBenefit    Entity = "benefit"
	EntityUser       Entity = "user"
)

// Entities lists every valid entity kind.
var Entities = []Entity{
	EntityEmployee, EntityContract, EntityLetter,
	EntityAttendance, EntityPayroll, EntityBenefit, EntityUser,
}
