package auth

type actionSet map[Action]struct{}

func actions(list ...Action) actionSet {
	set := make(actionSet, len(list))
	for _, a := range list {
		set[a] = struct{}{}
	}
	return set
}

// policy is the static role -> entity -> allowed-actions table. It is total:
// every role has a row for every entity, and an empty set means full denial.
// The table never changes at runtime.
var policy = map[Role]map[Entity]actionSet{
	RoleAdmin: {
		EntityEmployee:   actions(ActionCreate, ActionRead, ActionUpdate, ActionDelete),
		EntityContract:   actions(ActionCreate, ActionRead, ActionUpdate, ActionDelete),
		EntityLetter:     actions(ActionCreate, ActionRead, ActionUpdate, ActionDelete),
		EntityAttendance: actions(ActionCreate, ActionRead, ActionUpdate, ActionDelete),
		EntityPayroll:    actions(ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionApprove),
		EntityBenefit:    actions(ActionCreate, ActionRead, ActionUpdate, ActionDelete),
		EntityUser:       actions(ActionCreate, ActionRead, ActionUpdate, ActionDelete),
	},
	RoleManager: {
		EntityEmployee:   actions(ActionCreate, ActionRead, ActionUpdate),
		EntityContract:   actions(ActionCreate, ActionRead, ActionUpdate),
		EntityLetter:     actions(ActionCreate, ActionRead),
		EntityAttendance: actions(ActionCreate, ActionRead, ActionUpdate),
		EntityPayroll:    actions(ActionCreate, ActionRead, ActionUpdate),
		EntityBenefit:    actions(ActionCreate, ActionRead, ActionUpdate),
		EntityUser:       actions(),
	},
	RoleMember: {
		EntityEmployee:   actions(ActionRead),
		EntityContract:   actions(ActionRead),
		EntityLetter:     actions(ActionRead),
		EntityAttendance: actions(ActionCreate, ActionRead),
		EntityPayroll:    actions(ActionRead),
		EntityBenefit:    actions(ActionRead),
		EntityUser:       actions(),
	},
	RoleFinanceReviewer: {
		EntityEmployee:   actions(ActionRead),
		EntityContract:   actions(ActionRead),
		EntityLetter:     actions(),
		EntityAttendance: actions(ActionRead),
		EntityPayroll:    actions(ActionRead, ActionUpdate, ActionApprove),
		EntityBenefit:    actions(ActionRead),
		EntityUser:       actions(),
	},
}

// Allowed reports whether the role may perform the action on the entity kind.
// Unknown roles or entities resolve to false, never to allow.
func Allowed(role Role, action Action, entity Entity) bool {
	row, ok := policy[role]
	if !ok {
		return false
	}
	set, ok := row[entity]
	if !ok {
		return false
	}
	_, ok = set[action]
	return ok
}

// CanAccessRecord is the record-level ownership predicate applied after the
// action check. Admin, manager and finance reviewer see all records; a member
// only sees records owned by their own employee id.
func CanAccessRecord(role Role, recordOwnerID, actorEmployeeID string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleFinanceReviewer:
		return true
	case RoleMember:
		return recordOwnerID != "" && recordOwnerID == actorEmployeeID
	default:
		return false
	}
}
