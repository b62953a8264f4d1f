package auth

import "testing"

func TestPolicyTableIsTotal(t *testing.T) {
	for _, role := range Roles {
		row, ok := policy[role]
		if !ok {
			t.Fatalf("role %s has no policy row", role)
		}
		for _, entity := range Entities {
			if _, ok := row[entity]; !ok {
				t.Fatalf("role %s has no entry for entity %s", role, entity)
			}
		}
	}
}

func TestAllowedResolvesEveryPair(t *testing.T) {
	// Every declared triple must resolve without panicking; the result is a
	// plain bool either way.
	for _, role := range Roles {
		for _, entity := range Entities {
			for _, action := range Actions {
				_ = Allowed(role, action, entity)
			}
		}
	}
}

func TestAllowedUnknownRoleDenies(t *testing.T) {
	if Allowed(Role("intern"), ActionRead, EntityEmployee) {
		t.Fatal("unknown role must be denied")
	}
	if Allowed(RoleAdmin, ActionRead, Entity("paycheck")) {
		t.Fatal("unknown entity must be denied")
	}
}

func TestAdminHasFullEmployeeAccess(t *testing.T) {
	for _, action := range []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete} {
		if !Allowed(RoleAdmin, action, EntityEmployee) {
			t.Fatalf("admin should be allowed to %s employee", action)
		}
	}
}

func TestMemberCannotMutateEmployees(t *testing.T) {
	for _, action := range []Action{ActionCreate, ActionUpdate, ActionDelete, ActionApprove} {
		if Allowed(RoleMember, action, EntityEmployee) {
			t.Fatalf("member must not be allowed to %s employee", action)
		}
	}
	if !Allowed(RoleMember, ActionRead, EntityEmployee) {
		t.Fatal("member should read employee records (ownership checked separately)")
	}
}

func TestOnlyPrivilegedRolesApprovePayroll(t *testing.T) {
	if !Allowed(RoleAdmin, ActionApprove, EntityPayroll) {
		t.Fatal("admin should approve payroll")
	}
	if !Allowed(RoleFinanceReviewer, ActionApprove, EntityPayroll) {
		t.Fatal("finance reviewer should approve payroll")
	}
	if Allowed(RoleManager, ActionApprove, EntityPayroll) {
		t.Fatal("manager must not approve payroll")
	}
	if Allowed(RoleMember, ActionApprove, EntityPayroll) {
		t.Fatal("member must not approve payroll")
	}
}

func TestCanAccessRecordOwnership(t *testing.T) {
	// Privileged roles see everything regardless of owner.
	for _, role := range []Role{RoleAdmin, RoleManager, RoleFinanceReviewer} {
		if !CanAccessRecord(role, "emp-2", "emp-1") {
			t.Fatalf("role %s should access records it does not own", role)
		}
	}

	if !CanAccessRecord(RoleMember, "emp-1", "emp-1") {
		t.Fatal("member should access own record")
	}
	if CanAccessRecord(RoleMember, "emp-2", "emp-1") {
		t.Fatal("member must not access another employee's record")
	}
	if CanAccessRecord(RoleMember, "", "") {
		t.Fatal("empty owner must never match")
	}
	if CanAccessRecord(Role("intern"), "emp-1", "emp-1") {
		t.Fatal("unknown role must be denied record access")
	}
}
