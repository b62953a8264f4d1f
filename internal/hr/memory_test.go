package hr

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryEmployeeLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	employees := store.Employees(ctx)

	emp := &Employee{
		FirstName:  "Aizhan",
		LastName:   "Serik",
		Email:      "aizhan@example.com",
		Position:   "Engineer",
		Department: "Platform",
		HireDate:   day(2),
		BaseSalary: 160000,
		Status:     EmployeeActive,
	}
	if err := employees.Create(ctx, emp); err != nil {
		t.Fatalf("create: %v", err)
	}
	if emp.ID == "" {
		t.Fatal("create must assign an id")
	}

	found, err := employees.Find(ctx, emp.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	// Returned records are copies; mutating them must not leak into the store.
	found.BaseSalary = 1
	again, _ := employees.Find(ctx, emp.ID)
	if again.BaseSalary != 160000 {
		t.Fatalf("store record mutated through returned copy: %d", again.BaseSalary)
	}

	salary := int64(180000)
	updated, err := employees.Update(ctx, emp.ID, EmployeeUpdate{BaseSalary: &salary})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.BaseSalary != 180000 || updated.FirstName != "Aizhan" {
		t.Fatalf("partial update wrong: %+v", updated)
	}

	if err := employees.Delete(ctx, emp.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := employees.Find(ctx, emp.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound after delete, got %v", err)
	}
	if err := employees.Delete(ctx, emp.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("double delete: want ErrNotFound, got %v", err)
	}
}

func TestMemoryAttendanceRangeFilter(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	attendance := store.Attendance(ctx)

	for _, d := range []int{3, 10, 28} {
		err := attendance.Create(ctx, &AttendanceRecord{
			EmployeeID:      "emp-1",
			Date:            day(d),
			OvertimeMinutes: 60,
			Status:          AttendancePresent,
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	got, err := attendance.ListByEmployee(ctx, "emp-1", day(5), day(20))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || !got[0].Date.Equal(day(10)) {
		t.Fatalf("range filter wrong: %+v", got)
	}

	// Zero bounds mean unbounded.
	all, err := attendance.ListByEmployee(ctx, "emp-1", time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("want 3 records, got %d", len(all))
	}
}

func TestMemoryUserEmailIndex(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	users := store.Users(ctx)

	u := &User{Email: "admin@example.com", Role: "admin", Status: UserStatusActive}
	if err := users.Create(ctx, u); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := users.FindByEmail(ctx, "admin@example.com")
	if err != nil {
		t.Fatalf("find by email: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("email index returned wrong user: %s", got.ID)
	}
	if _, err := users.FindByEmail(ctx, "nobody@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestMemoryPayrollDeductionsCopied(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	payrolls := store.Payrolls(ctx)

	p := &Payroll{
		EmployeeID:  "emp-1",
		PeriodStart: day(1),
		PeriodEnd:   day(31),
		BaseSalary:  160000,
		Deductions:  map[string]int64{"tax": 20000},
		NetSalary:   140000,
		Status:      PayrollPending,
	}
	if err := payrolls.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}

	found, _ := payrolls.Find(ctx, p.ID)
	found.Deductions["tax"] = 1
	again, _ := payrolls.Find(ctx, p.ID)
	if again.Deductions["tax"] != 20000 {
		t.Fatalf("deductions map aliased: %v", again.Deductions)
	}
}
