package hr

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGEmployeeFind(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(`select .+ from employees where id=\$1`).
		WithArgs("emp-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "first_name", "last_name", "email", "position",
			"department", "hire_date", "base_salary", "status", "created_at", "updated_at",
		}).AddRow("emp-1", nil, "Aizhan", "Serik", "aizhan@example.com", "Engineer",
			"Platform", now, int64(160000), "active", now, now))

	store := NewPGStore(db)
	emp, err := store.Employees(context.Background()).Find(context.Background(), "emp-1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if emp.BaseSalary != 160000 || emp.Status != EmployeeActive || emp.UserID != "" {
		t.Fatalf("unexpected employee: %+v", emp)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPGEmployeeFindMissing(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`select .+ from employees where id=\$1`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "first_name", "last_name", "email", "position",
			"department", "hire_date", "base_salary", "status", "created_at", "updated_at",
		}))

	store := NewPGStore(db)
	_, err = store.Employees(context.Background()).Find(context.Background(), "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestPGPayrollUpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectExec(`update payrolls set status=\$2`).
		WithArgs("pay-1", "calculated").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`select .+ from payrolls where id=\$1`).
		WithArgs("pay-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "employee_id", "period_start", "period_end", "base_salary",
			"overtime_pay", "deductions", "net_salary", "status", "created_at", "updated_at",
		}).AddRow("pay-1", "emp-1", now, now, int64(160000), int64(15000),
			[]byte(`{"tax":20000}`), int64(155000), "calculated", now, now))

	store := NewPGStore(db)
	p, err := store.Payrolls(context.Background()).UpdateStatus(context.Background(), "pay-1", PayrollCalculated)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if p.Status != PayrollCalculated || p.Deductions["tax"] != 20000 {
		t.Fatalf("unexpected payroll: %+v", p)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
