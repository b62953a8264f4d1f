package hr

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"hrops.org/internal/ids"
)

var _ Store = (*PGStore)(nil)

// PGStore implements Store using PostgreSQL.
type PGStore struct {
	db *sql.DB
}

// NewPGStore wraps an open database handle.
func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

// Open connects to PostgreSQL with tuned pool defaults.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	// Tuned pool defaults; adjust under load tests
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return db, nil
}

func (s *PGStore) Employees(context.Context) EmployeeStore { return &pgEmployees{db: s.db} }

func (s *PGStore) Contracts(context.Context) ContractStore { return &pgContracts{db: s.db} }

func (s *PGStore) Letters(context.Context) LetterStore { return &pgLetters{db: s.db} }

func (s *PGStore) Attendance(context.Context) AttendanceStore { return &pgAttendance{db: s.db} }

func (s *PGStore) Payrolls(context.Context) PayrollStore { return &pgPayrolls{db: s.db} }

func (s *PGStore) Benefits(context.Context) BenefitStore { return &pgBenefits{db: s.db} }

func (s *PGStore) Users(context.Context) UserStore { return &pgUsers{db: s.db} }

// Employee store -----------------------------------------------------------

type pgEmployees struct{ db *sql.DB }

const employeeColumns = `id, user_id, first_name, last_name, email, position, department, hire_date, base_salary, status, created_at, updated_at`

func scanEmployee(row interface{ Scan(...any) error }) (*Employee, error) {
	var (
		e      Employee
		userID sql.NullString
	)
	err := row.Scan(&e.ID, &userID, &e.FirstName, &e.LastName, &e.Email, &e.Position,
		&e.Department, &e.HireDate, &e.BaseSalary, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if userID.Valid {
		e.UserID = userID.String
	}
	return &e, nil
}

func (s *pgEmployees) Create(ctx context.Context, e *Employee) error {
	if e.ID == "" {
		e.ID = ids.New()
	}
	var userID any
	if e.UserID != "" {
		userID = e.UserID
	}
	_, err := s.db.ExecContext(ctx,
		`insert into employees(id, user_id, first_name, last_name, email, position, department, hire_date, base_salary, status)
		 values($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		e.ID, userID, e.FirstName, e.LastName, e.Email, e.Position, e.Department,
		e.HireDate, e.BaseSalary, string(e.Status),
	)
	return err
}

func (s *pgEmployees) Find(ctx context.Context, id string) (*Employee, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+employeeColumns+` from employees where id=$1`, id)
	return scanEmployee(row)
}

func (s *pgEmployees) List(ctx context.Context) ([]*Employee, error) {
	rows, err := s.db.QueryContext(ctx,
		`select `+employeeColumns+` from employees order by created_at asc`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}

func (s *pgEmployees) Update(ctx context.Context, id string, upd EmployeeUpdate) (*Employee, error) {
	_, err := s.db.ExecContext(ctx,
		`update employees set
			first_name  = coalesce($2, first_name),
			last_name   = coalesce($3, last_name),
			email       = coalesce($4, email),
			position    = coalesce($5, position),
			department  = coalesce($6, department),
			base_salary = coalesce($7, base_salary),
			status      = coalesce($8, status),
			updated_at  = now()
		 where id=$1`,
		id, upd.FirstName, upd.LastName, upd.Email, upd.Position, upd.Department,
		upd.BaseSalary, (*string)(upd.Status),
	)
	if err != nil {
		return nil, err
	}
	return s.Find(ctx, id)
}

func (s *pgEmployees) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from employees where id=$1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Contract store -----------------------------------------------------------

type pgContracts struct{ db *sql.DB }

const contractColumns = `id, employee_id, type, start_date, end_date, salary, status, created_at, updated_at`

func scanContract(row interface{ Scan(...any) error }) (*Contract, error) {
	var (
		c   Contract
		end sql.NullTime
	)
	err := row.Scan(&c.ID, &c.EmployeeID, &c.Type, &c.StartDate, &end, &c.Salary,
		&c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if end.Valid {
		t := end.Time
		c.EndDate = &t
	}
	return &c, nil
}

func (s *pgContracts) Create(ctx context.Context, c *Contract) error {
	if c.ID == "" {
		c.ID = ids.New()
	}
	var end any
	if c.EndDate != nil {
		end = *c.EndDate
	}
	_, err := s.db.ExecContext(ctx,
		`insert into contracts(id, employee_id, type, start_date, end_date, salary, status)
		 values($1,$2,$3,$4,$5,$6,$7)`,
		c.ID, c.EmployeeID, string(c.Type), c.StartDate, end, c.Salary, string(c.Status),
	)
	return err
}

func (s *pgContracts) Find(ctx context.Context, id string) (*Contract, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+contractColumns+` from contracts where id=$1`, id)
	return scanContract(row)
}

func (s *pgContracts) ListByEmployee(ctx context.Context, employeeID string) ([]*Contract, error) {
	rows, err := s.db.QueryContext(ctx,
		`select `+contractColumns+` from contracts where employee_id=$1 order by created_at asc`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

func (s *pgContracts) UpdateStatus(ctx context.Context, id string, status ContractStatus) (*Contract, error) {
	_, err := s.db.ExecContext(ctx,
		`update contracts set status=$2, updated_at=now() where id=$1`, id, string(status))
	if err != nil {
		return nil, err
	}
	return s.Find(ctx, id)
}

// Letter store -------------------------------------------------------------

type pgLetters struct{ db *sql.DB }

func (s *pgLetters) Create(ctx context.Context, l *Letter) error {
	if l.ID == "" {
		l.ID = ids.New()
	}
	if l.IssuedAt.IsZero() {
		l.IssuedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`insert into letters(id, employee_id, kind, body, document_path, issued_at)
		 values($1,$2,$3,$4,$5,$6)`,
		l.ID, l.EmployeeID, string(l.Kind), l.Body, l.DocumentPath, l.IssuedAt,
	)
	return err
}

func (s *pgLetters) Find(ctx context.Context, id string) (*Letter, error) {
	row := s.db.QueryRowContext(ctx,
		`select id, employee_id, kind, body, document_path, issued_at from letters where id=$1`, id)
	var l Letter
	if err := row.Scan(&l.ID, &l.EmployeeID, &l.Kind, &l.Body, &l.DocumentPath, &l.IssuedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

func (s *pgLetters) ListByEmployee(ctx context.Context, employeeID string) ([]*Letter, error) {
	rows, err := s.db.QueryContext(ctx,
		`select id, employee_id, kind, body, document_path, issued_at from letters
		 where employee_id=$1 order by issued_at asc`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*Letter
	for rows.Next() {
		var l Letter
		if err := rows.Scan(&l.ID, &l.EmployeeID, &l.Kind, &l.Body, &l.DocumentPath, &l.IssuedAt); err != nil {
			return nil, err
		}
		res = append(res, &l)
	}
	return res, rows.Err()
}

// Attendance store ---------------------------------------------------------

type pgAttendance struct{ db *sql.DB }

func (s *pgAttendance) Create(ctx context.Context, rec *AttendanceRecord) error {
	if rec.ID == "" {
		rec.ID = ids.New()
	}
	var in, out any
	if rec.ClockIn != nil {
		in = *rec.ClockIn
	}
	if rec.ClockOut != nil {
		out = *rec.ClockOut
	}
	_, err := s.db.ExecContext(ctx,
		`insert into attendance_records(id, employee_id, date, clock_in, clock_out, overtime_minutes, status)
		 values($1,$2,$3,$4,$5,$6,$7)`,
		rec.ID, rec.EmployeeID, rec.Date, in, out, rec.OvertimeMinutes, string(rec.Status),
	)
	return err
}

func (s *pgAttendance) ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]*AttendanceRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`select id, employee_id, date, clock_in, clock_out, overtime_minutes, status, created_at
		 from attendance_records
		 where employee_id=$1
		   and ($2::timestamptz is null or date >= $2)
		   and ($3::timestamptz is null or date <= $3)
		 order by date asc`,
		employeeID, nullTime(from), nullTime(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*AttendanceRecord
	for rows.Next() {
		var (
			rec     AttendanceRecord
			in, out sql.NullTime
		)
		if err := rows.Scan(&rec.ID, &rec.EmployeeID, &rec.Date, &in, &out,
			&rec.OvertimeMinutes, &rec.Status, &rec.CreatedAt); err != nil {
			return nil, err
		}
		if in.Valid {
			t := in.Time
			rec.ClockIn = &t
		}
		if out.Valid {
			t := out.Time
			rec.ClockOut = &t
		}
		res = append(res, &rec)
	}
	return res, rows.Err()
}

// Payroll store ------------------------------------------------------------

type pgPayrolls struct{ db *sql.DB }

const payrollColumns = `id, employee_id, period_start, period_end, base_salary, overtime_pay, deductions, net_salary, status, created_at, updated_at`

func scanPayroll(row interface{ Scan(...any) error }) (*Payroll, error) {
	var (
		p          Payroll
		deductions []byte
	)
	err := row.Scan(&p.ID, &p.EmployeeID, &p.PeriodStart, &p.PeriodEnd, &p.BaseSalary,
		&p.OvertimePay, &deductions, &p.NetSalary, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	p.Deductions = ParseDeductions(deductions)
	return &p, nil
}

func (s *pgPayrolls) Create(ctx context.Context, p *Payroll) error {
	if p.ID == "" {
		p.ID = ids.New()
	}
	deductions, _ := json.Marshal(p.Deductions)
	_, err := s.db.ExecContext(ctx,
		`insert into payrolls(id, employee_id, period_start, period_end, base_salary, overtime_pay, deductions, net_salary, status)
		 values($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		p.ID, p.EmployeeID, p.PeriodStart, p.PeriodEnd, p.BaseSalary, p.OvertimePay,
		deductions, p.NetSalary, string(p.Status),
	)
	return err
}

func (s *pgPayrolls) Find(ctx context.Context, id string) (*Payroll, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+payrollColumns+` from payrolls where id=$1`, id)
	return scanPayroll(row)
}

func (s *pgPayrolls) ListByEmployee(ctx context.Context, employeeID string) ([]*Payroll, error) {
	rows, err := s.db.QueryContext(ctx,
		`select `+payrollColumns+` from payrolls where employee_id=$1 order by period_start asc`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*Payroll
	for rows.Next() {
		p, err := scanPayroll(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

func (s *pgPayrolls) UpdateStatus(ctx context.Context, id string, status PayrollStatus) (*Payroll, error) {
	_, err := s.db.ExecContext(ctx,
		`update payrolls set status=$2, updated_at=now() where id=$1`, id, string(status))
	if err != nil {
		return nil, err
	}
	return s.Find(ctx, id)
}

// Benefit store ------------------------------------------------------------

type pgBenefits struct{ db *sql.DB }

func (s *pgBenefits) Create(ctx context.Context, b *Benefit) error {
	if b.ID == "" {
		b.ID = ids.New()
	}
	_, err := s.db.ExecContext(ctx,
		`insert into benefits(id, employee_id, category, amount, effective_from, note)
		 values($1,$2,$3,$4,$5,$6)`,
		b.ID, b.EmployeeID, string(b.Category), b.Amount, b.EffectiveFrom, b.Note,
	)
	return err
}

func (s *pgBenefits) Find(ctx context.Context, id string) (*Benefit, error) {
	row := s.db.QueryRowContext(ctx,
		`select id, employee_id, category, amount, effective_from, note, created_at from benefits where id=$1`, id)
	var b Benefit
	if err := row.Scan(&b.ID, &b.EmployeeID, &b.Category, &b.Amount, &b.EffectiveFrom, &b.Note, &b.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (s *pgBenefits) ListByEmployee(ctx context.Context, employeeID string) ([]*Benefit, error) {
	rows, err := s.db.QueryContext(ctx,
		`select id, employee_id, category, amount, effective_from, note, created_at from benefits
		 where employee_id=$1 order by effective_from asc`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*Benefit
	for rows.Next() {
		var b Benefit
		if err := rows.Scan(&b.ID, &b.EmployeeID, &b.Category, &b.Amount, &b.EffectiveFrom, &b.Note, &b.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, &b)
	}
	return res, rows.Err()
}

func (s *pgBenefits) Update(ctx context.Context, id string, upd BenefitUpdate) (*Benefit, error) {
	_, err := s.db.ExecContext(ctx,
		`update benefits set
			amount = coalesce($2, amount),
			note   = coalesce($3, note)
		 where id=$1`,
		id, upd.Amount, upd.Note)
	if err != nil {
		return nil, err
	}
	return s.Find(ctx, id)
}

// User store ---------------------------------------------------------------

type pgUsers struct{ db *sql.DB }

const userColumns = `id, email, password_hash, role, employee_id, status, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*User, error) {
	var (
		u          User
		employeeID sql.NullString
	)
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &employeeID,
		&u.Status, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if employeeID.Valid {
		u.EmployeeID = employeeID.String
	}
	return &u, nil
}

func (s *pgUsers) Create(ctx context.Context, u *User) error {
	if u.ID == "" {
		u.ID = ids.New()
	}
	var employeeID any
	if u.EmployeeID != "" {
		employeeID = u.EmployeeID
	}
	_, err := s.db.ExecContext(ctx,
		`insert into users(id, email, password_hash, role, employee_id, status)
		 values($1,$2,$3,$4,$5,$6)`,
		u.ID, u.Email, u.PasswordHash, string(u.Role), employeeID, u.Status,
	)
	return err
}

func (s *pgUsers) Find(ctx context.Context, id string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+userColumns+` from users where id=$1`, id)
	return scanUser(row)
}

func (s *pgUsers) FindByEmail(ctx context.Context, email string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+userColumns+` from users where email=$1`, email)
	return scanUser(row)
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
