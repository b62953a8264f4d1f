package hr

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"hrops.org/internal/ids"
)

// MemoryStore implements Store with in-process concurrency safety. Used for
// tests and DSN-less development runs; production uses the Postgres store.
type MemoryStore struct {
	mu          sync.RWMutex
	employees   map[string]*Employee
	contracts   map[string]*Contract
	letters     map[string]*Letter
	attendance  map[string]*AttendanceRecord
	payrolls    map[string]*Payroll
	benefits    map[string]*Benefit
	users       map[string]*User
	userByEmail map[string]string
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		employees:   make(map[string]*Employee),
		contracts:   make(map[string]*Contract),
		letters:     make(map[string]*Letter),
		attendance:  make(map[string]*AttendanceRecord),
		payrolls:    make(map[string]*Payroll),
		benefits:    make(map[string]*Benefit),
		users:       make(map[string]*User),
		userByEmail: make(map[string]string),
	}
}

func (s *MemoryStore) Employees(context.Context) EmployeeStore { return (*memEmployees)(s) }

func (s *MemoryStore) Contracts(context.Context) ContractStore { return (*memContracts)(s) }

func (s *MemoryStore) Letters(context.Context) LetterStore { return (*memLetters)(s) }

func (s *MemoryStore) Attendance(context.Context) AttendanceStore { return (*memAttendance)(s) }

func (s *MemoryStore) Payrolls(context.Context) PayrollStore { return (*memPayrolls)(s) }

func (s *MemoryStore) Benefits(context.Context) BenefitStore { return (*memBenefits)(s) }

func (s *MemoryStore) Users(context.Context) UserStore { return (*memUsers)(s) }

// Employee store -----------------------------------------------------------

type memEmployees MemoryStore

func (s *memEmployees) Create(ctx context.Context, e *Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == "" {
		e.ID = ids.New()
	}
	now := time.Now().UTC()
	e.CreatedAt, e.UpdatedAt = now, now
	cp := *e
	s.employees[e.ID] = &cp
	return nil
}

func (s *memEmployees) Find(ctx context.Context, id string) (*Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.employees[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (s *memEmployees) List(ctx context.Context) ([]*Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Employee, 0, len(s.employees))
	for _, e := range s.employees {
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memEmployees) Update(ctx context.Context, id string, upd EmployeeUpdate) (*Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.employees[id]
	if !ok {
		return nil, ErrNotFound
	}
	if upd.FirstName != nil {
		e.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		e.LastName = *upd.LastName
	}
	if upd.Email != nil {
		e.Email = *upd.Email
	}
	if upd.Position != nil {
		e.Position = *upd.Position
	}
	if upd.Department != nil {
		e.Department = *upd.Department
	}
	if upd.BaseSalary != nil {
		e.BaseSalary = *upd.BaseSalary
	}
	if upd.Status != nil {
		e.Status = *upd.Status
	}
	e.UpdatedAt = time.Now().UTC()
	cp := *e
	return &cp, nil
}

func (s *memEmployees) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.employees[id]; !ok {
		return ErrNotFound
	}
	delete(s.employees, id)
	return nil
}

// Contract store -----------------------------------------------------------

type memContracts MemoryStore

func (s *memContracts) Create(ctx context.Context, c *Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = ids.New()
	}
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	cp := *c
	s.contracts[c.ID] = &cp
	return nil
}

func (s *memContracts) Find(ctx context.Context, id string) (*Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.contracts[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *memContracts) ListByEmployee(ctx context.Context, employeeID string) ([]*Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Contract
	for _, c := range s.contracts {
		if c.EmployeeID == employeeID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memContracts) UpdateStatus(ctx context.Context, id string, status ContractStatus) (*Contract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.contracts[id]
	if !ok {
		return nil, ErrNotFound
	}
	c.Status = status
	c.UpdatedAt = time.Now().UTC()
	cp := *c
	return &cp, nil
}

// Letter store -------------------------------------------------------------

type memLetters MemoryStore

func (s *memLetters) Create(ctx context.Context, l *Letter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l.ID == "" {
		l.ID = ids.New()
	}
	if l.IssuedAt.IsZero() {
		l.IssuedAt = time.Now().UTC()
	}
	cp := *l
	s.letters[l.ID] = &cp
	return nil
}

func (s *memLetters) Find(ctx context.Context, id string) (*Letter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.letters[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (s *memLetters) ListByEmployee(ctx context.Context, employeeID string) ([]*Letter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Letter
	for _, l := range s.letters {
		if l.EmployeeID == employeeID {
			cp := *l
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Attendance store ---------------------------------------------------------

type memAttendance MemoryStore

func (s *memAttendance) Create(ctx context.Context, rec *AttendanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.ID == "" {
		rec.ID = ids.New()
	}
	rec.CreatedAt = time.Now().UTC()
	cp := *rec
	s.attendance[rec.ID] = &cp
	return nil
}

func (s *memAttendance) ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]*AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*AttendanceRecord
	for _, rec := range s.attendance {
		if rec.EmployeeID != employeeID {
			continue
		}
		if !from.IsZero() && rec.Date.Before(from) {
			continue
		}
		if !to.IsZero() && rec.Date.After(to) {
			continue
		}
		cp := *rec
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// Payroll store ------------------------------------------------------------

type memPayrolls MemoryStore

func (s *memPayrolls) Create(ctx context.Context, p *Payroll) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = ids.New()
	}
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	cp := *p
	cp.Deductions = copyDeductions(p.Deductions)
	s.payrolls[p.ID] = &cp
	return nil
}

func (s *memPayrolls) Find(ctx context.Context, id string) (*Payroll, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.payrolls[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	cp.Deductions = copyDeductions(p.Deductions)
	return &cp, nil
}

func (s *memPayrolls) ListByEmployee(ctx context.Context, employeeID string) ([]*Payroll, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Payroll
	for _, p := range s.payrolls {
		if p.EmployeeID == employeeID {
			cp := *p
			cp.Deductions = copyDeductions(p.Deductions)
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memPayrolls) UpdateStatus(ctx context.Context, id string, status PayrollStatus) (*Payroll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payrolls[id]
	if !ok {
		return nil, ErrNotFound
	}
	p.Status = status
	p.UpdatedAt = time.Now().UTC()
	cp := *p
	cp.Deductions = copyDeductions(p.Deductions)
	return &cp, nil
}

// Benefit store ------------------------------------------------------------

type memBenefits MemoryStore

func (s *memBenefits) Create(ctx context.Context, b *Benefit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == "" {
		b.ID = ids.New()
	}
	b.CreatedAt = time.Now().UTC()
	cp := *b
	s.benefits[b.ID] = &cp
	return nil
}

func (s *memBenefits) Find(ctx context.Context, id string) (*Benefit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.benefits[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *memBenefits) ListByEmployee(ctx context.Context, employeeID string) ([]*Benefit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Benefit
	for _, b := range s.benefits {
		if b.EmployeeID == employeeID {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memBenefits) Update(ctx context.Context, id string, upd BenefitUpdate) (*Benefit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.benefits[id]
	if !ok {
		return nil, ErrNotFound
	}
	if upd.Amount != nil {
		b.Amount = *upd.Amount
	}
	if upd.Note != nil {
		b.Note = *upd.Note
	}
	cp := *b
	return &cp, nil
}

// User store ---------------------------------------------------------------

type memUsers MemoryStore

func (s *memUsers) Create(ctx context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == "" {
		u.ID = ids.New()
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	cp := *u
	s.users[u.ID] = &cp
	s.userByEmail[strings.ToLower(u.Email)] = u.ID
	return nil
}

func (s *memUsers) Find(ctx context.Context, id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *memUsers) FindByEmail(ctx context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.userByEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, ErrNotFound
	}
	u := s.users[id]
	cp := *u
	return &cp, nil
}

func copyDeductions(src map[string]int64) map[string]int64 {
	if src == nil {
		return nil
	}
	out := make(map[string]int64, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
