package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"hrops.org/internal/auth"
	"hrops.org/internal/hr"
	"hrops.org/internal/ids"
)

// DirDocumentStore writes documents under a base directory.
type DirDocumentStore struct {
	Dir string
}

func (s DirDocumentStore) Save(_ context.Context, name string, body []byte) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(s.Dir, name)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func ownLetter(ctx context.Context, deps *Deps, args Args) (string, error) {
	l, err := deps.Store.Letters(ctx).Find(ctx, args.String("id"))
	if err != nil {
		return "", err
	}
	return l.EmployeeID, nil
}

func renderLetterBody(kind hr.LetterKind, emp *hr.Employee, issued time.Time) string {
	name := emp.FirstName + " " + emp.LastName
	date := issued.Format("January 2, 2006")
	switch kind {
	case hr.LetterEmployment:
		return fmt.Sprintf("To whom it may concern,\n\nThis letter confirms that %s is employed as %s in the %s department since %s.\n\nIssued on %s.",
			name, emp.Position, emp.Department, emp.HireDate.Format("January 2, 2006"), date)
	case hr.LetterSalary:
		return fmt.Sprintf("To whom it may concern,\n\nThis letter confirms that %s, %s, receives a base salary of %d (minor units) per period.\n\nIssued on %s.",
			name, emp.Position, emp.BaseSalary, date)
	case hr.LetterPromotion:
		return fmt.Sprintf("Dear %s,\n\nWe are pleased to confirm your promotion to %s in the %s department.\n\nIssued on %s.",
			name, emp.Position, emp.Department, date)
	case hr.LetterTermination:
		return fmt.Sprintf("Dear %s,\n\nThis letter confirms the termination of your employment as %s.\n\nIssued on %s.",
			name, emp.Position, date)
	default:
		return ""
	}
}

func letterTools() []Tool {
	return []Tool{
		{
			Name:        "generate_letter",
			Description: "Generate an HR letter for an employee and store the document.",
			Entity:      auth.EntityLetter,
			Action:      auth.ActionCreate,
			Params: []Param{
				{Name: "employee_id", Type: TypeString, Required: true, Description: "Employee id."},
				{Name: "kind", Type: TypeString, Required: true, Enum: []string{"employment", "salary", "promotion", "termination"}, Description: "Letter template."},
			},
			Handler: func(ctx context.Context, deps *Deps, args Args) (any, string, error) {
				kind, err := hr.ParseLetterKind(args.String("kind"))
				if err != nil {
					return nil, "", err
				}
				emp, err := deps.Store.Employees(ctx).Find(ctx, args.String("employee_id"))
				if err != nil {
					return nil, "", err
				}
				issued := time.Now().UTC()
				l := &hr.Letter{
					ID:         ids.New(),
					EmployeeID: emp.ID,
					Kind:       kind,
					Body:       renderLetterBody(kind, emp, issued),
					IssuedAt:   issued,
				}
				if deps.Documents != nil {
					// Blob write failure is tolerated; the letter row is the record.
					if path, err := deps.Documents.Save(ctx, l.ID+".txt", []byte(l.Body)); err == nil {
						l.DocumentPath = path
					}
				}
				if err := deps.Store.Letters(ctx).Create(ctx, l); err != nil {
					return nil, "", err
				}
				return l, l.ID, nil
			},
		},
		{
			Name:        "get_letter",
			Description: "Fetch one letter by id.",
			Entity:      auth.EntityLetter,
			Action:      auth.ActionRead,
			Params: []Param{
				{Name: "id", Type: TypeString, Required: true, Description: "Letter id."},
			},
			Owner: ownLetter,
			Handler: func(ctx context.Context, deps *Deps, args Args) (any, string, error) {
				l, err := deps.Store.Letters(ctx).Find(ctx, args.String("id"))
				if err != nil {
					return nil, "", err
				}
				return l, l.ID, nil
			},
		},
		{
			Name:        "list_letters",
			Description: "List letters issued for one employee.",
			Entity:      auth.EntityLetter,
			Action:      auth.ActionRead,
			Params: []Param{
				{Name: "employee_id", Type: TypeString, Required: true, Description: "Employee id."},
			},
			Owner: ownByEmployeeArg,
			Handler: func(ctx context.Context, deps *Deps, args Args) (any, string, error) {
				list, err := deps.Store.Letters(ctx).ListByEmployee(ctx, args.String("employee_id"))
				if err != nil {
					return nil, "", err
				}
				return list, "", nil
			},
		},
	}
}
