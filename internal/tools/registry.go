// Package tools is the single gate between model-proposed actions and
// system state. Every tool invocation is validated, authorized against
// the permission policy, executed, and audited here.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"hrops.org/internal/audit"
	"hrops.org/internal/auth"
	"hrops.org/internal/hr"
	"hrops.org/internal/llm"
	"hrops.org/internal/obs"
	"hrops.org/internal/stream"
)

var (
	ErrUnknownTool = errors.New("tools: unknown tool")
)

// ParamType is the closed set of argument types a tool can declare.
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeInteger ParamType = "integer"
	TypeDate    ParamType = "date"
	TypeObject  ParamType = "object"
)

// Param declares one tool argument.
type Param struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool
	Enum        []string
}

// DocumentStore persists generated documents and returns their path.
type DocumentStore interface {
	Save(ctx context.Context, name string, body []byte) (string, error)
}

// Deps bundles the collaborators handlers execute against.
// Documents may be nil; letters then carry no document path.
type Deps struct {
	Store     hr.Store
	Audit     *audit.Recorder
	Events    *stream.Stream
	Documents DocumentStore
}

// HandlerFunc performs the tool's work. It returns the serializable
// result and, for record-scoped operations, the id of the touched record.
type HandlerFunc func(ctx context.Context, deps *Deps, args Args) (result any, entityID string, err error)

// OwnerFunc resolves the employee id owning the record the call targets.
// A nil OwnerFunc means the tool is not record-scoped (or filters rows
// itself); an empty return means the record has no owner.
type OwnerFunc func(ctx context.Context, deps *Deps, args Args) (string, error)

// Tool is one catalog entry.
type Tool struct {
	Name        string
	Description string
	Entity      auth.Entity
	Action      auth.Action
	Params      []Param
	Handler     HandlerFunc
	Owner       OwnerFunc
}

// Registry holds the catalog and dispatches calls through the
// validate, authorize, execute, audit pipeline.
type Registry struct {
	tools map[string]Tool
	order []string
	deps  *Deps
}

// New builds a registry with the full HR catalog registered.
func New(deps *Deps) *Registry {
	r := &Registry{tools: make(map[string]Tool), deps: deps}
	for _, group := range [][]Tool{
		employeeTools(),
		contractTools(),
		letterTools(),
		attendanceTools(),
		payrollTools(),
		benefitTools(),
		userTools(),
		auditTools(),
	} {
		for _, t := range group {
			r.register(t)
		}
	}
	return r
}

func (r *Registry) register(t Tool) {
	if _, dup := r.tools[t.Name]; dup {
		panic("tools: duplicate registration of " + t.Name)
	}
	r.tools[t.Name] = t
	r.order = append(r.order, t.Name)
}

// Has reports whether a tool name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.tools[name]
	return ok
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Dispatch runs one tool call end to end. Order matters: unknown tool
// first, then argument validation, then policy. A denied call performs
// no persistence and writes no audit entry.
func (r *Registry) Dispatch(ctx context.Context, name, rawArgs string) (json.RawMessage, error) {
	tool, ok := r.tools[name]
	if !ok {
		obs.ObserveTool(name, "unknown")
		return nil, fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}

	args, err := parseArgs(tool.Params, rawArgs)
	if err != nil {
		obs.ObserveTool(name, "invalid")
		return nil, err
	}

	actor, err := auth.RequireActor(ctx)
	if err != nil {
		return nil, err
	}
	if !auth.Allowed(actor.Role, tool.Action, tool.Entity) {
		obs.ObserveTool(name, "denied")
		return nil, fmt.Errorf("%w: %s %s", auth.ErrUnauthorized, tool.Action, tool.Entity)
	}
	if tool.Owner != nil {
		owner, err := tool.Owner(ctx, r.deps, args)
		if err != nil {
			return nil, err
		}
		if !auth.CanAccessRecord(actor.Role, owner, actor.EmployeeID) {
			obs.ObserveTool(name, "denied")
			return nil, fmt.Errorf("%w: %s %s", auth.ErrUnauthorized, tool.Action, tool.Entity)
		}
	}

	result, entityID, err := tool.Handler(ctx, r.deps, args)
	if err != nil {
		obs.ObserveTool(name, "error")
		return nil, err
	}

	obs.ObserveTool(name, "success")
	r.deps.Audit.Record(ctx, audit.Entry{
		Entity:   string(tool.Entity),
		EntityID: entityID,
		Action:   string(tool.Action),
		ActorID:  actor.ID,
		Detail:   map[string]any{"tool": name},
	})
	if r.deps.Events != nil {
		r.deps.Events.Publish(stream.ToolEvent{
			Tool:    name,
			Entity:  string(tool.Entity),
			Action:  string(tool.Action),
			ActorID: actor.ID,
			Status:  "success",
		})
	}

	out, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("tools: serialize result of %q: %w", name, err)
	}
	return out, nil
}

// Definitions exports the catalog as provider tool schemas.
func (r *Registry) Definitions() []llm.ToolDefinition {
	defs := make([]llm.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		defs = append(defs, llm.ToolDefinition{
			Type: "function",
			Function: llm.FunctionDef{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  paramSchema(t.Params),
			},
		})
	}
	return defs
}

func paramSchema(params []Param) json.RawMessage {
	properties := make(map[string]any, len(params))
	var required []string
	for _, p := range params {
		prop := map[string]any{"description": p.Description}
		switch p.Type {
		case TypeInteger:
			prop["type"] = "integer"
		case TypeObject:
			prop["type"] = "object"
		case TypeDate:
			prop["type"] = "string"
			prop["format"] = "date"
		default:
			prop["type"] = "string"
		}
		if len(p.Enum) > 0 {
			prop["enum"] = p.Enum
		}
		properties[p.Name] = prop
		if p.Required {
			required = append(required, p.Name)
		}
	}
	sort.Strings(required)
	schema := map[string]any{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	raw, _ := json.Marshal(schema)
	return raw
}

// Args holds validated tool arguments.
type Args map[string]any

// String returns a string argument, empty when absent.
func (a Args) String(name string) string {
	v, _ := a[name].(string)
	return v
}

// Int64 returns an integer argument, zero when absent.
func (a Args) Int64(name string) int64 {
	v, _ := a[name].(int64)
	return v
}

// Date returns a date argument, zero time when absent.
func (a Args) Date(name string) time.Time {
	v, _ := a[name].(time.Time)
	return v
}

// Object returns an object argument re-serialized to JSON, nil when absent.
func (a Args) Object(name string) []byte {
	v, ok := a[name].(map[string]any)
	if !ok {
		return nil
	}
	raw, _ := json.Marshal(v)
	return raw
}

// Has reports whether the argument was supplied.
func (a Args) Has(name string) bool {
	_, ok := a[name]
	return ok
}

func parseArgs(params []Param, raw string) (Args, error) {
	decoded := map[string]json.RawMessage{}
	if strings.TrimSpace(raw) != "" {
		if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
			return nil, fmt.Errorf("%w: arguments are not a JSON object", hr.ErrInvalidInput)
		}
	}

	known := make(map[string]Param, len(params))
	for _, p := range params {
		known[p.Name] = p
	}
	for name := range decoded {
		if _, ok := known[name]; !ok {
			return nil, fmt.Errorf("%w: unknown argument %q", hr.ErrInvalidInput, name)
		}
	}

	args := Args{}
	for _, p := range params {
		rawVal, ok := decoded[p.Name]
		if !ok {
			if p.Required {
				return nil, fmt.Errorf("%w: missing argument %q", hr.ErrInvalidInput, p.Name)
			}
			continue
		}
		val, err := coerce(p, rawVal)
		if err != nil {
			return nil, err
		}
		args[p.Name] = val
	}
	return args, nil
}

func coerce(p Param, raw json.RawMessage) (any, error) {
	switch p.Type {
	case TypeInteger:
		var v int64
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("%w: argument %q must be an integer", hr.ErrInvalidInput, p.Name)
		}
		return v, nil
	case TypeObject:
		var v map[string]any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("%w: argument %q must be an object", hr.ErrInvalidInput, p.Name)
		}
		return v, nil
	case TypeDate:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("%w: argument %q must be a date string", hr.ErrInvalidInput, p.Name)
		}
		t, err := parseDate(s)
		if err != nil {
			return nil, fmt.Errorf("%w: argument %q: %v", hr.ErrInvalidInput, p.Name, err)
		}
		return t, nil
	default:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("%w: argument %q must be a string", hr.ErrInvalidInput, p.Name)
		}
		if len(p.Enum) > 0 {
			ok := false
			for _, allowed := range p.Enum {
				if s == allowed {
					ok = true
					break
				}
			}
			if !ok {
				return nil, fmt.Errorf("%w: argument %q must be one of %s", hr.ErrInvalidInput, p.Name, strings.Join(p.Enum, ", "))
			}
		}
		return s, nil
	}
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
