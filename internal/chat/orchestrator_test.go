package chat

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"hrops.org/internal/audit"
	"hrops.org/internal/auth"
	"hrops.org/internal/hr"
	"hrops.org/internal/llm"
	"hrops.org/internal/tools"
)

// scriptedGenerator replays canned responses in order.
type scriptedGenerator struct {
	responses []*llm.Response
	calls     int
}

func (g *scriptedGenerator) Generate(_ context.Context, _ []llm.ChatMessage, _ []llm.ToolDefinition) (*llm.Response, error) {
	if g.calls >= len(g.responses) {
		return nil, errors.New("script exhausted")
	}
	resp := g.responses[g.calls]
	g.calls++
	return resp, nil
}

type collectingSink struct {
	segments []Segment
}

func (s *collectingSink) Send(seg Segment) { s.segments = append(s.segments, seg) }

func adminCtx() context.Context {
	return auth.ContextWithActor(context.Background(),
		auth.Actor{ID: "usr-admin", Role: auth.RoleAdmin})
}

func newTestOrchestrator(gen llm.Generator) (*Orchestrator, *MemoryStore, *hr.MemoryStore) {
	hrStore := hr.NewMemoryStore()
	reg := tools.New(&tools.Deps{Store: hrStore, Audit: audit.NewRecorder(audit.NewMemoryStore())})
	convStore := NewMemoryStore()
	return NewOrchestrator(convStore, gen, reg, ""), convStore, hrStore
}

func toolCallResponse(id, name, args string) *llm.Response {
	return &llm.Response{
		ToolCalls: []llm.ToolCall{{
			ID:       id,
			Type:     "function",
			Function: llm.FunctionCall{Name: name, Arguments: args},
		}},
		FinishReason: "tool_calls",
	}
}

func textResponse(text string) *llm.Response {
	return &llm.Response{Content: text, FinishReason: "stop"}
}

func TestTurnWithToolExecution(t *testing.T) {
	gen := &scriptedGenerator{responses: []*llm.Response{
		toolCallResponse("call_1", "create_employee",
			`{"first_name":"A","last_name":"B","email":"a@b.c","position":"E","department":"D","hire_date":"2025-01-15","base_salary":160000}`),
		textResponse("Created the employee."),
	}}
	orch, _, hrStore := newTestOrchestrator(gen)
	sink := &collectingSink{}

	res, err := orch.Turn(adminCtx(), "", []Message{{Role: RoleUser, Content: "hire A B"}}, sink)
	if err != nil {
		t.Fatalf("turn: %v", err)
	}
	if !res.NewConversation || res.ConversationID == "" {
		t.Fatalf("expected new conversation, got %+v", res)
	}
	if res.Reply != "Created the employee." || res.Steps != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}

	// The tool actually ran.
	all, _ := hrStore.Employees(context.Background()).List(context.Background())
	if len(all) != 1 {
		t.Fatalf("employee not created: %d records", len(all))
	}

	// Segment order: tool_call, tool_result, content, done.
	var kinds []string
	for _, seg := range sink.segments {
		kinds = append(kinds, seg.Type)
	}
	want := []string{"tool_call", "tool_result", "content", "done"}
	if !reflect.DeepEqual(kinds, want) {
		t.Fatalf("segments %v, want %v", kinds, want)
	}

	// Stored sequence: user, assistant(tool calls), tool, assistant.
	history, err := orch.History(context.Background(), res.ConversationID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	var roles []string
	for _, m := range history {
		roles = append(roles, m.Role)
		if m.ID == "" {
			t.Fatal("stored message without id")
		}
	}
	if !reflect.DeepEqual(roles, []string{RoleUser, RoleAssistant, RoleTool, RoleAssistant}) {
		t.Fatalf("stored roles %v", roles)
	}
}

func TestTurnUnknownConversationFallsBack(t *testing.T) {
	gen := &scriptedGenerator{responses: []*llm.Response{textResponse("hello")}}
	orch, _, _ := newTestOrchestrator(gen)

	res, err := orch.Turn(adminCtx(), "no-such-conversation", []Message{{Role: RoleUser, Content: "hi"}}, nil)
	if err != nil {
		t.Fatalf("turn: %v", err)
	}
	if !res.NewConversation {
		t.Fatal("expected fallback to a new conversation")
	}
	if res.ConversationID == "no-such-conversation" {
		t.Fatal("fallback reused the unknown id")
	}
}

func TestTurnContinuesExistingConversation(t *testing.T) {
	gen := &scriptedGenerator{responses: []*llm.Response{
		textResponse("first"),
		textResponse("second"),
	}}
	orch, _, _ := newTestOrchestrator(gen)

	res1, err := orch.Turn(adminCtx(), "", []Message{{Role: RoleUser, Content: "one"}}, nil)
	if err != nil {
		t.Fatalf("turn 1: %v", err)
	}
	res2, err := orch.Turn(adminCtx(), res1.ConversationID, []Message{{Role: RoleUser, Content: "two"}}, nil)
	if err != nil {
		t.Fatalf("turn 2: %v", err)
	}
	if res2.NewConversation || res2.ConversationID != res1.ConversationID {
		t.Fatalf("conversation not continued: %+v", res2)
	}

	history, _ := orch.History(context.Background(), res1.ConversationID)
	if len(history) != 4 {
		t.Fatalf("want 4 stored messages, got %d", len(history))
	}
}

func TestHistoryByteStableAcrossReads(t *testing.T) {
	gen := &scriptedGenerator{responses: []*llm.Response{textResponse("reply")}}
	orch, _, _ := newTestOrchestrator(gen)

	res, err := orch.Turn(adminCtx(), "", []Message{{Role: RoleUser, Content: "hi"}}, nil)
	if err != nil {
		t.Fatalf("turn: %v", err)
	}

	first, _ := orch.History(context.Background(), res.ConversationID)
	a, _ := json.Marshal(first)
	second, _ := orch.History(context.Background(), res.ConversationID)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Fatal("history not stable across reads")
	}
}

func TestHistoryUnknownConversation(t *testing.T) {
	gen := &scriptedGenerator{}
	orch, _, _ := newTestOrchestrator(gen)
	if _, err := orch.History(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestInvalidHistoryDropped(t *testing.T) {
	gen := &scriptedGenerator{responses: []*llm.Response{textResponse("ok")}}
	orch, convStore, _ := newTestOrchestrator(gen)

	ctx := context.Background()
	convID, _ := convStore.Create(ctx)
	// A tool message answering no tool call is structurally invalid.
	_ = convStore.Append(ctx, convID, []Message{
		{ID: "m1", Role: RoleTool, ToolCallID: "dangling", Content: "{}"},
	})

	res, err := orch.Turn(adminCtx(), convID, []Message{{Role: RoleUser, Content: "hi"}}, nil)
	if err != nil {
		t.Fatalf("turn: %v", err)
	}
	if res.ConversationID != convID {
		t.Fatalf("conversation id changed: %s", res.ConversationID)
	}
}

func TestHistoryWithUnknownToolDropped(t *testing.T) {
	gen := &scriptedGenerator{responses: []*llm.Response{textResponse("ok")}}
	orch, convStore, _ := newTestOrchestrator(gen)

	ctx := context.Background()
	convID, _ := convStore.Create(ctx)
	_ = convStore.Append(ctx, convID, []Message{
		{ID: "m1", Role: RoleAssistant, ToolCalls: []llm.ToolCall{{
			ID: "c1", Type: "function", Function: llm.FunctionCall{Name: "no_such_tool"},
		}}},
		{ID: "m2", Role: RoleTool, ToolCallID: "c1", Content: "{}"},
	})

	if _, err := orch.Turn(adminCtx(), convID, []Message{{Role: RoleUser, Content: "hi"}}, nil); err != nil {
		t.Fatalf("turn: %v", err)
	}
}

func TestToolErrorBecomesToolMessage(t *testing.T) {
	gen := &scriptedGenerator{responses: []*llm.Response{
		toolCallResponse("call_1", "get_employee", `{"id":"ghost"}`),
		textResponse("That employee does not exist."),
	}}
	orch, _, _ := newTestOrchestrator(gen)
	sink := &collectingSink{}

	res, err := orch.Turn(adminCtx(), "", []Message{{Role: RoleUser, Content: "show ghost"}}, sink)
	if err != nil {
		t.Fatalf("turn must not fail on tool error: %v", err)
	}
	if res.Steps != 1 {
		t.Fatalf("steps = %d", res.Steps)
	}

	history, _ := orch.History(context.Background(), res.ConversationID)
	var toolMsg *Message
	for i := range history {
		if history[i].Role == RoleTool {
			toolMsg = &history[i]
		}
	}
	if toolMsg == nil || !strings.Contains(toolMsg.Content, "error") {
		t.Fatalf("tool error not captured: %+v", toolMsg)
	}
}

func TestToolLoopBounded(t *testing.T) {
	// A generator that always wants another tool call must be cut off.
	var responses []*llm.Response
	for i := 0; i < maxToolSteps+3; i++ {
		responses = append(responses, toolCallResponse("c", "list_employees", `{}`))
	}
	gen := &scriptedGenerator{responses: responses}
	orch, _, _ := newTestOrchestrator(gen)

	res, err := orch.Turn(adminCtx(), "", []Message{{Role: RoleUser, Content: "loop"}}, nil)
	if err != nil {
		t.Fatalf("turn: %v", err)
	}
	if res.Steps != maxToolSteps {
		t.Fatalf("steps = %d, want %d", res.Steps, maxToolSteps)
	}
}

func TestTurnSurvivesCancelledRequestContext(t *testing.T) {
	gen := &scriptedGenerator{responses: []*llm.Response{textResponse("still here")}}
	orch, _, _ := newTestOrchestrator(gen)

	ctx, cancel := context.WithCancel(adminCtx())
	cancel() // client already gone

	res, err := orch.Turn(ctx, "", []Message{{Role: RoleUser, Content: "hi"}}, nil)
	if err != nil {
		t.Fatalf("turn failed after client disconnect: %v", err)
	}
	history, err := orch.History(context.Background(), res.ConversationID)
	if err != nil || len(history) != 2 {
		t.Fatalf("turn not persisted: %v, %d messages", err, len(history))
	}
}

func TestGenerationFailureFailsTurn(t *testing.T) {
	gen := &scriptedGenerator{} // empty script -> immediate error
	orch, _, _ := newTestOrchestrator(gen)
	if _, err := orch.Turn(adminCtx(), "", []Message{{Role: RoleUser, Content: "hi"}}, nil); err == nil {
		t.Fatal("want error when generation fails")
	}
}

func TestTurnRequiresUserMessage(t *testing.T) {
	gen := &scriptedGenerator{}
	orch, _, _ := newTestOrchestrator(gen)
	if _, err := orch.Turn(adminCtx(), "", nil, nil); err == nil {
		t.Fatal("want error for empty turn")
	}
}
