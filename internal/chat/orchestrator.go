package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"hrops.org/internal/llm"
	"hrops.org/internal/obs"
	"hrops.org/internal/tools"
)

// maxToolSteps bounds the generate/execute loop of one turn.
const maxToolSteps = 8

// Segment is one streamed piece of a turn delivered to the client while
// the turn is still running.
type Segment struct {
	Type           string          `json:"type"` // content, tool_call, tool_result, done
	ConversationID string          `json:"conversation_id,omitempty"`
	Content        string          `json:"content,omitempty"`
	Tool           string          `json:"tool,omitempty"`
	ToolCallID     string          `json:"tool_call_id,omitempty"`
	Result         json.RawMessage `json:"result,omitempty"`
	Error          string          `json:"error,omitempty"`
}

// Sink receives segments as they are produced. Implementations must
// tolerate a client that went away; delivery failures are the sink's
// problem, never the turn's.
type Sink interface {
	Send(Segment)
}

type discardSink struct{}

func (discardSink) Send(Segment) {}

// TurnResult summarizes one completed turn.
type TurnResult struct {
	ConversationID  string `json:"conversation_id"`
	NewConversation bool   `json:"new_conversation"`
	Reply           string `json:"reply"`
	Steps           int    `json:"steps"`
}

// Orchestrator drives a turn through its states: resolve the
// conversation, load and validate history, generate with tool
// execution, finalize.
type Orchestrator struct {
	store        ConversationStore
	gen          llm.Generator
	registry     *tools.Registry
	systemPrompt string
}

func NewOrchestrator(store ConversationStore, gen llm.Generator, registry *tools.Registry, systemPrompt string) *Orchestrator {
	if systemPrompt == "" {
		systemPrompt = defaultSystemPrompt
	}
	return &Orchestrator{store: store, gen: gen, registry: registry, systemPrompt: systemPrompt}
}

const defaultSystemPrompt = "You are an HR operations assistant. Use the available tools to " +
	"inspect and change HR records on behalf of the user. Only report state that tool results " +
	"confirm. If a tool reports a permission error, tell the user plainly that they are not " +
	"allowed to do that."

// Turn runs one conversational turn. The work continues even if the
// caller's context is cancelled: a client disconnect must not lose a
// half-applied turn, so generation and finalize run detached and
// segments go through the sink on a best-effort basis.
func (o *Orchestrator) Turn(reqCtx context.Context, conversationID string, userMsgs []Message, sink Sink) (*TurnResult, error) {
	ctx := context.WithoutCancel(reqCtx)
	if sink == nil {
		sink = discardSink{}
	}
	if len(userMsgs) == 0 {
		return nil, fmt.Errorf("chat: turn requires at least one user message")
	}

	// ResolvingConversation
	convID, history, isNew, err := o.resolve(ctx, conversationID)
	if err != nil {
		obs.ObserveTurn("failed", 0)
		return nil, err
	}

	// ValidatingHistory
	if !o.historyValid(history) {
		obs.LogEvent(map[string]any{
			"type":            "chat_history_discarded",
			"conversation_id": convID,
			"messages":        len(history),
		})
		history = nil
	}

	// Generating
	turnMsgs := make([]Message, 0, len(userMsgs)+2)
	turnMsgs = append(turnMsgs, userMsgs...)

	wire := make([]llm.ChatMessage, 0, len(history)+len(turnMsgs)+2)
	wire = append(wire, llm.ChatMessage{Role: "system", Content: o.systemPrompt})
	wire = append(wire, toWire(history)...)
	wire = append(wire, toWire(userMsgs)...)

	defs := o.registry.Definitions()
	var reply string
	steps := 0
	for {
		resp, err := o.gen.Generate(ctx, wire, defs)
		if err != nil {
			obs.ObserveTurn("failed", steps)
			return nil, fmt.Errorf("chat: generation failed: %w", err)
		}

		if len(resp.ToolCalls) == 0 || steps >= maxToolSteps {
			reply = resp.Content
			turnMsgs = append(turnMsgs, Message{Role: RoleAssistant, Content: reply})
			sink.Send(Segment{Type: "content", Content: reply})
			break
		}

		steps++
		assistant := Message{Role: RoleAssistant, Content: resp.Content, ToolCalls: resp.ToolCalls}
		turnMsgs = append(turnMsgs, assistant)
		wire = append(wire, llm.ChatMessage{Role: RoleAssistant, Content: resp.Content, ToolCalls: resp.ToolCalls})

		results := o.executeCalls(ctx, resp.ToolCalls, sink)
		for _, r := range results {
			turnMsgs = append(turnMsgs, r)
			wire = append(wire, llm.ChatMessage{Role: RoleTool, Content: r.Content, ToolCallID: r.ToolCallID})
		}
	}

	// Finalizing: persistence failure is logged, the reply stands.
	o.finalize(ctx, convID, history, turnMsgs)

	sink.Send(Segment{Type: "done", ConversationID: convID})
	obs.ObserveTurn("done", steps)
	return &TurnResult{
		ConversationID:  convID,
		NewConversation: isNew,
		Reply:           reply,
		Steps:           steps,
	}, nil
}

// Resolve maps a requested conversation id onto an existing or fresh
// one without running a turn, so callers can surface the id before
// streaming begins.
func (o *Orchestrator) Resolve(ctx context.Context, requested string) (id string, isNew bool, err error) {
	id, _, isNew, err = o.resolve(context.WithoutCancel(ctx), requested)
	return id, isNew, err
}

// History returns the stored message sequence of a conversation.
func (o *Orchestrator) History(ctx context.Context, id string) ([]Message, error) {
	return o.store.Load(ctx, id)
}

// resolve maps the requested conversation id onto a usable one. An
// unknown id falls back to a fresh conversation rather than failing the
// turn; both ids are logged so the switch is traceable.
func (o *Orchestrator) resolve(ctx context.Context, requested string) (id string, history []Message, isNew bool, err error) {
	if requested != "" {
		history, err = o.store.Load(ctx, requested)
		switch {
		case err == nil:
			return requested, history, false, nil
		case errors.Is(err, ErrNotFound):
			obs.LogEvent(map[string]any{
				"type":         "chat_conversation_fallback",
				"requested_id": requested,
			})
		default:
			// LoadingHistory failure is non-fatal: continue with the
			// requested conversation and empty history.
			obs.LogEvent(map[string]any{
				"type":            "chat_history_load_failed",
				"conversation_id": requested,
				"error":           err.Error(),
			})
			return requested, nil, false, nil
		}
	}
	id, err = o.store.Create(ctx)
	if err != nil {
		return "", nil, false, fmt.Errorf("chat: create conversation: %w", err)
	}
	return id, nil, true, nil
}

// historyValid checks that stored history is structurally sound: roles
// from the closed set, every tool message answering a tool call of a
// preceding assistant message, and every named tool still in the catalog.
func (o *Orchestrator) historyValid(history []Message) bool {
	pending := map[string]bool{}
	for _, m := range history {
		switch m.Role {
		case RoleUser:
		case RoleAssistant:
			for _, tc := range m.ToolCalls {
				if !o.registry.Has(tc.Function.Name) {
					return false
				}
				pending[tc.ID] = true
			}
		case RoleTool:
			if m.ToolCallID == "" || !pending[m.ToolCallID] {
				return false
			}
			delete(pending, m.ToolCallID)
		default:
			return false
		}
	}
	return true
}

// executeCalls runs the step's tool calls concurrently and returns tool
// messages in call order. Execution errors become tool message content
// so the model can react; they do not fail the turn.
func (o *Orchestrator) executeCalls(ctx context.Context, calls []llm.ToolCall, sink Sink) []Message {
	results := make([]Message, len(calls))
	var wg sync.WaitGroup
	for i, call := range calls {
		sink.Send(Segment{Type: "tool_call", Tool: call.Function.Name, ToolCallID: call.ID})
		wg.Add(1)
		go func(i int, call llm.ToolCall) {
			defer wg.Done()
			out, err := o.registry.Dispatch(ctx, call.Function.Name, call.Function.Arguments)
			msg := Message{Role: RoleTool, ToolCallID: call.ID}
			if err != nil {
				encoded, _ := json.Marshal(map[string]string{"error": err.Error()})
				msg.Content = string(encoded)
			} else {
				msg.Content = string(out)
			}
			results[i] = msg
		}(i, call)
	}
	wg.Wait()

	for i, call := range calls {
		seg := Segment{Type: "tool_result", Tool: call.Function.Name, ToolCallID: call.ID}
		if json.Valid([]byte(results[i].Content)) {
			seg.Result = json.RawMessage(results[i].Content)
		} else {
			seg.Content = results[i].Content
		}
		sink.Send(seg)
	}
	return results
}

// finalize assigns deterministic ids over the whole sequence, reconciles
// duplicates, and appends the not-yet-stored tail.
func (o *Orchestrator) finalize(ctx context.Context, convID string, history, turnMsgs []Message) {
	full := make([]Message, 0, len(history)+len(turnMsgs))
	full = append(full, history...)
	full = append(full, turnMsgs...)
	for i := range full {
		full[i].ID = EnsureMessageID(convID, i, full[i])
	}
	full = Reconcile(full)

	stored := make(map[string]struct{}, len(history))
	for _, m := range history {
		stored[m.ID] = struct{}{}
	}
	tail := make([]Message, 0, len(turnMsgs))
	for _, m := range full {
		if _, ok := stored[m.ID]; ok {
			continue
		}
		tail = append(tail, m)
	}
	if len(tail) == 0 {
		return
	}
	if err := o.store.Append(ctx, convID, tail); err != nil {
		obs.LogEvent(map[string]any{
			"type":            "chat_append_failed",
			"conversation_id": convID,
			"messages":        len(tail),
			"error":           err.Error(),
		})
	}
}
