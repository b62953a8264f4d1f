package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"

	"hrops.org/internal/auth"
	"hrops.org/internal/chat"
	"hrops.org/internal/hr"
	"hrops.org/internal/tools"
)

type chatRequest struct {
	ConversationID string        `json:"conversation_id,omitempty"`
	Messages       []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (a *API) handleChat(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		a.handleChatTurn(w, r)
	case http.MethodGet:
		a.handleChatHistory(w, r)
	default:
		methodNotAllowed(w, r, http.MethodPost, http.MethodGet)
	}
}

// handleChatTurn runs one turn and streams segments as SSE. The
// conversation id is committed in a response header before the stream
// starts so the client learns it even if it disconnects mid-turn.
func (a *API) handleChatTurn(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Messages) == 0 {
		writeError(w, r, http.StatusBadRequest, "messages are required")
		return
	}
	msgs := make([]chat.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		if m.Role != chat.RoleUser {
			writeError(w, r, http.StatusBadRequest, "only user messages may be submitted")
			return
		}
		if strings.TrimSpace(m.Content) == "" {
			writeError(w, r, http.StatusBadRequest, "message content is required")
			return
		}
		msgs = append(msgs, chat.Message{Role: chat.RoleUser, Content: m.Content})
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, r, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	convID, _, err := a.orch.Resolve(r.Context(), req.ConversationID)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "conversation setup failed")
		return
	}
	w.Header().Set("X-Conversation-Id", convID)

	sink := &sseSink{w: w, flusher: flusher}
	if _, err := a.orch.Turn(r.Context(), convID, msgs, sink); err != nil {
		if !sink.started() {
			writeError(w, r, http.StatusInternalServerError, "turn failed")
		}
		return
	}
}

// sseSink writes segments as SSE events. Write errors after a client
// disconnect are swallowed: the turn finishes server-side regardless.
type sseSink struct {
	w       http.ResponseWriter
	flusher http.Flusher

	mu    sync.Mutex
	begun bool
	dead  bool
}

func (s *sseSink) started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.begun
}

func (s *sseSink) Send(seg chat.Segment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.begun {
		s.begun = true
		s.w.Header().Set("Content-Type", "text/event-stream")
		s.w.Header().Set("Cache-Control", "no-cache")
		s.w.Header().Set("Connection", "keep-alive")
		s.w.WriteHeader(http.StatusOK)
	}
	if s.dead {
		return
	}
	payload, err := json.Marshal(seg)
	if err != nil {
		return
	}
	if _, err := s.w.Write([]byte("data: ")); err != nil {
		s.dead = true
		return
	}
	_, _ = s.w.Write(payload)
	if _, err := s.w.Write([]byte("\n\n")); err != nil {
		s.dead = true
		return
	}
	s.flusher.Flush()
}

func (a *API) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("conversation_id"))
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "conversation_id is required")
		return
	}
	msgs, err := a.orch.History(r.Context(), id)
	if err != nil {
		if errors.Is(err, chat.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "conversation not found")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "history load failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"conversation_id": id,
		"messages":        msgs,
	})
}

// --- shared helpers ---

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	reader := http.MaxBytesReader(w, r.Body, 1<<20)
	defer reader.Close()
	dec := json.NewDecoder(reader)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return errors.New("unexpected data after JSON body")
		}
		return err
	}
	return nil
}

// mapDomainError converts sentinel errors to HTTP status codes.
func mapDomainError(err error) (int, string) {
	switch {
	case errors.Is(err, auth.ErrUnauthenticated):
		return http.StatusUnauthorized, "authentication required"
	case errors.Is(err, auth.ErrUnauthorized):
		return http.StatusForbidden, "permission denied"
	case errors.Is(err, hr.ErrInvalidInput), errors.Is(err, hr.ErrInvalidTransition),
		errors.Is(err, tools.ErrUnknownTool):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, hr.ErrNotFound), errors.Is(err, chat.ErrNotFound):
		return http.StatusNotFound, err.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	payload := map[string]any{
		"error": msg,
	}
	if rid := RequestIDFromContext(r.Context()); rid != "" {
		payload["request_id"] = rid
	}
	writeJSON(w, code, payload)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
}
