package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PabloGalante/soul-oracle/internal/app/conversation"
	"github.com/PabloGalante/soul-oracle/internal/app/journal"
	"github.com/PabloGalante/soul-oracle/internal/domain"
	"github.com/PabloGalante/soul-oracle/internal/observability"
)

type Server struct {
	chat    *conversation.Session
	journal *journal.Service
}

func NewServer(chat *conversation.Session, journalSvc *journal.Service) http.Handler {
	s := &Server{chat: chat, journal: journalSvc}
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/personas", s.handlePersonas)

	// /chat          → GET: active conversation
	// /chat/activate → POST: switch persona
	// /chat/reset    → POST: clear a persona's history
	// /chat/messages → POST: send message (JSON or SSE)
	mux.HandleFunc("/chat", s.handleChat)
	mux.HandleFunc("/chat/", s.handleChatAction)

	// /journal → GET: list entries, POST: submit entry
	mux.HandleFunc("/journal", s.handleJournal)

	return chainMiddlewares(mux, withRequestID, withLogging, withCORS)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type personaResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Title       string `json:"title"`
	AvatarRef   string `json:"avatar_ref"`
	ColorTag    string `json:"color_tag"`
	Description string `json:"description"`
	Greeting    string `json:"greeting"`
}

type messageResponse struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	PersonaID string    `json:"persona_id"`
	CreatedAt time.Time `json:"created_at"`
}

type chatResponse struct {
	PersonaID string            `json:"persona_id"`
	Pending   bool              `json:"pending"`
	Messages  []messageResponse `json:"messages"`
}

type personaRequest struct {
	PersonaID string `json:"persona_id"`
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

type journalEntryResponse struct {
	ID       string            `json:"id"`
	Date     string            `json:"date"`
	Title    string            `json:"title"`
	Content  string            `json:"content"`
	Mood     string            `json:"mood"`
	Insights map[string]string `json:"insights"`
}

type journalListResponse struct {
	Submitting bool                   `json:"submitting"`
	Entries    []journalEntryResponse `json:"entries"`
}

type submitJournalRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Mood    string `json:"mood"`
}

// ─────────────────────────────────────────────
// Basic routing
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// /personas
func (s *Server) handlePersonas(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	personas := domain.Personas()
	out := make([]personaResponse, 0, len(personas))
	for _, p := range personas {
		out = append(out, toPersonaResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

// /chat
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, toChatResponse(s.chat.Snapshot()))
	default:
		methodNotAllowed(w)
	}
}

// /chat/{action}
func (s *Server) handleChatAction(w http.ResponseWriter, r *http.Request) {
	action := strings.Trim(strings.TrimPrefix(r.URL.Path, "/chat/"), "/")
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	switch action {
	case "activate":
		s.handlePersonaChange(w, r, s.chat.Activate)
	case "reset":
		s.handlePersonaChange(w, r, s.chat.Reset)
	case "messages":
		s.handleSendMessage(w, r)
	default:
		http.NotFound(w, r)
	}
}

// /journal
func (s *Server) handleJournal(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListJournal(w, r)
	case http.MethodPost:
		s.handleSubmitJournal(w, r)
	default:
		methodNotAllowed(w)
	}
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handlePersonaChange(
	w http.ResponseWriter,
	r *http.Request,
	change func(context.Context, domain.PersonaID) (conversation.Snapshot, error),
) {
	var req personaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	id, err := domain.ParsePersonaID(req.PersonaID)
	if err != nil {
		badRequest(w, "unknown persona_id")
		return
	}

	snap, err := change(r.Context(), id)
	if err != nil {
		internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toChatResponse(snap))
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		badRequest(w, "text is required")
		return
	}

	// The exchange finishes even if the client goes away.
	ctx := context.WithoutCancel(r.Context())

	if strings.Contains(r.Header.Get("Accept"), "text/event-stream") {
		s.streamSendMessage(w, r, ctx, req.Text)
		return
	}

	snap, err := s.chat.Send(ctx, req.Text)
	if err != nil {
		writeSendError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toChatResponse(snap))
}

type sendResult struct {
	snap conversation.Snapshot
	err  error
}

// streamSendMessage emits one SSE "snapshot" event per observable change and
// a final "done" (or "error") event.
func (s *Server) streamSendMessage(w http.ResponseWriter, r *http.Request, ctx context.Context, text string) {
	rc := http.NewResponseController(w)

	events := make(chan conversation.Snapshot, 16)
	stop := make(chan struct{})
	unsubscribe := s.chat.Subscribe(func(snap conversation.Snapshot) {
		select {
		case events <- snap:
		case <-stop:
		}
	})

	result := make(chan sendResult, 1)
	go func() {
		snap, err := s.chat.Send(ctx, text)
		result <- sendResult{snap: snap, err: err}
	}()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	log := observability.LoggerFromContext(r.Context())
	emit := func(event string, v any) {
		if err := writeSSE(w, event, v); err != nil {
			log.Warn("sse write failed", "error", err)
			return
		}
		_ = rc.Flush()
	}

	for {
		select {
		case snap := <-events:
			emit("snapshot", toChatResponse(snap))
		case res := <-result:
			unsubscribe()
			close(stop)
			for drained := false; !drained; {
				select {
				case snap := <-events:
					emit("snapshot", toChatResponse(snap))
				default:
					drained = true
				}
			}
			if res.err != nil {
				emit("error", map[string]string{"error": res.err.Error()})
				return
			}
			emit("done", toChatResponse(res.snap))
			return
		}
	}
}

func (s *Server) handleListJournal(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			badRequest(w, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	resp := journalListResponse{
		Submitting: s.journal.Submitting(),
		Entries:    toJournalEntriesResponse(s.journal.Entries(limit)),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSubmitJournal(w http.ResponseWriter, r *http.Request) {
	var req submitJournalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		badRequest(w, "content is required")
		return
	}

	mood, err := domain.ParseMood(req.Mood)
	if err != nil {
		badRequest(w, "unknown mood")
		return
	}

	entry, err := s.journal.Submit(context.WithoutCancel(r.Context()), journal.SubmitInput{
		Title:   req.Title,
		Content: req.Content,
		Mood:    mood,
	})
	switch {
	case errors.Is(err, journal.ErrBusy):
		conflict(w, "a journal entry is already being submitted")
		return
	case errors.Is(err, journal.ErrEmptyContent):
		badRequest(w, "content is required")
		return
	case err != nil:
		internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toJournalEntryResponse(entry))
}

// ─────────────────────────────────────────────
// Conversion Helpers
// ─────────────────────────────────────────────

func toPersonaResponse(p domain.Persona) personaResponse {
	return personaResponse{
		ID:          string(p.ID),
		DisplayName: p.DisplayName,
		Title:       p.Title,
		AvatarRef:   p.AvatarRef,
		ColorTag:    p.ColorTag,
		Description: p.Description,
		Greeting:    p.Greeting,
	}
}

func toMessageResponse(m domain.ChatMessage) messageResponse {
	return messageResponse{
		ID:        string(m.ID),
		Role:      string(m.Role),
		Text:      m.Text,
		PersonaID: string(m.PersonaID),
		CreatedAt: time.UnixMilli(m.CreatedAt).UTC(),
	}
}

func toChatResponse(s conversation.Snapshot) chatResponse {
	msgs := make([]messageResponse, 0, len(s.Messages))
	for _, m := range s.Messages {
		msgs = append(msgs, toMessageResponse(m))
	}
	return chatResponse{
		PersonaID: string(s.PersonaID),
		Pending:   s.Pending,
		Messages:  msgs,
	}
}

func toJournalEntryResponse(e domain.JournalEntry) journalEntryResponse {
	insights := make(map[string]string, len(e.Insights))
	for k, v := range e.Insights {
		insights[string(k)] = v
	}
	return journalEntryResponse{
		ID:       string(e.ID),
		Date:     e.Date,
		Title:    e.Title,
		Content:  e.Content,
		Mood:     string(e.Mood),
		Insights: insights,
	}
}

func toJournalEntriesResponse(list domain.JournalList) []journalEntryResponse {
	out := make([]journalEntryResponse, 0, len(list))
	for _, e := range list {
		out = append(out, toJournalEntryResponse(e))
	}
	return out
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSSE(w http.ResponseWriter, event string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	return err
}

func writeSendError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, conversation.ErrBusy):
		conflict(w, "a reply is still pending")
	case errors.Is(err, conversation.ErrEmptyMessage):
		badRequest(w, "text is required")
	default:
		internalError(w, r, err)
	}
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
	})
}

func conflict(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusConflict, map[string]string{
		"error": msg,
	})
}

func internalError(w http.ResponseWriter, r *http.Request, err error) {
	observability.LoggerFromContext(r.Context()).Error("request failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "internal server error",
	})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
		"error": "method not allowed",
	})
}
