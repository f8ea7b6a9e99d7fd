package conversation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/soul-oracle/internal/app/agentflow"
	"github.com/PabloGalante/soul-oracle/internal/app/persistence"
	"github.com/PabloGalante/soul-oracle/internal/domain"
	"github.com/PabloGalante/soul-oracle/internal/observability"
)

// ApologyText replaces a single persona's reply when generation fails.
const ApologyText = "抱歉，通靈過程中遇到了一些波動。"

var (
	ErrBusy         = errors.New("a reply is still pending")
	ErrEmptyMessage = errors.New("message text is empty")
)

// Snapshot is the observable state of the session.
type Snapshot struct {
	PersonaID domain.PersonaID
	Messages  domain.ChatHistory
	Pending   bool
}

// Listener is notified after every observable change.
type Listener func(Snapshot)

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func newMessageID() domain.MessageID {
	id, err := uuid.NewV7()
	if err != nil {
		return domain.MessageID(uuid.NewString())
	}
	return domain.MessageID(id.String())
}

type Option func(*Session)

func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

func WithSleeper(sleep Sleeper) Option {
	return func(s *Session) { s.sleep = sleep }
}

func WithRevealDelay(d time.Duration) Option {
	return func(s *Session) { s.revealDelay = d }
}

func WithIDGenerator(newID func() domain.MessageID) Option {
	return func(s *Session) { s.newID = newID }
}

// Session owns the in-memory history of the active persona and mediates
// turn-taking with the generator.
type Session struct {
	llm         domain.Generator
	store       *persistence.Adapter
	council     *agentflow.CouncilAgent
	now         func() time.Time
	sleep       Sleeper
	revealDelay time.Duration
	newID       func() domain.MessageID

	mu        sync.Mutex
	active    domain.PersonaID
	history   domain.ChatHistory
	pending   bool
	epoch     uint64
	listeners map[uint64]Listener
	nextSubID uint64
}

func NewSession(llm domain.Generator, store *persistence.Adapter, opts ...Option) *Session {
	s := &Session{
		llm:         llm,
		store:       store,
		council:     agentflow.NewCouncilAgent(llm),
		now:         time.Now,
		sleep:       sleepContext,
		revealDelay: DefaultRevealDelay,
		newID:       newMessageID,
		listeners:   make(map[uint64]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers l and returns a function that removes it.
func (s *Session) Subscribe(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.listeners[id] = l

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		PersonaID: s.active,
		Messages:  s.history.Clone(),
		Pending:   s.pending,
	}
}

// notify must be called without holding mu.
func (s *Session) notify(snap Snapshot) {
	s.mu.Lock()
	ls := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		ls = append(ls, l)
	}
	s.mu.Unlock()

	for _, l := range ls {
		l(snap)
	}
}

// Activate makes id the active persona, loading its stored history or
// starting a fresh greeting-only one. Other personas are never touched.
func (s *Session) Activate(ctx context.Context, id domain.PersonaID) (Snapshot, error) {
	persona, ok := domain.Lookup(id)
	if !ok {
		return Snapshot{}, domain.ErrUnknownPersona
	}

	log := observability.LoggerFromContext(ctx).With("persona_id", id)

	history, found := s.store.LoadChatHistory(id)
	if !found {
		history = domain.NewGreetingHistory(persona, s.now())
		if err := s.store.SaveChatHistory(id, history); err != nil {
			log.Error("failed to persist greeting", "error", err)
		}
	}

	s.mu.Lock()
	s.active = id
	s.history = history
	s.pending = false
	s.epoch++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	log.Info("persona activated", "message_count", len(history), "restored", found)
	s.notify(snap)
	return snap, nil
}

// Reset clears the persona's stored history and makes it active again with
// only its greeting. Confirmation is the caller's concern.
func (s *Session) Reset(ctx context.Context, id domain.PersonaID) (Snapshot, error) {
	if !id.Valid() {
		return Snapshot{}, domain.ErrUnknownPersona
	}

	if err := s.store.ClearChatHistory(id); err != nil {
		observability.LoggerFromContext(ctx).Error("failed to clear chat history", "persona_id", id, "error", err)
	}
	return s.Activate(ctx, id)
}

// Send appends the user's message and the persona's reply (or the council's
// three replies). Generation failures are absorbed into the history; the only
// errors returned are ErrEmptyMessage and ErrBusy, in which case nothing changed.
func (s *Session) Send(ctx context.Context, text string) (Snapshot, error) {
	if strings.TrimSpace(text) == "" {
		return s.Snapshot(), ErrEmptyMessage
	}

	s.mu.Lock()
	if s.pending {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, ErrBusy
	}
	if s.active == "" {
		s.mu.Unlock()
		if _, err := s.Activate(ctx, domain.PersonaCouncil); err != nil {
			return Snapshot{}, err
		}
		s.mu.Lock()
		if s.pending {
			snap := s.snapshotLocked()
			s.mu.Unlock()
			return snap, ErrBusy
		}
	}

	active := s.active
	epoch := s.epoch
	s.history = append(s.history, domain.ChatMessage{
		ID:        s.newID(),
		Role:      domain.RoleUser,
		Text:      text,
		PersonaID: active,
		CreatedAt: s.now().UnixMilli(),
	})
	s.persistLocked(ctx)
	s.pending = true
	turns := s.history.Window(domain.ContextWindowSize).Turns()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	log := observability.LoggerFromContext(ctx).With("persona_id", active)
	log.Info("sending message", "context_turns", len(turns))
	s.notify(snap)

	if active.IsCouncil() {
		s.runCouncil(ctx, epoch, turns)
	} else {
		s.runSingle(ctx, epoch, active, turns)
	}

	s.mu.Lock()
	if s.epoch == epoch {
		s.pending = false
	}
	snap = s.snapshotLocked()
	s.mu.Unlock()

	log.Info("send message completed", "message_count", len(snap.Messages))
	s.notify(snap)
	return snap, nil
}

func (s *Session) runSingle(ctx context.Context, epoch uint64, active domain.PersonaID, turns []domain.Turn) {
	agent := agentflow.NewChatAgent(s.llm, domain.MustLookup(active))

	reply := ApologyText
	out, err := agent.Run(ctx, agentflow.AgentInput{Turns: turns})
	if err == nil && strings.TrimSpace(out.Reply) != "" {
		reply = out.Reply
	}

	s.appendReply(ctx, epoch, domain.ChatMessage{
		ID:        s.newID(),
		Role:      domain.RoleAssistant,
		Text:      reply,
		PersonaID: active,
		CreatedAt: s.now().UnixMilli(),
	})
}

func (s *Session) runCouncil(ctx context.Context, epoch uint64, turns []domain.Turn) {
	log := observability.LoggerFromContext(ctx).With("persona_id", domain.PersonaCouncil)

	var reply CouncilReply
	out, err := s.council.Run(ctx, agentflow.AgentInput{Turns: turns})
	switch {
	case err != nil:
		log.Error("council generation failed, using fallback", "error", err)
		reply = FallbackCouncilReply
	default:
		reply, err = ParseCouncilReply(out.Reply)
		if err != nil {
			// No reply is produced; the user's message stays on its own.
			log.Error("failed to parse council response", "error", err)
			return
		}
	}

	plan := NewRevealPlan(reply, s.revealDelay, s.now(), s.newID)
	for step := range plan.Steps() {
		if err := s.sleep(ctx, step.Delay); err != nil {
			log.Warn("council reveal interrupted", "error", err)
			return
		}
		if !s.appendReply(ctx, epoch, step.Message) {
			return
		}
	}
}

// appendReply adds msg if the session has not moved on since the exchange
// started. It reports whether the message was appended.
func (s *Session) appendReply(ctx context.Context, epoch uint64, msg domain.ChatMessage) bool {
	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		observability.LoggerFromContext(ctx).Warn("dropping reply for an abandoned exchange", "message_persona", msg.PersonaID)
		return false
	}
	s.history = append(s.history, msg)
	s.persistLocked(ctx)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return true
}

func (s *Session) persistLocked(ctx context.Context) {
	if err := s.store.SaveChatHistory(s.active, s.history); err != nil {
		observability.LoggerFromContext(ctx).Error("failed to persist chat history", "persona_id", s.active, "error", err)
	}
}
