package journal

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/PabloGalante/soul-oracle/internal/app/agentflow"
	"github.com/PabloGalante/soul-oracle/internal/app/persistence"
	"github.com/PabloGalante/soul-oracle/internal/domain"
	"github.com/PabloGalante/soul-oracle/internal/observability"
)

var (
	ErrBusy         = errors.New("a journal submission is already in progress")
	ErrEmptyContent = errors.New("journal content is empty")
)

// SubmitInput is one new journal entry as written by the user.
type SubmitInput struct {
	Title   string
	Content string
	Mood    domain.Mood
}

// Service holds the journal list and annotates new entries with insights.
type Service struct {
	store        *persistence.Adapter
	orchestrator *agentflow.Orchestrator
	locale       language.Tag
	now          func() time.Time
	newID        func() domain.JournalEntryID

	mu         sync.RWMutex
	entries    domain.JournalList
	submitting bool
}

// NewService creates a journal service. Call Initialize before use.
func NewService(llm domain.Generator, store *persistence.Adapter, locale language.Tag) *Service {
	return &Service{
		store:        store,
		orchestrator: agentflow.NewOrchestrator(agentflow.NewInsightAgents(llm)...),
		locale:       locale,
		now:          time.Now,
		newID:        newEntryID,
		entries:      domain.JournalList{},
	}
}

// SetClock overrides the time source, for tests.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

func newEntryID() domain.JournalEntryID {
	id, err := uuid.NewV7()
	if err != nil {
		return domain.JournalEntryID(uuid.NewString())
	}
	return domain.JournalEntryID(id.String())
}

// Initialize loads the stored list; absent or corrupted lists start empty.
func (s *Service) Initialize(ctx context.Context) {
	entries := s.store.LoadJournalList()

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()

	observability.LoggerFromContext(ctx).Info("journal loaded", "entry_count", len(entries))
}

// Entries returns the newest `limit` entries, newest first.
// If limit <= 0, returns all.
func (s *Service) Entries(limit int) domain.JournalList {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.entries)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make(domain.JournalList, n)
	copy(out, s.entries[:n])
	return out
}

func (s *Service) Submitting() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.submitting
}

// Submit creates an entry, gathers one insight per non-council persona in
// parallel, prepends it and persists the list. Failed insights are omitted.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (domain.JournalEntry, error) {
	if strings.TrimSpace(in.Content) == "" {
		return domain.JournalEntry{}, ErrEmptyContent
	}

	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return domain.JournalEntry{}, ErrBusy
	}
	s.submitting = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.submitting = false
		s.mu.Unlock()
	}()

	title := in.Title
	if strings.TrimSpace(title) == "" {
		title = domain.UntitledJournalTitle
	}
	mood := in.Mood
	if mood == "" {
		mood = domain.DefaultMood
	}

	entry := domain.JournalEntry{
		ID:       s.newID(),
		Date:     FormatDate(s.now(), s.locale),
		Title:    title,
		Content:  in.Content,
		Mood:     mood,
		Insights: domain.Insights{},
	}

	log := observability.LoggerFromContext(ctx).With("entry_id", entry.ID)
	log.Info("submitting journal entry", "mood", entry.Mood)

	results, err := s.orchestrator.RunParallel(ctx, agentflow.AgentInput{Text: in.Content})
	if err != nil {
		log.Error("insight run failed", "error", err)
	}
	for _, r := range results {
		if r.Err != nil || strings.TrimSpace(r.Output.Reply) == "" {
			continue
		}
		entry.Insights[r.Output.PersonaID] = r.Output.Reply
	}

	s.mu.Lock()
	s.entries = s.entries.Prepend(entry)
	snapshot := s.entries
	s.mu.Unlock()

	if err := s.store.SaveJournalList(snapshot); err != nil {
		log.Error("failed to persist journal list", "error", err)
	}

	log.Info("journal entry saved", "insight_count", len(entry.Insights))
	return entry, nil
}
