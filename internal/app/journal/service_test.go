package journal_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/PabloGalante/soul-oracle/internal/adapters/llm/llmtest"
	"github.com/PabloGalante/soul-oracle/internal/adapters/storage/memory"
	"github.com/PabloGalante/soul-oracle/internal/app/journal"
	"github.com/PabloGalante/soul-oracle/internal/app/persistence"
	"github.com/PabloGalante/soul-oracle/internal/domain"
)

func newService(t *testing.T, fake *llmtest.Fake) (*journal.Service, *persistence.Adapter) {
	t.Helper()

	store := persistence.NewAdapter(memory.NewKVStore())
	svc := journal.NewService(fake, store, journal.DefaultLocale)
	svc.SetClock(func() time.Time { return time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC) })
	svc.Initialize(context.Background())
	return svc, store
}

func allInsights() *llmtest.Fake {
	return llmtest.New().
		On(domain.PersonaEmotion, "Luna is glad").
		On(domain.PersonaZodiac, "Venus smiles").
		On(domain.PersonaNumerology, "大吉")
}

func TestSubmitWithAllInsights(t *testing.T) {
	svc, store := newService(t, allInsights())

	entry, err := svc.Submit(context.Background(), journal.SubmitInput{
		Title:   "Sunny",
		Content: "Had a great day",
		Mood:    domain.MoodEnergetic,
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	want := domain.Insights{
		domain.PersonaEmotion:    "Luna is glad",
		domain.PersonaZodiac:     "Venus smiles",
		domain.PersonaNumerology: "大吉",
	}
	if diff := cmp.Diff(want, entry.Insights); diff != "" {
		t.Fatalf("insights mismatch (-want +got):\n%s", diff)
	}
	if entry.Date != "2026/10/16" || entry.Title != "Sunny" || entry.Mood != domain.MoodEnergetic {
		t.Fatalf("unexpected entry %+v", entry)
	}

	stored := store.LoadJournalList()
	if len(stored) != 1 {
		t.Fatalf("expected 1 stored entry, got %d", len(stored))
	}
	if diff := cmp.Diff(entry, stored[0]); diff != "" {
		t.Fatalf("stored entry mismatch (-want +got):\n%s", diff)
	}
	if svc.Submitting() {
		t.Fatalf("submitting must be cleared")
	}
}

func TestSubmitWithFailedZodiacInsight(t *testing.T) {
	fake := allInsights().Fail(domain.PersonaZodiac)
	svc, store := newService(t, fake)

	entry, err := svc.Submit(context.Background(), journal.SubmitInput{Content: "Had a great day"})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if _, ok := entry.Insights[domain.PersonaZodiac]; ok {
		t.Fatalf("failed insight must be omitted")
	}
	if len(entry.Insights) != 2 || entry.Insights[domain.PersonaEmotion] == "" || entry.Insights[domain.PersonaNumerology] == "" {
		t.Fatalf("expected EMOTION and NUMEROLOGY insights, got %+v", entry.Insights)
	}
	if len(store.LoadJournalList()) != 1 {
		t.Fatalf("entry must still be saved")
	}
}

func TestSubmitWithNoInsights(t *testing.T) {
	fake := llmtest.New()
	fake.Default = llmtest.Reply{Err: domain.ErrRemote}
	svc, _ := newService(t, fake)

	entry, err := svc.Submit(context.Background(), journal.SubmitInput{Content: "quiet day"})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if len(entry.Insights) != 0 {
		t.Fatalf("expected no insights, got %+v", entry.Insights)
	}
	if got := svc.Entries(0); len(got) != 1 {
		t.Fatalf("entry must still be added, got %d", len(got))
	}
}

func TestSubmitDefaultsTitleAndMood(t *testing.T) {
	svc, _ := newService(t, allInsights())

	entry, err := svc.Submit(context.Background(), journal.SubmitInput{Title: "   ", Content: "x"})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if entry.Title != domain.UntitledJournalTitle {
		t.Fatalf("expected placeholder title, got %q", entry.Title)
	}
	if entry.Mood != domain.DefaultMood {
		t.Fatalf("expected default mood, got %q", entry.Mood)
	}
}

func TestSubmitBlankContentIsNoop(t *testing.T) {
	fake := allInsights()
	svc, store := newService(t, fake)

	for _, in := range []journal.SubmitInput{
		{Title: "", Content: ""},
		{Title: "title", Content: "   "},
	} {
		if _, err := svc.Submit(context.Background(), in); !errors.Is(err, journal.ErrEmptyContent) {
			t.Fatalf("expected ErrEmptyContent, got %v", err)
		}
	}

	if len(svc.Entries(0)) != 0 || len(store.LoadJournalList()) != 0 {
		t.Fatalf("entries must be unchanged")
	}
	if len(fake.Calls()) != 0 {
		t.Fatalf("no insight calls expected")
	}
}

func TestSubmitPrependsNewestFirst(t *testing.T) {
	svc, _ := newService(t, allInsights())

	for _, c := range []string{"first", "second", "third"} {
		before := len(svc.Entries(0))
		if _, err := svc.Submit(context.Background(), journal.SubmitInput{Content: c}); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
		entries := svc.Entries(0)
		if len(entries) != before+1 || entries[0].Content != c {
			t.Fatalf("expected %q at index 0 of %d entries, got %+v", c, before+1, entries)
		}
	}

	if got := svc.Entries(2); len(got) != 2 || got[1].Content != "second" {
		t.Fatalf("unexpected limited entries %+v", got)
	}
}

func TestInitializeRestoresStoredList(t *testing.T) {
	store := persistence.NewAdapter(memory.NewKVStore())
	_ = store.SaveJournalList(domain.JournalList{{ID: "old", Content: "yesterday", Mood: domain.MoodTired}})

	svc := journal.NewService(allInsights(), store, journal.DefaultLocale)
	svc.Initialize(context.Background())

	if _, err := svc.Submit(context.Background(), journal.SubmitInput{Content: "today"}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	stored := store.LoadJournalList()
	if len(stored) != 2 || stored[0].Content != "today" || stored[1].ID != "old" {
		t.Fatalf("unexpected stored list %+v", stored)
	}
}

func TestSubmitIsSingleFlight(t *testing.T) {
	fake := allInsights()
	fake.Block = make(chan struct{})
	svc, _ := newService(t, fake)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = svc.Submit(context.Background(), journal.SubmitInput{Content: "first"})
	}()

	deadline := time.Now().Add(2 * time.Second)
	for !svc.Submitting() {
		if time.Now().After(deadline) {
			t.Fatalf("first submission never started")
		}
		time.Sleep(time.Millisecond)
	}

	if _, err := svc.Submit(context.Background(), journal.SubmitInput{Content: "second"}); !errors.Is(err, journal.ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}

	close(fake.Block)
	wg.Wait()

	if got := svc.Entries(0); len(got) != 1 || got[0].Content != "first" {
		t.Fatalf("expected only the first entry, got %+v", got)
	}
}

func TestInsightCallsRunConcurrently(t *testing.T) {
	fake := allInsights()
	fake.Block = make(chan struct{})
	svc, _ := newService(t, fake)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = svc.Submit(context.Background(), journal.SubmitInput{Content: "parallel"})
	}()

	// all three calls must be in flight at once before any is released
	deadline := time.Now().Add(2 * time.Second)
	for len(fake.Calls()) < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("expected 3 concurrent calls, saw %d", len(fake.Calls()))
		}
		time.Sleep(time.Millisecond)
	}

	close(fake.Block)
	<-done
}
