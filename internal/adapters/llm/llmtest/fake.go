// Package llmtest provides a scriptable domain.Generator for tests.
package llmtest

import (
	"context"
	"fmt"
	"sync"

	"github.com/PabloGalante/soul-oracle/internal/domain"
)

// Call records one Generate invocation.
type Call struct {
	SystemInstruction string
	Turns             []domain.Turn
	Opts              domain.GenerateOptions
}

// Reply is the scripted answer for a system instruction.
type Reply struct {
	Text string
	Err  error
}

// Fake answers by system instruction. Unscripted instructions get Default.
type Fake struct {
	mu      sync.Mutex
	replies map[string]Reply
	Default Reply
	calls   []Call

	// Block, when set, is waited on before answering.
	Block chan struct{}
}

func New() *Fake {
	return &Fake{replies: make(map[string]Reply)}
}

// On scripts the reply for a persona's system instruction.
func (f *Fake) On(id domain.PersonaID, text string) *Fake {
	return f.set(id, Reply{Text: text})
}

// Fail scripts a remote failure for a persona's system instruction.
func (f *Fake) Fail(id domain.PersonaID) *Fake {
	return f.set(id, Reply{Err: fmt.Errorf("%w: scripted failure", domain.ErrRemote)})
}

func (f *Fake) set(id domain.PersonaID, r Reply) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies[domain.MustLookup(id).SystemInstruction] = r
	return f
}

func (f *Fake) Generate(ctx context.Context, system string, turns []domain.Turn, opts domain.GenerateOptions) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, Call{
		SystemInstruction: system,
		Turns:             append([]domain.Turn(nil), turns...),
		Opts:              opts,
	})
	r, ok := f.replies[system]
	if !ok {
		r = f.Default
	}
	block := f.Block
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %w", domain.ErrRemote, ctx.Err())
		}
	}

	if r.Err != nil {
		return "", r.Err
	}
	if r.Text == "" {
		return "", fmt.Errorf("%w: empty text", domain.ErrRemote)
	}
	return r.Text, nil
}

// Calls returns a copy of the recorded calls.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}
