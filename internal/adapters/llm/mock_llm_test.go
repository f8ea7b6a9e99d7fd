package llm_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/PabloGalante/soul-oracle/internal/adapters/llm"
	"github.com/PabloGalante/soul-oracle/internal/domain"
)

func TestMockLLMEchoesLastTurn(t *testing.T) {
	m := llm.NewMockLLM()

	out, err := m.Generate(context.Background(), "sys", []domain.Turn{{Role: domain.RoleUser, Text: "你好"}}, domain.GenerateOptions{})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !strings.Contains(out, "你好") {
		t.Fatalf("expected echo of last turn, got %q", out)
	}
}

func TestMockLLMHonoursShape(t *testing.T) {
	m := llm.NewMockLLM()
	shape := &domain.ObjectShape{Fields: []string{"emotion", "zodiac", "numerology"}}

	out, err := m.Generate(context.Background(), "sys", nil, domain.GenerateOptions{Shape: shape})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	var got map[string]string
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("expected JSON, got %q: %v", out, err)
	}
	for _, f := range shape.Fields {
		if got[f] == "" {
			t.Fatalf("field %s missing in %q", f, out)
		}
	}
}

func TestMockLLMCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := llm.NewMockLLM().Generate(ctx, "sys", nil, domain.GenerateOptions{})
	if !errors.Is(err, domain.ErrRemote) {
		t.Fatalf("expected ErrRemote, got %v", err)
	}
}
