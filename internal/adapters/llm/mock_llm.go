package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/PabloGalante/soul-oracle/internal/domain"
)

// MockLLM answers without any network call, useful for local mode.
type MockLLM struct{}

func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

func (m *MockLLM) Generate(
	ctx context.Context,
	systemInstruction string,
	turns []domain.Turn,
	opts domain.GenerateOptions,
) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrRemote, err)
	}

	last := ""
	if len(turns) > 0 {
		last = turns[len(turns)-1].Text
	}

	if opts.Shape != nil {
		reply := make(map[string]string, len(opts.Shape.Fields))
		for _, f := range opts.Shape.Fields {
			reply[f] = fmt.Sprintf("[%s] 我聽見你說：%s", f, last)
		}
		data, err := json.Marshal(reply)
		if err != nil {
			return "", fmt.Errorf("%w: %w", domain.ErrRemote, err)
		}
		return string(data), nil
	}

	return fmt.Sprintf("我聽見你說「%s」。多告訴我一些，這讓你有什麼感受？", last), nil
}
