package agentflow

import (
	"context"

	"github.com/PabloGalante/soul-oracle/internal/domain"
	"github.com/PabloGalante/soul-oracle/internal/observability"
)

// ChatAgent answers a conversation in a single persona's voice.
type ChatAgent struct {
	llm     domain.Generator
	persona domain.Persona
}

func NewChatAgent(llm domain.Generator, persona domain.Persona) *ChatAgent {
	return &ChatAgent{llm: llm, persona: persona}
}

func (a *ChatAgent) Name() string {
	return "chat:" + string(a.persona.ID)
}

func (a *ChatAgent) Persona() domain.PersonaID {
	return a.persona.ID
}

func (a *ChatAgent) Run(ctx context.Context, in AgentInput) (AgentOutput, error) {
	reply, err := a.llm.Generate(ctx, a.persona.SystemInstruction, in.Turns, domain.GenerateOptions{
		Temperature: float32Ptr(0.8),
		TopP:        float32Ptr(0.95),
	})
	if err != nil {
		observability.LoggerFromContext(ctx).Error("chat agent error", "agent", a.Name(), "error", err)
		return AgentOutput{}, err
	}

	return AgentOutput{
		PersonaID: a.persona.ID,
		Reply:     reply,
	}, nil
}
