package agentflow

import (
	"context"
	"fmt"

	"github.com/PabloGalante/soul-oracle/internal/domain"
)

// InsightAgent writes a short reflection on a journal entry.
type InsightAgent struct {
	llm     domain.Generator
	persona domain.Persona
}

func NewInsightAgent(llm domain.Generator, persona domain.Persona) *InsightAgent {
	return &InsightAgent{llm: llm, persona: persona}
}

func (a *InsightAgent) Name() string {
	return "insight:" + string(a.persona.ID)
}

func (a *InsightAgent) Persona() domain.PersonaID {
	return a.persona.ID
}

// InsightPrompt embeds the journal content and asks for a reply of at most 100 characters.
func InsightPrompt(persona domain.Persona, content string) string {
	return fmt.Sprintf(
		"這是我今天的日記內容：「%s」。請以%s的身分，針對這篇日記給我簡短的點評與建議。字數請控制在 100 字以內。",
		content, persona.DisplayName,
	)
}

func (a *InsightAgent) Run(ctx context.Context, in AgentInput) (AgentOutput, error) {
	turns := []domain.Turn{{Role: domain.RoleUser, Text: InsightPrompt(a.persona, in.Text)}}

	reply, err := a.llm.Generate(ctx, a.persona.SystemInstruction, turns, domain.GenerateOptions{
		Temperature: float32Ptr(0.7),
	})
	if err != nil {
		return AgentOutput{}, err
	}

	return AgentOutput{
		PersonaID: a.persona.ID,
		Reply:     reply,
	}, nil
}

// NewInsightAgents returns one insight agent per non-council persona, in fixed order.
func NewInsightAgents(llm domain.Generator) []Agent {
	ids := domain.InsightPersonas()
	agents := make([]Agent, 0, len(ids))
	for _, id := range ids {
		agents = append(agents, NewInsightAgent(llm, domain.MustLookup(id)))
	}
	return agents
}
