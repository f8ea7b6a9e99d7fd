package agentflow

import (
	"context"

	"github.com/PabloGalante/soul-oracle/internal/domain"
)

// CouncilShape is the structured reply the council asks for, one field per expert.
var CouncilShape = domain.ObjectShape{
	Name:   "council_reply",
	Fields: []string{"emotion", "zodiac", "numerology"},
}

// CouncilAgent asks for all three experts' replies in one structured call.
// The raw JSON text is returned unparsed.
type CouncilAgent struct {
	llm     domain.Generator
	persona domain.Persona
}

func NewCouncilAgent(llm domain.Generator) *CouncilAgent {
	return &CouncilAgent{
		llm:     llm,
		persona: domain.MustLookup(domain.PersonaCouncil),
	}
}

func (a *CouncilAgent) Name() string {
	return "council"
}

func (a *CouncilAgent) Persona() domain.PersonaID {
	return domain.PersonaCouncil
}

func (a *CouncilAgent) Run(ctx context.Context, in AgentInput) (AgentOutput, error) {
	shape := CouncilShape
	reply, err := a.llm.Generate(ctx, a.persona.SystemInstruction, in.Turns, domain.GenerateOptions{
		Shape: &shape,
	})
	if err != nil {
		return AgentOutput{}, err
	}

	return AgentOutput{
		PersonaID: domain.PersonaCouncil,
		Reply:     reply,
	}, nil
}
