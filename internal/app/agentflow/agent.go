package agentflow

import (
	"context"

	"github.com/PabloGalante/soul-oracle/internal/domain"
)

// AgentInput carries what an agent needs for one generation.
// Chat agents read Turns; insight agents read Text.
type AgentInput struct {
	Turns []domain.Turn
	Text  string
}

// AgentOutput is the raw text produced by an agent.
type AgentOutput struct {
	PersonaID domain.PersonaID
	Reply     string
}

// Agent produces one reply for one persona.
type Agent interface {
	Name() string
	Persona() domain.PersonaID
	Run(ctx context.Context, in AgentInput) (AgentOutput, error)
}

func float32Ptr(v float32) *float32 {
	return &v
}
