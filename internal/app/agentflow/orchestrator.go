package agentflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/PabloGalante/soul-oracle/internal/observability"
)

// Result is the outcome of one agent inside a parallel run.
type Result struct {
	Agent  string
	Output AgentOutput
	Err    error
}

// Orchestrator is responsible for running multiple agents together.
type Orchestrator struct {
	agents []Agent
}

func NewOrchestrator(agents ...Agent) *Orchestrator {
	return &Orchestrator{agents: agents}
}

// RunParallel starts every agent concurrently with the same input and waits
// for all of them. Results keep the agents' order; a failing agent only
// fails its own slot.
func (o *Orchestrator) RunParallel(ctx context.Context, in AgentInput) ([]Result, error) {
	if len(o.agents) == 0 {
		return nil, fmt.Errorf("no agents configured in orchestrator")
	}

	log := observability.LoggerFromContext(ctx)
	log.Info("orchestrator started", "agents_count", len(o.agents))

	var wg sync.WaitGroup
	results := make([]Result, len(o.agents))

	for i, ag := range o.agents {
		wg.Add(1)
		go func(idx int, ag Agent) {
			defer wg.Done()

			start := time.Now()
			out, err := ag.Run(ctx, in)
			results[idx] = Result{Agent: ag.Name(), Output: out, Err: err}

			elapsed := time.Since(start)
			if err != nil {
				log.Error("agent failed", "agent", ag.Name(), "error", err, "elapsed_ms", elapsed.Milliseconds())
				return
			}
			log.Info("agent run end", "agent", ag.Name(), "elapsed_ms", elapsed.Milliseconds())
		}(i, ag)
	}

	wg.Wait()
	log.Info("orchestrator end")
	return results, nil
}
