package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"smartrouting/internal/config"
	"smartrouting/internal/metrics"
	"smartrouting/internal/solver"
)

// strategyLadder is the escalation order: cheapest expected solve first,
// broader metaheuristics and a longer last-resort budget after. budgetScale
// multiplies the instance-size budget for that rung.
type ladderRung struct {
	first       solver.FirstSolution
	meta        solver.Metaheuristic
	budgetScale float64
}

var defaultLadder = []ladderRung{
	{solver.CheapestArc, solver.GuidedLocalSearch, 1},
	{solver.CheapestArc, solver.SimulatedAnnealing, 1},
	{solver.Savings, solver.GuidedLocalSearch, 1},
	{solver.Sweep, solver.TabuSearch, 1},
	{solver.CheapestArc, solver.GuidedLocalSearch, 3}, // extended last resort
}

// strategiesFor expands the ladder into concrete strategies with budgets
// scaled by instance size. A solution-strategy preference moves the rungs
// starting with the preferred construction heuristic to the front, keeping
// their relative order.
func strategiesFor(cfg config.Engine, orders, vehicles int, preference string) []solver.Strategy {
	base := time.Duration(cfg.BudgetBaseMs+
		orders*cfg.BudgetPerOrderMs+
		vehicles*cfg.BudgetPerVehicleMs) * time.Millisecond

	preferred := preferredFirst(preference)

	rungs := make([]ladderRung, 0, len(defaultLadder))
	for _, r := range defaultLadder {
		if preferred != nil && r.first == *preferred {
			rungs = append(rungs, r)
		}
	}
	for _, r := range defaultLadder {
		if preferred == nil || r.first != *preferred {
			rungs = append(rungs, r)
		}
	}

	out := make([]solver.Strategy, 0, len(rungs))
	for _, r := range rungs {
		out = append(out, solver.Strategy{
			Name:   r.first.String() + "+" + r.meta.String(),
			First:  r.first,
			Meta:   r.meta,
			Budget: time.Duration(float64(base) * r.budgetScale),
		})
	}
	return out
}

func preferredFirst(preference string) *solver.FirstSolution {
	var f solver.FirstSolution
	switch strings.ToUpper(strings.TrimSpace(preference)) {
	case "CHEAPEST":
		f = solver.CheapestArc
	case "SAVINGS":
		f = solver.Savings
	case "SWEEP":
		f = solver.Sweep
	default:
		return nil
	}
	return &f
}

// escalate tries each strategy in order and returns the first feasible
// solution. The boolean result is false when every strategy was exhausted;
// callers treat that as a deliberate outcome and fall back to the greedy
// assigner.
func escalate(ctx context.Context, m *Model, strategies []solver.Strategy, log zerolog.Logger) (solver.Solution, bool) {
	for _, s := range strategies {
		start := time.Now()
		sol, ok := solver.Solve(ctx, m.Problem, s)
		dur := time.Since(start)

		if ok {
			log.Debug().
				Str("strategy", s.Name).
				Dur("took", dur).
				Float64("cost", sol.Cost).
				Msg("strategy found a solution")
			metrics.StrategyAttempts.WithLabelValues(s.Name, "solved").Inc()
			return sol, true
		}

		log.Debug().
			Str("strategy", s.Name).
			Dur("took", dur).
			Msg("strategy found no solution")
		metrics.StrategyAttempts.WithLabelValues(s.Name, "exhausted").Inc()

		if ctx.Err() != nil {
			break
		}
	}
	return solver.Solution{}, false
}
