// Package solver implements a time-boxed local-search solver for capacitated
// vehicle routing instances. It trades optimality for predictable behavior:
// construction heuristics build a feasible starting point and a metaheuristic
// improves it until the budget runs out.
package solver

import (
	"context"
	"math/rand"
	"time"
)

// FirstSolution selects the construction heuristic.
type FirstSolution int

const (
	CheapestArc FirstSolution = iota
	Savings
	Sweep
)

func (f FirstSolution) String() string {
	switch f {
	case CheapestArc:
		return "cheapest-arc"
	case Savings:
		return "savings"
	case Sweep:
		return "sweep"
	}
	return "unknown"
}

// Metaheuristic selects the improvement scheme applied after construction.
type Metaheuristic int

const (
	GuidedLocalSearch Metaheuristic = iota
	SimulatedAnnealing
	TabuSearch
)

func (m Metaheuristic) String() string {
	switch m {
	case GuidedLocalSearch:
		return "guided-local-search"
	case SimulatedAnnealing:
		return "simulated-annealing"
	case TabuSearch:
		return "tabu-search"
	}
	return "unknown"
}

// Strategy is one (construction, improvement, budget) attempt configuration.
type Strategy struct {
	Name   string
	First  FirstSolution
	Meta   Metaheuristic
	Budget time.Duration
}

// Demand is the per-node load across constrained dimensions.
type Demand struct {
	Weight float64
	Volume float64
}

// Node is one location of the instance. Index 0 is always the depot with
// zero demand.
type Node struct {
	Demand  Demand
	Bearing float64 // angle from the depot, consumed by the sweep heuristic
}

// Vehicle bounds one route. A negative capacity means the dimension is
// unbounded for this vehicle. Overflow marks the synthetic vehicle that
// guarantees a complete solution exists; its routes are never emitted to
// callers.
type Vehicle struct {
	CapWeight float64
	CapVolume float64
	FixedCost float64
	Overflow  bool
}

// Problem is a solver-ready capacitated routing instance.
type Problem struct {
	Nodes    []Node
	Vehicles []Vehicle

	// ArcCost returns the travel cost from node i to node j for vehicle v.
	// Implementations return 0 when either endpoint is the depot.
	ArcCost func(i, j, v int) float64

	CheckWeight bool
	CheckVolume bool
}

// Solution assigns every non-depot node to exactly one vehicle route.
// Routes are parallel to Problem.Vehicles and exclude the depot endpoints.
type Solution struct {
	Routes [][]int
	Cost   float64
}

// Solve constructs an initial assignment with the strategy's first-solution
// heuristic and improves it until the time budget or the context expires.
// The boolean result is false when no complete feasible assignment was found
// within the budget; exhaustion is an expected outcome, not an error.
func Solve(ctx context.Context, p Problem, s Strategy) (Solution, bool) {
	if len(p.Nodes) <= 1 {
		return Solution{Routes: make([][]int, len(p.Vehicles))}, true
	}

	deadline := time.Now().Add(s.Budget)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	// Deterministic seed keeps repeated requests reproducible.
	rng := rand.New(rand.NewSource(int64(len(p.Nodes))*7919 + int64(len(p.Vehicles))))

	sol, complete := construct(p, s.First)
	if !complete {
		return Solution{}, false
	}
	sol.Cost = totalCost(p, sol)

	sol = improve(ctx, p, sol, s.Meta, deadline, rng)

	if !feasible(p, sol) {
		return Solution{}, false
	}
	return sol, true
}

// totalCost sums arc costs of every route plus the fixed cost of each
// vehicle that serves at least one node.
func totalCost(p Problem, s Solution) float64 {
	total := 0.0
	for vi, route := range s.Routes {
		if len(route) == 0 {
			continue
		}
		total += p.Vehicles[vi].FixedCost
		prev := 0
		for _, n := range route {
			total += p.ArcCost(prev, n, vi)
			prev = n
		}
		total += p.ArcCost(prev, 0, vi)
	}
	return total
}

func routeLoad(p Problem, route []int) Demand {
	var d Demand
	for _, n := range route {
		d.Weight += p.Nodes[n].Demand.Weight
		d.Volume += p.Nodes[n].Demand.Volume
	}
	return d
}

// fits reports whether adding extra to load stays within the vehicle's
// active capacity bounds.
func fits(p Problem, v Vehicle, load, extra Demand) bool {
	if p.CheckWeight && v.CapWeight >= 0 && load.Weight+extra.Weight > v.CapWeight {
		return false
	}
	if p.CheckVolume && v.CapVolume >= 0 && load.Volume+extra.Volume > v.CapVolume {
		return false
	}
	return true
}

// feasible verifies the solution covers every non-depot node exactly once
// within capacity bounds.
func feasible(p Problem, s Solution) bool {
	seen := make([]bool, len(p.Nodes))
	for vi, route := range s.Routes {
		load := routeLoad(p, route)
		if !fits(p, p.Vehicles[vi], load, Demand{}) {
			return false
		}
		for _, n := range route {
			if n == 0 || seen[n] {
				return false
			}
			seen[n] = true
		}
	}
	for n := 1; n < len(p.Nodes); n++ {
		if !seen[n] {
			return false
		}
	}
	return true
}
