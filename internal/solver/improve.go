package solver

import (
	"context"
	"math"
	"math/rand"
	"time"
)

const (
	moveRelocate = iota
	moveSwap
	moveTwoOpt
)

type move struct {
	kind   int
	va, ia int // source route and position
	vb, ib int // target route and position (2-opt: segment end in va)
}

// improve runs the selected metaheuristic over relocate, swap and intra-route
// 2-opt neighborhoods until the deadline. The best complete feasible solution
// found is returned; the input solution is returned unchanged when no move
// helps.
func improve(ctx context.Context, p Problem, start Solution, meta Metaheuristic, deadline time.Time, rng *rand.Rand) Solution {
	switch meta {
	case SimulatedAnnealing:
		return annealing(ctx, p, start, deadline, rng)
	case TabuSearch:
		return tabu(ctx, p, start, deadline, rng)
	default:
		return guided(ctx, p, start, deadline, rng)
	}
}

func expired(ctx context.Context, deadline time.Time) bool {
	if ctx.Err() != nil {
		return true
	}
	return !time.Now().Before(deadline)
}

// randomMove draws one candidate move over the current solution.
func randomMove(s Solution, rng *rand.Rand) (move, bool) {
	nonEmpty := make([]int, 0, len(s.Routes))
	for vi, r := range s.Routes {
		if len(r) > 0 {
			nonEmpty = append(nonEmpty, vi)
		}
	}
	if len(nonEmpty) == 0 {
		return move{}, false
	}

	kind := rng.Intn(3)
	va := nonEmpty[rng.Intn(len(nonEmpty))]
	ia := rng.Intn(len(s.Routes[va]))

	switch kind {
	case moveRelocate:
		vb := rng.Intn(len(s.Routes))
		ib := 0
		if n := len(s.Routes[vb]); n > 0 {
			ib = rng.Intn(n + 1)
		}
		return move{kind: kind, va: va, ia: ia, vb: vb, ib: ib}, true
	case moveSwap:
		vb := nonEmpty[rng.Intn(len(nonEmpty))]
		ib := rng.Intn(len(s.Routes[vb]))
		if va == vb && ia == ib {
			return move{}, false
		}
		return move{kind: kind, va: va, ia: ia, vb: vb, ib: ib}, true
	default: // 2-opt within va
		if len(s.Routes[va]) < 3 {
			return move{}, false
		}
		ib := rng.Intn(len(s.Routes[va]))
		if ia == ib {
			return move{}, false
		}
		if ia > ib {
			ia, ib = ib, ia
		}
		return move{kind: moveTwoOpt, va: va, ia: ia, vb: va, ib: ib}, true
	}
}

// apply returns the solution after the move, or false when the move violates
// a capacity bound. Untouched routes are shared with the input.
func apply(p Problem, s Solution, m move) (Solution, bool) {
	out := Solution{Routes: make([][]int, len(s.Routes))}
	copy(out.Routes, s.Routes)

	switch m.kind {
	case moveRelocate:
		node := s.Routes[m.va][m.ia]
		src := make([]int, 0, len(s.Routes[m.va])-1)
		src = append(src, s.Routes[m.va][:m.ia]...)
		src = append(src, s.Routes[m.va][m.ia+1:]...)

		var base []int
		if m.va == m.vb {
			base = src
		} else {
			base = s.Routes[m.vb]
		}
		ib := m.ib
		if ib > len(base) {
			ib = len(base)
		}
		dst := make([]int, 0, len(base)+1)
		dst = append(dst, base[:ib]...)
		dst = append(dst, node)
		dst = append(dst, base[ib:]...)

		if m.va == m.vb {
			out.Routes[m.va] = dst
		} else {
			if !fits(p, p.Vehicles[m.vb], routeLoad(p, base), p.Nodes[node].Demand) {
				return Solution{}, false
			}
			out.Routes[m.va] = src
			out.Routes[m.vb] = dst
		}

	case moveSwap:
		a := s.Routes[m.va][m.ia]
		b := s.Routes[m.vb][m.ib]
		ra := append([]int(nil), s.Routes[m.va]...)
		rb := ra
		if m.va != m.vb {
			rb = append([]int(nil), s.Routes[m.vb]...)
		}
		ra[m.ia] = b
		rb[m.ib] = a
		if m.va != m.vb {
			if !fits(p, p.Vehicles[m.va], routeLoad(p, ra), Demand{}) ||
				!fits(p, p.Vehicles[m.vb], routeLoad(p, rb), Demand{}) {
				return Solution{}, false
			}
			out.Routes[m.vb] = rb
		}
		out.Routes[m.va] = ra

	case moveTwoOpt:
		r := append([]int(nil), s.Routes[m.va]...)
		for lo, hi := m.ia, m.ib; lo < hi; lo, hi = lo+1, hi-1 {
			r[lo], r[hi] = r[hi], r[lo]
		}
		out.Routes[m.va] = r
	}
	return out, true
}

// guided is a guided-local-search style loop: steepest descent over sampled
// moves with penalty-augmented costs, penalizing the most expensive arcs of
// the current solution whenever the search stalls.
func guided(ctx context.Context, p Problem, start Solution, deadline time.Time, rng *rand.Rand) Solution {
	const lambda = 0.15
	penalty := map[[2]int]float64{}

	augArc := func(i, j, v int) float64 {
		a, b := i, j
		if a > b {
			a, b = b, a
		}
		return p.ArcCost(i, j, v) + lambda*penalty[[2]int{a, b}]
	}
	augCost := func(s Solution) float64 {
		total := 0.0
		for vi, route := range s.Routes {
			if len(route) == 0 {
				continue
			}
			total += p.Vehicles[vi].FixedCost
			prev := 0
			for _, n := range route {
				total += augArc(prev, n, vi)
				prev = n
			}
			total += augArc(prev, 0, vi)
		}
		return total
	}

	curr := start
	currAug := augCost(curr)
	best := start
	best.Cost = totalCost(p, start)

	stall := 0
	for it := 0; ; it++ {
		if it%64 == 0 && expired(ctx, deadline) {
			break
		}

		m, ok := randomMove(curr, rng)
		if !ok {
			continue
		}
		cand, ok := apply(p, curr, m)
		if !ok {
			continue
		}
		candAug := augCost(cand)
		if candAug < currAug {
			curr, currAug = cand, candAug
			if c := totalCost(p, cand); c < best.Cost && feasible(p, cand) {
				best = cand
				best.Cost = c
			}
			stall = 0
			continue
		}

		stall++
		if stall >= 200 {
			penalizeWorstArc(p, curr, penalty)
			currAug = augCost(curr)
			stall = 0
		}
	}
	return best
}

// penalizeWorstArc bumps the penalty of the arc with the highest
// cost-to-penalty utility in the current solution.
func penalizeWorstArc(p Problem, s Solution, penalty map[[2]int]float64) {
	bestUtil := -1.0
	var bestKey [2]int
	for vi, route := range s.Routes {
		prev := 0
		for k := 0; k <= len(route); k++ {
			next := 0
			if k < len(route) {
				next = route[k]
			}
			a, b := prev, next
			if a > b {
				a, b = b, a
			}
			key := [2]int{a, b}
			util := p.ArcCost(prev, next, vi) / (1 + penalty[key])
			if util > bestUtil {
				bestUtil = util
				bestKey = key
			}
			prev = next
		}
	}
	if bestUtil > 0 {
		penalty[bestKey]++
	}
}

// annealing accepts worsening moves with a probability that decays over
// time, cooling each iteration.
func annealing(ctx context.Context, p Problem, start Solution, deadline time.Time, rng *rand.Rand) Solution {
	curr := start
	curr.Cost = totalCost(p, start)
	best := curr

	temp := curr.Cost * 0.1
	if temp <= 0 {
		temp = 1
	}
	const cooling = 0.997

	for it := 0; ; it++ {
		if it%64 == 0 && expired(ctx, deadline) {
			break
		}

		m, ok := randomMove(curr, rng)
		if !ok {
			continue
		}
		cand, ok := apply(p, curr, m)
		if !ok {
			continue
		}
		cand.Cost = totalCost(p, cand)

		delta := cand.Cost - curr.Cost
		if delta < 0 || rng.Float64() < math.Exp(-delta/(temp+1e-9)) {
			curr = cand
			if curr.Cost < best.Cost && feasible(p, curr) {
				best = curr
			}
		}
		temp *= cooling
	}
	return best
}

// tabu samples a batch of moves each iteration, applies the best one whose
// moved node is not tabu, and forbids moving that node again for a fixed
// tenure.
func tabu(ctx context.Context, p Problem, start Solution, deadline time.Time, rng *rand.Rand) Solution {
	const (
		batch  = 24
		tenure = 16
	)
	curr := start
	curr.Cost = totalCost(p, start)
	best := curr

	tabuUntil := map[int]int{}

	for it := 0; ; it++ {
		if it%16 == 0 && expired(ctx, deadline) {
			break
		}

		var bestCand Solution
		bestCost := math.MaxFloat64
		bestNode := -1
		for k := 0; k < batch; k++ {
			m, ok := randomMove(curr, rng)
			if !ok {
				continue
			}
			node := curr.Routes[m.va][m.ia]
			cand, ok := apply(p, curr, m)
			if !ok {
				continue
			}
			cand.Cost = totalCost(p, cand)
			// Aspiration: a new global best overrides the tabu list.
			if tabuUntil[node] > it && cand.Cost >= best.Cost {
				continue
			}
			if cand.Cost < bestCost {
				bestCand, bestCost, bestNode = cand, cand.Cost, node
			}
		}
		if bestNode < 0 {
			continue
		}

		curr = bestCand
		tabuUntil[bestNode] = it + tenure
		if curr.Cost < best.Cost && feasible(p, curr) {
			best = curr
		}
	}
	return best
}
