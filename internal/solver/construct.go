package solver

import (
	"math"
	"sort"
)

// construct builds an initial complete assignment with the selected
// heuristic. The second return is false when some node could not be placed
// on any vehicle, which only happens when the instance has no overflow
// vehicle and real capacity is insufficient.
func construct(p Problem, first FirstSolution) (Solution, bool) {
	switch first {
	case Savings:
		return constructSavings(p)
	case Sweep:
		return constructSweep(p)
	default:
		return constructCheapestArc(p)
	}
}

// constructCheapestArc appends, per vehicle in fixed-cost order, the
// cheapest still-unassigned node that fits. Mirrors a path-cheapest-arc
// first solution: each route grows by its locally cheapest extension.
func constructCheapestArc(p Problem) (Solution, bool) {
	n := len(p.Nodes)
	used := make([]bool, n)
	used[0] = true
	remaining := n - 1

	sol := Solution{Routes: make([][]int, len(p.Vehicles))}
	loads := make([]Demand, len(p.Vehicles))

	for remaining > 0 {
		progress := false
		for vi := range p.Vehicles {
			// Overflow only accepts nodes no real vehicle could take.
			if p.Vehicles[vi].Overflow {
				continue
			}
			last := 0
			if r := sol.Routes[vi]; len(r) > 0 {
				last = r[len(r)-1]
			}

			best, bestCost := -1, math.MaxFloat64
			for i := 1; i < n; i++ {
				if used[i] {
					continue
				}
				if !fits(p, p.Vehicles[vi], loads[vi], p.Nodes[i].Demand) {
					continue
				}
				c := p.ArcCost(last, i, vi)
				if c < bestCost {
					bestCost = c
					best = i
				}
			}
			if best < 0 {
				continue
			}

			sol.Routes[vi] = append(sol.Routes[vi], best)
			loads[vi].Weight += p.Nodes[best].Demand.Weight
			loads[vi].Volume += p.Nodes[best].Demand.Volume
			used[best] = true
			remaining--
			progress = true
			if remaining == 0 {
				break
			}
		}
		if progress {
			continue
		}

		if !spillToOverflow(p, &sol, used, &remaining) {
			return Solution{}, false
		}
	}
	return sol, true
}

// spillToOverflow moves every node that fits no real vehicle onto the first
// overflow vehicle. Returns false when the instance has none.
func spillToOverflow(p Problem, sol *Solution, used []bool, remaining *int) bool {
	ov := -1
	for vi := range p.Vehicles {
		if p.Vehicles[vi].Overflow {
			ov = vi
			break
		}
	}
	if ov < 0 {
		return false
	}
	for i := 1; i < len(p.Nodes); i++ {
		if !used[i] {
			sol.Routes[ov] = append(sol.Routes[ov], i)
			used[i] = true
			*remaining--
		}
	}
	return true
}

// constructSavings orders node pairs by ascending inter-node cost and grows
// routes by merging the closest pairs first, in the spirit of Clarke-Wright
// savings over a cost matrix with free depot legs.
func constructSavings(p Problem) (Solution, bool) {
	n := len(p.Nodes)
	if n <= 1 {
		return Solution{Routes: make([][]int, len(p.Vehicles))}, true
	}

	type pair struct {
		i, j int
		cost float64
	}
	pairs := make([]pair, 0, (n-1)*(n-2)/2)
	for i := 1; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, pair{i: i, j: j, cost: p.ArcCost(i, j, 0)})
		}
	}
	sort.Slice(pairs, func(a, b int) bool {
		if pairs[a].cost != pairs[b].cost {
			return pairs[a].cost < pairs[b].cost
		}
		if pairs[a].i != pairs[b].i {
			return pairs[a].i < pairs[b].i
		}
		return pairs[a].j < pairs[b].j
	})

	// Seed clusters of closely-spaced nodes, then pack clusters onto
	// vehicles in order.
	cluster := make([]int, n)
	for i := range cluster {
		cluster[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		if cluster[x] != x {
			cluster[x] = find(cluster[x])
		}
		return cluster[x]
	}
	size := make([]int, n)
	for i := range size {
		size[i] = 1
	}
	maxCluster := (n - 1 + len(p.Vehicles) - 1) / len(p.Vehicles)
	if maxCluster < 2 {
		maxCluster = 2
	}
	for _, pr := range pairs {
		a, b := find(pr.i), find(pr.j)
		if a == b || size[a]+size[b] > maxCluster {
			continue
		}
		cluster[b] = a
		size[a] += size[b]
	}

	order := make([]int, 0, n-1)
	byCluster := map[int][]int{}
	roots := []int{}
	for i := 1; i < n; i++ {
		r := find(i)
		if len(byCluster[r]) == 0 {
			roots = append(roots, r)
		}
		byCluster[r] = append(byCluster[r], i)
	}
	sort.Ints(roots)
	for _, r := range roots {
		order = append(order, byCluster[r]...)
	}

	return packInOrder(p, order)
}

// constructSweep orders nodes by bearing from the depot and fills vehicles
// with contiguous angular sectors.
func constructSweep(p Problem) (Solution, bool) {
	n := len(p.Nodes)
	order := make([]int, 0, n-1)
	for i := 1; i < n; i++ {
		order = append(order, i)
	}
	sort.Slice(order, func(a, b int) bool {
		ba, bb := p.Nodes[order[a]].Bearing, p.Nodes[order[b]].Bearing
		if ba != bb {
			return ba < bb
		}
		return order[a] < order[b]
	})
	return packInOrder(p, order)
}

// packInOrder assigns nodes to vehicles in the given order, keeping each
// vehicle until its next node no longer fits. Nodes that fit no vehicle at
// their turn are retried against every vehicle before giving up.
func packInOrder(p Problem, order []int) (Solution, bool) {
	sol := Solution{Routes: make([][]int, len(p.Vehicles))}
	loads := make([]Demand, len(p.Vehicles))

	real := make([]int, 0, len(p.Vehicles))
	overflow := -1
	for vi := range p.Vehicles {
		if p.Vehicles[vi].Overflow {
			if overflow < 0 {
				overflow = vi
			}
			continue
		}
		real = append(real, vi)
	}

	cursor := 0
	for _, node := range order {
		placed := false
		for tries := 0; tries < len(real); tries++ {
			cand := real[(cursor+tries)%len(real)]
			if fits(p, p.Vehicles[cand], loads[cand], p.Nodes[node].Demand) {
				sol.Routes[cand] = append(sol.Routes[cand], node)
				loads[cand].Weight += p.Nodes[node].Demand.Weight
				loads[cand].Volume += p.Nodes[node].Demand.Volume
				cursor = (cursor + tries) % len(real)
				placed = true
				break
			}
		}
		if placed {
			continue
		}
		if overflow < 0 {
			return Solution{}, false
		}
		sol.Routes[overflow] = append(sol.Routes[overflow], node)
	}
	return sol, true
}
