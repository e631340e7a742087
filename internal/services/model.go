package services

import (
	"context"

	"smartrouting/internal/domain"
	"smartrouting/internal/solver"
)

const (
	// Fixed-cost spacing between consecutive real vehicles, so vehicle 0
	// fills before vehicle 1 when routes cost the same.
	vehicleFixedCostStep = 1000.0

	// Overflow vehicle costs. Large enough that no feasible real-vehicle
	// assignment ever loses to the overflow vehicle.
	overflowArcCost   = 1e9
	overflowFixedCost = 1e12
)

// Model is a solver-ready routing instance plus the mappings needed to
// interpret a solution.
type Model struct {
	Problem solver.Problem

	// Orders maps node index to prepared order; index 0 is the depot.
	Orders []PreparedOrder

	// Vehicles maps problem vehicle index to the fleet vehicle. The
	// overflow slot, when present, is the final index and has no fleet
	// vehicle.
	Vehicles    []domain.Vehicle
	HasOverflow bool
}

// BuildModel assembles the capacitated routing instance: one node per
// prepared order (depot first), one problem vehicle per fleet vehicle, plus
// a synthetic overflow vehicle when requested. Arc costs go through the
// resolver and are memoized per request, and depot arcs are free so route
// cost reflects inter-stop travel only.
func BuildModel(
	ctx context.Context,
	resolver *DistanceResolver,
	prepared Prepared,
	vehicles []domain.Vehicle,
	constraints domain.Constraint,
	includeOverflow bool,
) *Model {
	m := &Model{
		Orders:      prepared.Orders,
		Vehicles:    vehicles,
		HasOverflow: includeOverflow,
	}

	nodes := make([]solver.Node, len(prepared.Orders))
	for i, po := range prepared.Orders {
		if po.Depot {
			continue
		}
		nodes[i] = solver.Node{
			Demand:  solver.Demand{Weight: po.Order.Weight, Volume: po.Order.Volume},
			Bearing: domain.Bearing(*prepared.Depot.Location, *po.Address.Location),
		}
	}

	checkWeight := constraints.Weight != domain.FillDisabled
	checkVolume := constraints.Volume != domain.FillDisabled

	pv := make([]solver.Vehicle, 0, len(vehicles)+1)
	for i, v := range vehicles {
		sv := solver.Vehicle{
			CapWeight: -1,
			CapVolume: -1,
			FixedCost: vehicleFixedCostStep * float64(i),
		}
		if c, ok := v.CapacityFor(domain.DimWeight, constraints.Weight); ok {
			sv.CapWeight = c
		}
		if c, ok := v.CapacityFor(domain.DimVolume, constraints.Volume); ok {
			sv.CapVolume = c
		}
		pv = append(pv, sv)
	}
	if includeOverflow {
		pv = append(pv, solver.Vehicle{
			CapWeight: -1,
			CapVolume: -1,
			FixedCost: overflowFixedCost,
			Overflow:  true,
		})
	}

	overflowIdx := len(pv) - 1
	orders := prepared.Orders
	m.Problem = solver.Problem{
		Nodes:       nodes,
		Vehicles:    pv,
		CheckWeight: checkWeight,
		CheckVolume: checkVolume,
		ArcCost: func(i, j, v int) float64 {
			if i == j || i == 0 || j == 0 {
				return 0
			}
			if includeOverflow && v == overflowIdx {
				return overflowArcCost
			}
			d, err := resolver.Distance(ctx, orders[i].Address, orders[j].Address)
			if err != nil {
				// Prepared orders always carry coordinates, so this is a
				// can't-happen guard; make such arcs unattractive.
				return overflowArcCost
			}
			return d
		},
	}
	return m
}

// OverflowRoute returns the node indices the solution parked on the
// overflow vehicle, or nil when the model has none.
func (m *Model) OverflowRoute(sol solver.Solution) []int {
	if !m.HasOverflow {
		return nil
	}
	return sol.Routes[len(sol.Routes)-1]
}

// RealRoutes returns the per-fleet-vehicle routes of a solution, excluding
// the overflow slot.
func (m *Model) RealRoutes(sol solver.Solution) [][]int {
	if m.HasOverflow {
		return sol.Routes[:len(sol.Routes)-1]
	}
	return sol.Routes
}
