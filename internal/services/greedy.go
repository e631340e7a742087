package services

import (
	"sort"

	"smartrouting/internal/domain"
)

// Cutoffs below which a vehicle stops accepting orders. They prevent
// thrashing on near-zero residual capacity.
const (
	greedyWeightCutoff = 1.0
	greedyVolumeCutoff = 0.1
)

// greedyAssign is the deterministic fallback used when every search strategy
// is exhausted. Orders are sorted descending by weight+volume and each
// vehicle, in pool order, accepts orders from the front of the remainder
// while they fit its policy-selected budget. Stops keep the sorted order;
// no distance re-optimization is attempted.
//
// The returned routes are parallel to vehicles. Orders accepted by no
// vehicle are returned as leftover, still in sorted order. Leftovers are
// not labeled unroutable here: the scheduler keeps them pending for later
// trips, where freshly emptied vehicles may still take them, and only its
// no-progress guard declares them NoVehicleAvailable.
func greedyAssign(
	vehicles []domain.Vehicle,
	pending []PreparedOrder,
	constraints domain.Constraint,
) (routes [][]PreparedOrder, leftover []PreparedOrder) {
	sorted := append([]PreparedOrder(nil), pending...)
	sort.SliceStable(sorted, func(a, b int) bool {
		da := sorted[a].Order.Weight + sorted[a].Order.Volume
		db := sorted[b].Order.Weight + sorted[b].Order.Volume
		if da != db {
			return da > db
		}
		return sorted[a].Order.ID < sorted[b].Order.ID
	})

	routes = make([][]PreparedOrder, len(vehicles))
	for vi, v := range vehicles {
		weightBudget, weightBound := v.CapacityFor(domain.DimWeight, constraints.Weight)
		volumeBudget, volumeBound := v.CapacityFor(domain.DimVolume, constraints.Volume)

		rest := sorted[:0:0]
		for _, po := range sorted {
			if weightBound && weightBudget < greedyWeightCutoff {
				rest = append(rest, po)
				continue
			}
			if volumeBound && volumeBudget < greedyVolumeCutoff {
				rest = append(rest, po)
				continue
			}
			if (weightBound && po.Order.Weight > weightBudget) ||
				(volumeBound && po.Order.Volume > volumeBudget) {
				rest = append(rest, po)
				continue
			}

			routes[vi] = append(routes[vi], po)
			if weightBound {
				weightBudget -= po.Order.Weight
			}
			if volumeBound {
				volumeBudget -= po.Order.Volume
			}
		}
		sorted = rest
	}

	return routes, sorted
}
