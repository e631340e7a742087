package services

import (
	"testing"

	"smartrouting/internal/domain"
)

func pendingOrder(id int, weight, volume float64) PreparedOrder {
	return PreparedOrder{
		Order:   domain.DeliveryOrder{ID: id, AddressID: id, Weight: weight, Volume: volume},
		Address: addr(id, nearPoint),
	}
}

func TestGreedyAssignFillsHeaviestFirst(t *testing.T) {
	vehicles := testFleet() // recommended weights 10 and 5
	pending := []PreparedOrder{
		pendingOrder(10, 2, 0.1),
		pendingOrder(11, 7, 0.2),
		pendingOrder(12, 4, 0.1),
	}
	constraints := domain.Constraint{Weight: domain.FillRecommended, Volume: domain.FillRecommended}

	routes, leftover := greedyAssign(vehicles, pending, constraints)
	if len(leftover) != 0 {
		t.Fatalf("leftover = %v, want none", leftover)
	}

	// Vehicle 1 (budget 10) takes 7 then 2; 4 no longer fits and goes to
	// vehicle 2 (budget 5).
	if got := orderIDs(routes[0]); len(got) != 2 || got[0] != 11 || got[1] != 10 {
		t.Fatalf("vehicle 1 orders = %v, want [11 10]", got)
	}
	if got := orderIDs(routes[1]); len(got) != 1 || got[0] != 12 {
		t.Fatalf("vehicle 2 orders = %v, want [12]", got)
	}
}

func TestGreedyAssignLeftover(t *testing.T) {
	vehicles := testFleet()[:1] // single vehicle, recommended weight 10
	pending := []PreparedOrder{
		pendingOrder(10, 8, 0.1),
		pendingOrder(11, 8, 0.1),
	}
	constraints := domain.Constraint{Weight: domain.FillRecommended, Volume: domain.FillRecommended}

	routes, leftover := greedyAssign(vehicles, pending, constraints)
	if len(routes[0]) != 1 {
		t.Fatalf("vehicle 1 orders = %d, want 1", len(routes[0]))
	}
	if len(leftover) != 1 {
		t.Fatalf("leftover = %d, want 1", len(leftover))
	}
}

func TestGreedyAssignCutoffStopsNearFullVehicle(t *testing.T) {
	// Residual weight budget below the cutoff stops the vehicle even for
	// orders that would still fit.
	vehicles := []domain.Vehicle{
		{ID: 1, WeightRecommended: 0.8, VolumeRecommended: 10},
	}
	pending := []PreparedOrder{pendingOrder(10, 0.5, 0.1)}
	constraints := domain.Constraint{Weight: domain.FillRecommended, Volume: domain.FillRecommended}

	routes, leftover := greedyAssign(vehicles, pending, constraints)
	if len(routes[0]) != 0 {
		t.Fatalf("vehicle 1 orders = %v, want none below the cutoff", routes[0])
	}
	if len(leftover) != 1 {
		t.Fatalf("leftover = %d, want 1", len(leftover))
	}
}

func TestGreedyAssignDeterministicTieBreak(t *testing.T) {
	vehicles := testFleet()[:1]
	pending := []PreparedOrder{
		pendingOrder(12, 3, 0.1),
		pendingOrder(10, 3, 0.1),
		pendingOrder(11, 3, 0.1),
	}
	constraints := domain.Constraint{Weight: domain.FillRecommended, Volume: domain.FillRecommended}

	routes, _ := greedyAssign(vehicles, pending, constraints)
	got := orderIDs(routes[0])
	if len(got) != 3 || got[0] != 10 || got[1] != 11 || got[2] != 12 {
		t.Fatalf("orders = %v, want ids ascending on equal demand", got)
	}
}

func orderIDs(route []PreparedOrder) []int {
	ids := make([]int, 0, len(route))
	for _, po := range route {
		ids = append(ids, po.Order.ID)
	}
	return ids
}
