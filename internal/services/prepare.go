package services

import (
	"context"
	"errors"
	"fmt"

	"smartrouting/internal/domain"
	"smartrouting/internal/ports"
)

// Fatal preparation errors. Everything else is reported per order.
var (
	ErrInvalidRequest = errors.New("vehicles and orders must be provided")
	ErrDepotNotFound  = errors.New("depot address not found")
)

// PreparedOrder pairs an order with its resolved address. Depot marks the
// synthetic order representing the depot itself.
type PreparedOrder struct {
	Order   domain.DeliveryOrder
	Address domain.Address
	Depot   bool
}

// Prepared is the validated input of one assignment run.
type Prepared struct {
	// Orders always has the synthetic zero-demand depot entry at index 0.
	Orders     []PreparedOrder
	Depot      domain.Address
	Unassigned []domain.UnassignedOrder
}

// PrepareDemand validates orders against the address store, aggregates
// order-line demand, and removes orders that no routing outcome could ever
// place: unknown or coordinate-less addresses and orders whose demand
// exceeds the fleet-wide capacity ceiling.
func PrepareDemand(
	ctx context.Context,
	store ports.AddressStore,
	vehicles []domain.Vehicle,
	orders []domain.DeliveryOrder,
	depotAddressID int,
	constraints domain.Constraint,
) (Prepared, error) {
	ids := make([]int, 0, len(orders)+1)
	ids = append(ids, depotAddressID)
	seen := map[int]struct{}{depotAddressID: {}}
	for _, o := range orders {
		if _, ok := seen[o.AddressID]; ok {
			continue
		}
		seen[o.AddressID] = struct{}{}
		ids = append(ids, o.AddressID)
	}

	found, err := store.Find(ctx, ids)
	if err != nil {
		return Prepared{}, fmt.Errorf("prepare demand: find addresses: %w", err)
	}
	byID := make(map[int]domain.Address, len(found))
	for _, a := range found {
		byID[a.ID] = a
	}

	// A request cannot proceed without a locatable depot.
	depot, ok := byID[depotAddressID]
	if !ok || depot.Location == nil {
		return Prepared{}, fmt.Errorf("prepare demand: address %d: %w", depotAddressID, ErrDepotNotFound)
	}

	weightCeiling, weightBound := fleetCeiling(vehicles, domain.DimWeight, constraints.Weight)
	volumeCeiling, volumeBound := fleetCeiling(vehicles, domain.DimVolume, constraints.Volume)

	prepared := Prepared{Depot: depot}
	prepared.Orders = append(prepared.Orders, PreparedOrder{
		Order:   domain.DeliveryOrder{AddressID: depotAddressID},
		Address: depot,
		Depot:   true,
	})

	for _, o := range orders {
		addr, ok := byID[o.AddressID]
		if !ok || addr.Location == nil {
			prepared.Unassigned = append(prepared.Unassigned, domain.UnassignedOrder{
				OrderID: o.ID,
				Reason:  domain.ReasonNoDeliveryAddress,
			})
			continue
		}

		o.ComputeDemand()

		// An order above the fleet-wide ceiling fits no vehicle no matter
		// how routing proceeds; drop it before the solver sees it.
		if (weightBound && o.Weight > weightCeiling) ||
			(volumeBound && o.Volume > volumeCeiling) {
			prepared.Unassigned = append(prepared.Unassigned, domain.UnassignedOrder{
				OrderID: o.ID,
				Reason:  domain.ReasonExceedsCapacity,
			})
			continue
		}

		prepared.Orders = append(prepared.Orders, PreparedOrder{Order: o, Address: addr})
	}

	return prepared, nil
}

// fleetCeiling is the maximum policy-selected capacity figure across the
// fleet, the largest demand any single vehicle could ever accept.
func fleetCeiling(vehicles []domain.Vehicle, dim domain.Dimension, policy domain.FillPolicy) (float64, bool) {
	bound := false
	ceiling := 0.0
	for _, v := range vehicles {
		c, ok := v.CapacityFor(dim, policy)
		if !ok {
			continue
		}
		bound = true
		if c > ceiling {
			ceiling = c
		}
	}
	return ceiling, bound
}
