package services

import (
	"context"
	"fmt"
	"math"

	"smartrouting/internal/config"
	"smartrouting/internal/domain"
)

// assembleShipment converts one vehicle's ordered stops into the output
// shipment: sequenced route points with cumulative start times and
// incremental distances, totals, cost, and utilization rates. The route is
// costed depot -> stops -> depot.
func assembleShipment(
	ctx context.Context,
	resolver *DistanceResolver,
	cfg config.Engine,
	opt domain.CalcOption,
	vehicle domain.Vehicle,
	trip int,
	depot domain.Address,
	stops []PreparedOrder,
) (domain.Shipment, error) {
	s := domain.Shipment{VehicleID: vehicle.ID, Trip: trip}

	prev := depot
	elapsed := 0.0 // minutes
	for i, po := range stops {
		leg, err := resolver.Distance(ctx, prev, po.Address)
		if err != nil {
			return domain.Shipment{}, fmt.Errorf("assemble shipment: vehicle %d stop %d: %w", vehicle.ID, i+1, err)
		}

		elapsed += travelMinutes(leg, cfg.AverageSpeedKmh)
		s.Route = append(s.Route, domain.RoutePoint{
			AddressID: po.Address.ID,
			OrderID:   po.Order.ID,
			Sequence:  i + 1,
			Latitude:  po.Address.Location.Lat,
			Longitude: po.Address.Location.Lon,
			StartTime: int(math.Round(elapsed)),
			Distance:  leg,
		})
		elapsed += float64(cfg.StopServiceMinutes)

		s.TotalDistance += leg
		s.TotalWeight += po.Order.Weight
		s.TotalVolume += po.Order.Volume
		prev = po.Address
	}

	back, err := resolver.Distance(ctx, prev, depot)
	if err != nil {
		return domain.Shipment{}, fmt.Errorf("assemble shipment: vehicle %d return leg: %w", vehicle.ID, err)
	}
	s.TotalDistance += back

	s.TotalTime = len(stops)*cfg.StopServiceMinutes +
		int(math.Round(travelMinutes(s.TotalDistance, cfg.AverageSpeedKmh)))
	s.TotalCost = shipmentCost(opt.Costs, s.TotalDistance)
	s.WeightRate = utilization(vehicle, domain.DimWeight, opt.Constraints.Weight, s.TotalWeight)
	s.VolumeRate = utilization(vehicle, domain.DimVolume, opt.Constraints.Volume, s.TotalVolume)

	return s, nil
}

func travelMinutes(meters, speedKmh float64) float64 {
	if speedKmh <= 0 {
		return 0
	}
	return meters / 1000.0 / speedKmh * 60.0
}

// shipmentCost applies the distance-kind cost entries; other kinds are
// extension points and contribute nothing yet.
func shipmentCost(costs []domain.Cost, meters float64) float64 {
	total := 0.0
	for _, c := range costs {
		if c.Kind == domain.CostDistance {
			total += c.Value * meters / 1000.0
		}
	}
	return total
}

func utilization(v domain.Vehicle, dim domain.Dimension, policy domain.FillPolicy, assigned float64) float64 {
	limit, ok := v.CapacityFor(dim, policy)
	if !ok || limit == 0 {
		return 0
	}
	return assigned / limit
}
