package dto

import (
	"fmt"
	"time"

	"smartrouting/internal/domain"
)

type Vehicle struct {
	ID   int    `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`

	WeightMin         float64 `json:"weight_min"`
	WeightRecommended float64 `json:"weight_recommended"`
	WeightMax         float64 `json:"weight_max"`
	VolumeMin         float64 `json:"volume_min"`
	VolumeRecommended float64 `json:"volume_recommended"`
	VolumeMax         float64 `json:"volume_max"`
}

type OrderLine struct {
	Item     string  `json:"item"`
	Quantity float64 `json:"quantity"`
	Weight   float64 `json:"weight"`
	Volume   float64 `json:"volume"`
}

type Order struct {
	ID           int         `json:"id"`
	AddressID    int         `json:"address_id"`
	DeliveryType string      `json:"delivery_type,omitempty"`
	Lines        []OrderLine `json:"lines"`
	Deadline     *time.Time  `json:"deadline,omitempty"`
	Priority     string      `json:"priority,omitempty"`
}

type Cost struct {
	Kind  string  `json:"kind"`
	Value float64 `json:"value"`
}

type Constraints struct {
	Weight string `json:"weight"`
	Volume string `json:"volume"`
}

type Options struct {
	Costs            []Cost      `json:"costs"`
	Constraints      Constraints `json:"constraints"`
	SolutionStrategy string      `json:"solution_strategy"`
}

type CalcRequest struct {
	Vehicles       []Vehicle `json:"vehicles"`
	Orders         []Order   `json:"orders"`
	DepotAddressID int       `json:"depot_address_id"`
	Options        *Options  `json:"options"`
}

type RoutePoint struct {
	AddressID int     `json:"address_id"`
	OrderID   int     `json:"order_id"`
	Sequence  int     `json:"sequence"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	StartTime int     `json:"start_time"`
	Distance  float64 `json:"distance"`
}

type Shipment struct {
	VehicleID     int          `json:"vehicle_id"`
	Trip          int          `json:"trip"`
	Route         []RoutePoint `json:"route"`
	TotalDistance float64      `json:"total_distance"`
	TotalTime     int          `json:"total_time"`
	TotalWeight   float64      `json:"total_weight"`
	TotalVolume   float64      `json:"total_volume"`
	TotalCost     float64      `json:"total_cost"`
	WeightRate    float64      `json:"weight_rate"`
	VolumeRate    float64      `json:"volume_rate"`
}

type UnassignedOrder struct {
	OrderID int    `json:"order_id"`
	Reason  string `json:"reason"`
}

type CalcResponse struct {
	Shipments        []Shipment        `json:"shipments"`
	UnassignedOrders []UnassignedOrder `json:"unassigned_orders"`
}

// ToDomain converts the wire request into engine input.
func (r CalcRequest) ToDomain() ([]domain.Vehicle, []domain.DeliveryOrder, *domain.CalcOption, error) {
	vehicles := make([]domain.Vehicle, 0, len(r.Vehicles))
	for _, v := range r.Vehicles {
		vehicles = append(vehicles, domain.Vehicle{
			ID:                v.ID,
			Code:              v.Code,
			Name:              v.Name,
			WeightMin:         v.WeightMin,
			WeightRecommended: v.WeightRecommended,
			WeightMax:         v.WeightMax,
			VolumeMin:         v.VolumeMin,
			VolumeRecommended: v.VolumeRecommended,
			VolumeMax:         v.VolumeMax,
		})
	}

	orders := make([]domain.DeliveryOrder, 0, len(r.Orders))
	for _, o := range r.Orders {
		lines := make([]domain.OrderLine, 0, len(o.Lines))
		for _, l := range o.Lines {
			lines = append(lines, domain.OrderLine{
				Item:     l.Item,
				Quantity: l.Quantity,
				Weight:   l.Weight,
				Volume:   l.Volume,
			})
		}
		orders = append(orders, domain.DeliveryOrder{
			ID:           o.ID,
			AddressID:    o.AddressID,
			DeliveryType: o.DeliveryType,
			Lines:        lines,
			Deadline:     o.Deadline,
			Priority:     o.Priority,
		})
	}

	if r.Options == nil {
		return vehicles, orders, nil, nil
	}

	weight, err := domain.ParseFillPolicy(r.Options.Constraints.Weight)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("weight constraint: %w", err)
	}
	volume, err := domain.ParseFillPolicy(r.Options.Constraints.Volume)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("volume constraint: %w", err)
	}

	costs := make([]domain.Cost, 0, len(r.Options.Costs))
	for _, c := range r.Options.Costs {
		costs = append(costs, domain.Cost{Kind: domain.CostKind(c.Kind), Value: c.Value})
	}

	return vehicles, orders, &domain.CalcOption{
		Costs:            costs,
		Constraints:      domain.Constraint{Weight: weight, Volume: volume},
		SolutionStrategy: r.Options.SolutionStrategy,
	}, nil
}

// FromDomain converts the engine response for the wire.
func FromDomain(shipments []domain.Shipment, unassigned []domain.UnassignedOrder) CalcResponse {
	res := CalcResponse{
		Shipments:        make([]Shipment, 0, len(shipments)),
		UnassignedOrders: make([]UnassignedOrder, 0, len(unassigned)),
	}
	for _, s := range shipments {
		route := make([]RoutePoint, 0, len(s.Route))
		for _, p := range s.Route {
			route = append(route, RoutePoint{
				AddressID: p.AddressID,
				OrderID:   p.OrderID,
				Sequence:  p.Sequence,
				Latitude:  p.Latitude,
				Longitude: p.Longitude,
				StartTime: p.StartTime,
				Distance:  p.Distance,
			})
		}
		res.Shipments = append(res.Shipments, Shipment{
			VehicleID:     s.VehicleID,
			Trip:          s.Trip,
			Route:         route,
			TotalDistance: s.TotalDistance,
			TotalTime:     s.TotalTime,
			TotalWeight:   s.TotalWeight,
			TotalVolume:   s.TotalVolume,
			TotalCost:     s.TotalCost,
			WeightRate:    s.WeightRate,
			VolumeRate:    s.VolumeRate,
		})
	}
	for _, u := range unassigned {
		res.UnassignedOrders = append(res.UnassignedOrders, UnassignedOrder{
			OrderID: u.OrderID,
			Reason:  string(u.Reason),
		})
	}
	return res
}
