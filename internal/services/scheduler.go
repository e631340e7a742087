package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"smartrouting/internal/config"
	"smartrouting/internal/domain"
	"smartrouting/internal/metrics"
	"smartrouting/internal/platform/obs"
	"smartrouting/internal/ports"
)

// CalcRequest is the boundary input of one route calculation.
type CalcRequest struct {
	Vehicles       []domain.Vehicle
	Orders         []domain.DeliveryOrder
	DepotAddressID int
	Option         *domain.CalcOption
}

// CalcResponse pairs the emitted shipments with every order that could not
// be routed. Each input order appears in exactly one of the two.
type CalcResponse struct {
	Shipments  []domain.Shipment
	Unassigned []domain.UnassignedOrder
}

// Engine runs the order-assignment pipeline: demand preparation, the
// capacitated routing model, strategy escalation with greedy fallback, and
// the multi-trip loop.
type Engine struct {
	addresses ports.AddressStore
	cache     ports.DistanceCacheStore
	provider  ports.RoadDistanceProvider
	cfg       config.Engine
	log       zerolog.Logger
}

func NewEngine(
	addresses ports.AddressStore,
	cache ports.DistanceCacheStore,
	provider ports.RoadDistanceProvider,
	cfg config.Engine,
	log zerolog.Logger,
) *Engine {
	return &Engine{
		addresses: addresses,
		cache:     cache,
		provider:  provider,
		cfg:       cfg,
		log:       log,
	}
}

// CalculateRoutes assigns the orders to the fleet over as many trips as
// needed. Fatal conditions (missing depot, empty fleet) return an error;
// everything else is absorbed into the response.
func (e *Engine) CalculateRoutes(ctx context.Context, req CalcRequest) (resp *CalcResponse, err error) {
	defer obs.Time(ctx, "calculate_routes")(&err)

	if len(req.Vehicles) == 0 || req.Orders == nil {
		return nil, fmt.Errorf("calculate routes: %w", ErrInvalidRequest)
	}

	opt := domain.DefaultCalcOption()
	if req.Option != nil {
		opt = *req.Option
	}

	resolver := NewDistanceResolver(e.cache, e.provider, e.cfg.ProviderThresholdMeters, e.log)
	if err := resolver.Warm(ctx, addressIDs(req)); err != nil {
		// Warm-up failure only costs re-resolution, never the request.
		e.log.Warn().Err(err).Msg("distance cache warm-up failed")
	}

	prepared, err := PrepareDemand(ctx, e.addresses, req.Vehicles, req.Orders, req.DepotAddressID, opt.Constraints)
	if err != nil {
		return nil, fmt.Errorf("calculate routes: %w", err)
	}

	resp = &CalcResponse{Unassigned: prepared.Unassigned}
	shipments, unassigned, err := e.runTrips(ctx, resolver, prepared, req.Vehicles, opt)
	if err != nil {
		return nil, fmt.Errorf("calculate routes: %w", err)
	}
	resp.Shipments = shipments
	resp.Unassigned = append(resp.Unassigned, unassigned...)
	return resp, nil
}

// runTrips drives assignment rounds over the same fleet until every
// routable order is placed. The overflow vehicle exists only in round one;
// later rounds re-sort the fleet so the least-loaded vehicles go first. A
// round that places nothing ends the loop and reports the remainder, so the
// scheduler can never spin.
func (e *Engine) runTrips(
	ctx context.Context,
	resolver *DistanceResolver,
	prepared Prepared,
	fleet []domain.Vehicle,
	opt domain.CalcOption,
) ([]domain.Shipment, []domain.UnassignedOrder, error) {
	pending := append([]PreparedOrder(nil), prepared.Orders[1:]...)
	pool := append([]domain.Vehicle(nil), fleet...)
	assignedTime := make(map[int]int, len(pool)) // vehicle id -> cumulative minutes

	var shipments []domain.Shipment
	var unassigned []domain.UnassignedOrder

	for trip := 1; len(pending) > 0; trip++ {
		routes, err := e.assignRound(ctx, resolver, prepared, pool, pending, opt, trip == 1)
		if err != nil {
			return nil, nil, err
		}

		placed := map[int]struct{}{}
		for vi, stops := range routes {
			if len(stops) == 0 {
				continue
			}
			s, err := assembleShipment(ctx, resolver, e.cfg, opt, pool[vi], trip, prepared.Depot, stops)
			if err != nil {
				return nil, nil, err
			}
			shipments = append(shipments, s)
			assignedTime[pool[vi].ID] += s.TotalTime
			for _, po := range stops {
				placed[po.Order.ID] = struct{}{}
			}
		}

		if len(placed) == 0 {
			// No vehicle can take any remaining order on a fresh trip;
			// retrying would loop forever.
			for _, po := range pending {
				unassigned = append(unassigned, domain.UnassignedOrder{
					OrderID: po.Order.ID,
					Reason:  domain.ReasonNoVehicleAvailable,
				})
			}
			e.log.Warn().Int("orders", len(pending)).Int("trip", trip).
				Msg("round made no progress, reporting remainder unassigned")
			break
		}

		next := pending[:0:0]
		for _, po := range pending {
			if _, ok := placed[po.Order.ID]; !ok {
				next = append(next, po)
			}
		}
		pending = next

		if len(pending) > 0 {
			// Least-loaded vehicles take the lead next round.
			sort.SliceStable(pool, func(a, b int) bool {
				return assignedTime[pool[a].ID] < assignedTime[pool[b].ID]
			})
		}
	}

	return shipments, unassigned, nil
}

// assignRound solves one round: escalating search strategies first, the
// deterministic greedy assigner when all of them are exhausted. The result
// maps pool index to that vehicle's ordered stops for this trip.
func (e *Engine) assignRound(
	ctx context.Context,
	resolver *DistanceResolver,
	prepared Prepared,
	pool []domain.Vehicle,
	pending []PreparedOrder,
	opt domain.CalcOption,
	includeOverflow bool,
) ([][]PreparedOrder, error) {
	round := Prepared{Depot: prepared.Depot}
	round.Orders = append(round.Orders, prepared.Orders[0])
	round.Orders = append(round.Orders, pending...)

	model := BuildModel(ctx, resolver, round, pool, opt.Constraints, includeOverflow)
	strategies := strategiesFor(e.cfg, len(pending), len(pool), opt.SolutionStrategy)

	if sol, ok := escalate(ctx, model, strategies, e.log); ok {
		if parked := model.OverflowRoute(sol); len(parked) > 0 {
			e.log.Debug().Int("orders", len(parked)).
				Msg("overflow vehicle parked orders for a later trip")
		}
		routes := make([][]PreparedOrder, len(pool))
		for vi, route := range model.RealRoutes(sol) {
			for _, node := range route {
				routes[vi] = append(routes[vi], round.Orders[node])
			}
		}
		return routes, nil
	}

	e.log.Warn().Int("orders", len(pending)).
		Msg("all search strategies exhausted, using greedy fallback")
	metrics.GreedyFallbacks.Inc()

	routes, _ := greedyAssign(pool, pending, opt.Constraints)
	return routes, nil
}

func addressIDs(req CalcRequest) []int {
	ids := make([]int, 0, len(req.Orders)+1)
	ids = append(ids, req.DepotAddressID)
	seen := map[int]struct{}{req.DepotAddressID: {}}
	for _, o := range req.Orders {
		if _, ok := seen[o.AddressID]; ok {
			continue
		}
		seen[o.AddressID] = struct{}{}
		ids = append(ids, o.AddressID)
	}
	return ids
}
