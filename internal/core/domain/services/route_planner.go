package services

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/route"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

// ErrRoutePlannerIsNotConstructed is returned when a RoutePlanner was not
// created via NewRoutePlanner.
var ErrRoutePlannerIsNotConstructed = errors.New(
	"RoutePlanner must be created via NewRoutePlanner constructor")

// PlannerConfig bounds the routes the planner produces.
type PlannerConfig struct {
	// RouteCapacity is the vehicle capacity in size-weight units per route.
	RouteCapacity int

	// ClusterRadiusKm bounds how far apart the pickup and delivery points of
	// orders bundled on one route may lie.
	ClusterRadiusKm float64

	// DeadlineSpread bounds the window between the earliest and latest
	// delivery deadline on one route.
	DeadlineSpread time.Duration
}

func (c PlannerConfig) validate() error {
	var errCapacity, errRadius, errSpread error

	if c.RouteCapacity <= 0 {
		errCapacity = errs.NewValueIsInvalidErrorWithCause("route capacity",
			fmt.Errorf("%d is not greater than 0", c.RouteCapacity))
	}
	if c.ClusterRadiusKm <= 0 {
		errRadius = errs.NewValueIsInvalidErrorWithCause("cluster radius",
			fmt.Errorf("%f is not greater than 0", c.ClusterRadiusKm))
	}
	if c.DeadlineSpread <= 0 {
		errSpread = errs.NewValueIsInvalidErrorWithCause("deadline spread",
			fmt.Errorf("%s is not greater than 0", c.DeadlineSpread))
	}

	return errors.Join(errCapacity, errRadius, errSpread)
}

// PlanResult is the outcome of one planning pass: the routes built from the
// ready pool, and the orders no route can serve, either because their
// deadline had already passed at planning time or because their parcel
// weight exceeds the route capacity. Flagged orders are never bundled; they
// need manual handling.
type PlanResult struct {
	Routes  []*route.Route
	Flagged []*order.Order
}

// RoutePlanner bundles ready orders into courier routes.
//
// The strategy is greedy and deadline-urgent: the unassigned order with the
// earliest delivery deadline seeds a new route, then the route is filled
// nearest-neighbour with compatible orders until the vehicle capacity, the
// deadline window, or the cluster radius stops it. Greedy keeps planning
// O(n²) for pools of hundreds of orders; a route may end up below capacity
// when no compatible order remains, which is accepted over delaying urgent
// parcels to wait for better bundling.
type RoutePlanner struct { //nolint:recvcheck //using for validation
	config PlannerConfig

	guard guard.ConstructorGuard
}

// NewRoutePlanner creates a planner with the given bounds.
func NewRoutePlanner(config PlannerConfig) (RoutePlanner, error) {
	if err := config.validate(); err != nil {
		return RoutePlanner{}, err
	}

	return RoutePlanner{
		config: config,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the RoutePlanner was created through NewRoutePlanner.
func (p RoutePlanner) Validate() error {
	return p.guard.Validate(ErrRoutePlannerIsNotConstructed)
}

// Plan builds routes from the pool of ready-for-delivery orders and assigns
// each bundled order to its route. Every order in the pool ends up either on
// exactly one route or in the flagged list.
func (p RoutePlanner) Plan(orders []*order.Order, now time.Time) (PlanResult, error) {
	if err := p.Validate(); err != nil {
		return PlanResult{}, err
	}

	candidates, flagged, err := p.partition(orders, now)
	if err != nil {
		return PlanResult{}, err
	}

	sortByUrgency(candidates)

	var routes []*route.Route
	for len(candidates) > 0 {
		// An order too heavy for any route must not wedge the whole pass.
		if candidates[0].SizeWeight() > p.config.RouteCapacity {
			flagged = append(flagged, candidates[0])
			candidates = candidates[1:]
			continue
		}

		r, remaining, fillErr := p.fillRoute(candidates, now)
		if fillErr != nil {
			return PlanResult{}, fillErr
		}
		routes = append(routes, r)
		candidates = remaining
	}

	return PlanResult{Routes: routes, Flagged: flagged}, nil
}

// partition validates the pool and splits off orders that can no longer be
// delivered on time.
func (p RoutePlanner) partition(
	orders []*order.Order, now time.Time,
) (candidates, flagged []*order.Order, err error) {
	for _, o := range orders {
		if validateErr := o.Validate(); validateErr != nil {
			return nil, nil, validateErr
		}
		if o.Status() != order.StatusReadyForDelivery {
			return nil, nil, errs.NewValueIsInvalidErrorWithCause("order status",
				fmt.Errorf("order %s is %s, not %s",
					o.ID(), o.Status(), order.StatusReadyForDelivery))
		}

		if o.DeliveryDeadline().Before(now) {
			flagged = append(flagged, o)
			continue
		}
		candidates = append(candidates, o)
	}
	return candidates, flagged, nil
}

// fillRoute seeds a route with the most urgent candidate and grows it
// nearest-neighbour. Returns the built route and the candidates left over.
func (p RoutePlanner) fillRoute(
	candidates []*order.Order, now time.Time,
) (*route.Route, []*order.Order, error) {
	r, err := route.NewRoute(kernel.NewUUID(), p.config.RouteCapacity, p.config.DeadlineSpread, now)
	if err != nil {
		return nil, nil, err
	}

	seed := candidates[0]
	if err = p.addToRoute(r, seed); err != nil {
		return nil, nil, err
	}
	remaining := candidates[1:]
	last := seed

	for {
		next, index, findErr := p.findNearestCompatible(r, seed, last, remaining)
		if findErr != nil {
			return nil, nil, findErr
		}
		if next == nil {
			break
		}

		if err = p.addToRoute(r, next); err != nil {
			return nil, nil, err
		}
		remaining = append(remaining[:index], remaining[index+1:]...)
		last = next
	}

	return r, remaining, nil
}

// findNearestCompatible picks the remaining candidate with the shortest
// delivery hop from the last stop that still fits the route and the cluster.
func (p RoutePlanner) findNearestCompatible(
	r *route.Route, seed, last *order.Order, remaining []*order.Order,
) (*order.Order, int, error) {
	var best *order.Order
	bestIndex := -1
	bestHop := 0.0

	for i, candidate := range remaining {
		if !r.CanFit(candidate.SizeWeight(), candidate.DeliveryDeadline()) {
			continue
		}

		inCluster, hop, err := p.clusterDistance(seed, last, candidate)
		if err != nil {
			return nil, -1, err
		}
		if !inCluster {
			continue
		}

		if best == nil || hop < bestHop {
			best = candidate
			bestIndex = i
			bestHop = hop
		}
	}

	return best, bestIndex, nil
}

// clusterDistance reports whether the candidate belongs to the seed's
// geographic cluster and the delivery hop length from the last stop.
func (p RoutePlanner) clusterDistance(
	seed, last, candidate *order.Order,
) (bool, float64, error) {
	pickupDistance, err := seed.Pickup().DistanceTo(candidate.Pickup())
	if err != nil {
		return false, 0, err
	}
	hop, err := last.Delivery().DistanceTo(candidate.Delivery())
	if err != nil {
		return false, 0, err
	}

	inCluster := pickupDistance <= p.config.ClusterRadiusKm && hop <= p.config.ClusterRadiusKm
	return inCluster, hop, nil
}

func (p RoutePlanner) addToRoute(r *route.Route, o *order.Order) error {
	if err := r.AddStop(o.ID(), o.SizeWeight(), o.DeliveryDeadline()); err != nil {
		return err
	}
	return o.AssignToRoute(r.ID())
}

// sortByUrgency orders candidates by delivery deadline; equal deadlines fall
// back to shorter trips first, then to creation order.
func sortByUrgency(candidates []*order.Order) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if !a.DeliveryDeadline().Equal(b.DeliveryDeadline()) {
			return a.DeliveryDeadline().Before(b.DeliveryDeadline())
		}
		if a.DistanceKm() != b.DistanceKm() {
			return a.DistanceKm() < b.DistanceKm()
		}
		return a.CreatedAt().Before(b.CreatedAt())
	})
}
