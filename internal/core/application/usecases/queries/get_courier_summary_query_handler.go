package queries

import (
	"context"
	"math"
	"sort"
	"time"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/route"

	"gorm.io/gorm"
)

// GetCourierSummaryQueryHandler aggregates a courier's delivered parcels and
// completed routes into a performance summary.
type GetCourierSummaryQueryHandler struct {
	db *gorm.DB
}

// NewGetCourierSummaryQueryHandler creates a handler for courier summaries.
func NewGetCourierSummaryQueryHandler(db *gorm.DB) GetCourierSummaryQueryHandler {
	return GetCourierSummaryQueryHandler{db: db}
}

// Handle executes the query over the orders and routes projections.
func (h GetCourierSummaryQueryHandler) Handle(
	ctx context.Context,
	query GetCourierSummaryQuery,
) (GetCourierSummaryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetCourierSummaryQueryResponse{}, err
	}

	now := time.Now().UTC()
	from := query.Period().LowerBound(now)

	parcels, err := h.deliveredParcels(ctx, query, from)
	if err != nil {
		return GetCourierSummaryQueryResponse{}, err
	}
	routes, err := h.completedRoutes(ctx, query, from)
	if err != nil {
		return GetCourierSummaryQueryResponse{}, err
	}

	return BuildCourierSummary(query, parcels, routes), nil
}

func (h GetCourierSummaryQueryHandler) deliveredParcels(
	ctx context.Context, query GetCourierSummaryQuery, from time.Time,
) ([]DeliveredParcel, error) {
	parcels := make([]DeliveredParcel, 0)

	tx := h.db.WithContext(ctx).Raw(`
		SELECT o.shipping_price, o.delivery_deadline, o.picked_up_at, o.delivered_at
		FROM orders o
		JOIN routes r ON r.id = o.route_id
		WHERE r.courier_id = ? AND r.status = ? AND o.status = ? AND (? OR o.delivered_at >= ?)
		ORDER BY o.delivered_at
	`, query.CourierID().Bytes(), int(route.StatusCompleted), int(order.StatusDelivered),
		from.IsZero(), from)

	rows, err := tx.Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var parcel DeliveredParcel
		if err = rows.Scan(
			&parcel.ShippingPrice, &parcel.Deadline, &parcel.PickedUpAt, &parcel.DeliveredAt,
		); err != nil {
			return nil, err
		}
		parcels = append(parcels, parcel)
	}

	return parcels, rows.Err()
}

func (h GetCourierSummaryQueryHandler) completedRoutes(
	ctx context.Context, query GetCourierSummaryQuery, from time.Time,
) ([]RouteSpan, error) {
	spans := make([]RouteSpan, 0)

	tx := h.db.WithContext(ctx).Raw(`
		SELECT created_at, completed_at
		FROM routes
		WHERE courier_id = ? AND status = ? AND (? OR completed_at >= ?)
	`, query.CourierID().Bytes(), int(route.StatusCompleted), from.IsZero(), from)

	rows, err := tx.Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var span RouteSpan
		if err = rows.Scan(&span.CreatedAt, &span.CompletedAt); err != nil {
			return nil, err
		}
		spans = append(spans, span)
	}

	return spans, rows.Err()
}

// BuildCourierSummary folds delivered parcels and completed routes into the
// summary response. Pure aggregation, separated from the SQL so the
// statistics have direct tests.
func BuildCourierSummary(
	query GetCourierSummaryQuery, parcels []DeliveredParcel, routes []RouteSpan,
) GetCourierSummaryQueryResponse {
	resp := GetCourierSummaryQueryResponse{
		CourierID:  query.CourierID(),
		Period:     query.Period(),
		Deliveries: len(parcels),
		Days:       make([]DailyActivity, 0),
	}

	byDay := make(map[string]*DailyActivity)
	var handlingTotal time.Duration
	handled := 0
	onTime := 0

	for _, parcel := range parcels {
		resp.Earnings += parcel.ShippingPrice

		if parcel.PickedUpAt != nil {
			handlingTotal += parcel.DeliveredAt.Sub(*parcel.PickedUpAt)
			handled++
		}
		if !parcel.DeliveredAt.After(parcel.Deadline) {
			onTime++
		}

		day := parcel.DeliveredAt.UTC().Format(time.DateOnly)
		activity, ok := byDay[day]
		if !ok {
			activity = &DailyActivity{Date: day}
			byDay[day] = activity
		}
		activity.Deliveries++
		activity.Earnings = round2(activity.Earnings + parcel.ShippingPrice)
	}

	resp.Earnings = round2(resp.Earnings)
	if handled > 0 {
		resp.AvgHandlingTime = handlingTotal / time.Duration(handled)
	}
	if len(parcels) > 0 {
		resp.OnTimeRate = float64(onTime) / float64(len(parcels))
	}

	var routeTotal time.Duration
	for _, span := range routes {
		routeTotal += span.CompletedAt.Sub(span.CreatedAt)
	}
	if len(routes) > 0 {
		resp.AvgRouteTime = routeTotal / time.Duration(len(routes))
	}

	for _, activity := range byDay {
		resp.Days = append(resp.Days, *activity)
	}
	sort.Slice(resp.Days, func(i, j int) bool {
		return resp.Days[i].Date < resp.Days[j].Date
	})

	return resp
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
