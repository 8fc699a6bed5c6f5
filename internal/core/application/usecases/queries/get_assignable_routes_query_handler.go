package queries

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/route"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetAssignableRoutesQueryHandler reads the board of open routes from the
// database, aggregated over their stops.
type GetAssignableRoutesQueryHandler struct {
	db *gorm.DB
}

// NewGetAssignableRoutesQueryHandler creates a handler for the route board.
func NewGetAssignableRoutesQueryHandler(db *gorm.DB) GetAssignableRoutesQueryHandler {
	return GetAssignableRoutesQueryHandler{db: db}
}

// Handle executes the query. Routes with the earliest stop deadline come
// first so the most urgent bundle is claimed next.
func (h GetAssignableRoutesQueryHandler) Handle(
	ctx context.Context,
	query GetAssignableRoutesQuery,
) ([]GetAssignableRoutesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	routes := make([]GetAssignableRoutesQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			r.id,
			COUNT(s.order_id),
			COALESCE(SUM(s.weight), 0),
			r.capacity,
			MIN(s.deadline),
			r.created_at
		FROM routes r
		JOIN route_stops s ON s.route_id = r.id
		WHERE r.status = ?
		GROUP BY r.id, r.capacity, r.created_at
		ORDER BY MIN(s.deadline), r.created_at
	`, int(route.StatusOpen)).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetAssignableRoutesQueryResponse
		var id uuid.UUID
		var earliest time.Time

		if err = rows.Scan(
			&id, &resp.Stops, &resp.Load, &resp.Capacity, &earliest, &resp.CreatedAt,
		); err != nil {
			return nil, err
		}

		routeID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = routeID
		resp.EarliestDeadline = earliest
		routes = append(routes, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return routes, nil
}
