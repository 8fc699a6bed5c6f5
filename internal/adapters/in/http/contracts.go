package http

import (
	"time"

	"marketplace/internal/core/application/usecases/queries"
)

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// CheckoutRequest is the basket submission payload. BuyerID is omitted for
// guest checkout. IdempotencyKey is optional; retries carrying the same key
// get the original order back instead of a duplicate.
type CheckoutRequest struct {
	IdempotencyKey string         `json:"idempotencyKey,omitempty"`
	BuyerID        *string        `json:"buyerId,omitempty"`
	DeliveryLat    float64        `json:"deliveryLat"`
	DeliveryLng    float64        `json:"deliveryLng"`
	Items          []CheckoutItem `json:"items"`
}

// CheckoutItem is one basket line.
type CheckoutItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// CheckoutResponse returns the order opened (or found, on an idempotent
// retry) for the basket.
type CheckoutResponse struct {
	OrderID string `json:"orderId"`
}

// PaymentCallbackRequest is the payment provider's verdict for an order.
type PaymentCallbackRequest struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

// ProgressRequest reports one stop event: picked_up, delivered, or failed.
type ProgressRequest struct {
	Event string `json:"event"`
}

// AssignableRoute is one claimable route on the courier board.
type AssignableRoute struct {
	ID               string    `json:"id"`
	Stops            int       `json:"stops"`
	Load             int       `json:"load"`
	Capacity         int       `json:"capacity"`
	EarliestDeadline time.Time `json:"earliestDeadline"`
	CreatedAt        time.Time `json:"createdAt"`
}

// CourierSummaryResponse is the courier's dispatch performance report.
type CourierSummaryResponse struct {
	CourierID         string          `json:"courierId"`
	Period            string          `json:"period"`
	Deliveries        int             `json:"deliveries"`
	Earnings          float64         `json:"earnings"`
	AvgHandlingTimeMs int64           `json:"avgHandlingTimeMs"`
	AvgRouteTimeMs    int64           `json:"avgRouteTimeMs"`
	OnTimeRate        float64         `json:"onTimeRate"`
	Days              []DailyActivity `json:"days"`
}

// DailyActivity is one calendar day of the summary.
type DailyActivity struct {
	Date       string  `json:"date"`
	Deliveries int     `json:"deliveries"`
	Earnings   float64 `json:"earnings"`
}

func toSummaryResponse(summary queries.GetCourierSummaryQueryResponse) CourierSummaryResponse {
	days := make([]DailyActivity, len(summary.Days))
	for i, day := range summary.Days {
		days[i] = DailyActivity{
			Date:       day.Date,
			Deliveries: day.Deliveries,
			Earnings:   day.Earnings,
		}
	}

	return CourierSummaryResponse{
		CourierID:         summary.CourierID.String(),
		Period:            string(summary.Period),
		Deliveries:        summary.Deliveries,
		Earnings:          summary.Earnings,
		AvgHandlingTimeMs: summary.AvgHandlingTime.Milliseconds(),
		AvgRouteTimeMs:    summary.AvgRouteTime.Milliseconds(),
		OnTimeRate:        summary.OnTimeRate,
		Days:              days,
	}
}
