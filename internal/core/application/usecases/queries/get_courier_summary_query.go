package queries

import (
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrGetCourierSummaryQueryIsNotConstructed = errors.New(
	"GetCourierSummaryQuery must be created via NewGetCourierSummaryQuery constructor",
)

// Period is the reporting window of a courier summary.
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
	PeriodAll   Period = "all"
)

// PeriodFromString parses the wire name of a reporting period.
func PeriodFromString(value string) (Period, error) {
	switch Period(value) {
	case PeriodWeek, PeriodMonth, PeriodYear, PeriodAll:
		return Period(value), nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("period",
			fmt.Errorf("%q is not one of week, month, year, all", value))
	}
}

// LowerBound returns the inclusive start of the window anchored at now.
// PeriodAll returns the zero time, meaning no lower bound.
func (p Period) LowerBound(now time.Time) time.Time {
	switch p {
	case PeriodWeek:
		return now.AddDate(0, 0, -7)
	case PeriodMonth:
		return now.AddDate(0, -1, 0)
	case PeriodYear:
		return now.AddDate(-1, 0, 0)
	default:
		return time.Time{}
	}
}

// GetCourierSummaryQuery retrieves one courier's dispatch performance over a
// reporting period.
type GetCourierSummaryQuery struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID
	period    Period

	guard guard.ConstructorGuard
}

// NewGetCourierSummaryQuery creates a courier summary query.
func NewGetCourierSummaryQuery(courierID kernel.UUID, period Period) (GetCourierSummaryQuery, error) {
	summaryQuery := GetCourierSummaryQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		summaryQuery.setCourierID(courierID),
		summaryQuery.setPeriod(period),
	); err != nil {
		return GetCourierSummaryQuery{}, err
	}

	return summaryQuery, nil
}

// Validate ensures the query was created through the constructor.
func (q GetCourierSummaryQuery) Validate() error {
	return q.guard.Validate(ErrGetCourierSummaryQueryIsNotConstructed)
}

// CourierID returns the courier being summarized.
func (q GetCourierSummaryQuery) CourierID() kernel.UUID {
	return q.courierID
}

// Period returns the reporting window.
func (q GetCourierSummaryQuery) Period() Period {
	return q.period
}

func (q *GetCourierSummaryQuery) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	q.courierID = courierID
	return nil
}

func (q *GetCourierSummaryQuery) setPeriod(period Period) error {
	if _, err := PeriodFromString(string(period)); err != nil {
		return err
	}

	q.period = period
	return nil
}

// DeliveredParcel is one delivered order attributed to the courier,
// as read from the orders projection.
type DeliveredParcel struct {
	ShippingPrice float64
	Deadline      time.Time
	PickedUpAt    *time.Time
	DeliveredAt   time.Time
}

// RouteSpan is one completed route of the courier.
type RouteSpan struct {
	CreatedAt   time.Time
	CompletedAt time.Time
}

// DailyActivity aggregates one calendar day of the summary.
type DailyActivity struct {
	Date       string
	Deliveries int
	Earnings   float64
}

// GetCourierSummaryQueryResponse represents a courier's dispatch performance
// over the reporting window.
type GetCourierSummaryQueryResponse struct {
	CourierID       kernel.UUID
	Period          Period
	Deliveries      int
	Earnings        float64
	AvgHandlingTime time.Duration
	AvgRouteTime    time.Duration
	OnTimeRate      float64
	Days            []DailyActivity
}
