package commands

import (
	"errors"
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrReportProgressCommandIsNotConstructed = errors.New(
	"ReportProgressCommand must be created via NewReportProgressCommand constructor",
)

// ProgressEvent is a courier's report about one parcel on an active route.
type ProgressEvent int

const (
	// ProgressUnknown represents an invalid or undefined event.
	ProgressUnknown ProgressEvent = iota

	// ProgressPickedUp reports the parcel collected from the store.
	ProgressPickedUp

	// ProgressDelivered reports the parcel handed to the buyer.
	ProgressDelivered

	// ProgressFailed reports a delivery attempt that could not complete.
	ProgressFailed
)

// ProgressEventFromString parses the wire name of a progress event.
func ProgressEventFromString(value string) (ProgressEvent, error) {
	switch value {
	case "picked_up":
		return ProgressPickedUp, nil
	case "delivered":
		return ProgressDelivered, nil
	case "failed":
		return ProgressFailed, nil
	default:
		return ProgressUnknown, errs.NewValueIsInvalidErrorWithCause("progress event",
			fmt.Errorf("%q is not a progress event", value))
	}
}

// String returns the wire name of the event.
func (e ProgressEvent) String() string {
	switch e {
	case ProgressPickedUp:
		return "picked_up"
	case ProgressDelivered:
		return "delivered"
	case ProgressFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Validate checks that the event is one of the defined reports.
func (e ProgressEvent) Validate() error {
	if e < ProgressPickedUp || e > ProgressFailed {
		return errs.NewValueIsInvalidErrorWithCause("progress event",
			fmt.Errorf("%d is not a progress event", e))
	}
	return nil
}

// ReportProgressCommand represents a courier reporting progress on one order
// of their active route.
type ReportProgressCommand struct { //nolint:recvcheck //using for validation
	routeID   kernel.UUID
	orderID   kernel.UUID
	courierID kernel.UUID
	event     ProgressEvent

	guard guard.ConstructorGuard
}

// NewReportProgressCommand creates a progress report command.
func NewReportProgressCommand(
	routeID, orderID, courierID kernel.UUID, event ProgressEvent,
) (ReportProgressCommand, error) {
	reportCommand := ReportProgressCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		reportCommand.setRouteID(routeID),
		reportCommand.setOrderID(orderID),
		reportCommand.setCourierID(courierID),
		reportCommand.setEvent(event),
	); err != nil {
		return ReportProgressCommand{}, err
	}

	return reportCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c ReportProgressCommand) Validate() error {
	return c.guard.Validate(ErrReportProgressCommandIsNotConstructed)
}

// RouteID returns the route the report belongs to.
func (c ReportProgressCommand) RouteID() kernel.UUID {
	return c.routeID
}

// OrderID returns the order the report is about.
func (c ReportProgressCommand) OrderID() kernel.UUID {
	return c.orderID
}

// CourierID returns the reporting courier.
func (c ReportProgressCommand) CourierID() kernel.UUID {
	return c.courierID
}

// Event returns what happened to the parcel.
func (c ReportProgressCommand) Event() ProgressEvent {
	return c.event
}

func (c *ReportProgressCommand) setRouteID(routeID kernel.UUID) error {
	if err := routeID.Validate(); err != nil {
		return err
	}

	c.routeID = routeID
	return nil
}

func (c *ReportProgressCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *ReportProgressCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	c.courierID = courierID
	return nil
}

func (c *ReportProgressCommand) setEvent(event ProgressEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}

	c.event = event
	return nil
}
