// Package http exposes the fulfillment use cases over REST. Handlers bind
// the wire payloads, build validated commands and queries, and translate
// domain errors to status codes. Identity comes from trusted headers set by
// the API gateway.
package http

import (
	"errors"
	"net/http"
	"time"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/route"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"
	"marketplace/internal/metrics"
	"marketplace/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server implements the REST surface for handling HTTP requests.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	checkoutHandler       commands.CheckoutCommandHandler
	confirmPaymentHandler commands.ConfirmPaymentCommandHandler
	cancelOrderHandler    commands.CancelOrderCommandHandler
	acceptRouteHandler    commands.AcceptRouteCommandHandler
	reportProgressHandler commands.ReportProgressCommandHandler

	// Query handlers
	assignableRoutesHandler queries.GetAssignableRoutesQueryHandler
	courierSummaryHandler   queries.GetCourierSummaryQueryHandler

	idempotency    ports.IdempotencyStore
	idempotencyTTL time.Duration
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	checkoutHandler commands.CheckoutCommandHandler,
	confirmPaymentHandler commands.ConfirmPaymentCommandHandler,
	cancelOrderHandler commands.CancelOrderCommandHandler,
	acceptRouteHandler commands.AcceptRouteCommandHandler,
	reportProgressHandler commands.ReportProgressCommandHandler,
	assignableRoutesHandler queries.GetAssignableRoutesQueryHandler,
	courierSummaryHandler queries.GetCourierSummaryQueryHandler,
	idempotency ports.IdempotencyStore,
	idempotencyTTL time.Duration,
) *Server {
	return &Server{
		checkoutHandler:         checkoutHandler,
		confirmPaymentHandler:   confirmPaymentHandler,
		cancelOrderHandler:      cancelOrderHandler,
		acceptRouteHandler:      acceptRouteHandler,
		reportProgressHandler:   reportProgressHandler,
		assignableRoutesHandler: assignableRoutesHandler,
		courierSummaryHandler:   courierSummaryHandler,
		idempotency:             idempotency,
		idempotencyTTL:          idempotencyTTL,
	}
}

// RegisterRoutes mounts the REST surface plus health and metrics endpoints.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.Use(metrics.EchoMiddleware())

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1")
	api.POST("/checkout", s.Checkout, requireRole("buyer"))
	api.POST("/payments/callback", s.PaymentCallback)
	api.POST("/orders/:id/cancel", s.CancelOrder, requireRole("buyer"))
	api.GET("/routes/assignable", s.GetAssignableRoutes, requireRole("courier"))
	api.POST("/routes/:id/accept", s.AcceptRoute, requireRole("courier"))
	api.POST("/routes/:id/orders/:orderId/progress", s.ReportProgress, requireRole("courier"))
	api.GET("/couriers/:id/summary", s.GetCourierSummary, requireRole("courier"))
}

// Checkout handles POST /api/v1/checkout - submits a basket for fulfillment.
func (s *Server) Checkout(ctx echo.Context) error {
	var req CheckoutRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	orderID := kernel.NewUUID()

	if req.IdempotencyKey != "" {
		claimed, existingID, err := s.idempotency.Claim(
			ctx.Request().Context(), req.IdempotencyKey, orderID, s.idempotencyTTL)
		if err != nil {
			return s.translateError(ctx, err)
		}
		if !claimed {
			return ctx.JSON(http.StatusOK, CheckoutResponse{OrderID: existingID.String()})
		}
	}

	cmd, err := buildCheckoutCommand(orderID, req)
	if err != nil {
		return badRequest(ctx, "Invalid checkout data: "+err.Error())
	}

	if handleErr := s.checkoutHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return s.translateError(ctx, handleErr)
	}

	metrics.OrdersTotal.WithLabelValues("payment_pending").Inc()
	return ctx.JSON(http.StatusCreated, CheckoutResponse{OrderID: orderID.String()})
}

// PaymentCallback handles POST /api/v1/payments/callback - applies the
// payment provider's verdict to the order.
func (s *Server) PaymentCallback(ctx echo.Context) error {
	var req PaymentCallbackRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	orderID, err := kernel.UUIDFromString(req.OrderID)
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	switch req.Status {
	case "succeeded":
		cmd, cmdErr := commands.NewConfirmPaymentCommand(orderID)
		if cmdErr != nil {
			return badRequest(ctx, "Invalid payment data: "+cmdErr.Error())
		}
		if handleErr := s.confirmPaymentHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
			return s.translateError(ctx, handleErr)
		}
		metrics.OrdersTotal.WithLabelValues("ready_for_delivery").Inc()
	case "failed":
		cmd, cmdErr := commands.NewCancelOrderCommand(orderID)
		if cmdErr != nil {
			return badRequest(ctx, "Invalid payment data: "+cmdErr.Error())
		}
		if handleErr := s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
			return s.translateError(ctx, handleErr)
		}
		metrics.OrdersTotal.WithLabelValues("cancelled").Inc()
	default:
		return badRequest(ctx, "Unknown payment status")
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CancelOrder handles POST /api/v1/orders/:id/cancel - buyer-initiated
// cancellation.
func (s *Server) CancelOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	cmd, err := commands.NewCancelOrderCommand(orderID)
	if err != nil {
		return badRequest(ctx, "Invalid cancel data: "+err.Error())
	}

	if handleErr := s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return s.translateError(ctx, handleErr)
	}

	metrics.OrdersTotal.WithLabelValues("cancelled").Inc()
	return ctx.NoContent(http.StatusNoContent)
}

// GetAssignableRoutes handles GET /api/v1/routes/assignable - the claimable
// route board, most urgent first.
func (s *Server) GetAssignableRoutes(ctx echo.Context) error {
	query := queries.NewGetAssignableRoutesQuery()

	routes, err := s.assignableRoutesHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.translateError(ctx, err)
	}

	response := make([]AssignableRoute, len(routes))
	for i, r := range routes {
		response[i] = AssignableRoute{
			ID:               r.ID.String(),
			Stops:            r.Stops,
			Load:             r.Load,
			Capacity:         r.Capacity,
			EarliestDeadline: r.EarliestDeadline,
			CreatedAt:        r.CreatedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// AcceptRoute handles POST /api/v1/routes/:id/accept - a courier claiming a
// route from the board.
func (s *Server) AcceptRoute(ctx echo.Context) error {
	routeID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid route id")
	}

	courierID, err := courierFromHeader(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid courier id")
	}

	cmd, err := commands.NewAcceptRouteCommand(routeID, courierID)
	if err != nil {
		return badRequest(ctx, "Invalid accept data: "+err.Error())
	}

	if handleErr := s.acceptRouteHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return s.translateError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ReportProgress handles POST /api/v1/routes/:id/orders/:orderId/progress -
// pickup, delivery, and failure reports from the courier on route.
func (s *Server) ReportProgress(ctx echo.Context) error {
	routeID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid route id")
	}
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}
	courierID, err := courierFromHeader(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid courier id")
	}

	var req ProgressRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	event, err := commands.ProgressEventFromString(req.Event)
	if err != nil {
		return badRequest(ctx, "Unknown progress event")
	}

	cmd, err := commands.NewReportProgressCommand(routeID, orderID, courierID, event)
	if err != nil {
		return badRequest(ctx, "Invalid progress data: "+err.Error())
	}

	if handleErr := s.reportProgressHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return s.translateError(ctx, handleErr)
	}

	metrics.OrdersTotal.WithLabelValues(req.Event).Inc()
	return ctx.NoContent(http.StatusNoContent)
}

// GetCourierSummary handles GET /api/v1/couriers/:id/summary - dispatch
// performance over the requested period.
func (s *Server) GetCourierSummary(ctx echo.Context) error {
	courierID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid courier id")
	}

	periodParam := ctx.QueryParam("period")
	if periodParam == "" {
		periodParam = string(queries.PeriodWeek)
	}
	period, err := queries.PeriodFromString(periodParam)
	if err != nil {
		return badRequest(ctx, "Unknown period")
	}

	query, err := queries.NewGetCourierSummaryQuery(courierID, period)
	if err != nil {
		return badRequest(ctx, "Invalid summary query: "+err.Error())
	}

	summary, err := s.courierSummaryHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.translateError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toSummaryResponse(summary))
}

func buildCheckoutCommand(orderID kernel.UUID, req CheckoutRequest) (commands.CheckoutCommand, error) {
	var buyerID *kernel.UUID
	if req.BuyerID != nil {
		parsed, err := kernel.UUIDFromString(*req.BuyerID)
		if err != nil {
			return commands.CheckoutCommand{}, err
		}
		buyerID = &parsed
	}

	items := make([]commands.BasketItem, 0, len(req.Items))
	for _, item := range req.Items {
		productID, err := kernel.UUIDFromString(item.ProductID)
		if err != nil {
			return commands.CheckoutCommand{}, err
		}
		items = append(items, commands.BasketItem{ProductID: productID, Quantity: item.Quantity})
	}

	delivery, err := kernel.NewGeoPoint(req.DeliveryLat, req.DeliveryLng)
	if err != nil {
		return commands.CheckoutCommand{}, err
	}

	return commands.NewCheckoutCommand(orderID, buyerID, items, delivery)
}

func courierFromHeader(ctx echo.Context) (kernel.UUID, error) {
	return kernel.UUIDFromString(ctx.Request().Header.Get("X-User-ID"))
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// translateError maps application and domain failures to status codes.
// Validation problems are 400, missing aggregates 404, unresolvable
// locations 422, and anything the state machines or stock ledger reject is
// a 409 the client can retry from.
func (s *Server) translateError(ctx echo.Context, err error) error {
	var status int
	switch {
	case errors.Is(err, errs.ErrObjectNotFound),
		errors.Is(err, commands.ErrOrderNotOnRoute):
		status = http.StatusNotFound
	case errors.Is(err, commands.ErrRouteNotOwnedByCourier):
		status = http.StatusForbidden
	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, route.ErrInvalidRouteTransition):
		metrics.InvalidTransitionsTotal.Inc()
		status = http.StatusConflict
	case errors.Is(err, ports.ErrInsufficientStock):
		status = http.StatusConflict
	case errors.Is(err, services.ErrMissingLocation):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, commands.ErrBasketIsEmpty):
		status = http.StatusBadRequest
	default:
		status = http.StatusInternalServerError
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "Internal server error"
	}

	return ctx.JSON(status, ErrorResponse{Code: status, Message: message})
}
