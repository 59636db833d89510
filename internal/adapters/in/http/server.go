// Package http exposes the fulfillment use cases over a REST API.
// Handlers translate requests into application commands and queries and map
// their outcomes onto HTTP responses; no business rules live here.
package http

import (
	"context"
	"log/slog"
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/tracing"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/attribute"
)

// Actor headers are set by the upstream gateway after authentication.
// This service trusts them as-is; verifying them is the gateway's job.
const (
	actorRoleHeader = "X-Actor-Role"
	actorIDHeader   = "X-Actor-Id"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	placeOrderHandler       commands.PlaceOrderCommandHandler
	transitionOrderHandler  commands.TransitionOrderCommandHandler
	assignPartnerHandler    commands.AssignPartnerCommandHandler
	reassignPartnerHandler  commands.ReassignPartnerCommandHandler
	confirmDeliveryHandler  commands.ConfirmDeliveryCommandHandler
	failDeliveryHandler     commands.FailDeliveryCommandHandler
	createPartnerHandler    commands.CreatePartnerCommandHandler
	setPartnerStatusHandler commands.SetPartnerStatusCommandHandler

	// Query handlers
	getOrderHandler         queries.GetOrderQueryHandler
	getActiveOrdersHandler  queries.GetActiveOrdersQueryHandler
	getOrderTimelineHandler queries.GetOrderTimelineQueryHandler
	getAllPartnersHandler   queries.GetAllPartnersQueryHandler

	logger *slog.Logger
}

// NewServer bundles the command and query handlers behind the REST routes.
func NewServer(
	placeOrderHandler commands.PlaceOrderCommandHandler,
	transitionOrderHandler commands.TransitionOrderCommandHandler,
	assignPartnerHandler commands.AssignPartnerCommandHandler,
	reassignPartnerHandler commands.ReassignPartnerCommandHandler,
	confirmDeliveryHandler commands.ConfirmDeliveryCommandHandler,
	failDeliveryHandler commands.FailDeliveryCommandHandler,
	createPartnerHandler commands.CreatePartnerCommandHandler,
	setPartnerStatusHandler commands.SetPartnerStatusCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	getActiveOrdersHandler queries.GetActiveOrdersQueryHandler,
	getOrderTimelineHandler queries.GetOrderTimelineQueryHandler,
	getAllPartnersHandler queries.GetAllPartnersQueryHandler,
	logger *slog.Logger,
) *Server {
	return &Server{
		placeOrderHandler:       placeOrderHandler,
		transitionOrderHandler:  transitionOrderHandler,
		assignPartnerHandler:    assignPartnerHandler,
		reassignPartnerHandler:  reassignPartnerHandler,
		confirmDeliveryHandler:  confirmDeliveryHandler,
		failDeliveryHandler:     failDeliveryHandler,
		createPartnerHandler:    createPartnerHandler,
		setPartnerStatusHandler: setPartnerStatusHandler,
		getOrderHandler:         getOrderHandler,
		getActiveOrdersHandler:  getActiveOrdersHandler,
		getOrderTimelineHandler: getOrderTimelineHandler,
		getAllPartnersHandler:   getAllPartnersHandler,
		logger:                  logger.With("component", "http_server"),
	}
}

// RegisterRoutes mounts the API on the given echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)

	api := e.Group("/api/v1")

	api.POST("/orders", s.PlaceOrder)
	api.GET("/orders/active", s.GetActiveOrders)
	api.GET("/orders/:orderID", s.GetOrder)
	api.GET("/orders/:orderID/timeline", s.GetOrderTimeline)
	api.POST("/orders/:orderID/transition", s.TransitionOrder)
	api.POST("/orders/:orderID/assignment", s.AssignPartner)
	api.PUT("/orders/:orderID/assignment", s.ReassignPartner)
	api.POST("/orders/:orderID/delivery/confirm", s.ConfirmDelivery)
	api.POST("/orders/:orderID/delivery/fail", s.FailDelivery)

	api.POST("/partners", s.CreatePartner)
	api.GET("/partners", s.GetPartners)
	api.PATCH("/partners/:partnerID/status", s.SetPartnerStatus)
}

// Health handles GET /health - liveness probe.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}

// PlaceOrder handles POST /api/v1/orders - places a new order.
// Placement is a buyer-facing call, so the response includes the delivery
// confirmation code along with the generated identifier and order number.
func (s *Server) PlaceOrder(ctx echo.Context) error {
	reqCtx, span := tracing.StartSpan(ctx.Request().Context(), "PlaceOrderHandler")
	defer span.End()

	var req PlaceOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Malformed request body",
		})
	}

	lines := make([]commands.OrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		itemID, err := kernel.UUIDFromString(item.ItemID)
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, Error{
				Code:    http.StatusBadRequest,
				Message: "Invalid item ID: " + item.ItemID,
			})
		}

		lines = append(lines, commands.OrderLine{
			ItemID:         itemID,
			Name:           item.Name,
			UnitPriceMinor: item.UnitPriceMinor,
			Currency:       item.Currency,
			Quantity:       item.Quantity,
			ReturnEligible: item.ReturnEligible,
		})
	}

	cmd, err := commands.NewPlaceOrderCommand(req.PaymentMode, lines)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid placement data: " + err.Error(),
		})
	}

	span.SetAttributes(attribute.String("order.id", cmd.OrderID().String()))

	if handleErr := s.placeOrderHandler.Handle(reqCtx, cmd); handleErr != nil {
		return s.respondCommandError(ctx, handleErr)
	}

	return ctx.JSON(http.StatusCreated, s.placedOrderResponse(reqCtx, cmd.OrderID()))
}

// placedOrderResponse reads back the freshly placed order so the buyer gets
// the assigned number and the delivery confirmation code in one round trip.
// The order is already committed at this point; if the read-back fails the
// identifier alone still lets the buyer fetch the rest later.
func (s *Server) placedOrderResponse(reqCtx context.Context, orderID kernel.UUID) PlacedOrderResponse {
	response := PlacedOrderResponse{ID: orderID.String()}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return response
	}

	placed, err := s.getOrderHandler.Handle(reqCtx, query)
	if err != nil {
		s.logger.ErrorContext(reqCtx, "Failed to read back placed order",
			"order_id", orderID.String(),
			"error", err,
		)
		return response
	}

	response.Number = placed.Number
	response.Status = placed.Status
	response.DeliveryOTP = placed.DeliveryOTP
	return response
}

// GetActiveOrders handles GET /api/v1/orders/active - the dashboard feed of
// every order still moving through the lifecycle, longest-waiting first.
func (s *Server) GetActiveOrders(ctx echo.Context) error {
	query := queries.NewGetActiveOrdersQuery()

	orders, err := s.getActiveOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to load orders",
		})
	}

	response := make([]ActiveOrderResponse, len(orders))
	for i, activeOrder := range orders {
		response[i] = toActiveOrderResponse(activeOrder)
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetOrder handles GET /api/v1/orders/:orderID - the full order read model.
// The delivery confirmation code is included for the buyer only; every other
// caller gets the order without it.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := parseUUIDParam(ctx, "orderID")
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order ID",
		})
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order ID",
		})
	}

	result, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.respondQueryError(ctx, err, "Failed to load order")
	}

	response := toOrderResponse(result)
	if ctx.Request().Header.Get(actorRoleHeader) != order.RoleBuyer.String() {
		response.DeliveryOTP = ""
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetOrderTimeline handles GET /api/v1/orders/:orderID/timeline - the order
// progress view for tracking widgets and the ops dashboard.
func (s *Server) GetOrderTimeline(ctx echo.Context) error {
	orderID, err := parseUUIDParam(ctx, "orderID")
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order ID",
		})
	}

	query, err := queries.NewGetOrderTimelineQuery(orderID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order ID",
		})
	}

	result, err := s.getOrderTimelineHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.respondQueryError(ctx, err, "Failed to load order timeline")
	}

	return ctx.JSON(http.StatusOK, toTimelineResponse(result))
}

// TransitionOrder handles POST /api/v1/orders/:orderID/transition - moves an
// order to the requested status on behalf of the acting role.
func (s *Server) TransitionOrder(ctx echo.Context) error {
	reqCtx, span := tracing.StartSpan(ctx.Request().Context(), "TransitionOrderHandler")
	defer span.End()

	orderID, err := parseUUIDParam(ctx, "orderID")
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order ID",
		})
	}

	var req TransitionOrderRequest
	if err = ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Malformed request body",
		})
	}

	rawRole := ctx.Request().Header.Get(actorRoleHeader)
	span.SetAttributes(
		attribute.String("order.id", orderID.String()),
		attribute.String("order.status", req.Status),
		attribute.String("actor.role", rawRole),
	)

	cmd, err := commands.NewTransitionOrderCommand(orderID, req.Status, rawRole, req.Reason)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid transition data: " + err.Error(),
		})
	}

	if handleErr := s.transitionOrderHandler.Handle(reqCtx, cmd); handleErr != nil {
		return s.respondCommandError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// AssignPartner handles POST /api/v1/orders/:orderID/assignment - binds a
// delivery partner to a packed order and sends it out for delivery.
func (s *Server) AssignPartner(ctx echo.Context) error {
	reqCtx, span := tracing.StartSpan(ctx.Request().Context(), "AssignPartnerHandler")
	defer span.End()

	orderID, err := parseUUIDParam(ctx, "orderID")
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order ID",
		})
	}

	var req AssignmentRequest
	if err = ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Malformed request body",
		})
	}

	partnerID, err := kernel.UUIDFromString(req.PartnerID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid partner ID",
		})
	}

	span.SetAttributes(
		attribute.String("order.id", orderID.String()),
		attribute.String("partner.id", partnerID.String()),
	)

	cmd, err := commands.NewAssignPartnerCommand(orderID, partnerID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid assignment data: " + err.Error(),
		})
	}

	if handleErr := s.assignPartnerHandler.Handle(reqCtx, cmd); handleErr != nil {
		return s.respondCommandError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ReassignPartner handles PUT /api/v1/orders/:orderID/assignment - swaps the
// delivery partner on an order that is already out for delivery. Admin only.
func (s *Server) ReassignPartner(ctx echo.Context) error {
	reqCtx, span := tracing.StartSpan(ctx.Request().Context(), "ReassignPartnerHandler")
	defer span.End()

	orderID, err := parseUUIDParam(ctx, "orderID")
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order ID",
		})
	}

	var req AssignmentRequest
	if err = ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Malformed request body",
		})
	}

	partnerID, err := kernel.UUIDFromString(req.PartnerID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid partner ID",
		})
	}

	rawRole := ctx.Request().Header.Get(actorRoleHeader)
	span.SetAttributes(
		attribute.String("order.id", orderID.String()),
		attribute.String("partner.id", partnerID.String()),
		attribute.String("actor.role", rawRole),
	)

	cmd, err := commands.NewReassignPartnerCommand(orderID, partnerID, rawRole)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid reassignment data: " + err.Error(),
		})
	}

	if handleErr := s.reassignPartnerHandler.Handle(reqCtx, cmd); handleErr != nil {
		return s.respondCommandError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ConfirmDelivery handles POST /api/v1/orders/:orderID/delivery/confirm -
// completes a delivery by verifying the buyer's confirmation code, settling
// cash collection first on cash-on-delivery orders.
func (s *Server) ConfirmDelivery(ctx echo.Context) error {
	reqCtx, span := tracing.StartSpan(ctx.Request().Context(), "ConfirmDeliveryHandler")
	defer span.End()

	orderID, err := parseUUIDParam(ctx, "orderID")
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order ID",
		})
	}

	var req ConfirmDeliveryRequest
	if err = ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Malformed request body",
		})
	}

	span.SetAttributes(attribute.String("order.id", orderID.String()))

	cmd, err := commands.NewConfirmDeliveryCommand(orderID, req.OTP, req.CODCollected)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid confirmation data: " + err.Error(),
		})
	}

	if handleErr := s.confirmDeliveryHandler.Handle(reqCtx, cmd); handleErr != nil {
		return s.respondCommandError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// FailDelivery handles POST /api/v1/orders/:orderID/delivery/fail - records a
// failed delivery attempt, cancelling the order with the given reason.
func (s *Server) FailDelivery(ctx echo.Context) error {
	reqCtx, span := tracing.StartSpan(ctx.Request().Context(), "FailDeliveryHandler")
	defer span.End()

	orderID, err := parseUUIDParam(ctx, "orderID")
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order ID",
		})
	}

	var req FailDeliveryRequest
	if err = ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Malformed request body",
		})
	}

	span.SetAttributes(
		attribute.String("order.id", orderID.String()),
		attribute.String("failure.reason", req.Reason),
	)

	cmd, err := commands.NewFailDeliveryCommand(orderID, req.Reason, req.Notes)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid failure data: " + err.Error(),
		})
	}

	if handleErr := s.failDeliveryHandler.Handle(reqCtx, cmd); handleErr != nil {
		return s.respondCommandError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// parseUUIDParam extracts and validates a UUID path parameter.
func parseUUIDParam(ctx echo.Context, name string) (kernel.UUID, error) {
	return kernel.UUIDFromString(ctx.Param(name))
}
