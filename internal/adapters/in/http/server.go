// Package http exposes the fulfillment use cases over a REST API.
//
// Identity is taken from the X-User-Id header: the caller is a customer on
// checkout and history endpoints and a rider on claim, pickup and verify.
// Domain outcomes map to stable HTTP statuses so clients can branch on them.
package http

import (
	"errors"
	"net/http"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/product"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// userIDHeader carries the authenticated caller's ID. Authentication itself
// happens upstream; this service trusts the header.
const userIDHeader = "X-User-Id"

// ErrorResponse is the uniform error body for all endpoints.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// CheckoutItemRequest is one cart position in a checkout request.
type CheckoutItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// CheckoutRequest is the body of POST /api/v1/checkout.
type CheckoutRequest struct {
	Items           []CheckoutItemRequest `json:"items"`
	DeliveryAddress string                `json:"deliveryAddress"`
}

// VerifyRequest is the body of POST /api/v1/orders/:id/verify.
type VerifyRequest struct {
	Code string `json:"code"`
}

// OrderResponse is the rider-facing view of an order. It never carries the
// delivery code.
type OrderResponse struct {
	ID              string    `json:"id"`
	Status          string    `json:"status"`
	RiderID         *string   `json:"riderId,omitempty"`
	DeliveryAddress string    `json:"deliveryAddress"`
	TotalAmount     int64     `json:"totalAmount"`
	CreatedAt       time.Time `json:"createdAt"`
}

// CheckoutResponse is the customer-facing view of a freshly created order.
// It includes the delivery code the customer will hand to the rider.
type CheckoutResponse struct {
	OrderResponse
	DeliveryCode string              `json:"deliveryCode"`
	Lines        []OrderLineResponse `json:"lines"`
}

// OrderLineResponse is one snapshot line of an order.
type OrderLineResponse struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
}

// AvailableOrderResponse is one entry of the rider-facing order board.
type AvailableOrderResponse struct {
	ID              string    `json:"id"`
	VendorID        string    `json:"vendorId"`
	DeliveryAddress string    `json:"deliveryAddress"`
	TotalAmount     int64     `json:"totalAmount"`
	CreatedAt       time.Time `json:"createdAt"`
}

// CustomerOrderResponse is one entry of a customer's order history.
type CustomerOrderResponse struct {
	ID              string              `json:"id"`
	Status          string              `json:"status"`
	RiderID         *string             `json:"riderId,omitempty"`
	DeliveryAddress string              `json:"deliveryAddress"`
	DeliveryCode    string              `json:"deliveryCode"`
	TotalAmount     int64               `json:"totalAmount"`
	CreatedAt       time.Time           `json:"createdAt"`
	Lines           []OrderLineResponse `json:"lines"`
}

// VendorOrderResponse is one entry of a vendor's incoming order list.
type VendorOrderResponse struct {
	ID              string              `json:"id"`
	Status          string              `json:"status"`
	RiderID         *string             `json:"riderId,omitempty"`
	DeliveryAddress string              `json:"deliveryAddress"`
	TotalAmount     int64               `json:"totalAmount"`
	CreatedAt       time.Time           `json:"createdAt"`
	Lines           []OrderLineResponse `json:"lines"`
}

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	checkoutHandler       commands.CheckoutCommandHandler
	claimOrderHandler     commands.ClaimOrderCommandHandler
	markPickedUpHandler   commands.MarkPickedUpCommandHandler
	verifyDeliveryHandler commands.VerifyDeliveryCommandHandler

	// Query handlers
	getAvailableOrdersHandler queries.GetAvailableOrdersQueryHandler
	getCustomerOrdersHandler  queries.GetCustomerOrdersQueryHandler
	getVendorOrdersHandler    queries.GetVendorOrdersQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	checkoutHandler commands.CheckoutCommandHandler,
	claimOrderHandler commands.ClaimOrderCommandHandler,
	markPickedUpHandler commands.MarkPickedUpCommandHandler,
	verifyDeliveryHandler commands.VerifyDeliveryCommandHandler,
	getAvailableOrdersHandler queries.GetAvailableOrdersQueryHandler,
	getCustomerOrdersHandler queries.GetCustomerOrdersQueryHandler,
	getVendorOrdersHandler queries.GetVendorOrdersQueryHandler,
) *Server {
	return &Server{
		checkoutHandler:           checkoutHandler,
		claimOrderHandler:         claimOrderHandler,
		markPickedUpHandler:       markPickedUpHandler,
		verifyDeliveryHandler:     verifyDeliveryHandler,
		getAvailableOrdersHandler: getAvailableOrdersHandler,
		getCustomerOrdersHandler:  getCustomerOrdersHandler,
		getVendorOrdersHandler:    getVendorOrdersHandler,
	}
}

// RegisterRoutes attaches all endpoints to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)

	v1 := e.Group("/api/v1")
	v1.POST("/checkout", s.Checkout)
	v1.GET("/orders", s.GetCustomerOrders)
	v1.GET("/orders/available", s.GetAvailableOrders)
	v1.GET("/orders/vendor", s.GetVendorOrders)
	v1.POST("/orders/:id/claim", s.ClaimOrder)
	v1.POST("/orders/:id/pickup", s.MarkPickedUp)
	v1.POST("/orders/:id/verify", s.VerifyDelivery)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Checkout handles POST /api/v1/checkout - turns the caller's cart into an order.
func (s *Server) Checkout(ctx echo.Context) error {
	customerID, err := callerID(ctx)
	if err != nil {
		return errorJSON(ctx, http.StatusUnauthorized, err.Error())
	}

	var req CheckoutRequest
	if err = ctx.Bind(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid request body")
	}

	items := make([]commands.CheckoutItem, 0, len(req.Items))
	for _, item := range req.Items {
		productID, idErr := kernel.UUIDFromString(item.ProductID)
		if idErr != nil {
			return errorJSON(ctx, http.StatusBadRequest, "Invalid product id: "+item.ProductID)
		}
		items = append(items, commands.CheckoutItem{ProductID: productID, Quantity: item.Quantity})
	}

	cmd, err := commands.NewCheckoutCommand(customerID, items, req.DeliveryAddress)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid checkout data: "+err.Error())
	}

	created, err := s.checkoutHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, toCheckoutResponse(created))
}

// GetAvailableOrders handles GET /api/v1/orders/available - the rider-facing board.
func (s *Server) GetAvailableOrders(ctx echo.Context) error {
	query := queries.NewGetAvailableOrdersQuery()

	available, err := s.getAvailableOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorJSON(ctx, http.StatusInternalServerError, "Failed to retrieve available orders")
	}

	response := make([]AvailableOrderResponse, len(available))
	for i, o := range available {
		response[i] = AvailableOrderResponse{
			ID:              o.ID.String(),
			VendorID:        o.VendorID.String(),
			DeliveryAddress: o.DeliveryAddress,
			TotalAmount:     o.TotalAmount,
			CreatedAt:       o.CreatedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetCustomerOrders handles GET /api/v1/orders - the caller's order history.
func (s *Server) GetCustomerOrders(ctx echo.Context) error {
	customerID, err := callerID(ctx)
	if err != nil {
		return errorJSON(ctx, http.StatusUnauthorized, err.Error())
	}

	query, err := queries.NewGetCustomerOrdersQuery(customerID)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid customer id")
	}

	orders, err := s.getCustomerOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorJSON(ctx, http.StatusInternalServerError, "Failed to retrieve orders")
	}

	response := make([]CustomerOrderResponse, len(orders))
	for i, o := range orders {
		var riderID *string
		if o.RiderID != nil {
			id := o.RiderID.String()
			riderID = &id
		}

		lines := make([]OrderLineResponse, len(o.Lines))
		for j, line := range o.Lines {
			lines[j] = OrderLineResponse{
				ProductID: line.ProductID.String(),
				Name:      line.Name,
				UnitPrice: line.UnitPrice,
				Quantity:  line.Quantity,
			}
		}

		response[i] = CustomerOrderResponse{
			ID:              o.ID.String(),
			Status:          o.Status,
			RiderID:         riderID,
			DeliveryAddress: o.DeliveryAddress,
			DeliveryCode:    o.DeliveryCode,
			TotalAmount:     o.TotalAmount,
			CreatedAt:       o.CreatedAt,
			Lines:           lines,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetVendorOrders handles GET /api/v1/orders/vendor - the orders placed
// against the calling vendor. The delivery code is not part of this view.
func (s *Server) GetVendorOrders(ctx echo.Context) error {
	vendorID, err := callerID(ctx)
	if err != nil {
		return errorJSON(ctx, http.StatusUnauthorized, err.Error())
	}

	query, err := queries.NewGetVendorOrdersQuery(vendorID)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid vendor id")
	}

	orders, err := s.getVendorOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorJSON(ctx, http.StatusInternalServerError, "Failed to retrieve orders")
	}

	response := make([]VendorOrderResponse, len(orders))
	for i, o := range orders {
		var riderID *string
		if o.RiderID != nil {
			id := o.RiderID.String()
			riderID = &id
		}

		lines := make([]OrderLineResponse, len(o.Lines))
		for j, line := range o.Lines {
			lines[j] = OrderLineResponse{
				ProductID: line.ProductID.String(),
				Name:      line.Name,
				UnitPrice: line.UnitPrice,
				Quantity:  line.Quantity,
			}
		}

		response[i] = VendorOrderResponse{
			ID:              o.ID.String(),
			Status:          o.Status,
			RiderID:         riderID,
			DeliveryAddress: o.DeliveryAddress,
			TotalAmount:     o.TotalAmount,
			CreatedAt:       o.CreatedAt,
			Lines:           lines,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// ClaimOrder handles POST /api/v1/orders/:id/claim - a rider takes the order.
func (s *Server) ClaimOrder(ctx echo.Context) error {
	riderID, err := callerID(ctx)
	if err != nil {
		return errorJSON(ctx, http.StatusUnauthorized, err.Error())
	}

	orderID, err := orderIDParam(ctx)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	}

	cmd, err := commands.NewClaimOrderCommand(orderID, riderID)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid claim data: "+err.Error())
	}

	claimed, err := s.claimOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrderResponse(claimed))
}

// MarkPickedUp handles POST /api/v1/orders/:id/pickup - the assigned rider
// reports collection from the vendor.
func (s *Server) MarkPickedUp(ctx echo.Context) error {
	riderID, err := callerID(ctx)
	if err != nil {
		return errorJSON(ctx, http.StatusUnauthorized, err.Error())
	}

	orderID, err := orderIDParam(ctx)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	}

	cmd, err := commands.NewMarkPickedUpCommand(orderID, riderID)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid pickup data: "+err.Error())
	}

	updated, err := s.markPickedUpHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrderResponse(updated))
}

// VerifyDelivery handles POST /api/v1/orders/:id/verify - the assigned rider
// presents the customer's delivery code to complete the order.
func (s *Server) VerifyDelivery(ctx echo.Context) error {
	riderID, err := callerID(ctx)
	if err != nil {
		return errorJSON(ctx, http.StatusUnauthorized, err.Error())
	}

	orderID, err := orderIDParam(ctx)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	}

	var req VerifyRequest
	if err = ctx.Bind(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid request body")
	}

	cmd, err := commands.NewVerifyDeliveryCommand(orderID, riderID, req.Code)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid verification data: "+err.Error())
	}

	delivered, err := s.verifyDeliveryHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrderResponse(delivered))
}

// callerID extracts and validates the caller's ID from the X-User-Id header.
func callerID(ctx echo.Context) (kernel.UUID, error) {
	raw := ctx.Request().Header.Get(userIDHeader)
	if raw == "" {
		return kernel.UUID{}, errors.New("missing " + userIDHeader + " header")
	}

	id, err := kernel.UUIDFromString(raw)
	if err != nil {
		return kernel.UUID{}, errors.New("invalid " + userIDHeader + " header")
	}

	return id, nil
}

// orderIDParam extracts and validates the order ID path parameter.
func orderIDParam(ctx echo.Context) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return kernel.UUID{}, errors.New("invalid order id")
	}

	return id, nil
}

// domainError maps domain outcomes to stable HTTP statuses.
func domainError(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return errorJSON(ctx, http.StatusNotFound, "Not found")
	case errors.Is(err, order.ErrAlreadyClaimed):
		return errorJSON(ctx, http.StatusConflict, "Order is already claimed by another rider")
	case errors.Is(err, product.ErrInsufficientStock):
		return errorJSON(ctx, http.StatusConflict, "Insufficient stock")
	case errors.Is(err, services.ErrMultiVendorCart):
		return errorJSON(ctx, http.StatusBadRequest, "All items must belong to a single vendor")
	case errors.Is(err, order.ErrUnauthorizedRider):
		return errorJSON(ctx, http.StatusForbidden, "Order is assigned to a different rider")
	case errors.Is(err, order.ErrInvalidStatusTransition):
		return errorJSON(ctx, http.StatusUnprocessableEntity, "Operation is not allowed in the current order status")
	case errors.Is(err, order.ErrCodeMismatch):
		return errorJSON(ctx, http.StatusUnprocessableEntity, "Delivery code does not match")
	case errors.Is(err, errs.ErrConflict):
		return errorJSON(ctx, http.StatusServiceUnavailable, "Temporary conflict, please retry")
	default:
		return errorJSON(ctx, http.StatusInternalServerError, "Internal error")
	}
}

func errorJSON(ctx echo.Context, code int, message string) error {
	return ctx.JSON(code, ErrorResponse{Code: code, Message: message})
}

func toOrderResponse(o *order.Order) OrderResponse {
	var riderID *string
	if rider := o.Rider(); rider != nil {
		id := rider.String()
		riderID = &id
	}

	return OrderResponse{
		ID:              o.ID().String(),
		Status:          o.Status().String(),
		RiderID:         riderID,
		DeliveryAddress: o.DeliveryAddress(),
		TotalAmount:     o.TotalAmount(),
		CreatedAt:       o.CreatedAt(),
	}
}

func toCheckoutResponse(o *order.Order) CheckoutResponse {
	lines := make([]OrderLineResponse, 0, len(o.Lines()))
	for _, line := range o.Lines() {
		lines = append(lines, OrderLineResponse{
			ProductID: line.ProductID().String(),
			Name:      line.Name(),
			UnitPrice: line.UnitPrice(),
			Quantity:  line.Quantity(),
		})
	}

	return CheckoutResponse{
		OrderResponse: toOrderResponse(o),
		DeliveryCode:  o.Code().String(),
		Lines:         lines,
	}
}
