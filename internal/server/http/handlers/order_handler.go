package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bookmart/orders/internal/domain/model"
	"github.com/bookmart/orders/internal/server/http/dto"
	"github.com/bookmart/orders/internal/usecase"
)

const dateLayout = "2006-01-02"

// OrderHandler manages order endpoints.
type OrderHandler struct {
	facade OrdersFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrdersFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// List handles GET /orders.
func (h *OrderHandler) List(c *gin.Context) {
	q, err := usecase.ParseListQuery(c.Request.URL.Query())
	if err != nil {
		respondError(c, err, "", "Internal server error")
		return
	}

	orders, err := h.facade.ListOrders(c.Request.Context(), q)
	if err != nil {
		respondError(c, err, "No orders found.", "Internal server error")
		return
	}

	response := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, toOrderResponse(o))
	}
	c.JSON(http.StatusOK, response)
}

// Get handles GET /orders/:orderId.
func (h *OrderHandler) Get(c *gin.Context) {
	orderID, ok := pathID(c, "orderId")
	if !ok {
		return
	}

	order, err := h.facade.Order(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err, "Order not found.", "Internal server error")
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// Price handles GET /orders/price/:orderId.
func (h *OrderHandler) Price(c *gin.Context) {
	orderID, ok := pathID(c, "orderId")
	if !ok {
		return
	}

	total, err := h.facade.OrderTotal(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err, "Order not found.", "Internal server error")
		return
	}
	c.JSON(http.StatusOK, dto.TotalPriceResponse{OrderID: orderID, TotalPrice: total})
}

// Create handles POST /orders.
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	shippingCost := req.ShippingCost
	if shippingCost == 0 {
		shippingCost = req.Payment
	}
	draft := model.OrderDraft{
		UserID:          req.UserID,
		SellerID:        req.SellerID,
		Books:           toBookLines(req.Books),
		DeliveryAddress: req.DeliveryAddress,
		ShippingCost:    shippingCost,
		MaxDeliveryDate: req.MaxDeliveryDate,
	}

	order, err := h.facade.CreateOrder(c.Request.Context(), draft)
	if err != nil {
		respondError(c, err, "Order not found.", "An error occurred while creating the order")
		return
	}

	c.JSON(http.StatusCreated, dto.MessageResponse{
		Message: fmt.Sprintf("New order id=%d created successfully", order.OrderID),
	})

	// Response is committed; stock and email calls must not affect it.
	h.facade.DispatchOrderCreated(CurrentToken(c), *order)
}

// Update handles PUT /orders/:orderId.
func (h *OrderHandler) Update(c *gin.Context) {
	orderID, ok := pathID(c, "orderId")
	if !ok {
		return
	}

	var req dto.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	shippingCost := req.ShippingCost
	if shippingCost == 0 {
		shippingCost = req.Payment
	}
	in := usecase.UpdateInput{
		UserID:          req.UserID,
		SellerID:        req.SellerID,
		Status:          req.Status,
		DeliveryAddress: req.DeliveryAddress,
		MaxDeliveryDate: req.MaxDeliveryDate,
		ShippingCost:    shippingCost,
	}
	if req.Books != nil {
		in.Books = toBookLines(req.Books)
	}

	order, patch, err := h.facade.UpdateOrder(c.Request.Context(), orderID, in)
	if err != nil {
		respondError(c, err, "Order not found", "An error occurred while updating the order")
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{
		Message: fmt.Sprintf("Order id=%d updated successfully", orderID),
	})

	h.facade.DispatchStatusChange(CurrentToken(c), *order, *patch)
}

// RemoveBook handles PUT /orders/books/:bookId/cancelledRemove.
func (h *OrderHandler) RemoveBook(c *gin.Context) {
	bookID, ok := pathID(c, "bookId")
	if !ok {
		return
	}

	var sellerID *int64
	if raw := c.Query("sellerId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid sellerId parameter"})
			return
		}
		sellerID = &id
	}

	count, err := h.facade.RemoveBook(c.Request.Context(), bookID, sellerID)
	if err != nil {
		respondError(c, err,
			fmt.Sprintf("No orders in progress for book id=%d", bookID),
			"An error occurred while removing the book from orders")
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{
		Message: fmt.Sprintf("Suppressed book id=%d from %d orders successfully", bookID, count),
	})
}

// CancelBySeller handles PUT /orders/sellers/:sellerId/cancelled.
func (h *OrderHandler) CancelBySeller(c *gin.Context) {
	sellerID, ok := pathID(c, "sellerId")
	if !ok {
		return
	}

	count, err := h.facade.CancelBySeller(c.Request.Context(), sellerID)
	if err != nil {
		respondError(c, err,
			fmt.Sprintf("No orders in progress for seller id=%d", sellerID),
			"An error occurred while cancelling orders")
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{
		Message: fmt.Sprintf("Cancelled %d orders successfully for seller id=%d", count, sellerID),
	})
}

// CancelByUser handles PUT /orders/users/:userId/cancelled.
func (h *OrderHandler) CancelByUser(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	count, affected, err := h.facade.CancelByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err,
			fmt.Sprintf("No orders in progress for user id=%d", userID),
			"An error occurred while cancelling orders")
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{
		Message: fmt.Sprintf("Cancelled %d orders successfully for user id=%d", count, userID),
	})

	h.facade.DispatchRestock(CurrentToken(c), affected)
}

// UpdateAddress handles PUT /orders/user/:userId/deliveryAddress.
func (h *OrderHandler) UpdateAddress(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	var req dto.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	count, err := h.facade.UpdateDeliveryAddress(c.Request.Context(), userID, req.DeliveryAddress)
	if err != nil {
		respondError(c, err,
			fmt.Sprintf("No orders in progress for user id=%d", userID),
			"An error occurred while updating the delivery address")
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{
		Message: fmt.Sprintf("Updated delivery address for %d orders", count),
	})
}

// Delete handles DELETE /orders/:orderId.
func (h *OrderHandler) Delete(c *gin.Context) {
	orderID, ok := pathID(c, "orderId")
	if !ok {
		return
	}

	if err := h.facade.DeleteOrder(c.Request.Context(), orderID); err != nil {
		respondError(c, err, "Order not found", "An error occurred while deleting the order")
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{
		Message: fmt.Sprintf("Order id=%d deleted successfully", orderID),
	})
}

func toBookLines(books []dto.BookLine) []model.BookLine {
	lines := make([]model.BookLine, 0, len(books))
	for _, b := range books {
		lines = append(lines, model.BookLine{BookID: b.BookID, Units: b.Units, Price: b.Price})
	}
	return lines
}

func toOrderResponse(order model.Order) dto.OrderResponse {
	books := make([]dto.BookLine, 0, len(order.Books))
	for _, b := range order.Books {
		books = append(books, dto.BookLine{BookID: b.BookID, Units: b.Units, Price: b.Price})
	}
	return dto.OrderResponse{
		OrderID:          order.OrderID,
		UserID:           order.UserID,
		SellerID:         order.SellerID,
		Books:            books,
		Status:           string(order.Status),
		DeliveryAddress:  order.DeliveryAddress,
		MaxDeliveryDate:  order.MaxDeliveryDate.Format(dateLayout),
		CreationDatetime: order.CreationDatetime,
		UpdateDatetime:   order.UpdateDatetime,
		ShippingCost:     order.ShippingCost,
	}
}
