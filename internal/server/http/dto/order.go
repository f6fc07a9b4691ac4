package dto

import "time"

// BookLine is one order line item on the wire.
type BookLine struct {
	BookID int64   `json:"bookId"`
	Units  int64   `json:"units"`
	Price  float64 `json:"price"`
}

// CreateOrderRequest describes the order creation payload. Payment is
// the legacy name for shippingCost and still accepted.
type CreateOrderRequest struct {
	UserID          int64      `json:"userId"`
	SellerID        int64      `json:"sellerId"`
	Books           []BookLine `json:"books"`
	DeliveryAddress string     `json:"deliveryAddress"`
	ShippingCost    float64    `json:"shippingCost"`
	Payment         float64    `json:"payment"`
	MaxDeliveryDate string     `json:"maxDeliveryDate"`
}

// UpdateOrderRequest describes the partial update payload; absent fields
// stay untouched.
type UpdateOrderRequest struct {
	UserID          int64      `json:"userId"`
	SellerID        int64      `json:"sellerId"`
	Books           []BookLine `json:"books"`
	Status          string     `json:"status"`
	DeliveryAddress string     `json:"deliveryAddress"`
	MaxDeliveryDate string     `json:"maxDeliveryDate"`
	ShippingCost    float64    `json:"shippingCost"`
	Payment         float64    `json:"payment"`
}

// AddressRequest carries the bulk delivery-address update payload.
type AddressRequest struct {
	DeliveryAddress string `json:"deliveryAddress"`
}

// OrderResponse is the cleaned order projection returned by read
// endpoints. Store-internal fields and the computed total never appear.
type OrderResponse struct {
	OrderID          int64      `json:"orderId"`
	UserID           int64      `json:"userId"`
	SellerID         int64      `json:"sellerId"`
	Books            []BookLine `json:"books"`
	Status           string     `json:"status"`
	DeliveryAddress  string     `json:"deliveryAddress"`
	MaxDeliveryDate  string     `json:"maxDeliveryDate"`
	CreationDatetime time.Time  `json:"creationDatetime"`
	UpdateDatetime   time.Time  `json:"updateDatetime"`
	ShippingCost     float64    `json:"shippingCost"`
}

// TotalPriceResponse answers the computed-total endpoint.
type TotalPriceResponse struct {
	OrderID    int64   `json:"orderId"`
	TotalPrice float64 `json:"totalPrice"`
}

// MessageResponse wraps human-readable confirmation messages.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse wraps human-readable error descriptions.
type ErrorResponse struct {
	Error string `json:"error"`
}
