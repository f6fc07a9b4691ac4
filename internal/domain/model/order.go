package model

import "time"

// OrderStatus describes the order lifecycle stage.
type OrderStatus string

const (
	StatusInPreparation OrderStatus = "In preparation"
	StatusSent          OrderStatus = "Sent"
	StatusDelivered     OrderStatus = "Delivered"
	StatusConfirmed     OrderStatus = "Confirmed"
	StatusCancelled     OrderStatus = "Cancelled"
)

// Valid reports whether the status is one of the five allowed literals.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusInPreparation, StatusSent, StatusDelivered, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether an order in this status may be deleted.
func (s OrderStatus) Terminal() bool {
	return s == StatusCancelled || s == StatusDelivered
}

// BookLine is a single line item inside an order.
type BookLine struct {
	BookID int64   `json:"bookId"`
	Units  int64   `json:"units"`
	Price  float64 `json:"price"`
}

// Order describes a purchase order placed by a buyer with a seller.
type Order struct {
	ID               int64
	OrderID          int64
	UserID           int64
	SellerID         int64
	Books            []BookLine
	Status           OrderStatus
	DeliveryAddress  string
	MaxDeliveryDate  time.Time
	CreationDatetime time.Time
	UpdateDatetime   time.Time
	ShippingCost     float64
}

// TotalPrice sums line item subtotals plus shipping cost. Computed on
// read, never persisted.
func (o Order) TotalPrice() float64 {
	total := o.ShippingCost
	for _, b := range o.Books {
		total += b.Price * float64(b.Units)
	}
	return total
}

// ContainsBook reports whether any line item refers to the given book.
func (o Order) ContainsBook(bookID int64) bool {
	for _, b := range o.Books {
		if b.BookID == bookID {
			return true
		}
	}
	return false
}
