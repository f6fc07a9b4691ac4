package model

import "time"

// OrderDraft carries the client-supplied fields of a new order. Server
// assigned fields (orderId, status, timestamps) are filled by the engine.
type OrderDraft struct {
	UserID          int64
	SellerID        int64
	Books           []BookLine
	DeliveryAddress string
	ShippingCost    float64
	// MaxDeliveryDate is the raw client value; empty means "default it".
	MaxDeliveryDate string
}

// OrderPatch holds a partial update: nil slots are left untouched when
// the patch is applied. UpdateDatetime is always set by the engine.
type OrderPatch struct {
	UserID          *int64
	SellerID        *int64
	Books           []BookLine
	Status          *OrderStatus
	DeliveryAddress *string
	MaxDeliveryDate *time.Time
	ShippingCost    *float64
	UpdateDatetime  time.Time
}

// ApplyTo merges the patch into the order, field-wise.
func (p OrderPatch) ApplyTo(o *Order) {
	if p.UserID != nil {
		o.UserID = *p.UserID
	}
	if p.SellerID != nil {
		o.SellerID = *p.SellerID
	}
	if p.Books != nil {
		o.Books = p.Books
	}
	if p.Status != nil {
		o.Status = *p.Status
	}
	if p.DeliveryAddress != nil {
		o.DeliveryAddress = *p.DeliveryAddress
	}
	if p.MaxDeliveryDate != nil {
		o.MaxDeliveryDate = *p.MaxDeliveryDate
	}
	if p.ShippingCost != nil {
		o.ShippingCost = *p.ShippingCost
	}
	o.UpdateDatetime = p.UpdateDatetime
}

// SetsStatus reports whether the patch changes status to the given value.
func (p OrderPatch) SetsStatus(s OrderStatus) bool {
	return p.Status != nil && *p.Status == s
}
