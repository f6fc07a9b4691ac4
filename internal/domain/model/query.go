package model

// SortKey selects the list ordering.
type SortKey string

const (
	SortNone            SortKey = ""
	SortCreationDate    SortKey = "creationDate"
	SortUpdateDatetime  SortKey = "updateDatetime"
	SortMaxDeliveryDate SortKey = "maxDeliveryDate"
	SortShippingCost    SortKey = "shippingCost"
	SortPrice           SortKey = "price"
)

// ListQuery is the decoded filter/sort parameter bag for order listing.
// Nil pointers mean "parameter absent". Range filters apply only when
// both bounds of a pair are present.
type ListQuery struct {
	UserID   *int64
	SellerID *int64
	Status   *OrderStatus
	BookID   *int64
	Sort     SortKey

	MinPayment *float64
	MaxPayment *float64
	MinPrice   *float64
	MaxPrice   *float64
}
