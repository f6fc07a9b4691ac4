package test

import (
	"time"

	"github.com/bookmart/orders/internal/domain/model"
)

// SampleOrder builds a valid order for tests; override fields as needed.
func SampleOrder(orderID int64) model.Order {
	created := time.Date(2023, 11, 20, 8, 30, 0, 0, time.UTC)
	return model.Order{
		OrderID:  orderID,
		UserID:   1,
		SellerID: 2,
		Books: []model.BookLine{
			{BookID: 2, Units: 1, Price: 6},
			{BookID: 1, Units: 2, Price: 5},
		},
		Status:           model.StatusInPreparation,
		DeliveryAddress:  "4 Privet Drive, Little Whinging, Surrey",
		MaxDeliveryDate:  time.Date(2023, 12, 25, 0, 0, 0, 0, time.UTC),
		CreationDatetime: created,
		UpdateDatetime:   created.Add(time.Hour),
		ShippingCost:     16,
	}
}
