package usecase

import (
	"net/url"
	"regexp"
	"strconv"
	"time"

	domainErrors "github.com/bookmart/orders/internal/domain/errors"
	"github.com/bookmart/orders/internal/domain/model"
)

var deliveryDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

const deliveryDateLayout = "2006-01-02"

// ValidateBooks checks that every line item carries a truthy bookId,
// units and price. Zero counts as missing; negative values pass, matching
// the historical truthiness rule.
func ValidateBooks(books []model.BookLine) error {
	for _, b := range books {
		if b.BookID == 0 || b.Units == 0 || b.Price == 0 {
			return domainErrors.ErrMissingBookFields
		}
	}
	return nil
}

// ParseDeliveryDate accepts only the literal YYYY-MM-DD form.
func ParseDeliveryDate(raw string) (time.Time, error) {
	if !deliveryDatePattern.MatchString(raw) {
		return time.Time{}, domainErrors.ErrInvalidDateFormat
	}
	t, err := time.Parse(deliveryDateLayout, raw)
	if err != nil {
		return time.Time{}, domainErrors.ErrInvalidDateFormat
	}
	return t, nil
}

// ParseListQuery decodes the filter/sort parameter bag. Parameters that
// must compare against numeric fields are coerced; unparsable values are
// a validation error rather than a silent no-match.
func ParseListQuery(values url.Values) (model.ListQuery, error) {
	var q model.ListQuery

	var err error
	if q.UserID, err = optionalInt(values, "userId"); err != nil {
		return q, err
	}
	if q.SellerID, err = optionalInt(values, "sellerId"); err != nil {
		return q, err
	}
	if q.BookID, err = optionalInt(values, "bookId"); err != nil {
		return q, err
	}
	if raw := values.Get("status"); raw != "" {
		status := model.OrderStatus(raw)
		q.Status = &status
	}
	q.Sort = pickSortKey(values["sort"])

	if q.MinPayment, err = optionalFloat(values, "minPayment"); err != nil {
		return q, err
	}
	if q.MaxPayment, err = optionalFloat(values, "maxPayment"); err != nil {
		return q, err
	}
	if q.MinPrice, err = optionalFloat(values, "minPrice"); err != nil {
		return q, err
	}
	if q.MaxPrice, err = optionalFloat(values, "maxPrice"); err != nil {
		return q, err
	}

	return q, nil
}

// pickSortKey resolves repeated sort parameters: price always wins, else
// the last recognized key applies. Unknown values are ignored.
func pickSortKey(raw []string) model.SortKey {
	key := model.SortNone
	for _, v := range raw {
		switch s := model.SortKey(v); s {
		case model.SortPrice:
			return model.SortPrice
		case model.SortCreationDate, model.SortUpdateDatetime, model.SortMaxDeliveryDate, model.SortShippingCost:
			key = s
		}
	}
	return key
}

func optionalInt(values url.Values, key string) (*int64, error) {
	raw := values.Get(key)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, domainErrors.ErrInvalidParam
	}
	return &n, nil
}

func optionalFloat(values url.Values, key string) (*float64, error) {
	raw := values.Get(key)
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, domainErrors.ErrInvalidParam
	}
	return &f, nil
}
