package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/bookmart/orders/internal/domain/errors"
	"github.com/bookmart/orders/internal/server/http/dto"
	"github.com/bookmart/orders/internal/server/http/middleware"
)

// CurrentToken extracts the raw bearer credential for onward propagation.
func CurrentToken(c *gin.Context) string {
	val, ok := c.Get(middleware.AuthTokenContextKey)
	if !ok {
		return ""
	}
	token, _ := val.(string)
	return token
}

// pathID parses a numeric path parameter; on failure it writes a 400 and
// reports false.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid " + name + " parameter"})
		return 0, false
	}
	return id, true
}

// respondError maps domain errors to HTTP responses. Validation reasons
// are surfaced verbatim; anything unrecognized is a generic 500.
func respondError(c *gin.Context, err error, notFoundMsg, internalMsg string) {
	var verr *domainErrors.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: verr.Reason})
	case errors.Is(err, domainErrors.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: notFoundMsg})
	case errors.Is(err, domainErrors.ErrOrderNotDeletable):
		c.JSON(http.StatusForbidden, dto.ErrorResponse{Error: "Order can only be deleted once Cancelled or Delivered"})
	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: internalMsg})
	}
}
