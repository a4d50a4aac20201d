package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/altmarket/storefront/internal/domain/errors"
	"github.com/altmarket/storefront/internal/server/http/dto"
	"github.com/altmarket/storefront/internal/server/http/middleware"
)

// CurrentUserID extracts authenticated user identifier from context.
func CurrentUserID(c *gin.Context) string {
	val, ok := c.Get(middleware.UserIDContextKey)
	if !ok {
		return ""
	}
	id, _ := val.(string)
	return id
}

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, dto.Envelope{Success: true, Data: data})
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, dto.Envelope{Success: true, Message: message})
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.Envelope{Success: false, Message: message})
}

// respondError maps domain errors onto HTTP statuses. Conflicting state
// transitions and uniqueness violations surface as 409, business rule
// rejections as 422, gateway outages as 502.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domainErrors.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, domainErrors.ErrInvalidAmount):
		status = http.StatusBadRequest
	case errors.Is(err, domainErrors.ErrAlreadyExists),
		errors.Is(err, domainErrors.ErrDuplicateActivePayment),
		errors.Is(err, domainErrors.ErrAmountMismatch),
		errors.Is(err, domainErrors.ErrInvalidTransition),
		errors.Is(err, domainErrors.ErrInsufficientStock),
		errors.Is(err, domainErrors.ErrProductInUse),
		errors.Is(err, domainErrors.ErrAccountInUse):
		status = http.StatusConflict
	case errors.Is(err, domainErrors.ErrOrderNotPayable):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domainErrors.ErrGatewayUnavailable):
		status = http.StatusBadGateway
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal error"
	}
	c.JSON(status, dto.Envelope{Success: false, Message: message})
}

func pageParams(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

func boolQuery(c *gin.Context, name string) (value, ok bool) {
	raw := c.Query(name)
	if raw == "" {
		return false, false
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return parsed, true
}
