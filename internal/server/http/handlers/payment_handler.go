package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/altmarket/storefront/internal/domain/model"
	"github.com/altmarket/storefront/internal/server/http/dto"
)

// PaymentHandler manages the payment intent lifecycle endpoints.
type PaymentHandler struct {
	facade PaymentFacade
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(facade PaymentFacade) *PaymentHandler {
	return &PaymentHandler{facade: facade}
}

// CreateIntent handles POST /api/payments/create-intent.
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	var req dto.CreateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	payment, clientSecret, err := h.facade.CreatePaymentIntent(
		c.Request.Context(), CurrentUserID(c), req.OrderID, req.Amount, req.Currency, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, dto.CreateIntentResponse{
		ClientSecret: clientSecret,
		PaymentID:    payment.ID,
	})
}

// Confirm handles POST /api/payments/confirm.
func (h *PaymentHandler) Confirm(c *gin.Context) {
	var req dto.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	payment, err := h.facade.ConfirmPayment(c.Request.Context(), CurrentUserID(c), req.PaymentIntentID, req.OrderID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, toPaymentResponse(payment))
}

// List handles GET /api/payments.
func (h *PaymentHandler) List(c *gin.Context) {
	payments, err := h.facade.Payments(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]dto.PaymentResponse, 0, len(payments))
	for i := range payments {
		items = append(items, toPaymentResponse(&payments[i]))
	}
	respondData(c, http.StatusOK, items)
}

// Get handles GET /api/payments/:id.
func (h *PaymentHandler) Get(c *gin.Context) {
	payment, err := h.facade.Payment(c.Request.Context(), CurrentUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, toPaymentResponse(payment))
}

// GetByOrder handles GET /api/payments/order/:orderId.
func (h *PaymentHandler) GetByOrder(c *gin.Context) {
	payment, err := h.facade.PaymentByOrder(c.Request.Context(), CurrentUserID(c), c.Param("orderId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, toPaymentResponse(payment))
}

func toPaymentResponse(payment *model.Payment) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:            payment.ID,
		OrderID:       payment.OrderID,
		UserID:        payment.UserID,
		Amount:        payment.Amount,
		Currency:      payment.Currency,
		Status:        string(payment.Status),
		PaymentMethod: payment.PaymentMethod,
		TransactionID: payment.TransactionID,
		CreatedAt:     payment.CreatedAt,
		UpdatedAt:     payment.UpdatedAt,
	}
}
