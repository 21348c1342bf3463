package api

import (
	"errors"
	"io"
	"net/http"

	"slotbook/internal/handler/httperr"
	"slotbook/internal/payment"
	"slotbook/internal/pkg/metrics"
	"slotbook/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

const paymentSignatureHeader = "X-Payment-Signature"

type WebhookHandler struct {
	reconciler *payment.Reconciler
	payments   commands.PaymentCommands
	metrics    *metrics.BookingMetrics
}

func NewWebhookHandler(reconciler *payment.Reconciler, payments commands.PaymentCommands, m *metrics.BookingMetrics) *WebhookHandler {
	return &WebhookHandler{
		reconciler: reconciler,
		payments:   payments,
		metrics:    m,
	}
}

// @Summary Payment webhook
// @Description Receive a payment provider event and reconcile booking state
// @Tags webhooks
// @Accept json
// @Param X-Payment-Signature header string true "Provider signature"
// @Success 200
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /webhooks/payments [post]
func (h *WebhookHandler) HandlePaymentEvent(c *gin.Context) {
	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, 1<<20))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Unreadable payload", nil)
		return
	}

	evt, err := h.reconciler.Normalize(payload, c.GetHeader(paymentSignatureHeader))
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrSignatureMismatch):
			h.metrics.ObserveWebhook("unknown", "rejected")
			httperr.AbortWithError(c, http.StatusUnauthorized, err, "Signature verification failed", nil)
		case errors.Is(err, payment.ErrUnknownPayloadShape):
			h.metrics.ObserveWebhook("unknown", "rejected")
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Unrecognized payload", nil)
		default:
			h.metrics.ObserveWebhook("unknown", "malformed")
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Malformed payload", nil)
		}
		return
	}

	outcome, err := h.payments.ApplyEvent(c.Request.Context(), evt)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrBookingNotFound), errors.Is(err, commands.ErrPaymentNotFound):
			h.metrics.ObserveWebhook(evt.Provider, "unmatched")
			httperr.AbortWithError(c, http.StatusNotFound, err, "Booking not found", nil)
		case errors.Is(err, commands.ErrConflictingTerminal):
			h.metrics.ObserveWebhook(evt.Provider, "conflict")
			httperr.AbortWithError(c, http.StatusConflict, err, "Conflicting terminal event", nil)
		default:
			h.metrics.ObserveWebhook(evt.Provider, "failed")
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	switch outcome {
	case commands.OutcomeReplayed:
		h.metrics.ObserveWebhook(evt.Provider, "replayed")
	default:
		h.metrics.ObserveWebhook(evt.Provider, "applied")
	}
	c.Status(http.StatusOK)
}
