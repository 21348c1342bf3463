//go:build unit

package api_test

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"slotbook/internal/handler/api"
	"slotbook/internal/handler/middleware"
	"slotbook/internal/payment"
	"slotbook/internal/pkg/clock"
	"slotbook/internal/pkg/metrics"
	"slotbook/internal/usecase/commands"
	commandsmock "slotbook/tests/mock/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

const webhookSecret = "whsec_test"

var webhookNow = time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

type WebhookHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockPaymentCommands
	handler      *api.WebhookHandler
}

func (s *WebhookHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.router.Use(middleware.ErrorHandler())

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockPaymentCommands(s.mockCtrl)

	reconciler := payment.NewReconciler(
		payment.NewStripepay(webhookSecret, clock.NewMockClock(webhookNow)),
		payment.NewSquarepay("sq_key", "https://example.com/webhooks"),
	)
	s.handler = api.NewWebhookHandler(reconciler, s.mockCommands, metrics.NewBookingMetrics(prometheus.NewRegistry()))

	s.router.POST("/webhooks/payments", s.handler.HandlePaymentEvent)
}

func (s *WebhookHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestWebhookHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(WebhookHandlerTestSuite))
}

func (s *WebhookHandlerTestSuite) signedEvent(bookingID uuid.UUID) ([]byte, string) {
	body := fmt.Appendf(nil, `{
		"id": "evt_1",
		"object": "event",
		"type": "checkout.session.completed",
		"data": {"object": {
			"id": "cs_1",
			"payment_intent": "pi_1",
			"amount_total": 5000,
			"payment_status": "paid",
			"metadata": {"booking_id": %q}
		}}
	}`, bookingID)

	ts := webhookNow.Unix()
	mac := hmac.New(sha256.New, []byte(webhookSecret))
	fmt.Fprintf(mac, "%d.%s", ts, body)
	sig := fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
	return body, sig
}

func (s *WebhookHandlerTestSuite) post(body []byte, signature string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/payments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("X-Payment-Signature", signature)
	}
	s.router.ServeHTTP(w, req)
	return w
}

func (s *WebhookHandlerTestSuite) TestHandlePaymentEvent() {
	bookingID := uuid.New()

	s.Run("verified event applies and returns 200", func() {
		body, sig := s.signedEvent(bookingID)

		s.mockCommands.EXPECT().
			ApplyEvent(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, evt payment.Event) (commands.ApplyOutcome, error) {
				s.Equal("stripepay", evt.Provider)
				s.Equal(bookingID, evt.BookingID)
				s.Equal(payment.StatusApproved, evt.Status)
				return commands.OutcomeApplied, nil
			})

		s.Equal(http.StatusOK, s.post(body, sig).Code)
	})

	s.Run("replayed event still returns 200", func() {
		body, sig := s.signedEvent(bookingID)

		s.mockCommands.EXPECT().
			ApplyEvent(gomock.Any(), gomock.Any()).
			Return(commands.OutcomeReplayed, nil)

		s.Equal(http.StatusOK, s.post(body, sig).Code)
	})

	s.Run("bad signature maps to 401 and never reaches the usecase", func() {
		body, _ := s.signedEvent(bookingID)

		s.Equal(http.StatusUnauthorized, s.post(body, "t=1,v1=deadbeef").Code)
	})

	s.Run("unknown payload shape maps to 400", func() {
		s.Equal(http.StatusBadRequest, s.post([]byte(`{"unknown": true}`), "sig").Code)
	})

	s.Run("conflicting terminal maps to 409", func() {
		body, sig := s.signedEvent(bookingID)

		s.mockCommands.EXPECT().
			ApplyEvent(gomock.Any(), gomock.Any()).
			Return(commands.ApplyOutcome(0), commands.ErrConflictingTerminal)

		s.Equal(http.StatusConflict, s.post(body, sig).Code)
	})

	s.Run("unknown booking maps to 404", func() {
		body, sig := s.signedEvent(bookingID)

		s.mockCommands.EXPECT().
			ApplyEvent(gomock.Any(), gomock.Any()).
			Return(commands.ApplyOutcome(0), commands.ErrBookingNotFound)

		s.Equal(http.StatusNotFound, s.post(body, sig).Code)
	})
}
