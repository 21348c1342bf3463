//go:build unit

package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"slotbook/internal/handler/api"
	"slotbook/internal/handler/middleware"
	"slotbook/internal/usecase/commands"
	"slotbook/internal/usecase/queries"
	commandsmock "slotbook/tests/mock/commands"
	queriesmock "slotbook/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type BookingHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockBookingCommands
	mockQueries  *queriesmock.MockBookingQueries
	handler      *api.BookingHandler
}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.router.Use(middleware.ErrorHandler())

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockBookingCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockBookingQueries(s.mockCtrl)
	s.handler = api.NewBookingHandler(s.mockCommands, s.mockQueries)

	s.router.GET("/bookings/:id", s.handler.GetBooking)
	s.router.POST("/bookings/:id/cancel", s.handler.CancelBooking)
}

func (s *BookingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBookingHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

func (s *BookingHandlerTestSuite) TestGetBooking() {
	bookingID := uuid.New()

	s.Run("success returns the view", func() {
		s.mockQueries.EXPECT().
			GetByID(gomock.Any(), bookingID).
			Return(&queries.BookingView{ID: bookingID, Status: "confirmed"}, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/bookings/"+bookingID.String(), nil)
		s.router.ServeHTTP(w, req)

		s.Equal(http.StatusOK, w.Code)

		var resp struct {
			ID     uuid.UUID `json:"id"`
			Status string    `json:"status"`
		}
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
		s.Equal(bookingID, resp.ID)
		s.Equal("confirmed", resp.Status)
	})

	s.Run("unknown booking maps to 404", func() {
		s.mockQueries.EXPECT().
			GetByID(gomock.Any(), bookingID).
			Return(nil, queries.ErrBookingNotFound)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/bookings/"+bookingID.String(), nil)
		s.router.ServeHTTP(w, req)

		s.Equal(http.StatusNotFound, w.Code)
	})

	s.Run("malformed id maps to 400", func() {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/bookings/not-a-uuid", nil)
		s.router.ServeHTTP(w, req)

		s.Equal(http.StatusBadRequest, w.Code)
	})
}

func (s *BookingHandlerTestSuite) TestCancelBooking() {
	bookingID := uuid.New()
	body := []byte(`{"cancellation_token": "secret-token"}`)

	cancel := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/bookings/"+bookingID.String()+"/cancel", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		s.router.ServeHTTP(w, req)
		return w
	}

	s.Run("success returns 204", func() {
		s.mockCommands.EXPECT().
			CancelBooking(gomock.Any(), bookingID, "secret-token").
			Return(nil)

		s.Equal(http.StatusNoContent, cancel().Code)
	})

	s.Run("repeated cancel is a no-op success", func() {
		s.mockCommands.EXPECT().
			CancelBooking(gomock.Any(), bookingID, "secret-token").
			Return(commands.ErrAlreadyCancelled)

		s.Equal(http.StatusNoContent, cancel().Code)
	})

	s.Run("wrong token maps to 401", func() {
		s.mockCommands.EXPECT().
			CancelBooking(gomock.Any(), bookingID, "secret-token").
			Return(commands.ErrCancelTokenMismatch)

		s.Equal(http.StatusUnauthorized, cancel().Code)
	})

	s.Run("unknown booking maps to 404", func() {
		s.mockCommands.EXPECT().
			CancelBooking(gomock.Any(), bookingID, "secret-token").
			Return(commands.ErrBookingNotFound)

		s.Equal(http.StatusNotFound, cancel().Code)
	})
}
