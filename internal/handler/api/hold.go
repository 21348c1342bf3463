package api

import (
	"errors"
	"net/http"

	reqdto "slotbook/internal/handler/dto/request"
	resdto "slotbook/internal/handler/dto/response"
	"slotbook/internal/handler/httperr"
	"slotbook/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionTokenHeader = "X-Session-Token"

type HoldHandler struct {
	holds commands.HoldCommands
}

func NewHoldHandler(holds commands.HoldCommands) *HoldHandler {
	return &HoldHandler{holds: holds}
}

// @Summary Create hold
// @Description Place a short-lived exclusive hold on a slot
// @Tags holds
// @Accept json
// @Produce json
// @Param request body reqdto.CreateHoldRequest true "Hold request"
// @Success 201 {object} resdto.HoldResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /holds [post]
func (h *HoldHandler) CreateHold(c *gin.Context) {
	var req reqdto.CreateHoldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	res, err := h.holds.CreateHold(c.Request.Context(), commands.CreateHoldParams{
		ProfessionalID: req.ProfessionalID,
		ServiceID:      req.ServiceID,
		Start:          req.Start,
	})
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrProfessionalNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Professional not found", nil)
		case errors.Is(err, commands.ErrServiceNotFound), errors.Is(err, commands.ErrServiceMismatch):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Service not found", nil)
		case errors.Is(err, commands.ErrInvalidWindow):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid time window", nil)
		case errors.Is(err, commands.ErrSlotConflict):
			httperr.AbortWithError(c, http.StatusConflict, err, "Slot no longer available", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromCreateHoldResult(res))
}

// @Summary Release hold
// @Description Release a hold before it expires
// @Tags holds
// @Param id path string true "Hold ID"
// @Param X-Session-Token header string true "Session token issued at hold creation"
// @Success 204
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /holds/{id} [delete]
func (h *HoldHandler) ReleaseHold(c *gin.Context) {
	holdID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid hold ID format", nil)
		return
	}

	token := c.GetHeader(sessionTokenHeader)
	if token == "" {
		httperr.AbortWithError(c, http.StatusUnauthorized, commands.ErrSessionInvalid, "Session token required", nil)
		return
	}

	if err := h.holds.ReleaseHold(c.Request.Context(), holdID, token); err != nil {
		abortHoldAuthError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Checkout hold
// @Description Promote a hold into a booking
// @Tags holds
// @Accept json
// @Produce json
// @Param id path string true "Hold ID"
// @Param X-Session-Token header string true "Session token issued at hold creation"
// @Param request body reqdto.CheckoutRequest true "Client details"
// @Success 201 {object} resdto.CheckoutResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 410 {object} httperr.Response
// @Router /holds/{id}/checkout [post]
func (h *HoldHandler) Checkout(c *gin.Context) {
	holdID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid hold ID format", nil)
		return
	}

	token := c.GetHeader(sessionTokenHeader)
	if token == "" {
		httperr.AbortWithError(c, http.StatusUnauthorized, commands.ErrSessionInvalid, "Session token required", nil)
		return
	}

	var req reqdto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	res, err := h.holds.Checkout(c.Request.Context(), commands.CheckoutParams{
		HoldID:       holdID,
		SessionToken: token,
		ClientName:   req.ClientName,
		ClientEmail:  req.ClientEmail,
		ClientPhone:  req.ClientPhone,
	})
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrHoldExpired):
			httperr.AbortWithError(c, http.StatusGone, err, "Hold expired", nil)
		case errors.Is(err, commands.ErrInvalidClientInfo):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Client name and email are required", nil)
		default:
			abortHoldAuthError(c, err)
		}
		return
	}

	c.JSON(http.StatusCreated, &resdto.CheckoutResponse{
		Booking:           resdto.FromBookingView(res.Booking),
		CancellationToken: res.CancellationToken,
	})
}

func abortHoldAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrSessionInvalid), errors.Is(err, commands.ErrSessionMismatch):
		httperr.AbortWithError(c, http.StatusUnauthorized, err, "Session token invalid", nil)
	case errors.Is(err, commands.ErrHoldNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Hold not found", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
