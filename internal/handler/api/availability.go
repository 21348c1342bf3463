package api

import (
	"errors"
	"net/http"

	reqdto "slotbook/internal/handler/dto/request"
	resdto "slotbook/internal/handler/dto/response"
	"slotbook/internal/handler/httperr"
	"slotbook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AvailabilityHandler struct {
	availability queries.AvailabilityQueries
}

func NewAvailabilityHandler(availability queries.AvailabilityQueries) *AvailabilityHandler {
	return &AvailabilityHandler{availability: availability}
}

// @Summary List bookable slots
// @Description List open slots for a professional and service over a time range
// @Tags availability
// @Produce json
// @Param id path string true "Professional ID"
// @Param service_id query string true "Service ID"
// @Param from query string true "Range start (RFC 3339)"
// @Param to query string true "Range end (RFC 3339)"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Router /professionals/{id}/availability [get]
func (h *AvailabilityHandler) ListSlots(c *gin.Context) {
	professionalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid professional ID format", nil)
		return
	}

	var q reqdto.AvailabilityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid availability query", nil)
		return
	}
	serviceID, err := uuid.Parse(q.ServiceID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid service ID format", nil)
		return
	}

	slots, err := h.availability.ListSlots(c.Request.Context(), professionalID, serviceID, q.From, q.To)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrProfessionalNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Professional not found", nil)
		case errors.Is(err, queries.ErrServiceNotFound), errors.Is(err, queries.ErrServiceMismatch):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Service not found", nil)
		case errors.Is(err, queries.ErrInvalidRange):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid availability range", nil)
		case errors.Is(err, queries.ErrCalendarUnauthorized):
			httperr.AbortWithError(c, http.StatusBadGateway, err, "Calendar connection needs reconnect", nil)
		case errors.Is(err, queries.ErrCalendarUnavailable):
			httperr.AbortWithError(c, http.StatusBadGateway, err, "Calendar source unavailable", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromSlots(slots))
}
