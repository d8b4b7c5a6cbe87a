package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/studentato/dorm-booking/internal/httperr"
	"github.com/studentato/dorm-booking/internal/httpresp"
	"github.com/studentato/dorm-booking/internal/middleware"
	ucBooking "github.com/studentato/dorm-booking/internal/usecase/booking"
)

// StaffHandler covers the operator actions: cancelling any resident's
// booking with a reason, and marking no-shows after the fact.
type StaffHandler struct {
	cancelUC *ucBooking.CancelBooking
	noShowUC *ucBooking.MarkNoShow
}

func NewStaffHandler(
	cancelUC *ucBooking.CancelBooking,
	noShowUC *ucBooking.MarkNoShow,
) *StaffHandler {
	return &StaffHandler{
		cancelUC: cancelUC,
		noShowUC: noShowUC,
	}
}

type StaffCancelRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func (h *StaffHandler) CancelBooking(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	role, _ := c.MustGet(middleware.ContextUserRole).(string)

	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Booking id must be numeric.")
		return
	}

	var req StaffCancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "A cancellation reason is required.")
		return
	}

	b, execErr := h.cancelUC.Execute(c.Request.Context(), ucBooking.CancelBookingInput{
		BookingID:    uint(bookingID),
		ActingUserID: userID,
		ActingRole:   role,
		Reason:       req.Reason,
	})
	if execErr != nil {
		httperr.WriteBusiness(c, execErr)
		return
	}

	httpresp.OK(c, b)
}

func (h *StaffHandler) MarkNoShow(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	role, _ := c.MustGet(middleware.ContextUserRole).(string)

	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Booking id must be numeric.")
		return
	}

	b, execErr := h.noShowUC.Execute(c.Request.Context(), ucBooking.MarkNoShowInput{
		BookingID:    uint(bookingID),
		ActingUserID: userID,
		ActingRole:   role,
	})
	if execErr != nil {
		httperr.WriteBusiness(c, execErr)
		return
	}

	httpresp.OK(c, b)
}
