package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	domain "github.com/studentato/dorm-booking/internal/domain/booking"
	"github.com/studentato/dorm-booking/internal/httperr"
	"github.com/studentato/dorm-booking/internal/httpresp"
	"github.com/studentato/dorm-booking/internal/middleware"
	ucBooking "github.com/studentato/dorm-booking/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	createUC     *ucBooking.CreateBooking
	cancelUC     *ucBooking.CancelBooking
	myBookingsUC *ucBooking.ListMyBookings
}

func NewBookingHandler(
	createUC *ucBooking.CreateBooking,
	cancelUC *ucBooking.CancelBooking,
	myBookingsUC *ucBooking.ListMyBookings,
) *BookingHandler {
	return &BookingHandler{
		createUC:     createUC,
		cancelUC:     cancelUC,
		myBookingsUC: myBookingsUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBookingRequest struct {
	ResourceType string `json:"resource_type" binding:"required"`
	SlotID       uint   `json:"slot_id" binding:"required"`
	Date         string `json:"date" binding:"required"`
	Units        int    `json:"units"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

// ======================================================
// CREATE
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	rt, err := domain.ParseResourceType(req.ResourceType)
	if err != nil {
		httperr.BadRequest(c, "invalid_resource_type", "Unknown resource type.")
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Date must be YYYY-MM-DD.")
		return
	}

	units := req.Units
	if units == 0 {
		units = 1
	}

	b, err := h.createUC.Execute(c.Request.Context(), ucBooking.CreateBookingInput{
		UserID:       userID,
		ResourceType: rt,
		SlotID:       req.SlotID,
		Date:         date,
		Units:        units,
	})
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	httpresp.Created(c, b)
}

// ======================================================
// CANCEL
// ======================================================

func (h *BookingHandler) Cancel(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	role, _ := c.MustGet(middleware.ContextUserRole).(string)

	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Booking id must be numeric.")
		return
	}

	var req CancelBookingRequest
	_ = c.ShouldBindJSON(&req)

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

// ======================================================
// MY BOOKINGS
// ======================================================

func (h *BookingHandler) ListMine(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	bookings, err := h.myBookingsUC.Execute(c.Request.Context(), userID)
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	httpresp.List(c, bookings)
}
