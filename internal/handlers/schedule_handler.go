package handlers

import (
	"github.com/gin-gonic/gin"

	domain "github.com/studentato/dorm-booking/internal/domain/booking"
	"github.com/studentato/dorm-booking/internal/httperr"
	"github.com/studentato/dorm-booking/internal/httpresp"
	"github.com/studentato/dorm-booking/internal/middleware"
	ucBooking "github.com/studentato/dorm-booking/internal/usecase/booking"
)

type ScheduleHandler struct {
	scheduleUC *ucBooking.GetWeekSchedule
	usageUC    *ucBooking.GetUsage
}

func NewScheduleHandler(
	scheduleUC *ucBooking.GetWeekSchedule,
	usageUC *ucBooking.GetUsage,
) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleUC: scheduleUC,
		usageUC:    usageUC,
	}
}

// GET /api/schedule?resource=LAV&date=2026-03-02
func (h *ScheduleHandler) WeekSchedule(c *gin.Context) {
	rt, err := domain.ParseResourceType(c.Query("resource"))
	if err != nil {
		httperr.BadRequest(c, "invalid_resource_type", "Unknown resource type.")
		return
	}

	date, err := parseDate(c.Query("date"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Date must be YYYY-MM-DD.")
		return
	}

	grid, err := h.scheduleUC.Execute(c.Request.Context(), rt, date)
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	httpresp.OK(c, grid)
}

// GET /api/me/usage?resource=LAV&date=2026-03-02
func (h *ScheduleHandler) MyUsage(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	rt, err := domain.ParseResourceType(c.Query("resource"))
	if err != nil {
		httperr.BadRequest(c, "invalid_resource_type", "Unknown resource type.")
		return
	}

	date, err := parseDate(c.Query("date"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Date must be YYYY-MM-DD.")
		return
	}

	usage, err := h.usageUC.Execute(c.Request.Context(), userID, rt, date)
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	httpresp.OK(c, usage)
}
