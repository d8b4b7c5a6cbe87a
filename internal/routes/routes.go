package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/studentato/dorm-booking/internal/audit"
	"github.com/studentato/dorm-booking/internal/clock"
	"github.com/studentato/dorm-booking/internal/config"
	"github.com/studentato/dorm-booking/internal/handlers"
	infraRepo "github.com/studentato/dorm-booking/internal/infra/repository"
	"github.com/studentato/dorm-booking/internal/middleware"
	ucBooking "github.com/studentato/dorm-booking/internal/usecase/booking"
	"github.com/studentato/dorm-booking/internal/viewcache"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	cache *viewcache.Cache,
	cfg *config.Config,
) {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	ledger := infraRepo.NewBookingGormLedger(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	clk := clock.System()

	// ======================================================
	// USE CASES — BOOKINGS
	// ======================================================
	createBookingUC := ucBooking.NewCreateBooking(ledger, cache, auditDispatcher, clk)
	cancelBookingUC := ucBooking.NewCancelBooking(ledger, cache, auditDispatcher, clk)
	markNoShowUC := ucBooking.NewMarkNoShow(ledger, cache, auditDispatcher, clk)

	weekScheduleUC := ucBooking.NewGetWeekSchedule(ledger, cache, clk)
	usageUC := ucBooking.NewGetUsage(ledger, cache, clk)
	myBookingsUC := ucBooking.NewListMyBookings(ledger, clk)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	bookingHandler := handlers.NewBookingHandler(createBookingUC, cancelBookingUC, myBookingsUC)
	scheduleHandler := handlers.NewScheduleHandler(weekScheduleUC, usageUC)
	staffHandler := handlers.NewStaffHandler(cancelBookingUC, markNoShowUC)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// RESIDENT API
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/schedule", scheduleHandler.WeekSchedule)

			secured.POST("/bookings", bookingHandler.Create)
			secured.PATCH("/bookings/:id/cancel", bookingHandler.Cancel)

			secured.GET("/me/bookings", bookingHandler.ListMine)
			secured.GET("/me/usage", scheduleHandler.MyUsage)

			// ------------------------------
			// STAFF
			// ------------------------------
			staff := secured.Group("/staff")
			staff.Use(middleware.RequireStaff())
			{
				staff.PATCH("/bookings/:id/cancel", staffHandler.CancelBooking)
				staff.PATCH("/bookings/:id/no-show", staffHandler.MarkNoShow)
				staff.GET("/audit-logs", auditLogsHandler.List)
			}
		}
	}
}
