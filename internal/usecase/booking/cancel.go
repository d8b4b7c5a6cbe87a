package booking

import (
	"context"

	"github.com/studentato/dorm-booking/internal/audit"
	"github.com/studentato/dorm-booking/internal/clock"
	domain "github.com/studentato/dorm-booking/internal/domain/booking"
	"github.com/studentato/dorm-booking/internal/httperr"
	"github.com/studentato/dorm-booking/internal/models"
	"github.com/studentato/dorm-booking/internal/viewcache"
)

type CancelBookingInput struct {
	BookingID    uint
	ActingUserID uint
	ActingRole   string
	Reason       string
}

type CancelBooking struct {
	ledger domain.Ledger
	cache  *viewcache.Cache
	audit  *audit.Dispatcher
	clock  clock.Clock
}

func NewCancelBooking(
	ledger domain.Ledger,
	cache *viewcache.Cache,
	audit *audit.Dispatcher,
	clk clock.Clock,
) *CancelBooking {
	return &CancelBooking{
		ledger: ledger,
		cache:  cache,
		audit:  audit,
		clock:  clk,
	}
}

func (uc *CancelBooking) Execute(
	ctx context.Context,
	in CancelBookingInput,
) (*models.Booking, error) {

	loc := uc.clock.Location()
	now := uc.clock.Now()

	b, err := uc.ledger.GetBooking(ctx, in.BookingID)
	if err != nil {
		return nil, err
	}

	// A cancelled or no_show booking has no active row to cancel.
	if b.Status != string(domain.StatusBooked) {
		return nil, httperr.ErrBusiness(httperr.CodeBookingNotFound)
	}

	slot, err := uc.ledger.GetSlot(ctx, b.SlotID)
	if err != nil {
		return nil, err
	}

	if domain.IsPast(b.BookingDate, slot.EndTime, now, loc) {
		return nil, httperr.ErrBusiness(httperr.CodeSlotExpired)
	}

	if b.UserID != in.ActingUserID && !isStaff(in.ActingRole) {
		return nil, httperr.ErrBusiness(httperr.CodeForbidden)
	}

	if err := domain.Cancel(b, in.ActingUserID, in.Reason, now); err != nil {
		return nil, err
	}

	if err := uc.ledger.Update(ctx, b); err != nil {
		return nil, err
	}

	isoYear, isoWeek := domain.ISOWeek(b.BookingDate, loc)
	uc.cache.InvalidateBooking(ctx, b.UserID, b.ResourceType, isoYear, isoWeek)

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.ActingUserID,
		Action:   "booking_cancelled",
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]any{
			"owner_id": b.UserID,
			"reason":   in.Reason,
		},
	})

	return b, nil
}

// Staff and admins may act on bookings they do not own.
func isStaff(role string) bool {
	return role == "staff" || role == "admin"
}
