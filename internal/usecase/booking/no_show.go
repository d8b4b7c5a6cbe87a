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

type MarkNoShowInput struct {
	BookingID    uint
	ActingUserID uint
	ActingRole   string
}

// MarkNoShow is the operator action for residents who did not turn up.
// Only meaningful once the slot window has ended.
type MarkNoShow struct {
	ledger domain.Ledger
	cache  *viewcache.Cache
	audit  *audit.Dispatcher
	clock  clock.Clock
}

func NewMarkNoShow(
	ledger domain.Ledger,
	cache *viewcache.Cache,
	audit *audit.Dispatcher,
	clk clock.Clock,
) *MarkNoShow {
	return &MarkNoShow{
		ledger: ledger,
		cache:  cache,
		audit:  audit,
		clock:  clk,
	}
}

func (uc *MarkNoShow) Execute(
	ctx context.Context,
	in MarkNoShowInput,
) (*models.Booking, error) {

	if !isStaff(in.ActingRole) {
		return nil, httperr.ErrBusiness(httperr.CodeForbidden)
	}

	loc := uc.clock.Location()
	now := uc.clock.Now()

	b, err := uc.ledger.GetBooking(ctx, in.BookingID)
	if err != nil {
		return nil, err
	}

	if b.Status != string(domain.StatusBooked) {
		return nil, httperr.ErrBusiness(httperr.CodeBookingNotFound)
	}

	slot, err := uc.ledger.GetSlot(ctx, b.SlotID)
	if err != nil {
		return nil, err
	}

	// A no-show can only be established after the window closed.
	if !domain.IsPast(b.BookingDate, slot.EndTime, now, loc) {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidState)
	}

	if err := domain.MarkNoShow(b, now); err != nil {
		return nil, err
	}

	if err := uc.ledger.Update(ctx, b); err != nil {
		return nil, err
	}

	isoYear, isoWeek := domain.ISOWeek(b.BookingDate, loc)
	uc.cache.InvalidateBooking(ctx, b.UserID, b.ResourceType, isoYear, isoWeek)

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.ActingUserID,
		Action:   "booking_no_show",
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]any{
			"owner_id": b.UserID,
		},
	})

	return b, nil
}
