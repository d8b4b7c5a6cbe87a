package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/studentato/dorm-booking/internal/audit"
	"github.com/studentato/dorm-booking/internal/clock"
	domain "github.com/studentato/dorm-booking/internal/domain/booking"
	"github.com/studentato/dorm-booking/internal/httperr"
	"github.com/studentato/dorm-booking/internal/models"
	"github.com/studentato/dorm-booking/internal/viewcache"
)

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	UserID       uint
	ResourceType domain.ResourceType
	SlotID       uint
	Date         time.Time
	Units        int
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	ledger domain.Ledger
	cache  *viewcache.Cache
	audit  *audit.Dispatcher
	clock  clock.Clock
}

func NewCreateBooking(
	ledger domain.Ledger,
	cache *viewcache.Cache,
	audit *audit.Dispatcher,
	clk clock.Clock,
) *CreateBooking {
	return &CreateBooking{
		ledger: ledger,
		cache:  cache,
		audit:  audit,
		clock:  clk,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*models.Booking, error) {

	loc := uc.clock.Location()
	now := uc.clock.Now()
	date := domain.DateOnly(in.Date, loc)

	// --------------------------------------------------
	// Slot must exist, be active and match the request
	// --------------------------------------------------
	slot, err := uc.ledger.GetSlot(ctx, in.SlotID)
	if err != nil {
		return nil, err
	}

	if !slot.Active ||
		slot.ResourceType != string(in.ResourceType) ||
		slot.DayOfWeek != int(date.Weekday()) {
		return nil, httperr.ErrBusiness(httperr.CodeSlotNotFound)
	}

	// --------------------------------------------------
	// Elapsed windows cannot be booked
	// --------------------------------------------------
	if domain.IsPast(date, slot.EndTime, now, loc) {
		return nil, httperr.ErrBusiness(httperr.CodeSlotExpired)
	}

	// --------------------------------------------------
	// Unit count per resource type
	// --------------------------------------------------
	if err := domain.ValidateUnits(in.ResourceType, in.Units); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Idempotence: an identical active booking is this
	// request's result, not an error
	// --------------------------------------------------
	existing, err := uc.ledger.FindActive(
		ctx,
		in.UserID,
		in.SlotID,
		date,
		in.ResourceType,
	)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	// --------------------------------------------------
	// Capacity (advisory; the insert constraint is the
	// real guarantee)
	// --------------------------------------------------
	taken, err := uc.ledger.TakenUnits(ctx, in.SlotID, date)
	if err != nil {
		return nil, err
	}
	if taken+in.Units > slot.CapacityUnits {
		return nil, httperr.ErrBusiness(httperr.CodeSlotFull)
	}

	// --------------------------------------------------
	// Quota
	// --------------------------------------------------
	rule := domain.RuleFor(in.ResourceType)

	usage, err := currentUsage(ctx, uc.ledger, rule, in.UserID, in.ResourceType, date, now, loc)
	if err != nil {
		return nil, err
	}

	if err := rule.Check(usage, in.Units); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Insert; a lost race against an identical request is
	// resolved by adopting the winner's row
	// --------------------------------------------------
	b := &models.Booking{
		Reference:    uuid.New(),
		UserID:       in.UserID,
		SlotID:       in.SlotID,
		BookingDate:  date,
		ResourceType: string(in.ResourceType),
		Units:        in.Units,
		Status:       string(domain.InitialStatus()),
	}

	if err := uc.ledger.Insert(ctx, b); err != nil {
		if !httperr.IsBusiness(err, httperr.CodeBookingConflict) {
			return nil, err
		}

		winner, ferr := uc.ledger.FindActive(
			ctx,
			in.UserID,
			in.SlotID,
			date,
			in.ResourceType,
		)
		if ferr != nil {
			return nil, ferr
		}
		if winner != nil {
			return winner, nil
		}

		// Conflict without a surviving identical row: the slot state
		// moved under us, report it as full after a fresh look.
		return nil, httperr.ErrBusiness(httperr.CodeSlotFull)
	}

	// --------------------------------------------------
	// Derived views + audit
	// --------------------------------------------------
	isoYear, isoWeek := domain.ISOWeek(date, loc)
	uc.cache.InvalidateBooking(ctx, in.UserID, string(in.ResourceType), isoYear, isoWeek)

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.UserID,
		Action:   "booking_created",
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]any{
			"resource_type": in.ResourceType,
			"slot_id":       in.SlotID,
			"date":          date.Format("2006-01-02"),
			"units":         in.Units,
		},
	})

	return b, nil
}

// currentUsage reads the user's committed usage in the rule's own shape:
// weekly caps aggregate over the booking date's ISO week, the standing cap
// counts reservations from today onward.
func currentUsage(
	ctx context.Context,
	ledger domain.Ledger,
	rule domain.QuotaRule,
	userID uint,
	resourceType domain.ResourceType,
	date time.Time,
	now time.Time,
	loc *time.Location,
) (int, error) {

	switch rule.Basis {
	case domain.BasisStandingFuture:
		today := domain.DateOnly(now, loc)
		return ledger.CountActiveFuture(ctx, userID, resourceType, today)

	default:
		weekStart, weekEnd := domain.WeekBounds(date, loc)
		return ledger.SumActiveUnitsInWeek(ctx, userID, resourceType, weekStart, weekEnd)
	}
}
