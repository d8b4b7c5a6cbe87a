package booking

import (
	"context"
	"time"

	domain "github.com/studentato/dorm-booking/internal/domain/booking"
	"github.com/studentato/dorm-booking/internal/httperr"
	"github.com/studentato/dorm-booking/internal/models"
)

// fakeLedger is an in-memory Ledger that enforces the same active-row
// uniqueness the Postgres partial index does, so the conflict branch of
// the create flow is exercised for real. beforeInsert simulates a
// concurrent writer sneaking in between pre-check and insert.
type fakeLedger struct {
	slots        map[uint]*models.Slot
	bookings     []*models.Booking
	nextID       uint
	beforeInsert func(ctx context.Context, l *fakeLedger)

	// forceConflictOnce makes the next Insert fail with booking_conflict
	// without storing a row, mimicking a constraint violation whose
	// winning row is gone again by refetch time.
	forceConflictOnce bool
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		slots:  make(map[uint]*models.Slot),
		nextID: 1,
	}
}

func (l *fakeLedger) addSlot(s models.Slot) {
	cp := s
	l.slots[s.ID] = &cp
}

func sameDate(a, b time.Time) bool {
	return a.Format("2006-01-02") == b.Format("2006-01-02")
}

func (l *fakeLedger) GetSlot(ctx context.Context, slotID uint) (*models.Slot, error) {
	s, ok := l.slots[slotID]
	if !ok {
		return nil, httperr.ErrBusiness(httperr.CodeSlotNotFound)
	}
	cp := *s
	return &cp, nil
}

func (l *fakeLedger) ListSlots(ctx context.Context, rt domain.ResourceType) ([]models.Slot, error) {
	var out []models.Slot
	for _, s := range l.slots {
		if s.ResourceType == string(rt) && s.Active {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (l *fakeLedger) GetBooking(ctx context.Context, bookingID uint) (*models.Booking, error) {
	for _, b := range l.bookings {
		if b.ID == bookingID {
			cp := *b
			return &cp, nil
		}
	}
	return nil, httperr.ErrBusiness(httperr.CodeBookingNotFound)
}

func (l *fakeLedger) FindActive(
	ctx context.Context,
	userID uint,
	slotID uint,
	date time.Time,
	rt domain.ResourceType,
) (*models.Booking, error) {
	for _, b := range l.bookings {
		if b.UserID == userID &&
			b.SlotID == slotID &&
			sameDate(b.BookingDate, date) &&
			b.ResourceType == string(rt) &&
			b.Status == string(domain.StatusBooked) {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (l *fakeLedger) ListActiveForRange(
	ctx context.Context,
	rt domain.ResourceType,
	from time.Time,
	to time.Time,
) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range l.bookings {
		if b.ResourceType == string(rt) &&
			b.Status == string(domain.StatusBooked) &&
			!b.BookingDate.Before(from) &&
			b.BookingDate.Before(to) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (l *fakeLedger) ListActiveForUser(
	ctx context.Context,
	userID uint,
	from time.Time,
) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range l.bookings {
		if b.UserID == userID &&
			b.Status == string(domain.StatusBooked) &&
			!b.BookingDate.Before(from) {
			cp := *b
			if s, ok := l.slots[b.SlotID]; ok {
				cp.Slot = *s
			}
			out = append(out, cp)
		}
	}
	return out, nil
}

func (l *fakeLedger) SumActiveUnitsInWeek(
	ctx context.Context,
	userID uint,
	rt domain.ResourceType,
	weekStart time.Time,
	weekEnd time.Time,
) (int, error) {
	total := 0
	for _, b := range l.bookings {
		if b.UserID == userID &&
			b.ResourceType == string(rt) &&
			b.Status == string(domain.StatusBooked) &&
			!b.BookingDate.Before(weekStart) &&
			b.BookingDate.Before(weekEnd) {
			total += b.Units
		}
	}
	return total, nil
}

func (l *fakeLedger) CountActiveFuture(
	ctx context.Context,
	userID uint,
	rt domain.ResourceType,
	fromDate time.Time,
) (int, error) {
	count := 0
	for _, b := range l.bookings {
		if b.UserID == userID &&
			b.ResourceType == string(rt) &&
			b.Status == string(domain.StatusBooked) &&
			!b.BookingDate.Before(fromDate) {
			count++
		}
	}
	return count, nil
}

func (l *fakeLedger) TakenUnits(ctx context.Context, slotID uint, date time.Time) (int, error) {
	total := 0
	for _, b := range l.bookings {
		if b.SlotID == slotID &&
			sameDate(b.BookingDate, date) &&
			b.Status == string(domain.StatusBooked) {
			total += b.Units
		}
	}
	return total, nil
}

func (l *fakeLedger) Insert(ctx context.Context, b *models.Booking) error {
	if l.beforeInsert != nil {
		hook := l.beforeInsert
		l.beforeInsert = nil
		// The forced conflict targets the insert that triggered the hook,
		// not the hook's own simulated concurrent writes.
		force := l.forceConflictOnce
		l.forceConflictOnce = false
		hook(ctx, l)
		l.forceConflictOnce = force
	}

	if l.forceConflictOnce {
		l.forceConflictOnce = false
		return httperr.ErrBusiness(httperr.CodeBookingConflict)
	}

	for _, other := range l.bookings {
		if other.UserID == b.UserID &&
			other.SlotID == b.SlotID &&
			sameDate(other.BookingDate, b.BookingDate) &&
			other.ResourceType == b.ResourceType &&
			other.Status == string(domain.StatusBooked) {
			return httperr.ErrBusiness(httperr.CodeBookingConflict)
		}
	}

	b.ID = l.nextID
	l.nextID++
	cp := *b
	l.bookings = append(l.bookings, &cp)
	return nil
}

func (l *fakeLedger) Update(ctx context.Context, b *models.Booking) error {
	for i, other := range l.bookings {
		if other.ID == b.ID {
			cp := *b
			l.bookings[i] = &cp
			return nil
		}
	}
	return httperr.ErrBusiness(httperr.CodeBookingNotFound)
}

func (l *fakeLedger) activeCount() int {
	n := 0
	for _, b := range l.bookings {
		if b.Status == string(domain.StatusBooked) {
			n++
		}
	}
	return n
}

var _ domain.Ledger = (*fakeLedger)(nil)
