package booking

import (
	"context"
	"time"

	"github.com/studentato/dorm-booking/internal/models"
)

// Ledger is the authoritative store of bookings. It owns the uniqueness
// invariant: at most one active booking per (user, slot, date, resource).
type Ledger interface {
	// -------- Slot catalog --------
	GetSlot(
		ctx context.Context,
		slotID uint,
	) (*models.Slot, error)

	ListSlots(
		ctx context.Context,
		resourceType ResourceType,
	) ([]models.Slot, error)

	// -------- Booking (lookup) --------
	GetBooking(
		ctx context.Context,
		bookingID uint,
	) (*models.Booking, error)

	// FindActive returns the active booking for the identity tuple, or
	// (nil, nil) when none exists.
	FindActive(
		ctx context.Context,
		userID uint,
		slotID uint,
		date time.Time,
		resourceType ResourceType,
	) (*models.Booking, error)

	ListActiveForRange(
		ctx context.Context,
		resourceType ResourceType,
		from time.Time,
		to time.Time,
	) ([]models.Booking, error)

	ListActiveForUser(
		ctx context.Context,
		userID uint,
		from time.Time,
	) ([]models.Booking, error)

	// -------- Quota usage --------
	SumActiveUnitsInWeek(
		ctx context.Context,
		userID uint,
		resourceType ResourceType,
		weekStart time.Time,
		weekEnd time.Time,
	) (int, error)

	CountActiveFuture(
		ctx context.Context,
		userID uint,
		resourceType ResourceType,
		fromDate time.Time,
	) (int, error)

	// -------- Capacity --------
	TakenUnits(
		ctx context.Context,
		slotID uint,
		date time.Time,
	) (int, error)

	// -------- Mutations --------

	// Insert persists a booking in status booked. A store-level uniqueness
	// violation on the identity tuple surfaces as a booking_conflict
	// business error, never as a generic failure.
	Insert(
		ctx context.Context,
		b *models.Booking,
	) error

	Update(
		ctx context.Context,
		b *models.Booking,
	) error
}
