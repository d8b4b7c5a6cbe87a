package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domain "github.com/studentato/dorm-booking/internal/domain/booking"
	"github.com/studentato/dorm-booking/internal/httperr"
	"github.com/studentato/dorm-booking/internal/models"
)

type BookingGormLedger struct {
	db *gorm.DB
}

func NewBookingGormLedger(db *gorm.DB) *BookingGormLedger {
	return &BookingGormLedger{db: db}
}

// --------------------------------------------------
// Slot catalog
// --------------------------------------------------

func (r *BookingGormLedger) GetSlot(
	ctx context.Context,
	slotID uint,
) (*models.Slot, error) {

	var slot models.Slot
	if err := r.db.WithContext(ctx).First(&slot, slotID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeSlotNotFound)
		}
		return nil, err
	}
	return &slot, nil
}

func (r *BookingGormLedger) ListSlots(
	ctx context.Context,
	resourceType domain.ResourceType,
) ([]models.Slot, error) {

	var slots []models.Slot
	if err := r.db.WithContext(ctx).
		Where("resource_type = ? AND active = true", string(resourceType)).
		Order("day_of_week ASC, start_time ASC").
		Find(&slots).Error; err != nil {
		return nil, err
	}

	return slots, nil
}

// --------------------------------------------------
// Booking lookup
// --------------------------------------------------

func (r *BookingGormLedger) GetBooking(
	ctx context.Context,
	bookingID uint,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Slot").
		First(&b, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeBookingNotFound)
		}
		return nil, err
	}

	return &b, nil
}

func (r *BookingGormLedger) FindActive(
	ctx context.Context,
	userID uint,
	slotID uint,
	date time.Time,
	resourceType domain.ResourceType,
) (*models.Booking, error) {

	var b models.Booking
	err := r.db.WithContext(ctx).
		Where(
			"user_id = ? AND slot_id = ? AND booking_date = ? AND resource_type = ? AND status = ?",
			userID,
			slotID,
			date.Format("2006-01-02"),
			string(resourceType),
			string(domain.StatusBooked),
		).
		First(&b).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &b, nil
}

func (r *BookingGormLedger) ListActiveForRange(
	ctx context.Context,
	resourceType domain.ResourceType,
	from time.Time,
	to time.Time,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Where(
			"resource_type = ? AND status = ? AND booking_date >= ? AND booking_date < ?",
			string(resourceType),
			string(domain.StatusBooked),
			from.Format("2006-01-02"),
			to.Format("2006-01-02"),
		).
		Order("booking_date ASC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *BookingGormLedger) ListActiveForUser(
	ctx context.Context,
	userID uint,
	from time.Time,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Slot").
		Where(
			"user_id = ? AND status = ? AND booking_date >= ?",
			userID,
			string(domain.StatusBooked),
			from.Format("2006-01-02"),
		).
		Order("booking_date ASC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}

	return bookings, nil
}

// --------------------------------------------------
// Quota usage
// --------------------------------------------------

func (r *BookingGormLedger) SumActiveUnitsInWeek(
	ctx context.Context,
	userID uint,
	resourceType domain.ResourceType,
	weekStart time.Time,
	weekEnd time.Time,
) (int, error) {

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Select("COALESCE(SUM(units), 0)").
		Where(
			"user_id = ? AND resource_type = ? AND status = ? AND booking_date >= ? AND booking_date < ?",
			userID,
			string(resourceType),
			string(domain.StatusBooked),
			weekStart.Format("2006-01-02"),
			weekEnd.Format("2006-01-02"),
		).
		Scan(&total).Error; err != nil {
		return 0, err
	}

	return int(total), nil
}

func (r *BookingGormLedger) CountActiveFuture(
	ctx context.Context,
	userID uint,
	resourceType domain.ResourceType,
	fromDate time.Time,
) (int, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where(
			"user_id = ? AND resource_type = ? AND status = ? AND booking_date >= ?",
			userID,
			string(resourceType),
			string(domain.StatusBooked),
			fromDate.Format("2006-01-02"),
		).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return int(count), nil
}

// --------------------------------------------------
// Capacity
// --------------------------------------------------

func (r *BookingGormLedger) TakenUnits(
	ctx context.Context,
	slotID uint,
	date time.Time,
) (int, error) {

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Select("COALESCE(SUM(units), 0)").
		Where(
			"slot_id = ? AND booking_date = ? AND status = ?",
			slotID,
			date.Format("2006-01-02"),
			string(domain.StatusBooked),
		).
		Scan(&total).Error; err != nil {
		return 0, err
	}

	return int(total), nil
}

// --------------------------------------------------
// Mutations
// --------------------------------------------------

func (r *BookingGormLedger) Insert(
	ctx context.Context,
	b *models.Booking,
) error {

	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		if isUniqueViolation(err) {
			return httperr.ErrBusiness(httperr.CodeBookingConflict)
		}
		return err
	}

	return nil
}

func (r *BookingGormLedger) Update(
	ctx context.Context,
	b *models.Booking,
) error {
	return r.db.WithContext(ctx).Save(b).Error
}

// isUniqueViolation detects the Postgres unique-constraint SQLSTATE.
// The partial unique index on the identity tuple is the race-safety
// backstop; application pre-checks are only advisory.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// Compile-time check
var _ domain.Ledger = (*BookingGormLedger)(nil)
