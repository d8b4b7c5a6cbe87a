package booking

import (
	"context"
	"testing"
	"time"

	"github.com/studentato/dorm-booking/internal/clock"
	domain "github.com/studentato/dorm-booking/internal/domain/booking"
	"github.com/studentato/dorm-booking/internal/httperr"
	"github.com/studentato/dorm-booking/internal/models"
	"github.com/studentato/dorm-booking/internal/viewcache"
)

// Fixture time: Monday 2026-03-02 10:00 Europe/Rome.
func testNow() time.Time {
	return time.Date(2026, 3, 2, 10, 0, 0, 0, clock.Location())
}

func testDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, clock.Location())
}

const (
	slotWasherMonEvening uint = 1
	slotWasherMonMorning uint = 2
	slotWasherTueEvening uint = 3
	slotDryerMonEvening  uint = 10
	slotDryerTueEvening  uint = 11
	slotDryerWedEvening  uint = 12
	slotGymMonEvening    uint = 20
	slotGymTueEvening    uint = 21
)

func newFixture() (*fakeLedger, clock.Clock) {
	l := newFakeLedger()

	add := func(id uint, rt domain.ResourceType, day int, start, end string, capacity int) {
		l.addSlot(models.Slot{
			ID:            id,
			ResourceType:  string(rt),
			DayOfWeek:     day,
			StartTime:     start,
			EndTime:       end,
			CapacityUnits: capacity,
			Active:        true,
		})
	}

	add(slotWasherMonEvening, domain.ResourceWasher, 1, "18:30", "20:00", 2)
	add(slotWasherMonMorning, domain.ResourceWasher, 1, "08:00", "09:30", 2)
	add(slotWasherTueEvening, domain.ResourceWasher, 2, "18:30", "20:00", 2)
	add(slotDryerMonEvening, domain.ResourceDryer, 1, "18:30", "20:00", 1)
	add(slotDryerTueEvening, domain.ResourceDryer, 2, "18:30", "20:00", 1)
	add(slotDryerWedEvening, domain.ResourceDryer, 3, "18:30", "20:00", 1)
	add(slotGymMonEvening, domain.ResourceGym, 1, "18:30", "20:00", 6)
	add(slotGymTueEvening, domain.ResourceGym, 2, "18:30", "20:00", 6)

	return l, clock.Fixed(testNow())
}

func newCreateUC(l *fakeLedger, clk clock.Clock) *CreateBooking {
	return NewCreateBooking(l, viewcache.Disabled(), nil, clk)
}

func mustCreate(t *testing.T, uc *CreateBooking, in CreateBookingInput) *models.Booking {
	t.Helper()
	b, err := uc.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	return b
}

// --------------------------------------------------
// Happy path and idempotence
// --------------------------------------------------

func TestCreateBooking_Success(t *testing.T) {
	l, clk := newFixture()
	uc := newCreateUC(l, clk)

	b := mustCreate(t, uc, CreateBookingInput{
		UserID:       1,
		ResourceType: domain.ResourceWasher,
		SlotID:       slotWasherMonEvening,
		Date:         testDate(2026, 3, 2),
		Units:        2,
	})

	if b.Status != "booked" {
		t.Errorf("status = %s, want booked", b.Status)
	}
	if b.Units != 2 {
		t.Errorf("units = %d, want 2", b.Units)
	}

	taken, _ := l.TakenUnits(context.Background(), slotWasherMonEvening, testDate(2026, 3, 2))
	if taken != 2 {
		t.Errorf("takenUnits = %d, want 2", taken)
	}
}

func TestCreateBooking_IdempotentRepeat(t *testing.T) {
	l, clk := newFixture()
	uc := newCreateUC(l, clk)

	in := CreateBookingInput{
		UserID:       1,
		ResourceType: domain.ResourceWasher,
		SlotID:       slotWasherMonEvening,
		Date:         testDate(2026, 3, 2),
		Units:        1,
	}

	first := mustCreate(t, uc, in)
	second := mustCreate(t, uc, in)

	if first.ID != second.ID {
		t.Errorf("repeated create returned a different booking: %d vs %d", first.ID, second.ID)
	}
	if l.activeCount() != 1 {
		t.Errorf("active rows = %d, want 1", l.activeCount())
	}
}

// --------------------------------------------------
// Capacity
// --------------------------------------------------

func TestCreateBooking_SlotFull(t *testing.T) {
	l, clk := newFixture()
	uc := newCreateUC(l, clk)

	// User A takes both washers on the Monday slot.
	mustCreate(t, uc, CreateBookingInput{
		UserID:       1,
		ResourceType: domain.ResourceWasher,
		SlotID:       slotWasherMonEvening,
		Date:         testDate(2026, 3, 2),
		Units:        2,
	})

	// User B finds no unit left.
	_, err := uc.Execute(context.Background(), CreateBookingInput{
		UserID:       2,
		ResourceType: domain.ResourceWasher,
		SlotID:       slotWasherMonEvening,
		Date:         testDate(2026, 3, 2),
		Units:        1,
	})
	if !httperr.IsBusiness(err, httperr.CodeSlotFull) {
		t.Errorf("err = %v, want slot_full", err)
	}
}

// --------------------------------------------------
// Quota: washer weekly units
// --------------------------------------------------

func TestCreateBooking_WasherWeeklyQuota(t *testing.T) {
	l, clk := newFixture()
	uc := newCreateUC(l, clk)

	// 2 units already committed this week.
	mustCreate(t, uc, CreateBookingInput{
		UserID:       1,
		ResourceType: domain.ResourceWasher,
		SlotID:       slotWasherMonEvening,
		Date:         testDate(2026, 3, 2),
		Units:        2,
	})

	// 2 more would make 4 > 3.
	_, err := uc.Execute(context.Background(), CreateBookingInput{
		UserID:       1,
		ResourceType: domain.ResourceWasher,
		SlotID:       slotWasherTueEvening,
		Date:         testDate(2026, 3, 3),
		Units:        2,
	})
	if !httperr.IsBusiness(err, httperr.CodeQuotaExceeded) {
		t.Fatalf("err = %v, want quota_exceeded", err)
	}

	be, _ := httperr.AsBusiness(err)
	if be.Meta["limit"] != 3 || be.Meta["current"] != 2 {
		t.Errorf("meta = %v, want limit 3 current 2", be.Meta)
	}

	// 1 more fits exactly: 2+1 = 3.
	mustCreate(t, uc, CreateBookingInput{
		UserID:       1,
		ResourceType: domain.ResourceWasher,
		SlotID:       slotWasherTueEvening,
		Date:         testDate(2026, 3, 3),
		Units:        1,
	})
}

func TestCreateBooking_WasherQuotaSharedAcrossYearBoundary(t *testing.T) {
	l, _ := newFixture()
	// The ISO week 2026-W01 runs Mon 2025-12-29 through Sun 2026-01-04.
	clk := clock.Fixed(time.Date(2025, 12, 29, 10, 0, 0, 0, clock.Location()))
	uc := newCreateUC(l, clk)

	l.addSlot(models.Slot{
		ID: 100, ResourceType: string(domain.ResourceWasher),
		DayOfWeek: 3, StartTime: "18:30", EndTime: "20:00",
		CapacityUnits: 2, Active: true,
	})
	l.addSlot(models.Slot{
		ID: 101, ResourceType: string(domain.ResourceWasher),
		DayOfWeek: 5, StartTime: "18:30", EndTime: "20:00",
		CapacityUnits: 2, Active: true,
	})

	// Wednesday Dec 31 2025: 2 units.
	mustCreate(t, uc, CreateBookingInput{
		UserID:       1,
		ResourceType: domain.ResourceWasher,
		SlotID:       100,
		Date:         testDate(2025, 12, 31),
		Units:        2,
	})

	// Friday Jan 2 2026 falls in the same ISO week: 2 more units refused.
	_, err := uc.Execute(context.Background(), CreateBookingInput{
		UserID:       1,
		ResourceType: domain.ResourceWasher,
		SlotID:       101,
		Date:         testDate(2026, 1, 2),
		Units:        2,
	})
	if !httperr.IsBusiness(err, httperr.CodeQuotaExceeded) {
		t.Errorf("err = %v, want quota_exceeded across year boundary", err)
	}
}

// --------------------------------------------------
// Quota: dryer weekly count
// --------------------------------------------------

func TestCreateBooking_DryerWeeklyCount(t *testing.T) {
	l, clk := newFixture()
	uc := newCreateUC(l, clk)

	mustCreate(t, uc, CreateBookingInput{
		UserID: 1, ResourceType: domain.ResourceDryer,
		SlotID: slotDryerMonEvening, Date: testDate(2026, 3, 2), Units: 1,
	})
	mustCreate(t, uc, CreateBookingInput{
		UserID: 1, ResourceType: domain.ResourceDryer,
		SlotID: slotDryerTueEvening, Date: testDate(2026, 3, 3), Units: 1,
	})

	_, err := uc.Execute(context.Background(), CreateBookingInput{
		UserID: 1, ResourceType: domain.ResourceDryer,
		SlotID: slotDryerWedEvening, Date: testDate(2026, 3, 4), Units: 1,
	})
	if !httperr.IsBusiness(err, httperr.CodeQuotaExceeded) {
		t.Errorf("third dryer booking: err = %v, want quota_exceeded", err)
	}
}

// --------------------------------------------------
// Quota: gym standing future cap
// --------------------------------------------------

func TestCreateBooking_GymStandingCap(t *testing.T) {
	l, clk := newFixture()
	uc := newCreateUC(l, clk)
	cancelUC := NewCancelBooking(l, viewcache.Disabled(), nil, clk)

	first := mustCreate(t, uc, CreateBookingInput{
		UserID: 3, ResourceType: domain.ResourceGym,
		SlotID: slotGymMonEvening, Date: testDate(2026, 3, 2), Units: 1,
	})

	// A second standing reservation, even in another week, is refused.
	_, err := uc.Execute(context.Background(), CreateBookingInput{
		UserID: 3, ResourceType: domain.ResourceGym,
		SlotID: slotGymTueEvening, Date: testDate(2026, 3, 10), Units: 1,
	})
	if !httperr.IsBusiness(err, httperr.CodeQuotaExceeded) {
		t.Fatalf("second gym booking: err = %v, want quota_exceeded", err)
	}

	// Cancelling the first frees the cap.
	if _, err := cancelUC.Execute(context.Background(), CancelBookingInput{
		BookingID: first.ID, ActingUserID: 3, ActingRole: "resident",
	}); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	mustCreate(t, uc, CreateBookingInput{
		UserID: 3, ResourceType: domain.ResourceGym,
		SlotID: slotGymTueEvening, Date: testDate(2026, 3, 10), Units: 1,
	})
}

// --------------------------------------------------
// Validation
// --------------------------------------------------

func TestCreateBooking_SlotExpired(t *testing.T) {
	l, clk := newFixture()
	uc := newCreateUC(l, clk)

	// The Monday morning window ended at 09:30; it is 10:00.
	_, err := uc.Execute(context.Background(), CreateBookingInput{
		UserID:       1,
		ResourceType: domain.ResourceWasher,
		SlotID:       slotWasherMonMorning,
		Date:         testDate(2026, 3, 2),
		Units:        1,
	})
	if !httperr.IsBusiness(err, httperr.CodeSlotExpired) {
		t.Errorf("err = %v, want slot_expired", err)
	}
}

func TestCreateBooking_InvalidUnits(t *testing.T) {
	l, clk := newFixture()
	uc := newCreateUC(l, clk)

	tests := []struct {
		rt     domain.ResourceType
		slotID uint
		units  int
	}{
		{domain.ResourceWasher, slotWasherMonEvening, 3},
		{domain.ResourceDryer, slotDryerMonEvening, 2},
		{domain.ResourceGym, slotGymMonEvening, 2},
	}

	for _, tt := range tests {
		_, err := uc.Execute(context.Background(), CreateBookingInput{
			UserID: 1, ResourceType: tt.rt,
			SlotID: tt.slotID, Date: testDate(2026, 3, 2), Units: tt.units,
		})
		if !httperr.IsBusiness(err, httperr.CodeInvalidUnits) {
			t.Errorf("%s units=%d: err = %v, want invalid_units", tt.rt, tt.units, err)
		}
	}
}

func TestCreateBooking_DateNotMatchingSlotWeekday(t *testing.T) {
	l, clk := newFixture()
	uc := newCreateUC(l, clk)

	// Monday slot requested for a Tuesday date.
	_, err := uc.Execute(context.Background(), CreateBookingInput{
		UserID:       1,
		ResourceType: domain.ResourceWasher,
		SlotID:       slotWasherMonEvening,
		Date:         testDate(2026, 3, 3),
		Units:        1,
	})
	if !httperr.IsBusiness(err, httperr.CodeSlotNotFound) {
		t.Errorf("err = %v, want slot_not_found", err)
	}
}

// --------------------------------------------------
// Race resolution
// --------------------------------------------------

func TestCreateBooking_LostRaceAdoptsWinner(t *testing.T) {
	l, clk := newFixture()
	uc := newCreateUC(l, clk)

	// Between our pre-checks and insert, the same user's double-submitted
	// request lands first.
	var winnerID uint
	l.beforeInsert = func(ctx context.Context, fl *fakeLedger) {
		w := &models.Booking{
			UserID:       1,
			SlotID:       slotWasherMonEvening,
			BookingDate:  testDate(2026, 3, 2),
			ResourceType: string(domain.ResourceWasher),
			Units:        1,
			Status:       "booked",
		}
		if err := fl.Insert(ctx, w); err != nil {
			t.Fatalf("winner insert failed: %v", err)
		}
		winnerID = w.ID
	}

	b := mustCreate(t, uc, CreateBookingInput{
		UserID:       1,
		ResourceType: domain.ResourceWasher,
		SlotID:       slotWasherMonEvening,
		Date:         testDate(2026, 3, 2),
		Units:        1,
	})

	if b.ID != winnerID {
		t.Errorf("returned booking %d, want the winner's row %d", b.ID, winnerID)
	}
	if l.activeCount() != 1 {
		t.Errorf("active rows = %d, want exactly 1", l.activeCount())
	}
}

func TestCreateBooking_ConflictWithoutSurvivorFailsSlotFull(t *testing.T) {
	l, clk := newFixture()
	uc := newCreateUC(l, clk)

	// The constraint fires but the winning row is gone again by refetch
	// time, while another user filled the slot meanwhile.
	l.forceConflictOnce = true
	l.beforeInsert = func(ctx context.Context, fl *fakeLedger) {
		other := &models.Booking{
			UserID:       2,
			SlotID:       slotWasherMonEvening,
			BookingDate:  testDate(2026, 3, 2),
			ResourceType: string(domain.ResourceWasher),
			Units:        2,
			Status:       "booked",
		}
		if err := fl.Insert(ctx, other); err != nil {
			t.Fatalf("concurrent insert failed: %v", err)
		}
	}

	_, err := uc.Execute(context.Background(), CreateBookingInput{
		UserID:       1,
		ResourceType: domain.ResourceWasher,
		SlotID:       slotWasherMonEvening,
		Date:         testDate(2026, 3, 2),
		Units:        1,
	})
	if !httperr.IsBusiness(err, httperr.CodeSlotFull) {
		t.Errorf("err = %v, want slot_full", err)
	}
}

// --------------------------------------------------
// No resurrection
// --------------------------------------------------

func TestCreateBooking_AfterCancelCreatesNewRow(t *testing.T) {
	l, clk := newFixture()
	uc := newCreateUC(l, clk)
	cancelUC := NewCancelBooking(l, viewcache.Disabled(), nil, clk)

	in := CreateBookingInput{
		UserID:       1,
		ResourceType: domain.ResourceWasher,
		SlotID:       slotWasherMonEvening,
		Date:         testDate(2026, 3, 2),
		Units:        1,
	}

	first := mustCreate(t, uc, in)

	if _, err := cancelUC.Execute(context.Background(), CancelBookingInput{
		BookingID: first.ID, ActingUserID: 1, ActingRole: "resident",
	}); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	second := mustCreate(t, uc, in)

	if second.ID == first.ID {
		t.Error("create after cancel reused the cancelled row")
	}

	old, _ := l.GetBooking(context.Background(), first.ID)
	if old.Status != "cancelled" {
		t.Errorf("cancelled booking resurrected to %s", old.Status)
	}
}
