package db

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/studentato/dorm-booking/internal/config"
	domain "github.com/studentato/dorm-booking/internal/domain/booking"
	"github.com/studentato/dorm-booking/internal/models"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Slot{},
		&models.Booking{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	// The partial unique index is the race-safety backstop; without it
	// only the advisory pre-checks remain, so a bootstrap failure must
	// stop the process, not serve traffic.
	if err := ensureActiveIdentityIndex(db); err != nil {
		log.Fatalf("failed to enforce booking uniqueness: %v", err)
	}

	seedSlots(db, cfg)

	return db
}

// One-time cleanup: if duplicate active rows predate the constraint,
// keep the oldest per identity tuple so index creation cannot fail.
const dedupActiveBookingsSQL = `
    DELETE FROM bookings WHERE id IN (
        SELECT id FROM (
            SELECT id, ROW_NUMBER() OVER (
                PARTITION BY user_id, slot_id, booking_date, resource_type
                ORDER BY created_at ASC
            ) AS rn
            FROM bookings
            WHERE status = 'booked'
        ) ranked
        WHERE ranked.rn > 1
    )
`

// At most one active booking per identity tuple, enforced by the store
// itself. AutoMigrate cannot express a partial index, so it is created
// directly.
const activeIdentityIndexSQL = `
    CREATE UNIQUE INDEX IF NOT EXISTS idx_bookings_active_identity
    ON bookings (user_id, slot_id, booking_date, resource_type)
    WHERE status = 'booked'
`

func ensureActiveIdentityIndex(db *gorm.DB) error {
	if err := db.Exec(dedupActiveBookingsSQL).Error; err != nil {
		return err
	}
	return db.Exec(activeIdentityIndexSQL).Error
}

// seedSlots fills the catalog idempotently: every resource type gets the
// same fixed weekly grid; capacities of existing rows are left alone so
// administrative adjustments survive restarts.
func seedSlots(db *gorm.DB, cfg *config.Config) {
	resources := []domain.ResourceType{
		domain.ResourceWasher,
		domain.ResourceDryer,
		domain.ResourceGym,
	}

	windows := domain.Windows()

	for _, rt := range resources {
		capacity := domain.DefaultCapacity(rt, cfg.GymSlotCapacity)

		for day := 0; day < 7; day++ {
			for _, w := range windows {
				slot := models.Slot{
					ResourceType:  string(rt),
					DayOfWeek:     day,
					StartTime:     w.Start,
					EndTime:       w.End,
					CapacityUnits: capacity,
					Active:        true,
				}

				result := db.
					Where(
						"resource_type = ? AND day_of_week = ? AND start_time = ?",
						slot.ResourceType, slot.DayOfWeek, slot.StartTime,
					).
					FirstOrCreate(&slot)

				if result.Error != nil {
					log.Printf("failed to seed slot %s %d %s: %v",
						slot.ResourceType, slot.DayOfWeek, slot.StartTime, result.Error)
				}
			}
		}
	}
}
