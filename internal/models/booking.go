package models

import (
	"time"

	"github.com/google/uuid"
)

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Reference is the identifier exposed to residents; numeric IDs stay internal.
	Reference uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"reference"`

	UserID uint `gorm:"not null;index" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"user"`

	SlotID uint `gorm:"not null;index" json:"slot_id"`
	Slot   Slot `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"slot"`

	BookingDate  time.Time `gorm:"type:date;not null;index" json:"booking_date"`
	ResourceType string    `gorm:"size:3;not null" json:"resource_type"`
	Units        int       `gorm:"not null;default:1" json:"units"`

	Status string `gorm:"size:20;default:'booked';index" json:"status"`

	CancelledBy        *uint      `json:"cancelled_by"`
	CancelledAt        *time.Time `json:"cancelled_at"`
	CancellationReason string     `gorm:"size:255" json:"cancellation_reason"`

	NoShowAt *time.Time `json:"no_show_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
