package models

import "time"

type Slot struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ResourceType string `gorm:"size:3;not null;uniqueIndex:idx_slot_window,priority:1" json:"resource_type"`
	DayOfWeek    int    `gorm:"not null;uniqueIndex:idx_slot_window,priority:2" json:"day_of_week"`
	StartTime    string `gorm:"size:5;not null;uniqueIndex:idx_slot_window,priority:3" json:"start_time"`
	EndTime      string `gorm:"size:5;not null" json:"end_time"`

	CapacityUnits int  `gorm:"not null" json:"capacity_units"`
	Active        bool `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
