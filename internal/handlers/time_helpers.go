package handlers

import (
	"time"

	"github.com/studentato/dorm-booking/internal/clock"
)

func parseDate(dateStr string) (time.Time, error) {
	return time.ParseInLocation(
		"2006-01-02",
		dateStr,
		clock.Location(),
	)
}
