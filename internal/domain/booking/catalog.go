package booking

import "time"

// ===============================
// Slot Catalog
// ===============================
//
// The weekly schedule is fixed: ten contiguous 90-minute windows per day,
// 08:00 to 23:00, every day of the week, with identical boundaries for all
// resource types. Only capacities differ per resource.

type Window struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

const (
	dayOpenHour   = 8
	windowMinutes = 90
	windowsPerDay = 10
)

// Windows returns the daily window grid in chronological order.
func Windows() []Window {
	out := make([]Window, 0, windowsPerDay)

	cur := time.Date(2000, 1, 1, dayOpenHour, 0, 0, 0, time.UTC)
	for i := 0; i < windowsPerDay; i++ {
		next := cur.Add(windowMinutes * time.Minute)
		out = append(out, Window{
			Start: cur.Format("15:04"),
			End:   next.Format("15:04"),
		})
		cur = next
	}

	return out
}

// SlotEnd builds the absolute end instant of a slot on a given date.
// endTime is the catalog's "15:04" label, interpreted in loc.
func SlotEnd(date time.Time, endTime string, loc *time.Location) time.Time {
	t, err := time.Parse("15:04", endTime)
	if err != nil {
		return time.Time{}
	}

	return time.Date(
		date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), 0, 0,
		loc,
	)
}

// IsPast reports whether the slot's end instant is strictly before now.
// Expired windows can neither be booked nor cancelled.
func IsPast(date time.Time, endTime string, now time.Time, loc *time.Location) bool {
	end := SlotEnd(date, endTime, loc)
	if end.IsZero() {
		return true
	}
	return end.Before(now)
}

// ===============================
// ISO week helpers
// ===============================

// WeekBounds returns the half-open [monday, nextMonday) range of the ISO
// week containing date, at midnight in loc. The ISO week, not the calendar
// month, is the quota accounting period, so a week spanning a month or
// year boundary is still a single period.
func WeekBounds(date time.Time, loc *time.Location) (time.Time, time.Time) {
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)

	// time.Weekday counts Sunday as 0; ISO weeks start Monday.
	offset := (int(d.Weekday()) + 6) % 7
	monday := d.AddDate(0, 0, -offset)

	return monday, monday.AddDate(0, 0, 7)
}

// ISOWeek returns the (isoYear, isoWeek) identity of date in loc.
func ISOWeek(date time.Time, loc *time.Location) (int, int) {
	return date.In(loc).ISOWeek()
}

// DateOnly truncates t to midnight in loc.
func DateOnly(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
