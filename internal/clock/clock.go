package clock

import "time"

// All booking rules are evaluated on dormitory wall-clock time.
const Timezone = "Europe/Rome"

// Clock is injected into use cases so time-dependent rules stay testable.
type Clock interface {
	Now() time.Time
	Location() *time.Location
}

func Location() *time.Location {
	loc, err := time.LoadLocation(Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ===============================
// System clock
// ===============================

type systemClock struct {
	loc *time.Location
}

func System() Clock {
	return systemClock{loc: Location()}
}

func (c systemClock) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c systemClock) Location() *time.Location {
	return c.loc
}

// ===============================
// Fixed clock (tests)
// ===============================

type fixedClock struct {
	now time.Time
}

func Fixed(now time.Time) Clock {
	return fixedClock{now: now.In(Location())}
}

func (c fixedClock) Now() time.Time {
	return c.now
}

func (c fixedClock) Location() *time.Location {
	return Location()
}
