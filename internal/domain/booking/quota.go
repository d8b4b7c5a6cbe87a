package booking

import "github.com/studentato/dorm-booking/internal/httperr"

// ===============================
// Quota Policy
// ===============================
//
// Each resource type carries one quota rule. Washers and dryers are capped
// per ISO week; the gym is capped by the number of standing future
// reservations, regardless of week.

type QuotaBasis string

const (
	// BasisWeeklyUnits sums booked units over the booking's ISO week.
	BasisWeeklyUnits QuotaBasis = "weekly_units"
	// BasisWeeklyCount counts active bookings over the booking's ISO week.
	BasisWeeklyCount QuotaBasis = "weekly_count"
	// BasisStandingFuture counts active bookings dated today or later.
	BasisStandingFuture QuotaBasis = "standing_future"
)

type QuotaRule struct {
	Basis QuotaBasis
	Limit int
}

func RuleFor(rt ResourceType) QuotaRule {
	switch rt {
	case ResourceWasher:
		return QuotaRule{Basis: BasisWeeklyUnits, Limit: 3}
	case ResourceDryer:
		return QuotaRule{Basis: BasisWeeklyCount, Limit: 2}
	case ResourceGym:
		return QuotaRule{Basis: BasisStandingFuture, Limit: 1}
	}
	return QuotaRule{Basis: BasisWeeklyCount, Limit: 0}
}

// CanAdd decides whether unitsRequested more units fit under the rule
// given the user's current committed usage.
func (r QuotaRule) CanAdd(currentUsage, unitsRequested int) bool {
	return currentUsage+unitsRequested <= r.Limit
}

// Check returns a quota_exceeded business error carrying limit and usage
// when the request does not fit.
func (r QuotaRule) Check(currentUsage, unitsRequested int) error {
	if r.CanAdd(currentUsage, unitsRequested) {
		return nil
	}

	return httperr.ErrBusinessMeta(httperr.CodeQuotaExceeded, map[string]any{
		"limit":   r.Limit,
		"current": currentUsage,
	})
}
