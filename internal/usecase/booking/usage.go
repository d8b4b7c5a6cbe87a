package booking

import (
	"context"
	"time"

	"github.com/studentato/dorm-booking/internal/clock"
	domain "github.com/studentato/dorm-booking/internal/domain/booking"
	"github.com/studentato/dorm-booking/internal/dto"
	"github.com/studentato/dorm-booking/internal/viewcache"
)

// GetUsage answers "how much of my quota is left" for one resource type,
// in the shape of that resource's rule.
type GetUsage struct {
	ledger domain.Ledger
	cache  *viewcache.Cache
	clock  clock.Clock
}

func NewGetUsage(
	ledger domain.Ledger,
	cache *viewcache.Cache,
	clk clock.Clock,
) *GetUsage {
	return &GetUsage{
		ledger: ledger,
		cache:  cache,
		clock:  clk,
	}
}

func (uc *GetUsage) Execute(
	ctx context.Context,
	userID uint,
	resourceType domain.ResourceType,
	date time.Time,
) (*dto.UsageDTO, error) {

	loc := uc.clock.Location()
	now := uc.clock.Now()

	rule := domain.RuleFor(resourceType)
	isoYear, isoWeek := domain.ISOWeek(domain.DateOnly(date, loc), loc)

	// A standing cap spans weeks; its snapshot is keyed without one so a
	// mutation dated in any week invalidates it.
	standing := rule.Basis == domain.BasisStandingFuture

	var out dto.UsageDTO
	if uc.cache.GetUsage(ctx, userID, string(resourceType), standing, isoYear, isoWeek, &out) {
		return &out, nil
	}

	used, err := currentUsage(ctx, uc.ledger, rule, userID, resourceType, domain.DateOnly(date, loc), now, loc)
	if err != nil {
		return nil, err
	}

	remaining := rule.Limit - used
	if remaining < 0 {
		remaining = 0
	}

	out = dto.UsageDTO{
		ResourceType: string(resourceType),
		Basis:        string(rule.Basis),
		Used:         used,
		Limit:        rule.Limit,
		Remaining:    remaining,
		ISOYear:      isoYear,
		ISOWeek:      isoWeek,
	}

	uc.cache.SetUsage(ctx, userID, string(resourceType), standing, isoYear, isoWeek, out)

	return &out, nil
}
