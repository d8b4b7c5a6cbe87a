package booking

import (
	"context"

	"github.com/studentato/dorm-booking/internal/clock"
	domain "github.com/studentato/dorm-booking/internal/domain/booking"
	"github.com/studentato/dorm-booking/internal/dto"
)

type ListMyBookings struct {
	ledger domain.Ledger
	clock  clock.Clock
}

func NewListMyBookings(
	ledger domain.Ledger,
	clk clock.Clock,
) *ListMyBookings {
	return &ListMyBookings{
		ledger: ledger,
		clock:  clk,
	}
}

// Execute lists the caller's active bookings from today onward,
// soonest first.
func (uc *ListMyBookings) Execute(
	ctx context.Context,
	userID uint,
) ([]dto.BookingListDTO, error) {

	loc := uc.clock.Location()
	today := domain.DateOnly(uc.clock.Now(), loc)

	bookings, err := uc.ledger.ListActiveForUser(ctx, userID, today)
	if err != nil {
		return nil, err
	}

	out := make([]dto.BookingListDTO, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, dto.BookingListDTO{
			ID:           b.ID,
			Reference:    b.Reference.String(),
			ResourceType: b.ResourceType,
			Date:         b.BookingDate.Format("2006-01-02"),
			Start:        b.Slot.StartTime,
			End:          b.Slot.EndTime,
			Units:        b.Units,
			Status:       b.Status,
		})
	}

	return out, nil
}
